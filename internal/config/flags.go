package config

// CLI flag parsing and help text. Flags are grouped into LUT, encoder,
// mode, and display sections. Positional args are <input> [output-dir].

import (
	"flag"
	"fmt"
	"os"
)

// version is shown in --version and help; override at build time with
// -ldflags "-X ...config.version=...".
var version = "1.0.0-dev"

// ParseFlags parses args (without the program name) into cfg. On -help or
// -version it prints and exits. On error it returns non-nil.
func ParseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("clipforge", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var showVersion bool

	fs.StringVar(&cfg.LutPath, "lut", cfg.LutPath, "path to a .cube LUT file")
	fs.IntVar(&cfg.LutIntensity, "intensity", cfg.LutIntensity, "LUT intensity 0-100")

	fs.StringVar(&cfg.SwPreset, "preset", cfg.SwPreset, "software encoder preset")
	fs.StringVar(&cfg.SwPresetFallback, "preset-fallback", cfg.SwPresetFallback,
		"software preset for the export safety candidate")
	fs.BoolVar(&cfg.DisableHardware, "no-hw", cfg.DisableHardware,
		"skip hardware-accelerated encoder candidates")
	fs.StringVar(&cfg.OutputExt, "ext", cfg.OutputExt, "output container extension")

	fs.StringVar(&cfg.Segments, "segments", cfg.Segments,
		`comma-separated clip ranges in seconds, e.g. "0-2.5,5-9"`)
	fs.BoolVar(&cfg.BatchLut, "batch-lut", cfg.BatchLut,
		"export whole input files with the LUT applied")
	fs.BoolVar(&cfg.Preview, "preview", cfg.Preview, "prepare a playback preview")
	fs.BoolVar(&cfg.ForceProxy, "force-proxy", cfg.ForceProxy,
		"transcode a proxy even when direct playback would do")
	fs.BoolVar(&cfg.CheckOnly, "check", cfg.CheckOnly, "run system diagnostics and exit")

	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "debug logging")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "zerolog level override")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVersion {
		fmt.Fprintln(os.Stdout, "clipforge v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// parsePositionalArgs binds <input> and optional <output-dir>. Both are
// optional in -check mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	rest := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(rest) < 1 {
		return fmt.Errorf("missing input path (run with -help for usage)")
	}
	cfg.InputPath = rest[0]
	if len(rest) > 1 {
		cfg.OutputDir = rest[1]
	}
	if len(rest) > 2 {
		return fmt.Errorf("unexpected extra arguments: %v", rest[2:])
	}
	if !cfg.Preview && cfg.OutputDir == "" {
		return fmt.Errorf("missing output directory")
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `clipforge v%s - batch clip extraction and LUT export

Usage:
  clipforge [flags] <input> <output-dir>
  clipforge -preview [flags] <input>
  clipforge -check

Flags:
`, version)
	fs.PrintDefaults()
}
