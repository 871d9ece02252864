// Package config holds runtime configuration: defaults, environment
// overrides, CLI flag parsing, and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variable names recognized by FromEnv.
const (
	EnvSwPreset         = "CLIPFORGE_SW_PRESET"
	EnvSwPresetFallback = "CLIPFORGE_SW_PRESET_FALLBACK"
	EnvNoHardware       = "CLIPFORGE_NO_HW"
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then mutated by [FromEnv] and [ParseFlags] before being passed (by
// pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args).
	InputPath string
	OutputDir string

	// Software encoder presets. The primary preset is used by the first
	// software candidate; the fallback preset by the export-only safety
	// candidate (skipped when identical to the primary).
	SwPreset         string // Default: "veryfast".
	SwPresetFallback string // Default: "ultrafast".

	// DisableHardware removes hardware-accelerated candidates entirely.
	// Opt-out for hosts where the hardware path misbehaves.
	DisableHardware bool

	// LUT options.
	LutPath      string
	LutIntensity int // 0-100. Default: 100.

	// Run modes.
	Segments   string // Comma-separated "start-end" ranges in seconds.
	BatchLut   bool   // Treat inputs as whole-file LUT exports.
	Preview    bool   // Prepare a playback preview instead of exporting.
	ForceProxy bool   // Force proxy creation on the preview path.
	CheckOnly  bool   // Run diagnostics and exit.

	// Probe cache capacity (entries). Default: 64.
	ProbeCacheCap int

	// Output container extension without dot. Default: "mov".
	OutputExt string

	// Directory for temporary preview proxies.
	// Default: <os temp dir>/clipforge-previews.
	ProxyDir string

	// Display and logging.
	Verbose  bool
	LogLevel string // Optional zerolog level override.
}

// DefaultConfig returns a Config with all defaults applied. Used as the
// base before [FromEnv] and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		SwPreset:         "veryfast",
		SwPresetFallback: "ultrafast",
		LutIntensity:     100,
		ProbeCacheCap:    64,
		OutputExt:        "mov",
		ProxyDir:         filepath.Join(os.TempDir(), "clipforge-previews"),
	}
}

// FromEnv applies environment overrides to cfg. Unset variables leave the
// existing values untouched.
func FromEnv(cfg *Config) {
	if v := os.Getenv(EnvSwPreset); v != "" {
		cfg.SwPreset = v
	}
	if v := os.Getenv(EnvSwPresetFallback); v != "" {
		cfg.SwPresetFallback = v
	}
	if v := os.Getenv(EnvNoHardware); v == "1" || v == "true" {
		cfg.DisableHardware = true
	}
}

// Validate checks field ranges and combinations that flag parsing cannot.
func (c *Config) Validate() error {
	if c.LutIntensity < 0 || c.LutIntensity > 100 {
		return fmt.Errorf("lut intensity must be 0-100, got %d", c.LutIntensity)
	}
	if c.SwPreset == "" {
		return fmt.Errorf("software preset must not be empty")
	}
	if c.ProbeCacheCap < 1 {
		return fmt.Errorf("probe cache capacity must be >= 1, got %d", c.ProbeCacheCap)
	}
	if c.BatchLut && c.LutPath == "" {
		return fmt.Errorf("-batch-lut requires -lut")
	}
	if c.Preview && c.BatchLut {
		return fmt.Errorf("-preview and -batch-lut are mutually exclusive")
	}
	return nil
}
