// Package encoder enumerates encoder candidate configurations per host
// platform and builds the option sets shared by preview and export encodes.
package encoder

import (
	"runtime"

	"github.com/clipforge/clipforge/internal/config"
)

// Candidate is one encoder configuration in a fallback chain. Candidates
// are immutable static data; only the codec-specific rate-control options
// differ between them.
type Candidate struct {
	Name    string   // Short label for logs ("nvenc", "x264-veryfast").
	Codec   string   // Encoder identifier passed to -c:v.
	Options []string // Codec-specific rate-control flags.
}

// Static per-platform hardware candidate tables, ordered by decreasing
// likelihood of working hardware acceleration.
var hardwareCandidates = map[string][]Candidate{
	"windows": {
		{Name: "nvenc", Codec: "h264_nvenc", Options: []string{"-preset", "p4", "-rc", "vbr"}},
		{Name: "qsv", Codec: "h264_qsv", Options: []string{"-preset", "veryfast"}},
		{Name: "amf", Codec: "h264_amf", Options: []string{"-quality", "speed"}},
	},
	"darwin": {
		{Name: "videotoolbox", Codec: "h264_videotoolbox", Options: []string{"-realtime", "true"}},
	},
}

// ListCandidates returns the ordered fallback chain for the current host:
// hardware candidates first, then the software candidate at the configured
// preset, and for export a second software candidate at the fallback preset
// (skipped when identical to the primary).
func ListCandidates(cfg *config.Config, forExport bool) []Candidate {
	return listCandidates(runtime.GOOS, cfg, forExport)
}

// listCandidates is the platform-parameterized implementation, split out so
// tests can cover every platform table from one host.
func listCandidates(goos string, cfg *config.Config, forExport bool) []Candidate {
	var out []Candidate

	if !cfg.DisableHardware {
		out = append(out, hardwareCandidates[goos]...)
	}

	out = append(out, softwareCandidate(cfg.SwPreset))
	if forExport && cfg.SwPresetFallback != "" && cfg.SwPresetFallback != cfg.SwPreset {
		out = append(out, softwareCandidate(cfg.SwPresetFallback))
	}
	return out
}

func softwareCandidate(preset string) Candidate {
	return Candidate{
		Name:    "x264-" + preset,
		Codec:   "libx264",
		Options: []string{"-preset", preset, "-crf", "23"},
	}
}
