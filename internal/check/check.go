// Package check provides system diagnostics (-check mode) and pre-run
// dependency validation for the external transcoding engine.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/encoder"
)

// ErrEngineNotFound is returned by CheckDeps when ffmpeg is missing.
var ErrEngineNotFound = errors.New("ffmpeg not found on PATH")

// CheckDeps is the pre-run validation: the engine binary must be on PATH.
// Encoder availability is not validated here; the candidate fallback chain
// absorbs unusable encoders at run time.
func CheckDeps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrEngineNotFound
	}
	return nil
}

// RunCheck runs the informational -check flow: engine version, H.264
// encoder availability, and a smoke test of the first candidate in this
// host's fallback chain. It does not stop on failure.
func RunCheck(cfg *config.Config, log zerolog.Logger) {
	log.Info().Msg("system check")

	checkEngine(log)
	checkEncoders(log)
	checkFirstCandidate(cfg, log)
}

func checkEngine(log zerolog.Logger) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error().Msg("ffmpeg not found")
		return
	}
	out, err := exec.Command("ffmpeg", "-version").Output()
	if err != nil {
		log.Warn().Err(err).Msg("ffmpeg found but -version failed")
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Info().Str("version", firstLine).Msg("ffmpeg available")
}

// checkEncoders lists the H.264 encoders the engine reports.
func checkEncoders(log zerolog.Logger) {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn().Err(err).Msg("could not list encoders")
		return
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "h264") {
			log.Info().Str("encoder", strings.TrimSpace(line)).Msg("h264 encoder")
		}
	}
}

// checkFirstCandidate runs a minimal encode against the chain head, the
// candidate an actual run would try first.
func checkFirstCandidate(cfg *config.Config, log zerolog.Logger) {
	cands := encoder.ListCandidates(cfg, false)
	if len(cands) == 0 {
		log.Error().Msg("no encoder candidates for this platform")
		return
	}
	head := cands[0]

	args := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", head.Codec,
	}
	args = append(args, head.Options...)
	args = append(args, "-f", "null", "-")

	if exec.Command("ffmpeg", args...).Run() == nil {
		log.Info().Str("encoder", head.Name).Msg("candidate chain head works")
	} else {
		log.Warn().Str("encoder", head.Name).
			Msg("chain head failed a test encode; runs will fall back")
	}
}
