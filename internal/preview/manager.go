// Package preview decides direct-vs-proxy playback for a source file and
// drives proxy creation through the transcode executor.
package preview

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/encoder"
	"github.com/clipforge/clipforge/internal/job"
	"github.com/clipforge/clipforge/internal/lut"
	"github.com/clipforge/clipforge/internal/probe"
	"github.com/clipforge/clipforge/internal/transcode"
)

// attemptRunner is the slice of the transcode executor the manager needs.
type attemptRunner interface {
	RunAttempts(ctx context.Context, candidates []encoder.Candidate,
		build transcode.BuildCommand, totalDurationSec float64,
		onProgress transcode.ProgressFunc) (string, error)
}

// mediaProber is the slice of the prober the manager needs.
type mediaProber interface {
	Probe(ctx context.Context, path string) (probe.StreamInfo, error)
}

// Result describes how the caller should play back a source.
type Result struct {
	UseProxy bool
	URL      string // playback URL: the original file, or the proxy
	Path     string // proxy file path when UseProxy is set

	// SuggestCompatibleMode flags codecs statistically likely to exhibit
	// decode problems in the playback surface (high-efficiency codecs and
	// 10-bit content).
	SuggestCompatibleMode bool
}

// Manager prepares playback previews and owns the live proxy registry.
type Manager struct {
	cfg      *config.Config
	log      zerolog.Logger
	prober   mediaProber
	exec     attemptRunner
	registry *Registry
}

// NewManager wires a Manager from its collaborators.
func NewManager(cfg *config.Config, prober *probe.Prober, exec *transcode.Executor, log zerolog.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		log:      log,
		prober:   prober,
		exec:     exec,
		registry: NewRegistry(log),
	}
}

// Registry exposes the proxy registry for cleanup operations and shutdown.
func (m *Manager) Registry() *Registry { return m.registry }

// Prepare probes path and decides playback. The cheap default returns the
// original file's URL without transcoding; only forceProxy triggers proxy
// creation through the encoder fallback chain. Progress is surfaced via
// emitter (silent when the caller supplied no job id).
func (m *Manager) Prepare(
	ctx context.Context,
	path string,
	forceProxy bool,
	lutPath string,
	lutIntensity int,
	emitter *job.Emitter,
) (Result, error) {
	info, err := m.prober.Probe(ctx, path)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		URL:                   fileURL(path),
		SuggestCompatibleMode: suggestCompatibleMode(&info),
	}
	if !forceProxy {
		m.log.Debug().Str("path", path).Bool("suggest_compat", res.SuggestCompatibleMode).
			Msg("direct playback")
		return res, nil
	}

	// Validation happens before any subprocess is spawned.
	filter := ""
	if lutPath != "" {
		filter, err = lut.BuildFilterGraph(lutPath, lutIntensity)
		if err != nil {
			return Result{}, err
		}
	}
	if err := os.MkdirAll(m.cfg.ProxyDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create proxy dir: %w", err)
	}

	proxyPath := filepath.Join(m.cfg.ProxyDir,
		fmt.Sprintf("preview_%d_%s.mp4", time.Now().Unix(), uuid.NewString()[:8]))

	emitter.Start(1)
	emitter.SetItem(1)

	candidates := encoder.ListCandidates(m.cfg, false)
	out, err := m.exec.RunAttempts(ctx, candidates,
		buildProxyCommand(path, filter, proxyPath),
		info.Duration(),
		func(pct float64) { emitter.Progress(pct) },
	)
	if err != nil {
		return Result{}, err
	}
	emitter.Done()

	m.registry.Add(out)
	m.log.Info().Str("source", path).Str("proxy", out).Msg("preview proxy ready")

	res.UseProxy = true
	res.Path = out
	res.URL = fileURL(out)
	return res, nil
}

// buildProxyCommand assembles the engine arguments for one proxy attempt.
// The common output constraints are fixed across candidates; only the
// candidate's codec and rate-control flags vary.
func buildProxyCommand(src, filter, out string) transcode.BuildCommand {
	return func(c encoder.Candidate) ([]string, string) {
		args := []string{
			"-hide_banner", "-nostdin", "-y",
			"-loglevel", "error", "-stats", "-stats_period", "1",
			"-i", src,
		}
		if filter != "" {
			args = append(args, "-vf", filter)
		}
		args = append(args, "-c:v", c.Codec)
		args = append(args, c.Options...)
		args = append(args, encoder.PreviewCommonArgs()...)
		args = append(args, out)
		return args, out
	}
}

// highEfficiencyCodecs are the codec names that commonly fail to decode in
// the playback surface.
var highEfficiencyCodecs = map[string]bool{
	"hevc": true,
	"h265": true,
	"av1":  true,
	"vp9":  true,
}

// suggestCompatibleMode reports whether the probed stream looks risky for
// direct playback: a high-efficiency codec by name, or 10-bit content by
// profile or pixel format.
func suggestCompatibleMode(info *probe.StreamInfo) bool {
	if info.VideoCodec != nil && highEfficiencyCodecs[strings.ToLower(*info.VideoCodec)] {
		return true
	}
	if info.Profile != nil && strings.Contains(*info.Profile, "10") {
		return true
	}
	if info.PixelFormat != nil && strings.Contains(*info.PixelFormat, "10") {
		return true
	}
	return false
}

func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + (&url.URL{Path: filepath.ToSlash(abs)}).EscapedPath()
}
