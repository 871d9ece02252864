// Package probe extracts stream and container metadata from media files by
// scraping the transcoding engine's diagnostic output, backed by a bounded
// cache keyed on file identity (size + modification time).
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// inspectFunc runs the engine in inspection mode against path and returns
// its diagnostic text. Swappable for tests.
type inspectFunc func(ctx context.Context, path string) (string, error)

// Prober probes media files with a validated cache in front of the engine.
type Prober struct {
	log     zerolog.Logger
	cache   *cache
	inspect inspectFunc
}

// New returns a Prober whose cache holds up to cacheCap entries.
func New(cacheCap int, log zerolog.Logger) *Prober {
	return &Prober{
		log:     log,
		cache:   newCache(cacheCap),
		inspect: runInspection,
	}
}

// Probe returns the stream metadata for path. Cache hits spawn no process.
// The only error condition is a failure to spawn the engine; a file with no
// recognizable streams yields a StreamInfo with all fields nil.
func (p *Prober) Probe(ctx context.Context, path string) (StreamInfo, error) {
	if info, ok := p.cache.get(path); ok {
		p.log.Debug().Str("path", path).Msg("probe cache hit")
		return info, nil
	}

	diag, err := p.inspect(ctx, path)
	if err != nil {
		return StreamInfo{}, fmt.Errorf("probe %q: %w", path, err)
	}

	info := Parse(diag)
	p.cache.put(path, info)

	p.log.Debug().
		Str("path", path).
		Bool("video", info.HasVideo()).
		Float64("duration_sec", info.Duration()).
		Msg("probed")
	return info, nil
}

// CacheLen reports the number of live cache entries.
func (p *Prober) CacheLen() int { return p.cache.len() }

// runInspection spawns `ffmpeg -hide_banner -i <path>` and captures stderr.
// The engine exits non-zero when no output is requested; that exit status is
// expected and ignored. Only a true spawn failure is returned.
func runInspection(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-i", path)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return "", err
	}
	return stderr.String(), nil
}
