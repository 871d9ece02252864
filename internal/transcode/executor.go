// Package transcode runs encode attempts against an ordered chain of
// encoder candidates, reporting fractional progress and falling back to
// the next candidate on failure.
package transcode

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/clipforge/clipforge/internal/encoder"
)

// ErrNoCandidates is returned when the fallback chain is empty.
var ErrNoCandidates = errors.New("no encoder candidates available")

// ProgressFunc receives clamped 0-100 progress samples for the attempt
// currently running.
type ProgressFunc func(percent float64)

// BuildCommand produces the engine argument vector and the output path for
// one candidate. Called once per attempt so candidate-specific flags and
// naming stay in the caller's hands.
type BuildCommand func(c encoder.Candidate) (args []string, outputPath string)

// runFunc executes the engine with args, delivering each stderr status
// line to onLine. Swappable for tests.
type runFunc func(ctx context.Context, args []string, onLine func(string)) error

// Executor drives attempt chains. All external encodes in the process are
// serialized through its single-slot gate: the engine is CPU/GPU-bound and
// concurrent invocations would contend for the same hardware encoder.
type Executor struct {
	log  zerolog.Logger
	gate *semaphore.Weighted
	run  runFunc
}

// NewExecutor returns an Executor logging through log.
func NewExecutor(log zerolog.Logger) *Executor {
	return &Executor{
		log:  log,
		gate: semaphore.NewWeighted(1),
		run:  runEngine,
	}
}

// RunAttempts tries candidates strictly in order, returning the first
// successful attempt's output path. A failed attempt has its partial
// output removed (a missing file is fine) before the next candidate is
// tried. When every candidate fails, the last failure is propagated.
func (e *Executor) RunAttempts(
	ctx context.Context,
	candidates []encoder.Candidate,
	build BuildCommand,
	totalDurationSec float64,
	onProgress ProgressFunc,
) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}

	if err := e.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer e.gate.Release(1)

	var lastErr error
	for _, cand := range candidates {
		args, outputPath := build(cand)

		attemptID := uuid.NewString()[:8]
		log := e.log.With().
			Str("attempt", attemptID).
			Str("encoder", cand.Name).
			Logger()
		log.Debug().Strs("args", args).Msg("starting encode attempt")

		err := e.run(ctx, args, func(line string) {
			if onProgress == nil {
				return
			}
			if pct, ok := ParseProgress(line, totalDurationSec); ok {
				onProgress(pct)
			}
		})
		if err == nil {
			log.Debug().Str("output", outputPath).Msg("encode attempt succeeded")
			return outputPath, nil
		}

		lastErr = err
		log.Warn().Err(err).Msg("encode attempt failed, trying next candidate")
		removePartial(outputPath, log)
	}

	return "", fmt.Errorf("all %d encoder candidates failed: %w", len(candidates), lastErr)
}

// removePartial deletes a failed attempt's output. Never-created files are
// expected; other removal failures are only logged.
func removePartial(path string, log zerolog.Logger) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Str("path", path).Msg("could not remove partial output")
	}
}

// stderrTailLines bounds the failure context carried into error messages.
const stderrTailLines = 8

// runEngine spawns the engine, scans stderr (status lines are delimited by
// carriage returns as well as newlines), and reports each line to onLine.
// On failure the error message carries the tail of stderr.
func runEngine(ctx context.Context, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	var tail []string
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanStatusLines)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		onLine(line)
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}
	}

	if err := cmd.Wait(); err != nil {
		if len(tail) > 0 {
			return fmt.Errorf("%w: %s", err, strings.Join(tail, " | "))
		}
		return err
	}
	return nil
}

// scanStatusLines is a bufio.SplitFunc treating both \r and \n as line
// terminators, since the engine rewrites its status line with \r.
func scanStatusLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if idx := bytes.IndexAny(data, "\r\n"); idx >= 0 {
		return idx + 1, data[:idx], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
