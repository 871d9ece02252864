package transcode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/clipforge/internal/encoder"
)

func threeCandidates() []encoder.Candidate {
	return []encoder.Candidate{
		{Name: "nvenc", Codec: "h264_nvenc"},
		{Name: "qsv", Codec: "h264_qsv"},
		{Name: "x264", Codec: "libx264"},
	}
}

func buildFor(dir string) BuildCommand {
	return func(c encoder.Candidate) ([]string, string) {
		out := filepath.Join(dir, c.Name+".mov")
		return []string{"-i", "in.mp4", "-c:v", c.Codec, out}, out
	}
}

func TestRunAttemptsFallsBackToThirdCandidate(t *testing.T) {
	dir := t.TempDir()
	var calls []string

	e := NewExecutor(zerolog.Nop())
	e.run = func(ctx context.Context, args []string, onLine func(string)) error {
		outputPath := args[len(args)-1]
		codec := args[3]
		calls = append(calls, codec)

		require.NoError(t, os.WriteFile(outputPath, []byte("partial"), 0o644))
		if codec != "libx264" {
			return errors.New(codec + " exploded")
		}
		return nil
	}

	out, err := e.RunAttempts(context.Background(), threeCandidates(), buildFor(dir), 10, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x264.mov"), out)
	assert.Equal(t, []string{"h264_nvenc", "h264_qsv", "libx264"}, calls)

	// Partial outputs of the failed attempts must be gone.
	_, err = os.Stat(filepath.Join(dir, "nvenc.mov"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "qsv.mov"))
	assert.True(t, os.IsNotExist(err))

	// The winning output survives.
	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestRunAttemptsPropagatesLastFailure(t *testing.T) {
	dir := t.TempDir()

	e := NewExecutor(zerolog.Nop())
	e.run = func(ctx context.Context, args []string, onLine func(string)) error {
		return errors.New(args[3] + " exploded")
	}

	_, err := e.RunAttempts(context.Background(), threeCandidates(), buildFor(dir), 10, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "libx264 exploded", "last candidate's failure wins")
	assert.NotContains(t, err.Error(), "nvenc exploded")
}

func TestRunAttemptsStopsAtFirstSuccess(t *testing.T) {
	dir := t.TempDir()
	var calls []string

	e := NewExecutor(zerolog.Nop())
	e.run = func(ctx context.Context, args []string, onLine func(string)) error {
		calls = append(calls, args[3])
		return nil
	}

	out, err := e.RunAttempts(context.Background(), threeCandidates(), buildFor(dir), 10, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nvenc.mov"), out)
	assert.Equal(t, []string{"h264_nvenc"}, calls)
}

func TestRunAttemptsEmptyChain(t *testing.T) {
	e := NewExecutor(zerolog.Nop())

	_, err := e.RunAttempts(context.Background(), nil, buildFor(t.TempDir()), 10, nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestRunAttemptsSerializesConcurrentCalls(t *testing.T) {
	dir := t.TempDir()

	var inFlight, maxInFlight atomic.Int32
	e := NewExecutor(zerolog.Nop())
	e.run = func(ctx context.Context, args []string, onLine func(string)) error {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			cur := maxInFlight.Load()
			if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.RunAttempts(context.Background(), threeCandidates()[:1], buildFor(dir), 10, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load(), "encodes must never overlap")
}

func TestRunAttemptsDeliversProgress(t *testing.T) {
	dir := t.TempDir()

	e := NewExecutor(zerolog.Nop())
	e.run = func(ctx context.Context, args []string, onLine func(string)) error {
		onLine("frame=  10 time=00:00:02.50 bitrate=900kbits/s")
		onLine("frame=  20 time=00:00:05.00 bitrate=900kbits/s")
		onLine("frame=  40 time=00:00:10.00 bitrate=900kbits/s")
		return nil
	}

	var samples []float64
	_, err := e.RunAttempts(context.Background(), threeCandidates()[:1], buildFor(dir), 10,
		func(pct float64) { samples = append(samples, pct) })
	require.NoError(t, err)
	assert.Equal(t, []float64{25, 50, 100}, samples)
}

func TestParseProgressPrefersSelfReportedPercent(t *testing.T) {
	pct, ok := ParseProgress("percent=42.5 time=00:00:01.00", 1000)
	require.True(t, ok)
	assert.InDelta(t, 42.5, pct, 0.001)
}

func TestParseProgressDerivesFromElapsedTime(t *testing.T) {
	pct, ok := ParseProgress("frame= 5 time=00:01:30.00 speed=1x", 360)
	require.True(t, ok)
	assert.InDelta(t, 25.0, pct, 0.001)
}

func TestParseProgressClamps(t *testing.T) {
	pct, ok := ParseProgress("time=00:10:00.00", 60)
	require.True(t, ok)
	assert.Equal(t, 100.0, pct)

	pct, ok = ParseProgress("percent=250", 60)
	require.True(t, ok)
	assert.Equal(t, 100.0, pct)
}

func TestParseProgressNoMarker(t *testing.T) {
	_, ok := ParseProgress("configuration: --enable-gpl", 60)
	assert.False(t, ok)

	// An elapsed-time marker without a known duration is unusable.
	_, ok = ParseProgress("time=00:00:05.00", 0)
	assert.False(t, ok)
}
