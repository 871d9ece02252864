// Package export drives multi-item batch exports: clip extraction from
// segment lists and whole-file LUT application, with weighted progress
// reporting and per-item failure isolation.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/display"
	"github.com/clipforge/clipforge/internal/encoder"
	"github.com/clipforge/clipforge/internal/job"
	"github.com/clipforge/clipforge/internal/lut"
	"github.com/clipforge/clipforge/internal/naming"
	"github.com/clipforge/clipforge/internal/probe"
	"github.com/clipforge/clipforge/internal/transcode"
)

// Validation errors raised before any subprocess work.
var (
	ErrNoSegments  = errors.New("no segments to export")
	ErrLutRequired = errors.New("a LUT path is required for this batch")
)

// Segment is one clip range in seconds. End must exceed Start; violating
// items are recorded as failed and skipped.
type Segment struct {
	ID    string
	Start float64
	End   float64
}

// Video is one input of a full-file LUT batch.
type Video struct {
	ID   string
	Path string
}

// ItemResult records one batch item's outcome. A failing item never aborts
// its batch; its error string identifies what needs attention.
type ItemResult struct {
	ID      string
	Success bool
	Path    string
	Err     string
}

// sourceBitrateLabel formats the probed video (or container) bitrate for
// the batch-start log line.
func sourceBitrateLabel(info *probe.StreamInfo) string {
	switch {
	case info.VideoBitrateKbps != nil:
		return display.FormatBitrateLabel(int64(*info.VideoBitrateKbps))
	case info.ContainerBitrateKbps != nil:
		return display.FormatBitrateLabel(int64(*info.ContainerBitrateKbps))
	default:
		return "unknown"
	}
}

// mediaProber is the slice of the prober the orchestrator needs.
type mediaProber interface {
	Probe(ctx context.Context, path string) (probe.StreamInfo, error)
}

// attemptRunner is the slice of the transcode executor the orchestrator needs.
type attemptRunner interface {
	RunAttempts(ctx context.Context, candidates []encoder.Candidate,
		build transcode.BuildCommand, totalDurationSec float64,
		onProgress transcode.ProgressFunc) (string, error)
}

// Orchestrator processes batch items strictly sequentially; the engine is
// CPU/GPU-bound and parallel items would contend for the same hardware
// encoder.
type Orchestrator struct {
	cfg    *config.Config
	log    zerolog.Logger
	prober mediaProber
	exec   attemptRunner
}

// NewOrchestrator wires an Orchestrator from its collaborators.
func NewOrchestrator(cfg *config.Config, prober *probe.Prober, exec *transcode.Executor, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{cfg: cfg, log: log, prober: prober, exec: exec}
}

// ExportSegments extracts each segment of path into outputDir, in input
// order, naming outputs {base}_clip_{NN}.{ext}. The source is probed once
// for bitrate info shared across all segments. Returns one result per
// segment; only validation failures abort the whole call.
func (o *Orchestrator) ExportSegments(
	ctx context.Context,
	path, outputDir string,
	segments []Segment,
	lutPath string,
	lutIntensity int,
	emitter *job.Emitter,
) ([]ItemResult, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	filter, err := buildFilter(lutPath, lutIntensity)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	info, err := o.prober.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	bitrateArgs := encoder.ExportBitrateArgs(&info)
	candidates := encoder.ListCandidates(o.cfg, true)

	o.log.Info().Str("source", path).Int("segments", len(segments)).
		Str("bitrate", sourceBitrateLabel(&info)).
		Msg("starting segment export")

	results := make([]ItemResult, 0, len(segments))
	tracker := newWeightTracker(emitter, len(segments))

	for i, seg := range segments {
		tracker.beginItem(i)

		if seg.End <= seg.Start {
			o.log.Warn().Str("segment", seg.ID).
				Float64("start", seg.Start).Float64("end", seg.End).
				Msg("skipping segment with non-positive duration")
			results = append(results, ItemResult{
				ID:  seg.ID,
				Err: fmt.Sprintf("invalid segment range: end %.3f <= start %.3f", seg.End, seg.Start),
			})
			tracker.finishItem(i)
			continue
		}

		outPath := naming.ClipOutputPath(outputDir, path, i+1, o.cfg.OutputExt)
		clipDur := seg.End - seg.Start

		got, err := o.exec.RunAttempts(ctx, candidates,
			buildClipCommand(path, seg.Start, clipDur, filter, bitrateArgs, outPath),
			clipDur,
			tracker.itemProgress(i),
		)
		if err != nil {
			o.log.Warn().Err(err).Str("segment", seg.ID).Msg("segment export failed")
			results = append(results, ItemResult{ID: seg.ID, Err: err.Error()})
		} else {
			results = append(results, ItemResult{ID: seg.ID, Success: true, Path: got})
		}
		tracker.finishItem(i)
	}

	tracker.done()
	return results, nil
}

// ExportFullLutBatch applies the LUT to each whole video, probing each one
// individually (bitrates differ per source) and allocating collision-free
// output names. An empty LUT path fails fast with no results and no
// subprocess spawned.
func (o *Orchestrator) ExportFullLutBatch(
	ctx context.Context,
	videos []Video,
	outputDir, lutPath string,
	lutIntensity int,
	emitter *job.Emitter,
) ([]ItemResult, error) {
	if lutPath == "" {
		return nil, ErrLutRequired
	}
	filter, err := buildFilter(lutPath, lutIntensity)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	candidates := encoder.ListCandidates(o.cfg, true)
	results := make([]ItemResult, 0, len(videos))
	tracker := newWeightTracker(emitter, len(videos))

	for i, v := range videos {
		tracker.beginItem(i)

		res := o.exportOneVideo(ctx, v, outputDir, filter, candidates, tracker.itemProgress(i))
		results = append(results, res)

		tracker.finishItem(i)
	}

	tracker.done()
	return results, nil
}

// exportOneVideo handles a single full-file item so its failures stay
// isolated from the rest of the batch.
func (o *Orchestrator) exportOneVideo(
	ctx context.Context,
	v Video,
	outputDir, filter string,
	candidates []encoder.Candidate,
	onProgress transcode.ProgressFunc,
) ItemResult {
	info, err := o.prober.Probe(ctx, v.Path)
	if err != nil {
		return ItemResult{ID: v.ID, Err: err.Error()}
	}

	outPath, err := naming.BuildUniqueOutputPath(outputDir, naming.Stem(v.Path)+"_lut", o.cfg.OutputExt)
	if err != nil {
		return ItemResult{ID: v.ID, Err: err.Error()}
	}

	bitrateArgs := encoder.ExportBitrateArgs(&info)
	got, err := o.exec.RunAttempts(ctx, candidates,
		buildFullCommand(v.Path, filter, bitrateArgs, outPath),
		info.Duration(),
		onProgress,
	)
	if err != nil {
		o.log.Warn().Err(err).Str("video", v.ID).Msg("full LUT export failed")
		return ItemResult{ID: v.ID, Err: err.Error()}
	}
	return ItemResult{ID: v.ID, Success: true, Path: got}
}

// buildFilter validates the LUT inputs and returns the filter expression,
// or "" when no LUT was requested.
func buildFilter(lutPath string, lutIntensity int) (string, error) {
	if lutPath == "" {
		return "", nil
	}
	return lut.BuildFilterGraph(lutPath, lutIntensity)
}

// buildClipCommand assembles the engine arguments for one segment attempt:
// seek before input for fast extraction, bounded by the clip duration.
func buildClipCommand(src string, start, dur float64, filter string, bitrateArgs []string, out string) transcode.BuildCommand {
	return func(c encoder.Candidate) ([]string, string) {
		args := []string{
			"-hide_banner", "-nostdin", "-y",
			"-loglevel", "error", "-stats", "-stats_period", "1",
			"-ss", fmt.Sprintf("%.3f", start),
			"-i", src,
			"-t", fmt.Sprintf("%.3f", dur),
		}
		return appendEncodeArgs(args, c, filter, bitrateArgs, out), out
	}
}

// buildFullCommand assembles the arguments for a whole-file attempt.
func buildFullCommand(src, filter string, bitrateArgs []string, out string) transcode.BuildCommand {
	return func(c encoder.Candidate) ([]string, string) {
		args := []string{
			"-hide_banner", "-nostdin", "-y",
			"-loglevel", "error", "-stats", "-stats_period", "1",
			"-i", src,
		}
		return appendEncodeArgs(args, c, filter, bitrateArgs, out), out
	}
}

// appendEncodeArgs adds the shared encode tail: filter graph, candidate
// codec and rate control, stream mapping, audio lane, bitrate
// preservation, and the output path.
func appendEncodeArgs(args []string, c encoder.Candidate, filter string, bitrateArgs []string, out string) []string {
	if filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args, "-c:v", c.Codec)
	args = append(args, c.Options...)
	args = append(args,
		"-map", "0:v:0",
		"-map", "0:a:0?",
		"-c:a", "aac",
		"-movflags", "+faststart",
	)
	args = append(args, bitrateArgs...)
	args = append(args, out)
	return args
}
