// Command clipforge batch-extracts and transcodes clips from a source
// video, optionally applying a color-grading LUT, and prepares playback
// preview proxies for exotic codecs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/clipforge/clipforge/internal/check"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/display"
	"github.com/clipforge/clipforge/internal/export"
	"github.com/clipforge/clipforge/internal/job"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/service"
)

func main() {
	cfg := config.DefaultConfig()
	config.FromEnv(&cfg)
	if err := config.ParseFlags(&cfg, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "clipforge: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "clipforge: %v\n", err)
		os.Exit(1)
	}

	logging.Configure(&cfg)
	log := logging.WithComponent("cli")

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return
	}

	if err := check.CheckDeps(); err != nil {
		log.Error().Err(err).Msg("missing dependency")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc := service.New(service.Options{
		Config: &cfg,
		Log:    logging.Base(),
		Sink:   progressSink(),
	})
	defer svc.Shutdown()

	switch {
	case cfg.Preview:
		runPreview(ctx, svc, &cfg, log)
	case cfg.BatchLut:
		runBatchLut(ctx, svc, &cfg, log)
	case cfg.Segments != "":
		runSegments(ctx, svc, &cfg, log)
	default:
		log.Error().Msg("nothing to do: pass -segments, -batch-lut, or -preview")
		os.Exit(1)
	}
}

func runPreview(ctx context.Context, svc *service.Service, cfg *config.Config, log zerolog.Logger) {
	resp := svc.PreparePreview(ctx, service.PreparePreviewRequest{
		Path:         cfg.InputPath,
		ForceProxy:   cfg.ForceProxy,
		LutPath:      cfg.LutPath,
		LutIntensity: cfg.LutIntensity,
		JobID:        "cli-preview",
	})
	if !resp.Success {
		log.Error().Str("error", resp.Error).Msg("preview preparation failed")
		os.Exit(1)
	}
	log.Info().
		Bool("use_proxy", resp.UseProxy).
		Bool("suggest_compatible_mode", resp.SuggestCompatibleMode).
		Str("url", resp.URL).
		Msg("preview ready")
	if resp.UseProxy {
		fmt.Println(resp.Path)
	}
}

func runSegments(ctx context.Context, svc *service.Service, cfg *config.Config, log zerolog.Logger) {
	segments, err := parseSegments(cfg.Segments)
	if err != nil {
		log.Error().Err(err).Msg("bad -segments value")
		os.Exit(1)
	}

	resp := svc.ExportSegments(ctx, service.ExportSegmentsRequest{
		Path:         cfg.InputPath,
		OutputDir:    cfg.OutputDir,
		Segments:     segments,
		LutPath:      cfg.LutPath,
		LutIntensity: cfg.LutIntensity,
		JobID:        "cli-export",
	})
	finishBatch(resp, log)
}

func runBatchLut(ctx context.Context, svc *service.Service, cfg *config.Config, log zerolog.Logger) {
	resp := svc.ExportFullLutBatch(ctx, service.ExportFullLutBatchRequest{
		Videos:       []export.Video{{ID: cfg.InputPath, Path: cfg.InputPath}},
		OutputDir:    cfg.OutputDir,
		LutPath:      cfg.LutPath,
		LutIntensity: cfg.LutIntensity,
		JobID:        "cli-batch-lut",
	})
	finishBatch(resp, log)
}

func finishBatch(resp service.BatchResponse, log zerolog.Logger) {
	if !resp.Success {
		log.Error().Str("error", resp.Error).Msg("batch rejected")
		os.Exit(1)
	}

	for _, r := range resp.Results {
		if r.Success {
			log.Info().Str("id", r.ID).Str("output", r.Path).Msg("exported")
		} else {
			log.Warn().Str("id", r.ID).Str("error", r.Err).Msg("item failed")
		}
	}

	stats := export.Summarize(resp.Results)
	log.Info().
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Str("output_size", display.FormatBytes(stats.TotalOutputBytes)).
		Msg("batch done")

	if stats.Failed > 0 && stats.Succeeded == 0 {
		os.Exit(1)
	}
}

// parseSegments turns "0-2.5,5-9" into ordered segments with generated ids.
func parseSegments(spec string) ([]export.Segment, error) {
	var out []export.Segment
	for i, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("range %q: want start-end", part)
		}
		start, err := strconv.ParseFloat(bounds[0], 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: bad start: %w", part, err)
		}
		end, err := strconv.ParseFloat(bounds[1], 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: bad end: %w", part, err)
		}
		out = append(out, export.Segment{
			ID:    fmt.Sprintf("seg-%d", i+1),
			Start: start,
			End:   end,
		})
	}
	return out, nil
}

// progressSink renders job events as a terminal progress bar.
func progressSink() job.Sink {
	var bar *progressbar.ProgressBar
	return func(ev job.Event) {
		switch ev.Phase {
		case job.PhaseStart:
			bar = progressbar.NewOptions(100,
				progressbar.OptionSetDescription("transcoding"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
			)
		case job.PhaseProgress:
			if bar != nil {
				_ = bar.Set(ev.Percent)
			}
		case job.PhaseDone:
			if bar != nil {
				_ = bar.Set(100)
				_ = bar.Finish()
				fmt.Fprintln(os.Stderr)
				bar = nil
			}
		}
	}
}
