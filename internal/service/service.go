// Package service is the boundary the embedding UI talks to: one facade
// over the pipeline with explicit request/response types per operation,
// validated before any subprocess work, and progress pushed through a
// caller-supplied event sink.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/export"
	"github.com/clipforge/clipforge/internal/job"
	"github.com/clipforge/clipforge/internal/preview"
	"github.com/clipforge/clipforge/internal/probe"
	"github.com/clipforge/clipforge/internal/transcode"
)

// Options wires a Service. Sink may be nil when the caller wants no
// progress events at all.
type Options struct {
	Config *config.Config
	Log    zerolog.Logger
	Sink   job.Sink
}

// Service owns the shared pipeline state: the probe cache, the transcode
// gate, and the live proxy registry.
type Service struct {
	cfg  *config.Config
	log  zerolog.Logger
	sink job.Sink

	prober   *probe.Prober
	exec     *transcode.Executor
	previews *preview.Manager
	exports  *export.Orchestrator
}

// New builds a Service from opts.
func New(opts Options) *Service {
	prober := probe.New(opts.Config.ProbeCacheCap, opts.Log.With().Str("component", "probe").Logger())
	exec := transcode.NewExecutor(opts.Log.With().Str("component", "transcode").Logger())

	return &Service{
		cfg:      opts.Config,
		log:      opts.Log,
		sink:     opts.Sink,
		prober:   prober,
		exec:     exec,
		previews: preview.NewManager(opts.Config, prober, exec, opts.Log.With().Str("component", "preview").Logger()),
		exports:  export.NewOrchestrator(opts.Config, prober, exec, opts.Log.With().Str("component", "export").Logger()),
	}
}

// Shutdown deletes every live proxy best-effort. Call once at process exit.
func (s *Service) Shutdown() {
	s.previews.Registry().CleanupAll()
}

// emitter returns the progress emitter for a request's job id; an empty id
// yields a silent emitter.
func (s *Service) emitter(jobID string) *job.Emitter {
	return job.NewEmitter(s.sink, jobID)
}

// --- preparePreview ---

type PreparePreviewRequest struct {
	Path         string `json:"path"`
	ForceProxy   bool   `json:"forceProxy"`
	LutPath      string `json:"lutPath,omitempty"`
	LutIntensity int    `json:"lutIntensity,omitempty"`
	JobID        string `json:"jobId,omitempty"`
}

type PreparePreviewResponse struct {
	Success               bool   `json:"success"`
	UseProxy              bool   `json:"useProxy"`
	URL                   string `json:"url,omitempty"`
	Path                  string `json:"path,omitempty"`
	SuggestCompatibleMode bool   `json:"suggestCompatibleMode"`
	Error                 string `json:"error,omitempty"`
}

// PreparePreview decides direct-vs-proxy playback for a source, creating a
// registered proxy when forced.
func (s *Service) PreparePreview(ctx context.Context, req PreparePreviewRequest) PreparePreviewResponse {
	if req.Path == "" {
		return PreparePreviewResponse{Error: "path is required"}
	}
	if req.LutIntensity < 0 || req.LutIntensity > 100 {
		return PreparePreviewResponse{Error: "lutIntensity must be 0-100"}
	}

	res, err := s.previews.Prepare(ctx, req.Path, req.ForceProxy, req.LutPath, req.LutIntensity, s.emitter(req.JobID))
	if err != nil {
		return PreparePreviewResponse{Error: err.Error()}
	}
	return PreparePreviewResponse{
		Success:               true,
		UseProxy:              res.UseProxy,
		URL:                   res.URL,
		Path:                  res.Path,
		SuggestCompatibleMode: res.SuggestCompatibleMode,
	}
}

// --- cleanupPreview ---

type CleanupPreviewRequest struct {
	ProxyPath string `json:"proxyPath"`
}

type CleanupPreviewResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CleanupPreview deletes one proxy file. Already-missing files succeed.
func (s *Service) CleanupPreview(req CleanupPreviewRequest) CleanupPreviewResponse {
	if req.ProxyPath == "" {
		return CleanupPreviewResponse{Error: "proxyPath is required"}
	}
	if err := s.previews.Registry().Cleanup(req.ProxyPath); err != nil {
		return CleanupPreviewResponse{Error: err.Error()}
	}
	return CleanupPreviewResponse{Success: true}
}

// --- exportSegments / exportFullLutBatch ---

type ExportSegmentsRequest struct {
	Path         string           `json:"path"`
	OutputDir    string           `json:"outputDir"`
	Segments     []export.Segment `json:"segments"`
	LutPath      string           `json:"lutPath,omitempty"`
	LutIntensity int              `json:"lutIntensity,omitempty"`
	JobID        string           `json:"jobId,omitempty"`
}

type ExportFullLutBatchRequest struct {
	Videos       []export.Video `json:"videos"`
	OutputDir    string         `json:"outputDir"`
	LutPath      string         `json:"lutPath"`
	LutIntensity int            `json:"lutIntensity"`
	JobID        string         `json:"jobId,omitempty"`
}

type BatchResponse struct {
	Success bool                `json:"success"`
	Results []export.ItemResult `json:"results"`
	Error   string              `json:"error,omitempty"`
}

// ExportSegments extracts the requested clip ranges. Per-item failures are
// reported in Results; only boundary validation fails the whole call.
func (s *Service) ExportSegments(ctx context.Context, req ExportSegmentsRequest) BatchResponse {
	if req.Path == "" || req.OutputDir == "" {
		return BatchResponse{Results: []export.ItemResult{}, Error: "path and outputDir are required"}
	}

	results, err := s.exports.ExportSegments(ctx, req.Path, req.OutputDir, req.Segments,
		req.LutPath, req.LutIntensity, s.emitter(req.JobID))
	if err != nil {
		return BatchResponse{Results: []export.ItemResult{}, Error: err.Error()}
	}
	return BatchResponse{Success: true, Results: results}
}

// ExportFullLutBatch applies a LUT to whole videos. An empty LUT path
// fails fast with an empty result set.
func (s *Service) ExportFullLutBatch(ctx context.Context, req ExportFullLutBatchRequest) BatchResponse {
	if req.OutputDir == "" {
		return BatchResponse{Results: []export.ItemResult{}, Error: "outputDir is required"}
	}

	results, err := s.exports.ExportFullLutBatch(ctx, req.Videos, req.OutputDir,
		req.LutPath, req.LutIntensity, s.emitter(req.JobID))
	if err != nil {
		return BatchResponse{Results: []export.ItemResult{}, Error: err.Error()}
	}
	return BatchResponse{Success: true, Results: results}
}
