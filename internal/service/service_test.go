package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/export"
)

func testService(t *testing.T) *Service {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ProxyDir = filepath.Join(t.TempDir(), "proxies")
	return New(Options{Config: &cfg, Log: zerolog.Nop()})
}

func TestPreparePreviewValidation(t *testing.T) {
	s := testService(t)

	resp := s.PreparePreview(context.Background(), PreparePreviewRequest{})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "path")

	resp = s.PreparePreview(context.Background(), PreparePreviewRequest{
		Path: "/media/a.mp4", LutIntensity: 150,
	})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "lutIntensity")
}

func TestExportSegmentsValidation(t *testing.T) {
	s := testService(t)

	resp := s.ExportSegments(context.Background(), ExportSegmentsRequest{})
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Results)

	// An empty segment list is a boundary validation failure, not a batch
	// with zero items.
	resp = s.ExportSegments(context.Background(), ExportSegmentsRequest{
		Path:      "/media/a.mp4",
		OutputDir: t.TempDir(),
	})
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Results)
	assert.Contains(t, resp.Error, "segments")
}

func TestExportFullLutBatchEmptyLutFailsFast(t *testing.T) {
	s := testService(t)

	resp := s.ExportFullLutBatch(context.Background(), ExportFullLutBatchRequest{
		Videos:    []export.Video{{ID: "v1", Path: "/media/a.mp4"}},
		OutputDir: t.TempDir(),
	})
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Results)
	assert.Contains(t, resp.Error, "LUT")
}

func TestCleanupPreview(t *testing.T) {
	s := testService(t)

	resp := s.CleanupPreview(CleanupPreviewRequest{})
	assert.False(t, resp.Success)

	path := filepath.Join(t.TempDir(), "proxy.mp4")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	resp = s.CleanupPreview(CleanupPreviewRequest{ProxyPath: path})
	assert.True(t, resp.Success)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Cleaning an already-missing proxy still succeeds.
	resp = s.CleanupPreview(CleanupPreviewRequest{ProxyPath: path})
	assert.True(t, resp.Success)
}
