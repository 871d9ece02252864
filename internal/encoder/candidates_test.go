package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/probe"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.SwPreset = "veryfast"
	cfg.SwPresetFallback = "ultrafast"
	return cfg
}

func codecs(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Codec
	}
	return out
}

func TestCandidateOrderWindows(t *testing.T) {
	cfg := testConfig()

	cands := listCandidates("windows", &cfg, false)
	assert.Equal(t,
		[]string{"h264_nvenc", "h264_qsv", "h264_amf", "libx264"},
		codecs(cands),
		"hardware first, software last")
}

func TestCandidateOrderDarwin(t *testing.T) {
	cfg := testConfig()

	cands := listCandidates("darwin", &cfg, false)
	assert.Equal(t, []string{"h264_videotoolbox", "libx264"}, codecs(cands))
}

func TestCandidateOrderLinux(t *testing.T) {
	cfg := testConfig()

	cands := listCandidates("linux", &cfg, false)
	assert.Equal(t, []string{"libx264"}, codecs(cands),
		"no hardware table for this platform")
}

func TestExportAddsFallbackSoftwareCandidate(t *testing.T) {
	cfg := testConfig()

	cands := listCandidates("darwin", &cfg, true)
	require.Len(t, cands, 3)
	last := cands[len(cands)-1]
	assert.Equal(t, "libx264", last.Codec)
	assert.Contains(t, last.Options, "ultrafast")
}

func TestExportSkipsIdenticalFallbackPreset(t *testing.T) {
	cfg := testConfig()
	cfg.SwPresetFallback = cfg.SwPreset

	cands := listCandidates("linux", &cfg, true)
	assert.Len(t, cands, 1, "identical fallback preset must not be layered")
}

func TestDisableHardwareRemovesAccelCandidates(t *testing.T) {
	cfg := testConfig()
	cfg.DisableHardware = true

	cands := listCandidates("windows", &cfg, false)
	assert.Equal(t, []string{"libx264"}, codecs(cands))
}

func f64(v float64) *float64 { return &v }

func TestExportBitrateArgsFromStreamMeasurement(t *testing.T) {
	si := probe.StreamInfo{
		VideoBitrateKbps: f64(4998),
		AudioBitrateKbps: f64(317),
	}

	args := ExportBitrateArgs(&si)
	assert.Equal(t, []string{"-b:v", "4998k", "-b:a", "317k"}, args)
}

func TestExportBitrateArgsEstimatesFromContainer(t *testing.T) {
	si := probe.StreamInfo{
		ContainerBitrateKbps: f64(5320),
		AudioBitrateKbps:     f64(320),
	}

	args := ExportBitrateArgs(&si)
	assert.Equal(t, []string{"-b:v", "5000k", "-b:a", "320k"}, args)
}

func TestExportBitrateArgsClampsLowEstimate(t *testing.T) {
	si := probe.StreamInfo{
		ContainerBitrateKbps: f64(500),
		AudioBitrateKbps:     f64(448),
	}

	args := ExportBitrateArgs(&si)
	assert.Equal(t, []string{"-b:v", "400k", "-b:a", "448k"}, args)
}

func TestExportBitrateArgsOmittedWhenUnknown(t *testing.T) {
	args := ExportBitrateArgs(&probe.StreamInfo{})
	assert.Empty(t, args, "no measurements, no preservation flags")
}
