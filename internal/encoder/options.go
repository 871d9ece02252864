package encoder

import (
	"fmt"
	"math"

	"github.com/clipforge/clipforge/internal/probe"
)

// Minimum assumed video bitrate, in kbps, when estimating the video share
// from a container-level measurement.
const minEstimatedVideoKbps = 400

// PreviewCommonArgs returns the output constraints shared by every preview
// candidate: stream mapping, an 8-bit pixel format the playback surface can
// always decode, fast-start for progressive playback, and a fixed AAC
// audio lane. Only the candidate's rate-control flags vary on top of these.
func PreviewCommonArgs() []string {
	return []string{
		"-map", "0:v:0",
		"-map", "0:a:0?",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-c:a", "aac",
		"-b:a", "128k",
	}
}

// ExportBitrateArgs returns bitrate-preservation flags for an export based
// on the probed source. The video bitrate is appended only when a positive
// finite measurement exists; when only a container-level bitrate is known,
// the video share is estimated as max(400, container − audio) kbps.
func ExportBitrateArgs(si *probe.StreamInfo) []string {
	var args []string

	videoKbps := 0.0
	switch {
	case positiveFinite(si.VideoBitrateKbps):
		videoKbps = *si.VideoBitrateKbps
	case positiveFinite(si.ContainerBitrateKbps):
		audio := 0.0
		if positiveFinite(si.AudioBitrateKbps) {
			audio = *si.AudioBitrateKbps
		}
		videoKbps = math.Max(minEstimatedVideoKbps, *si.ContainerBitrateKbps-audio)
	}
	if videoKbps > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%.0fk", videoKbps))
	}

	if positiveFinite(si.AudioBitrateKbps) {
		args = append(args, "-b:a", fmt.Sprintf("%.0fk", *si.AudioBitrateKbps))
	}
	return args
}

func positiveFinite(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 0) && !math.IsNaN(*v)
}
