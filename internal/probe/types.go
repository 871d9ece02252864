package probe

// StreamInfo holds the metadata scraped from one inspection run. Probing is
// best-effort text parsing: every field is a pointer and nil means the field
// could not be recovered from the diagnostic output. A file with no video
// stream probes successfully with all video fields nil.
type StreamInfo struct {
	VideoCodec  *string
	Profile     *string
	PixelFormat *string
	Width       *int
	Height      *int

	VideoBitrateKbps     *float64
	AudioBitrateKbps     *float64
	DurationSec          *float64
	ContainerBitrateKbps *float64
}

// HasVideo reports whether a video stream was found.
func (si *StreamInfo) HasVideo() bool {
	return si.VideoCodec != nil
}

// Duration returns the container duration in seconds, or 0 when unknown.
func (si *StreamInfo) Duration() float64 {
	if si.DurationSec == nil {
		return 0
	}
	return *si.DurationSec
}

func strPtr(s string) *string   { return &s }
func intPtr(n int) *int         { return &n }
func f64Ptr(f float64) *float64 { return &f }
