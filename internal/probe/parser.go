package probe

import (
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexes for scraping the engine's diagnostic output. The
// inspection invocation prints stream and duration lines to stderr, e.g.
//
//	Duration: 00:02:37.74, start: 0.000000, bitrate: 5320 kb/s
//	Stream #0:0(und): Video: h264 (High) (avc1 / ...), yuv420p(tv, bt709), 1920x1080 [SAR ...], 4998 kb/s, 23.98 fps
//	Stream #0:1(und): Audio: aac (LC) (mp4a / ...), 48000 Hz, stereo, fltp, 317 kb/s
var (
	reVideoCodec = regexp.MustCompile(`Video:\s*([A-Za-z0-9_]+)(?:\s*\(([^)]+)\))?`)
	reAudioLine  = regexp.MustCompile(`Stream\s+#\d+:\d+.*?:\s*Audio:`)
	reDimensions = regexp.MustCompile(`(\d{2,5})x(\d{2,5})`)
	reBitrate    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*kb/s`)
	reDuration   = regexp.MustCompile(`Duration:\s*(\d+):(\d{2}):(\d{2})(?:\.(\d+))?`)
	reContBits   = regexp.MustCompile(`bitrate:\s*(\d+(?:\.\d+)?)\s*kb/s`)
)

// Parse scrapes structured stream metadata out of raw diagnostic text.
// Any field that fails to parse is left nil; Parse itself never fails.
// Exported for testing without a real engine binary.
func Parse(diag string) StreamInfo {
	var si StreamInfo

	for _, line := range strings.Split(diag, "\n") {
		switch {
		case si.VideoCodec == nil && strings.Contains(line, ": Video:"):
			parseVideoLine(line, &si)
		case si.AudioBitrateKbps == nil && reAudioLine.MatchString(line):
			if kbps, ok := bitrateFrom(line); ok {
				si.AudioBitrateKbps = f64Ptr(kbps)
			}
		case si.DurationSec == nil && strings.Contains(line, "Duration:"):
			parseDurationLine(line, &si)
		}
	}
	return si
}

// parseVideoLine extracts codec, optional parenthesized profile, pixel
// format, WIDTHxHEIGHT, and the stream bitrate from a video stream line.
func parseVideoLine(line string, si *StreamInfo) {
	m := reVideoCodec.FindStringSubmatch(line)
	if m == nil {
		return
	}
	si.VideoCodec = strPtr(strings.ToLower(m[1]))
	if m[2] != "" {
		si.Profile = strPtr(m[2])
	}

	// The pixel format is the first token of the comma field after the
	// codec section, with any parenthesized qualifier stripped
	// ("yuv420p(tv, bt709)" -> "yuv420p").
	if fields := strings.Split(line, ", "); len(fields) > 1 {
		pf := strings.TrimSpace(fields[1])
		if idx := strings.IndexAny(pf, "( "); idx > 0 {
			pf = pf[:idx]
		}
		if pf != "" && !strings.ContainsAny(pf, ":/") {
			si.PixelFormat = strPtr(pf)
		}
	}

	if dm := reDimensions.FindStringSubmatch(line); dm != nil {
		w, errW := strconv.Atoi(dm[1])
		h, errH := strconv.Atoi(dm[2])
		if errW == nil && errH == nil {
			si.Width = intPtr(w)
			si.Height = intPtr(h)
		}
	}

	if kbps, ok := bitrateFrom(line); ok {
		si.VideoBitrateKbps = f64Ptr(kbps)
	}
}

// parseDurationLine converts HH:MM:SS[.fraction] to seconds and picks up
// the container-level bitrate when the same line carries one.
func parseDurationLine(line string, si *StreamInfo) {
	m := reDuration.FindStringSubmatch(line)
	if m == nil {
		return
	}
	hours, _ := strconv.ParseFloat(m[1], 64)
	mins, _ := strconv.ParseFloat(m[2], 64)
	secs, _ := strconv.ParseFloat(m[3], 64)
	total := hours*3600 + mins*60 + secs
	if m[4] != "" {
		if frac, err := strconv.ParseFloat("0."+m[4], 64); err == nil {
			total += frac
		}
	}
	si.DurationSec = f64Ptr(total)

	if cm := reContBits.FindStringSubmatch(line); cm != nil {
		if kbps, err := strconv.ParseFloat(cm[1], 64); err == nil && kbps >= 0 {
			si.ContainerBitrateKbps = f64Ptr(kbps)
		}
	}
}

// bitrateFrom returns the first "<n> kb/s" value on the line.
func bitrateFrom(line string) (float64, bool) {
	m := reBitrate.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	kbps, err := strconv.ParseFloat(m[1], 64)
	if err != nil || kbps < 0 {
		return 0, false
	}
	return kbps, true
}
