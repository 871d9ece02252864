package transcode

import (
	"math"
	"regexp"
	"strconv"
)

// Progress scraping regexes for the engine's stderr status lines, e.g.
//
//	frame=  480 fps=120 q=28.0 size=    2048KiB time=00:00:20.03 bitrate= 837.4kbits/s speed=5.01x
//
// Some engine builds self-report a completion percentage; when present it
// is preferred over the derived value.
var (
	rePercent = regexp.MustCompile(`percent[=:]\s*([\d.]+)`)
	reTime    = regexp.MustCompile(`time=(\d+):(\d{2}):(\d{2})(?:\.(\d+))?`)
)

// ParseProgress extracts a 0-100 completion percentage from one status
// line. The engine's own percentage wins when it is finite; otherwise the
// elapsed-time marker is divided by the known total duration. The result
// is clamped to [0,100]. Returns false when the line carries no usable
// progress information.
func ParseProgress(line string, totalDurationSec float64) (float64, bool) {
	if m := rePercent.FindStringSubmatch(line); m != nil {
		if pct, err := strconv.ParseFloat(m[1], 64); err == nil && !math.IsInf(pct, 0) && !math.IsNaN(pct) {
			return clamp(pct), true
		}
	}

	m := reTime.FindStringSubmatch(line)
	if m == nil || totalDurationSec <= 0 {
		return 0, false
	}

	hours, _ := strconv.ParseFloat(m[1], 64)
	mins, _ := strconv.ParseFloat(m[2], 64)
	secs, _ := strconv.ParseFloat(m[3], 64)
	elapsed := hours*3600 + mins*60 + secs
	if m[4] != "" {
		if frac, err := strconv.ParseFloat("0."+m[4], 64); err == nil {
			elapsed += frac
		}
	}

	return clamp(elapsed / totalDurationSec * 100), true
}

func clamp(pct float64) float64 {
	return math.Min(100, math.Max(0, pct))
}
