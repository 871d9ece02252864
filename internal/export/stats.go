package export

import "os"

// Stats aggregates a batch's outcome for summary reporting.
type Stats struct {
	Succeeded        int
	Failed           int
	TotalOutputBytes int64
}

// Summarize tallies results, stat-ing each successful output for its size.
func Summarize(results []ItemResult) Stats {
	var s Stats
	for _, r := range results {
		if !r.Success {
			s.Failed++
			continue
		}
		s.Succeeded++
		if fi, err := os.Stat(r.Path); err == nil {
			s.TotalOutputBytes += fi.Size()
		}
	}
	return s
}
