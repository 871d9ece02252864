package export

import (
	"math"

	"github.com/clipforge/clipforge/internal/job"
	"github.com/clipforge/clipforge/internal/transcode"
)

// weightTracker maps per-item 0-100 progress into the batch percentage:
// every item occupies an equal 100/total share, offset by the cumulative
// share of the items before it. The emitter's rounding filter keeps the
// surfaced sequence strictly increasing.
type weightTracker struct {
	emitter *job.Emitter
	total   int
	share   float64
}

func newWeightTracker(emitter *job.Emitter, total int) *weightTracker {
	t := &weightTracker{emitter: emitter, total: total}
	if total > 0 {
		t.share = 100 / float64(total)
	}
	t.emitter.Start(total)
	return t
}

func (t *weightTracker) offset(i int) float64 {
	return float64(i) * t.share
}

// beginItem marks the 1-based item as current.
func (t *weightTracker) beginItem(i int) {
	t.emitter.SetItem(i + 1)
}

// itemProgress returns the executor progress callback for item i.
func (t *weightTracker) itemProgress(i int) transcode.ProgressFunc {
	return func(pct float64) {
		pct = math.Min(100, math.Max(0, pct))
		t.emitter.Progress(t.offset(i) + pct*t.share/100)
	}
}

// finishItem advances the batch percentage to the item's full share, so a
// skipped or failed item still moves the bar.
func (t *weightTracker) finishItem(i int) {
	t.emitter.Progress(t.offset(i) + t.share)
}

// done terminates the job's event stream.
func (t *weightTracker) done() {
	t.emitter.Done()
}
