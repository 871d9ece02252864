// Package job defines the progress event protocol between the pipeline and
// the embedding caller: start/progress/done events correlated by an opaque
// job id, with monotonic percent emission.
package job

import "math"

// Phase tags an event within a job's lifecycle.
type Phase string

const (
	PhaseStart    Phase = "start"
	PhaseProgress Phase = "progress"
	PhaseDone     Phase = "done"
)

// Event is one progress update for a job. Percent is 0-100 and
// non-decreasing across the events of a single job id.
type Event struct {
	JobID       string `json:"jobId"`
	Phase       Phase  `json:"phase"`
	Percent     int    `json:"percent"`
	CurrentItem int    `json:"currentItem,omitempty"`
	TotalItems  int    `json:"totalItems,omitempty"`
}

// Sink receives job events. Callers must tolerate receiving no events at
// all (silent jobs) and a done event without every intermediate percent.
type Sink func(Event)

// Emitter produces the event stream for one job. A nil sink or an empty
// job id makes every method a no-op, which is how callers run silently
// when no job id was supplied.
type Emitter struct {
	sink        Sink
	jobID       string
	totalItems  int
	currentItem int
	last        int // last emitted percent, -1 before the first progress event
}

// NewEmitter returns an emitter for jobID delivering to sink.
func NewEmitter(sink Sink, jobID string) *Emitter {
	return &Emitter{sink: sink, jobID: jobID, last: -1}
}

func (e *Emitter) silent() bool {
	return e == nil || e.sink == nil || e.jobID == ""
}

// Start emits the start phase and fixes the item count for the job.
func (e *Emitter) Start(totalItems int) {
	if e.silent() {
		return
	}
	e.totalItems = totalItems
	e.sink(Event{JobID: e.jobID, Phase: PhaseStart, Percent: 0, TotalItems: totalItems})
}

// SetItem records the 1-based item currently being processed; subsequent
// progress events carry it.
func (e *Emitter) SetItem(current int) {
	if e.silent() {
		return
	}
	e.currentItem = current
}

// Progress emits a progress event for percent, clamped to [0,100] and
// rounded. Values that do not strictly exceed the last emitted percent are
// dropped, so the surfaced sequence is non-decreasing regardless of raw
// sample order.
func (e *Emitter) Progress(percent float64) {
	if e.silent() {
		return
	}
	rounded := int(math.Round(math.Min(100, math.Max(0, percent))))
	if rounded <= e.last {
		return
	}
	e.last = rounded
	e.sink(Event{
		JobID:       e.jobID,
		Phase:       PhaseProgress,
		Percent:     rounded,
		CurrentItem: e.currentItem,
		TotalItems:  e.totalItems,
	})
}

// Done terminates the job's event stream at 100 percent. No further events
// may be emitted for this job.
func (e *Emitter) Done() {
	if e.silent() {
		return
	}
	e.last = 100
	e.sink(Event{
		JobID:      e.jobID,
		Phase:      PhaseDone,
		Percent:    100,
		TotalItems: e.totalItems,
	})
}
