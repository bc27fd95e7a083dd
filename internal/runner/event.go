package runner

import "context"

// Status is the phase of a run reported through Event.
type Status uint8

const (
	StatusStarted Status = iota
	StatusProgress
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusStarted:
		return "started"
	case StatusProgress:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event reports shot progress.
type Event struct {
	Status Status
	Done   int
	Total  int
	Err    error
}

// Fraction is the completed share in [0, 1].
func (e Event) Fraction() float64 {
	if e.Total <= 0 {
		return 0
	}
	return float64(e.Done) / float64(e.Total)
}

func emit(ctx context.Context, ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}
