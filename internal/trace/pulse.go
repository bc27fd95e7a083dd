package trace

import (
	"fmt"
	"time"
)

// Pulse emits a driver-scope event every interval until stop is called. A
// pulse with no matching end event points at a stuck table build or shot.
func Pulse(t Tracer, every time.Duration) (stop func()) {
	if every <= 0 || t.Level() == LevelOff {
		return func() {}
	}
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		tick := time.NewTicker(every)
		defer tick.Stop()
		for n := 1; ; n++ {
			select {
			case <-tick.C:
				t.Emit(stamp(Event{Kind: KindPulse, Scope: ScopeDriver, Name: "pulse", Detail: fmt.Sprintf("#%d", n)}))
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}
