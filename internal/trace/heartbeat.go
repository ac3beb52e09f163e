package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits a liveness event at a fixed interval. A trace that keeps
// beating without span ends points at a phase that does not terminate.
type Heartbeat struct {
	tracer Tracer
	start  time.Time
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// StartHeartbeat starts beating; it returns nil when tracing is off or the
// interval is not positive. Stop on a nil Heartbeat is a no-op.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer: tracer,
		start:  time.Now(),
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	h.wg.Add(1)
	go h.loop()
	return h
}

func (h *Heartbeat) loop() {
	defer h.wg.Done()
	for n := 1; ; n++ {
		select {
		case now := <-h.ticker.C:
			h.tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d up=%s", n, now.Sub(h.start).Round(time.Millisecond)),
			})
		case <-h.done:
			return
		}
	}
}

// Stop ends the heartbeat and waits for the goroutine to exit.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
	h.wg.Wait()
}
