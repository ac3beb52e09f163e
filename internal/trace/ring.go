package trace

import (
	"fmt"
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory. It is what --trace-mode=ring
// uses, and the CLI dumps it when a phase panics.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  int    // slot for the next event
	total uint64 // events ever stored
	level Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || (ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope)) {
		return
	}
	t.mu.Lock()
	t.buf[t.next] = *ev
	t.buf[t.next].Seq = NextSeq()
	t.next = (t.next + 1) % len(t.buf)
	t.total++
	t.mu.Unlock()
}

// Snapshot copies the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total < uint64(len(t.buf)) {
		return append([]Event(nil), t.buf[:t.next]...)
	}
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

// Dropped reports how many events were overwritten.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total < uint64(len(t.buf)) {
		return 0
	}
	return t.total - uint64(len(t.buf))
}

// Dump writes the stored events in format. In text format a header line
// says how many older events were lost.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	if dropped := t.Dropped(); dropped > 0 && format != FormatNDJSON {
		if _, err := fmt.Fprintf(w, "... %d earlier events dropped\n", dropped); err != nil {
			return err
		}
	}
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// RingOf returns the ring buffer behind t, looking inside a MultiTracer,
// or nil when t keeps no ring.
func RingOf(t Tracer) *RingTracer {
	switch tr := t.(type) {
	case *RingTracer:
		return tr
	case *MultiTracer:
		for _, inner := range tr.tracers {
			if r := RingOf(inner); r != nil {
				return r
			}
		}
	}
	return nil
}
