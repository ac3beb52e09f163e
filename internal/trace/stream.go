package trace

import (
	"io"
	"sync"
)

// StreamTracer writes each event as soon as it is emitted. Write errors
// are ignored: a broken trace file must not fail the compilation.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil || (ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope)) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)
	t.mu.Lock()
	_, _ = t.w.Write(data)
	t.mu.Unlock()
}

// Flush flushes w when it buffers (bufio.Writer and the like).
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes w; stdout and stderr stay open.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.w.(io.Closer); ok && !isStdStream(t.w) {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
