// Package trace records what the front end is doing.
//
// Every compilation opens a driver span; each phase (scan, refine, brackets,
// top-down, bottom-up, bind, modes, mode-check, coerce, scope-check) opens a
// pass span under it. With reduction tracing switched on, every fired
// reduction rule becomes a node-scope point event.
//
// # Usage
//
//	a68 check --trace=- --trace-level=debug prog.a68
//
// # Tracers
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped on demand
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: crash dumps only
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-range events
//   - LevelDebug: everything including single reductions
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "bottom-up", parentID)
//	defer span.End("")
package trace
