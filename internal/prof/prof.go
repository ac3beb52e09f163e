// Package prof runs the Go profilers around one a68 invocation.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Paths names the output files; an empty path disables that profiler.
type Paths struct {
	CPU   string
	Heap  string
	Trace string
}

// Session is a set of running profilers. The heap profile is taken at Stop,
// after the front end has done its work.
type Session struct {
	heap    string
	cpu     *os.File
	rtTrace *os.File
}

// Start starts the CPU profiler and the runtime tracer as requested. If one
// fails, the ones already started are stopped.
func Start(p Paths) (*Session, error) {
	s := &Session{heap: p.Heap}
	if p.CPU != "" {
		f, err := os.Create(p.CPU)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		s.cpu = f
	}
	if p.Trace != "" {
		f, err := os.Create(p.Trace)
		if err == nil {
			if err = trace.Start(f); err != nil {
				_ = f.Close()
			}
		}
		if err != nil {
			s.heap = ""
			_ = s.Stop()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		s.rtTrace = f
	}
	return s, nil
}

// Stop stops the profilers and writes the heap profile. It may be called
// more than once.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.rtTrace != nil {
		trace.Stop()
		errs = append(errs, s.rtTrace.Close())
		s.rtTrace = nil
	}
	if s.cpu != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpu.Close())
		s.cpu = nil
	}
	if s.heap != "" {
		errs = append(errs, writeHeap(s.heap))
		s.heap = ""
	}
	return errors.Join(errs...)
}

func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("heap profile: %w", err)
	}
	return f.Close()
}
