package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStartStopWritesFiles(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Heap:  filepath.Join(dir, "heap.pprof"),
		Trace: filepath.Join(dir, "rt.trace"),
	}
	s, err := Start(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	for _, path := range []string{p.CPU, p.Heap, p.Trace} {
		if st, err := os.Stat(path); err != nil || st.Size() == 0 {
			t.Errorf("%s: %v", path, err)
		}
	}
}

func TestStartReportsBadPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "cpu.pprof")
	if _, err := Start(Paths{CPU: missing}); err == nil {
		t.Fatal("expected error")
	}
}
