package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB
)

var builtinSeeds = []string{
	"",
	"SKIP",
	"BEGIN INT i = 1, j = 2; print (i+j) END",
	"'BEGIN' 'INT' i := 0; i +:= 1 'END'",
	"MODE LIST = STRUCT (INT v, REF LIST next); SKIP",
	"UNION (INT, REAL) u = 1; CASE u IN (INT i): print (i), (REAL r): print (r) OUT SKIP ESAC",
	"PROC f = REF INT: (LOC INT x; x); SKIP",
	"PR quote PR 'begin' 'skip' 'end'",
	"BEGIN COMMENT unterminated",
	"((((((((SKIP",
	"FOR i TO 3 DO print (i) OD",
	"\"unterminated string",
	"main: (go. go: SKIP)",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.a68 файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".a68" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
