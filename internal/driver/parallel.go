package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"a68/internal/diag"
	"a68/internal/observ"
	"a68/internal/session"
	"a68/internal/source"
)

// SourceExt is the extension of Algol 68 source files.
const SourceExt = ".a68"

// ListSources возвращает отсортированный список всех *.a68 файлов в директории.
func ListSources(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ProgressStatus is the state of one file in a batch.
type ProgressStatus uint8

const (
	ProgressQueued ProgressStatus = iota
	ProgressWorking
	ProgressDone
	ProgressError
)

// ProgressEvent reports batch progress. Phase is set while working.
type ProgressEvent struct {
	File   string
	Phase  session.Phase
	Status ProgressStatus
	Cached bool
}

// BatchOptions controls CheckFiles.
type BatchOptions struct {
	Options
	// Jobs bounds the number of files compiled at once; zero means GOMAXPROCS.
	Jobs  int
	Cache *ResultCache
	// Progress is called from worker goroutines and must be safe for
	// concurrent use.
	Progress func(ProgressEvent)
}

// FileResult is the outcome of one file of a batch. Err is set when the
// file could not be read; Session is nil for cached results.
type FileResult struct {
	Path        string
	Files       *source.FileSet
	Session     *session.Session
	Status      session.Status
	Results     []session.Result
	Diagnostics []*diag.Diagnostic
	Cached      bool
	Timing      *observ.Report
	Err         error
}

// Bag collects the diagnostics of the file into a new bag.
func (r *FileResult) Bag() *diag.Bag {
	bag := diag.NewBag(0)
	for _, d := range r.Diagnostics {
		bag.Add(d)
	}
	return bag
}

// BatchStats counts what CheckFiles did.
type BatchStats struct {
	Compiled    int64
	CacheHits   int64
	CacheMisses int64
	Failed      int64
}

// CheckFiles compiles every path in its own session, at most opts.Jobs at
// a time. Results come back in the order of paths. The returned error is
// the context's when the batch was cancelled; per-file failures are in
// FileResult.Err.
func CheckFiles(ctx context.Context, paths []string, opts BatchOptions) ([]FileResult, BatchStats, error) {
	results := make([]FileResult, len(paths))
	var stats struct {
		compiled, hits, misses, failed atomic.Int64
	}
	collect := func() BatchStats {
		return BatchStats{
			Compiled:    stats.compiled.Load(),
			CacheHits:   stats.hits.Load(),
			CacheMisses: stats.misses.Load(),
			Failed:      stats.failed.Load(),
		}
	}
	if len(paths) == 0 {
		return results, collect(), nil
	}
	progress := func(ev ProgressEvent) {
		if opts.Progress != nil {
			opts.Progress(ev)
		}
	}
	for _, p := range paths {
		progress(ProgressEvent{File: p, Status: ProgressQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res := checkOne(gctx, path, opts, progress)
			results[i] = res
			switch {
			case res.Err != nil:
				stats.failed.Add(1)
			case res.Cached:
				stats.hits.Add(1)
			default:
				stats.compiled.Add(1)
				if opts.Cache != nil {
					stats.misses.Add(1)
				}
			}
			status := ProgressDone
			if res.Err != nil || res.Status != session.StatusOK {
				status = ProgressError
			}
			progress(ProgressEvent{File: path, Status: status, Cached: res.Cached})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, collect(), err
	}
	return results, collect(), nil
}

func checkOne(ctx context.Context, path string, opts BatchOptions, progress func(ProgressEvent)) FileResult {
	fset := source.NewFileSet()
	id, err := fset.Load(path)
	if err != nil {
		return FileResult{Path: path, Status: session.StatusFatal, Err: fmt.Errorf("failed to load %s: %w", path, err)}
	}
	conf, _, err := resolveConfig(filepath.Dir(path), opts.Options)
	if err != nil {
		return FileResult{Path: path, Files: fset, Status: session.StatusFatal, Err: err}
	}

	key := ResultKey(fset.Get(id).Hash, conf, opts.Stage)
	// Таймингам из кэша верить нельзя, поэтому с --timings кэш не читаем.
	if !opts.Timings {
		if entry, ok, _ := opts.Cache.Get(key); ok {
			return FileResult{
				Path:        path,
				Files:       fset,
				Status:      entry.Status,
				Results:     entry.Results,
				Diagnostics: entry.Diagnostics,
				Cached:      true,
			}
		}
	}

	copts := opts.Options
	copts.Observer = func(ev PhaseEvent) {
		if ev.Status == PhaseStart {
			progress(ProgressEvent{File: path, Phase: ev.Phase, Status: ProgressWorking})
		}
		if opts.Observer != nil {
			opts.Observer(ev)
		}
	}
	res := compile(ctx, fset, id, conf, copts)
	// прерванная компиляция не отражает программу
	if ctx.Err() == nil {
		_ = opts.Cache.Put(key, toCached(res))
	}
	return FileResult{
		Path:        path,
		Files:       fset,
		Session:     res.Session,
		Status:      res.Status,
		Results:     res.Session.Results,
		Diagnostics: res.Session.Bag.Items(),
		Timing:      res.Timing,
	}
}
