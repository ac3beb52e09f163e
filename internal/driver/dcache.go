package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"a68/internal/diag"
	"a68/internal/session"
)

// Current schema version - increment when CachedResult format changes
const resultCacheSchemaVersion uint16 = 1

// ResultCache хранит итоги компиляции на диске по ключу ResultKey.
// Thread-safe for concurrent access.
type ResultCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedResult is what a compilation leaves behind: the per-phase results
// and the diagnostics. Timing diagnostics are not kept.
type CachedResult struct {
	Schema      uint16
	Path        string
	Status      session.Status
	Results     []session.Result
	Diagnostics []*diag.Diagnostic
}

// OpenResultCache initializes and returns a cache at the standard location.
func OpenResultCache(app string) (*ResultCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewResultCache(filepath.Join(base, app))
}

// NewResultCache opens a cache rooted at dir, creating it when needed.
func NewResultCache(dir string) (*ResultCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &ResultCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *ResultCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *ResultCache) pathFor(key Digest) string {
	// Результаты лежат в подкаталоге "results", его проще чистить.
	return filepath.Join(c.dir, "results", key.String()+".mp")
}

// Put serializes and writes an entry to the cache.
func (c *ResultCache) Put(key Digest, entry *CachedResult) (err error) {
	if c == nil || entry == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Schema = resultCacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads an entry. Entries written by another schema version are
// reported as misses.
func (c *ResultCache) Get(key Digest) (*CachedResult, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() { _ = f.Close() }()

	var out CachedResult
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if out.Schema != resultCacheSchemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *ResultCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// toCached keeps what a later run needs to reproduce the report.
func toCached(res *Result) *CachedResult {
	s := res.Session
	entry := &CachedResult{
		Path:    res.Path,
		Status:  res.Status,
		Results: append([]session.Result(nil), s.Results...),
	}
	for _, d := range s.Bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		entry.Diagnostics = append(entry.Diagnostics, d)
	}
	return entry
}
