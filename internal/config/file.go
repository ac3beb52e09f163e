package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the project configuration looked up from the source directory upwards.
const FileName = "a68.toml"

type fileConfig struct {
	Compiler compilerTable `toml:"compiler"`
}

type compilerTable struct {
	Stropping       *string `toml:"stropping"`
	Brackets        *bool   `toml:"brackets"`
	PortCheck       *bool   `toml:"portcheck"`
	Warnings        *bool   `toml:"warnings"`
	TraceReductions *bool   `toml:"reductions"`
	MaxErrors       *int    `toml:"max_errors"`
	MaxDepth        *int    `toml:"max_depth"`
	LongDigits      *int    `toml:"long_digits"`
	LongLongDigits  *int    `toml:"long_long_digits"`
}

// Find walks up from startDir to locate a68.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadFile overlays the [compiler] table of path onto base.
func LoadFile(path string, base Options) (Options, error) {
	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return base, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg.Compiler.apply(path, base)
}

// Decode is LoadFile over an in-memory document.
func Decode(doc string, base Options) (Options, error) {
	var cfg fileConfig
	if _, err := toml.Decode(doc, &cfg); err != nil {
		return base, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return cfg.Compiler.apply("<memory>", base)
}

// Discover finds a68.toml above startDir and applies it; a missing file is not an error.
func Discover(startDir string, base Options) (Options, string, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return base, "", err
	}
	opts, err := LoadFile(path, base)
	return opts, path, err
}

func (c compilerTable) apply(path string, o Options) (Options, error) {
	if c.Stropping != nil {
		s, err := ParseStropping(*c.Stropping)
		if err != nil {
			return o, fmt.Errorf("%s: [compiler].stropping: %w", path, err)
		}
		o.Stropping = s
	}
	if c.Brackets != nil {
		o.Brackets = *c.Brackets
	}
	if c.PortCheck != nil {
		o.PortCheck = *c.PortCheck
	}
	if c.Warnings != nil {
		o.Warnings = *c.Warnings
	}
	if c.TraceReductions != nil {
		o.TraceReductions = *c.TraceReductions
	}
	if c.MaxErrors != nil {
		o.MaxErrors = *c.MaxErrors
	}
	if c.MaxDepth != nil {
		o.MaxDepth = *c.MaxDepth
	}
	if c.LongDigits != nil {
		o.LongDigits = *c.LongDigits
	}
	if c.LongLongDigits != nil {
		o.LongLongDigits = *c.LongLongDigits
	}
	return o.Normalize(), nil
}

// DefaultFile is what `a68 init` writes.
func DefaultFile() string {
	return `[compiler]
stropping = "bold"
brackets = false
portcheck = false
warnings = true
reductions = false
max_errors = 100
max_depth = 2000
`
}
