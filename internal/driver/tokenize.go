package driver

import (
	"context"

	"a68/internal/diag"
	"a68/internal/source"
	"a68/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize scans and refines one file without parsing it.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	opts.Stage = StageTokenize
	res, err := Compile(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	s := res.Session
	return &TokenizeResult{
		FileSet: s.Files,
		File:    s.File,
		Tokens:  s.Tokens,
		Bag:     s.Bag,
	}, nil
}
