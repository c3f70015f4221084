// Package core runs the whole filter chain for one file: load, parse, walk
// and output.
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"pydoxy/internal/config"
	"pydoxy/internal/parser"
	"pydoxy/internal/rewrite"
	"pydoxy/internal/source"
	"pydoxy/internal/walker"
)

// Result is the outcome of filtering one file.
type Result struct {
	Buffer  *rewrite.Buffer
	Entries []walker.Entry
}

// Output returns the filtered source with a '\n' after every line.
func (r *Result) Output() string {
	return r.Buffer.String()
}

// Preview filters opts.Filename read from fs and keeps every rewritten
// docstring for display. Any load or parse failure aborts the whole file.
func Preview(ctx context.Context, fs afero.Fs, opts *config.Options, log zerolog.Logger) (*Result, error) {
	lines, err := source.Load(fs, opts.Filename)
	if err != nil {
		return nil, err
	}

	root, err := parser.Parse(ctx, []byte(strings.Join(lines, "\n")+"\n"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Filename, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := rewrite.NewBuffer(lines)
	w := walker.New(buf, opts, parser.Interactive{}, log)
	w.Walk(root)

	log.Debug().
		Str("file", opts.Filename).
		Int("lines", buf.Len()).
		Int("docstrings", len(w.Entries())).
		Msg("filtered")
	return &Result{Buffer: buf, Entries: w.Entries()}, nil
}

// Filter filters opts.Filename and hands the result to store. Nothing is
// saved when filtering fails.
func Filter(ctx context.Context, fs afero.Fs, opts *config.Options, store OutputStore, log zerolog.Logger) error {
	res, err := Preview(ctx, fs, opts, log)
	if err != nil {
		return err
	}
	return store.Save(res)
}
