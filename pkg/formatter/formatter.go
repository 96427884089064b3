// Package formatter provides the whole-file Go formatters that selective
// reformatting draws its replacement lines from.
package formatter

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Formatter names accepted by New.
const (
	NameGofmt     = "gofmt"
	NameGoimports = "goimports"
	NameNone      = "none"
)

var (
	// ErrFormatterUnavailable is returned when no usable formatter is configured.
	ErrFormatterUnavailable = errors.New("formatter unavailable")

	// ErrInvalidInput is returned when the source cannot be parsed as Go.
	ErrInvalidInput = errors.New("formatter input is not valid Go")

	// ErrUnknownFormatter is returned by New for an unrecognized name.
	ErrUnknownFormatter = errors.New("unknown formatter")
)

// Formatter reformats a complete Go source file.
type Formatter interface {
	// Name identifies the formatter in logs and reports.
	Name() string

	// Format returns the reformatted source. path is used for messages and
	// for formatters whose output depends on the file location.
	Format(ctx context.Context, path string, src []byte) ([]byte, error)
}

// ImportRewriter is implemented by formatters that may add or remove imports
// rather than only reorder them.
type ImportRewriter interface {
	RewritesImports() bool
}

// RewritesImports reports whether f may change the set of imports.
func RewritesImports(f Formatter) bool {
	rewriter, ok := f.(ImportRewriter)
	return ok && rewriter.RewritesImports()
}

// Options configures formatters created by New.
type Options struct {
	// LocalPrefix groups imports beginning with this comma-separated list of
	// prefixes after third-party packages (goimports only).
	LocalPrefix string

	// FormatOnly stops goimports from adding or removing imports.
	FormatOnly bool
}

// New creates the formatter selected by name. A comma-separated list of
// names builds a Chain applied in order.
func New(name string, opts Options) (Formatter, error) {
	names := strings.Split(name, ",")
	if len(names) > 1 {
		chain := make(Chain, 0, len(names))
		for _, part := range names {
			f, err := New(part, opts)
			if err != nil {
				return nil, err
			}
			chain = append(chain, f)
		}
		return chain, nil
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameGofmt, "":
		return Gofmt{}, nil
	case NameGoimports:
		return &Goimports{LocalPrefix: opts.LocalPrefix, FormatOnly: opts.FormatOnly}, nil
	case NameNone, "disabled":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormatter, name)
	}
}

// Chain applies several formatters in sequence.
type Chain []Formatter

// Name implements Formatter.
func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, f := range c {
		names[i] = f.Name()
	}
	return strings.Join(names, "+")
}

// Format implements Formatter.
func (c Chain) Format(ctx context.Context, path string, src []byte) ([]byte, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("%w: empty formatter chain", ErrFormatterUnavailable)
	}
	out := src
	for _, f := range c {
		var err error
		out, err = f.Format(ctx, path, out)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
	}
	return out, nil
}

// RewritesImports implements ImportRewriter.
func (c Chain) RewritesImports() bool {
	for _, f := range c {
		if RewritesImports(f) {
			return true
		}
	}
	return false
}

// Disabled is the formatter used when formatting is turned off or the
// configured formatter cannot be used. Every call fails.
type Disabled struct{}

// Name implements Formatter.
func (Disabled) Name() string { return NameNone }

// Format implements Formatter.
func (Disabled) Format(context.Context, string, []byte) ([]byte, error) {
	return nil, ErrFormatterUnavailable
}
