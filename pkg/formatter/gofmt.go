package formatter

import (
	"context"
	"fmt"
	"go/format"
	"sync"

	"golang.org/x/tools/imports"
)

// Gofmt formats with go/format, the library behind gofmt.
type Gofmt struct{}

// Name implements Formatter.
func (Gofmt) Name() string { return NameGofmt }

// Format implements Formatter.
func (Gofmt) Format(ctx context.Context, path string, src []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := format.Source(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, path, err)
	}
	return out, nil
}

// importsMu guards the package-level LocalPrefix setting of x/tools/imports.
var importsMu sync.Mutex

// Goimports formats with golang.org/x/tools/imports, which also fixes up
// missing and unused imports unless FormatOnly is set.
type Goimports struct {
	LocalPrefix string
	FormatOnly  bool
}

// Name implements Formatter.
func (g *Goimports) Name() string { return NameGoimports }

// RewritesImports implements ImportRewriter.
func (g *Goimports) RewritesImports() bool { return !g.FormatOnly }

// Format implements Formatter.
func (g *Goimports) Format(ctx context.Context, path string, src []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	importsMu.Lock()
	defer importsMu.Unlock()

	imports.LocalPrefix = g.LocalPrefix
	out, err := imports.Process(path, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: g.FormatOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, path, err)
	}
	return out, nil
}
