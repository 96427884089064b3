package formatter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gofmtchanged/pkg/formatter"
)

const messy = "package p\nfunc f( ) {if true {return}}\n"

const tidy = "package p\n\nfunc f() {\n\tif true {\n\t\treturn\n\t}\n}\n"

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		want     string
		wantErr  error
		rewrites bool
	}{
		{name: "", want: "gofmt"},
		{name: "gofmt", want: "gofmt"},
		{name: "GoImports", want: "goimports", rewrites: true},
		{name: "none", want: "none"},
		{name: "goimports,gofmt", want: "goimports+gofmt", rewrites: true},
		{name: "black", wantErr: formatter.ErrUnknownFormatter},
		{name: "gofmt,black", wantErr: formatter.ErrUnknownFormatter},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f, err := formatter.New(tc.name, formatter.Options{})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.Name())
			assert.Equal(t, tc.rewrites, formatter.RewritesImports(f))
		})
	}
}

func TestGofmt(t *testing.T) {
	t.Parallel()

	out, err := formatter.Gofmt{}.Format(context.Background(), "p.go", []byte(messy))
	require.NoError(t, err)
	assert.Equal(t, tidy, string(out))

	_, err = formatter.Gofmt{}.Format(context.Background(), "p.go", []byte("package p\nfunc {"))
	require.ErrorIs(t, err, formatter.ErrInvalidInput)
}

func TestGofmtCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := formatter.Gofmt{}.Format(ctx, "p.go", []byte(messy))
	require.ErrorIs(t, err, context.Canceled)
}

func TestGoimportsFormatOnly(t *testing.T) {
	t.Parallel()

	src := "package p\n\nimport (\n\t\"strings\"\n\t\"fmt\"\n)\n\nvar _ = fmt.Sprint\nvar _ = strings.TrimSpace\n"
	want := "package p\n\nimport (\n\t\"fmt\"\n\t\"strings\"\n)\n\nvar _ = fmt.Sprint\nvar _ = strings.TrimSpace\n"

	f := &formatter.Goimports{FormatOnly: true}
	out, err := f.Format(context.Background(), "p.go", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, want, string(out))
	assert.False(t, formatter.RewritesImports(f))
}

func TestGoimportsRemovesUnusedImport(t *testing.T) {
	t.Parallel()

	src := "package p\n\nimport \"fmt\"\n\nvar x = 1\n"
	out, err := (&formatter.Goimports{}).Format(context.Background(), "p.go", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "package p\n\nvar x = 1\n", string(out))
}

func TestChain(t *testing.T) {
	t.Parallel()

	chain := formatter.Chain{formatter.Gofmt{}, formatter.Gofmt{}}
	out, err := chain.Format(context.Background(), "p.go", []byte(messy))
	require.NoError(t, err)
	assert.Equal(t, tidy, string(out))

	_, err = formatter.Chain{}.Format(context.Background(), "p.go", []byte(messy))
	require.ErrorIs(t, err, formatter.ErrFormatterUnavailable)

	_, err = formatter.Chain{formatter.Gofmt{}, formatter.Disabled{}}.Format(context.Background(), "p.go", []byte(messy))
	require.ErrorIs(t, err, formatter.ErrFormatterUnavailable)
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	_, err := formatter.Disabled{}.Format(context.Background(), "p.go", []byte(messy))
	assert.True(t, errors.Is(err, formatter.ErrFormatterUnavailable))
}
