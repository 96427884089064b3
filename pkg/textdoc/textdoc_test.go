package textdoc_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gofmtchanged/pkg/textdoc"
)

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"single line without newline", "package p", []string{"package p"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank lines kept", "a\n\n\nb\n", []string{"a", "", "", "b"}},
		{"only newline", "\n", []string{""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, textdoc.SplitLines(tc.text))
		})
	}
}

func TestFromString(t *testing.T) {
	t.Parallel()

	t.Run("keeps original string", func(t *testing.T) {
		t.Parallel()

		doc := textdoc.FromString("package p\n\nfunc f() {}")
		assert.Equal(t, "package p\n\nfunc f() {}", doc.String())
		assert.Equal(t, []string{"package p", "", "func f() {}"}, doc.Lines())
		assert.Equal(t, textdoc.NewlineLF, doc.Newline())
		assert.Equal(t, textdoc.EncodingUTF8, doc.Encoding())
	})

	t.Run("detects crlf", func(t *testing.T) {
		t.Parallel()

		doc := textdoc.FromString("a\r\nb\r\n")
		assert.Equal(t, textdoc.NewlineCRLF, doc.Newline())
	})
}

func TestFromLines(t *testing.T) {
	t.Parallel()

	t.Run("joins with newline and trailing newline", func(t *testing.T) {
		t.Parallel()

		doc := textdoc.FromLines([]string{"a", "b"}, "", textdoc.NewlineCRLF, time.Time{})
		assert.Equal(t, "a\r\nb\r\n", doc.String())
		assert.Equal(t, textdoc.SplitLines(doc.String()), doc.Lines())
	})

	t.Run("empty lines produce empty string", func(t *testing.T) {
		t.Parallel()

		doc := textdoc.FromLines(nil, "", "", time.Time{})
		assert.Empty(t, doc.String())
		assert.Equal(t, 0, doc.Len())
	})

	t.Run("does not alias input slice", func(t *testing.T) {
		t.Parallel()

		lines := []string{"x"}
		doc := textdoc.FromLines(lines, "", "", time.Time{})
		lines[0] = "y"
		assert.Equal(t, []string{"x"}, doc.Lines())
	})
}

func TestWithLinesKeepsMetadata(t *testing.T) {
	t.Parallel()

	mtime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	base := textdoc.FromLines([]string{"a"}, textdoc.EncodingUTF8BOM, textdoc.NewlineCRLF, mtime)

	derived := base.WithLines([]string{"b", "c"})
	assert.Equal(t, textdoc.EncodingUTF8BOM, derived.Encoding())
	assert.Equal(t, textdoc.NewlineCRLF, derived.Newline())
	assert.Equal(t, mtime, derived.ModTime())
	assert.Equal(t, "b\r\nc\r\n", derived.String())
	assert.Equal(t, "a\r\n", base.String())
}

func TestFromBytesEncodings(t *testing.T) {
	t.Parallel()

	t.Run("plain utf-8", func(t *testing.T) {
		t.Parallel()

		doc, err := textdoc.FromBytes([]byte("package p\n"))
		require.NoError(t, err)
		assert.Equal(t, textdoc.EncodingUTF8, doc.Encoding())

		out, err := doc.Encoded()
		require.NoError(t, err)
		assert.Equal(t, []byte("package p\n"), out)
	})

	t.Run("utf-8 with bom round trips", func(t *testing.T) {
		t.Parallel()

		raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("package p\n")...)
		doc, err := textdoc.FromBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, textdoc.EncodingUTF8BOM, doc.Encoding())
		assert.Equal(t, "package p\n", doc.String())

		out, err := doc.Encoded()
		require.NoError(t, err)
		assert.Equal(t, raw, out)
	})

	t.Run("utf-16le with bom", func(t *testing.T) {
		t.Parallel()

		raw := []byte{0xFF, 0xFE, 'a', 0, '\n', 0}
		doc, err := textdoc.FromBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, textdoc.EncodingUTF16LE, doc.Encoding())
		assert.Equal(t, []string{"a"}, doc.Lines())
	})
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	doc, err := textdoc.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"package main"}, doc.Lines())
	assert.False(t, doc.ModTime().IsZero())

	_, err = textdoc.FromFile(filepath.Join(dir, "missing.go"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
