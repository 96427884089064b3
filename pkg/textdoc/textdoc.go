// Package textdoc provides an immutable line-oriented view of a source file.
//
// A Document remembers the encoding and newline style of the bytes it was
// created from so that reformatted content can be written back in the same
// form. Documents are never mutated; every transformation produces a new one.
package textdoc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names recognized by FromBytes.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-sig"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
)

// Newline styles.
const (
	NewlineLF   = "\n"
	NewlineCRLF = "\r\n"
)

// ErrUnknownEncoding is returned when a document names an encoding we cannot write.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Document is file content split into lines plus the metadata needed to
// reconstruct the original bytes.
type Document struct {
	str      string
	hasStr   bool
	lines    []string
	encoding string
	newline  string
	mtime    time.Time
}

// FromString creates a Document from decoded text. The newline style is taken
// from the first line ending found in the text.
func FromString(text string) *Document {
	return &Document{
		str:      text,
		hasStr:   true,
		lines:    SplitLines(text),
		encoding: EncodingUTF8,
		newline:  detectNewline(text),
	}
}

// FromLines creates a Document from lines without line terminators.
// The reconstructed string joins lines with newline and ends with a newline
// unless lines is empty.
func FromLines(lines []string, enc, newline string, mtime time.Time) *Document {
	if enc == "" {
		enc = EncodingUTF8
	}
	if newline == "" {
		newline = NewlineLF
	}
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &Document{
		lines:    cp,
		encoding: enc,
		newline:  newline,
		mtime:    mtime,
	}
}

// FromBytes decodes raw file content. A byte order mark selects UTF-8 or
// UTF-16 decoding; anything else is taken as UTF-8.
func FromBytes(data []byte) (*Document, error) {
	enc, name := detectEncoding(data)
	text := data
	if enc != nil {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		text = decoded
	}
	doc := FromString(string(text))
	doc.encoding = name
	return doc, nil
}

// FromFile reads and decodes the file at path, recording its modification time.
func FromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if info, statErr := os.Stat(path); statErr == nil {
		doc.mtime = info.ModTime()
	}
	return doc, nil
}

// Empty returns a Document with no lines.
func Empty() *Document {
	return FromString("")
}

// Lines returns the document lines without line terminators.
// The returned slice must not be modified.
func (d *Document) Lines() []string {
	return d.lines
}

// String returns the full text of the document.
func (d *Document) String() string {
	if d.hasStr {
		return d.str
	}
	if len(d.lines) == 0 {
		return ""
	}
	return strings.Join(d.lines, d.newline) + d.newline
}

// Encoding returns the name of the encoding the document was decoded from.
func (d *Document) Encoding() string {
	return d.encoding
}

// Newline returns the newline style of the document.
func (d *Document) Newline() string {
	return d.newline
}

// ModTime returns the modification time recorded when the document was read.
func (d *Document) ModTime() time.Time {
	return d.mtime
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.lines)
}

// Equal reports whether both documents have identical text.
func (d *Document) Equal(other *Document) bool {
	if other == nil {
		return false
	}
	return d.String() == other.String()
}

// WithLines returns a new Document holding lines but keeping this
// document's encoding, newline style and modification time.
func (d *Document) WithLines(lines []string) *Document {
	return FromLines(lines, d.encoding, d.newline, d.mtime)
}

// WithModTime returns a copy of the document carrying mtime.
func (d *Document) WithModTime(mtime time.Time) *Document {
	doc := *d
	doc.mtime = mtime
	return &doc
}

// Encoded returns the document text encoded in its original encoding.
func (d *Document) Encoded() ([]byte, error) {
	text := []byte(d.String())
	var enc encoding.Encoding
	switch d.encoding {
	case "", EncodingUTF8:
		return text, nil
	case EncodingUTF8BOM:
		enc = unicode.UTF8BOM
	case EncodingUTF16LE:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case EncodingUTF16BE:
		enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, d.encoding)
	}
	out, err := enc.NewEncoder().Bytes(text)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", d.encoding, err)
	}
	return out, nil
}

// SplitLines splits text at \n and \r\n, dropping the terminators.
// A trailing terminator does not produce an extra empty line. Lone \r is
// kept as content so line numbers agree with go/scanner positions.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func detectNewline(text string) string {
	idx := strings.IndexByte(text, '\n')
	if idx > 0 && text[idx-1] == '\r' {
		return NewlineCRLF
	}
	return NewlineLF
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

func detectEncoding(data []byte) (encoding.Encoding, string) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return unicode.UTF8BOM, EncodingUTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), EncodingUTF16BE
	default:
		return nil, EncodingUTF8
	}
}
