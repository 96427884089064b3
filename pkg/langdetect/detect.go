// Package langdetect classifies source files before they are reformatted.
// It uses go-enry to recognise Go sources and to tell vendored and generated
// files apart from hand-written code.
package langdetect

import (
	"bufio"
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// LanguageGo is the go-enry name of the Go language.
const LanguageGo = "Go"

// generatedHeader matches the marker line described in "go help generate".
var generatedHeader = regexp.MustCompile(`^// Code generated .* DO NOT EDIT\.$`)

// Classification describes a single file.
type Classification struct {
	// Language is the go-enry language name, or "" when unknown.
	Language string

	// Vendored is set for files under vendor trees and similar locations.
	Vendored bool

	// Generated is set for machine-generated files.
	Generated bool
}

// IsGo reports whether the file is Go source.
func (c Classification) IsGo() bool {
	return c.Language == LanguageGo
}

// Skip reports whether discovery should leave the file alone.
func (c Classification) Skip() bool {
	return !c.IsGo() || c.Vendored || c.Generated
}

// Classify inspects path and, when available, its content. Content may be
// nil, in which case only the path is used.
func Classify(path string, content []byte) Classification {
	slashed := filepath.ToSlash(path)

	lang := enry.GetLanguage(filepath.Base(path), content)
	if lang == "" && strings.EqualFold(filepath.Ext(path), ".go") {
		lang = LanguageGo
	}

	return Classification{
		Language:  lang,
		Vendored:  enry.IsVendor(slashed),
		Generated: isGenerated(slashed, content),
	}
}

func isGenerated(path string, content []byte) bool {
	if len(content) > 0 && hasGeneratedHeader(content) {
		return true
	}
	return enry.IsGenerated(path, content)
}

// hasGeneratedHeader looks for the marker before the package clause.
func hasGeneratedHeader(content []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if generatedHeader.MatchString(line) {
			return true
		}
		if strings.HasPrefix(line, "package ") {
			return false
		}
	}
	return false
}
