package gosyntax

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ErrNotEquivalent indicates that reformatted content no longer has the same
// syntax tree as the content it was produced from.
var ErrNotEquivalent = errors.New("reformatted code is not equivalent to the original")

// NotEquivalentError reports where two syntax trees first diverge.
type NotEquivalentError struct {
	// Reason is a short description of the mismatch.
	Reason string

	// Original and Reformatted are the first differing lines of the two tree
	// dumps, empty when the mismatch is not a tree difference.
	Original    string
	Reformatted string
}

func (e *NotEquivalentError) Error() string {
	if e.Original == "" && e.Reformatted == "" {
		return fmt.Sprintf("%v: %s", ErrNotEquivalent, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %q != %q", ErrNotEquivalent, e.Reason, e.Original, e.Reformatted)
}

func (e *NotEquivalentError) Unwrap() error {
	return ErrNotEquivalent
}

// VerifyOption adjusts how VerifyASTUnchanged compares trees.
type VerifyOption func(*verifyConfig)

type verifyConfig struct {
	ignoreImports bool
}

// IgnoreImports leaves import declarations out of the comparison. Use it with
// formatters that add or remove imports.
func IgnoreImports() VerifyOption {
	return func(cfg *verifyConfig) {
		cfg.ignoreImports = true
	}
}

// VerifyASTUnchanged parses both sources and compares their syntax trees,
// ignoring positions, comments, the spelling of literals and the order of
// specs within an import declaration. It returns an error wrapping
// ErrInvalidSource when original does not parse and a *NotEquivalentError
// when reformatted does not parse or its tree differs.
func VerifyASTUnchanged(original, reformatted string, opts ...VerifyOption) error {
	var cfg verifyConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	want, err := dumpAST(original, cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	got, err := dumpAST(reformatted, cfg)
	if err != nil {
		return &NotEquivalentError{Reason: fmt.Sprintf("reformatted code does not parse: %v", err)}
	}
	if want == got {
		return nil
	}

	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")
	for idx := range min(len(wantLines), len(gotLines)) {
		if wantLines[idx] != gotLines[idx] {
			return &NotEquivalentError{
				Reason:      fmt.Sprintf("syntax trees differ at node line %d", idx+1),
				Original:    strings.TrimSpace(wantLines[idx]),
				Reformatted: strings.TrimSpace(gotLines[idx]),
			}
		}
	}
	return &NotEquivalentError{Reason: "syntax trees differ in size"}
}

var posType = reflect.TypeFor[token.Pos]()

// presentPos replaces positions whose presence alone carries meaning, such as
// the "..." of a variadic call or the "=" of a type alias.
const presentPos token.Pos = 1

// dumpAST parses src and prints its tree without positions, comments or
// object resolution data. Positions named Ellipsis and Assign are kept after
// normalize has reduced them to presence markers.
func dumpAST(src string, cfg verifyConfig) (string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.SkipObjectResolution)
	if err != nil {
		return "", err
	}
	normalize(file, cfg)

	var buf bytes.Buffer
	err = ast.Fprint(&buf, nil, file, func(name string, value reflect.Value) bool {
		if value.IsValid() && value.Type() == posType {
			return name == "Ellipsis" || name == "Assign"
		}
		switch name {
		case "Doc", "Comment", "Comments", "Imports", "Unresolved", "Scope", "Obj":
			return false
		}
		return ast.NotNilFilter(name, value)
	})
	if err != nil {
		return "", fmt.Errorf("print syntax tree: %w", err)
	}
	return buf.String(), nil
}

// normalize rewrites the parts of a tree that gofmt is allowed to change
// without changing the program.
func normalize(file *ast.File, cfg verifyConfig) {
	decls := file.Decls[:0:0]
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if ok && gen.Tok == token.IMPORT {
			if cfg.ignoreImports {
				continue
			}
			gen.Specs = sortImports(gen.Specs)
		}
		decls = append(decls, decl)
	}
	file.Decls = decls

	ast.Inspect(file, func(node ast.Node) bool {
		switch node := node.(type) {
		case *ast.BasicLit:
			node.Value = canonicalLiteral(node.Kind, node.Value)
		case *ast.CallExpr:
			node.Ellipsis = presence(node.Ellipsis)
		case *ast.TypeSpec:
			node.Assign = presence(node.Assign)
		case *ast.Ellipsis:
			node.Ellipsis = presentPos
		}
		return true
	})
}

func presence(pos token.Pos) token.Pos {
	if pos.IsValid() {
		return presentPos
	}
	return token.NoPos
}

// sortImports orders import specs by path then name and drops exact
// duplicates, as gofmt does.
func sortImports(specs []ast.Spec) []ast.Spec {
	key := func(spec ast.Spec) (string, string) {
		imp, ok := spec.(*ast.ImportSpec)
		if !ok {
			return "", ""
		}
		name := ""
		if imp.Name != nil {
			name = imp.Name.Name
		}
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			path = imp.Path.Value
		}
		return path, name
	}

	sorted := slices.Clone(specs)
	slices.SortStableFunc(sorted, func(a, b ast.Spec) int {
		pathA, nameA := key(a)
		pathB, nameB := key(b)
		return cmp.Or(cmp.Compare(pathA, pathB), cmp.Compare(nameA, nameB))
	})
	return slices.CompactFunc(sorted, func(a, b ast.Spec) bool {
		pathA, nameA := key(a)
		pathB, nameB := key(b)
		return pathA == pathB && nameA == nameB
	})
}

// canonicalLiteral returns a spelling of a literal that is the same for every
// way of writing the same value.
func canonicalLiteral(kind token.Token, value string) string {
	switch kind {
	case token.INT, token.FLOAT, token.IMAG:
		val := constant.MakeFromLiteral(value, kind, 0)
		if val.Kind() == constant.Unknown {
			return value
		}
		return val.ExactString()
	case token.STRING, token.CHAR:
		unquoted, err := strconv.Unquote(value)
		if err != nil {
			return value
		}
		return strconv.Quote(unquoted)
	default:
		return value
	}
}
