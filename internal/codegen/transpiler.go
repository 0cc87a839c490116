package codegen

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Transpiler translates a source-level embedded-expression fragment into
// plain ECMAScript (spec §4.1). The front-end parser producing the
// fragment's location is out of scope; callers supply the fragment's
// start line/column in the original file so diagnostics can be
// re-anchored there.
type Transpiler interface {
	Transpile(filename, fragment string, startLine, startColumn int) (string, *Error)
}

// EsbuildTranspiler wraps esbuild's public Transform API. esbuild's own
// AST (internal/js_ast) is not importable from outside its module, so the
// adapter only ever sees esbuild's transformed text and its Location-
// bearing diagnostics, never a walkable tree.
type EsbuildTranspiler struct{}

// NewEsbuildTranspiler returns the default ExpressionTranspiler adapter.
func NewEsbuildTranspiler() *EsbuildTranspiler { return &EsbuildTranspiler{} }

func (t *EsbuildTranspiler) Transpile(filename, fragment string, startLine, startColumn int) (string, *Error) {
	result := api.Transform(fragment, api.TransformOptions{
		Loader:     api.LoaderTSX,
		Target:     api.ESNext,
		Sourcefile: filename,
	})

	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		pos := offsetLocation(msg.Location, startLine, startColumn)
		return "", &Error{
			Filename: filename,
			Start:    pos,
			Frame:    renderCodeFrame(filename, pos),
			Message:  msg.Text,
		}
	}

	code := string(result.Code)
	code = strings.TrimRight(code, " \t\r\n")
	code = strings.TrimSuffix(code, ";")
	code = strings.TrimRight(code, " \t\r\n")
	return code, nil
}

// offsetLocation adds the fragment's start line/column to esbuild's
// fragment-local location so the diagnostic points at the user's source
// (spec §4.1). esbuild reports 1-indexed lines and 0-indexed UTF-16
// columns; both are normalized to 1-indexed here.
func offsetLocation(loc *api.Location, startLine, startColumn int) Position {
	if loc == nil {
		return Position{Line: startLine, Column: startColumn}
	}
	line := startLine + (loc.Line - 1)
	column := loc.Column + 1
	if loc.Line == 1 {
		column += startColumn - 1
	}
	return Position{Line: line, Column: column}
}
