package codegen

import "strings"

// splitTopLevelStatements breaks a JS/TS/JSX frontmatter source into
// top-level statement ranges. No JSX+TS-capable parser AST is importable
// from the retrieved corpus (esbuild's internal/js_ast is unexported;
// goja's public ast/parser pair has no JSX or TypeScript grammar; see
// SPEC_FULL.md §11 for the grounding of that decision. This is therefore
// a hand-rolled, brace/paren/bracket-depth-aware scanner: a statement ends
// when depth returns to zero at a ';', or at a '}' that closes a
// brace-bodied construct (function/class/block), optionally followed by a
// stray ';'. String, template-literal, and comment bodies are skipped
// without contributing to top-level depth; a template literal's `${...}`
// expressions are scanned recursively so a literal's own closing backtick
// is never mistaken for the start of a new one.
func splitTopLevelStatements(src string) []Range {
	var ranges []Range
	depth := 0
	stmtStart := 0
	n := len(src)

	i := 0
scan:
	for i < n {
		c := src[i]

		switch c {
		case '/':
			i = skipComment(src, i)
			continue scan

		case '\'', '"':
			i = skipQuoted(src, i)
			continue scan

		case '`':
			i = skipTemplateLiteral(src, i+1)
			continue scan

		case '{', '(', '[':
			depth++
			i++
			continue scan

		case '}':
			depth--
			i++
			if depth == 0 {
				// a '}' followed by `from` closes an import/export
				// specifier list, not a brace-bodied construct.
				rest := strings.TrimLeft(src[i:], " \t\r\n")
				if len(rest) > 4 && strings.HasPrefix(rest, "from") && strings.ContainsRune(" \t\r\n'\"", rune(rest[4])) {
					continue scan
				}
				i = consumeTrailingSemicolon(src, i)
				ranges = append(ranges, Range{Start: stmtStart, End: i})
				stmtStart = i
			}
			continue scan

		case ')', ']':
			depth--
			i++
			continue scan

		case ';':
			i++
			if depth == 0 {
				ranges = append(ranges, Range{Start: stmtStart, End: i})
				stmtStart = i
			}
			continue scan

		default:
			i++
			continue scan
		}
	}

	if stmtStart < n && !isTriviaOnly(src[stmtStart:n]) {
		ranges = append(ranges, Range{Start: stmtStart, End: n})
	}
	return ranges
}

// isTriviaOnly reports whether s contains nothing but whitespace and
// comments, so a trailing run of either after the last real statement
// doesn't get reported as a statement of its own.
func isTriviaOnly(s string) bool {
	i, n := 0, len(s)
	for i < n {
		if isJSWhitespace(s[i]) {
			i++
			continue
		}
		if s[i] == '/' && i+1 < n && (s[i+1] == '/' || s[i+1] == '*') {
			i = skipComment(s, i)
			continue
		}
		return false
	}
	return true
}

// skipComment advances past a line or block comment starting at i (which
// must point at a '/'); a bare '/' that isn't a comment opener advances by
// one.
func skipComment(src string, i int) int {
	n := len(src)
	if i+1 < n && src[i+1] == '/' {
		i += 2
		for i < n && src[i] != '\n' {
			i++
		}
		return i
	}
	if i+1 < n && src[i+1] == '*' {
		i += 2
		for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
			i++
		}
		return i + 2
	}
	return i + 1
}

// skipQuoted advances past a single- or double-quoted string literal
// starting at i (which must point at the opening quote).
func skipQuoted(src string, i int) int {
	n := len(src)
	quote := src[i]
	i++
	for i < n && src[i] != quote {
		if src[i] == '\\' {
			i++
		}
		i++
	}
	return i + 1
}

// skipTemplateLiteral advances past the remainder of a template literal
// whose opening backtick was already consumed (i points just past it). Any
// ${...} substitution is scanned recursively via skipBalancedExpr so a
// substitution's own strings, comments, and nested template literals never
// terminate the outer one early.
func skipTemplateLiteral(src string, i int) int {
	n := len(src)
	for i < n {
		switch {
		case src[i] == '\\':
			i += 2
		case src[i] == '`':
			return i + 1
		case src[i] == '$' && i+1 < n && src[i+1] == '{':
			i = skipBalancedExpr(src, i+2)
		default:
			i++
		}
	}
	return i
}

// skipBalancedExpr advances past a brace-balanced expression starting at i
// (just after a "${"), returning the index just past the matching '}'.
func skipBalancedExpr(src string, i int) int {
	n := len(src)
	depth := 1
	for i < n && depth > 0 {
		switch src[i] {
		case '{', '(', '[':
			depth++
			i++
		case '}', ')', ']':
			depth--
			i++
		case '\'', '"':
			i = skipQuoted(src, i)
		case '`':
			i = skipTemplateLiteral(src, i+1)
		case '/':
			i = skipComment(src, i)
		default:
			i++
		}
	}
	return i
}

func consumeTrailingSemicolon(src string, i int) int {
	j := i
	for j < len(src) && isJSWhitespace(src[j]) {
		j++
	}
	if j < len(src) && src[j] == ';' {
		return j + 1
	}
	return i
}

func isJSWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
