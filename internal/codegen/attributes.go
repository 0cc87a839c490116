package codegen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResolvedAttrs is the name -> code-fragment map an AttributeResolver pass
// produces (spec §4.2). Iteration order follows the node's attribute
// order; callers that need stable output should use Names().
//
// A Spread attribute resolves to a raw splice rather than a key/value
// pair (spec §4.2: "key is ...(<transpiled-expression>), value is \"\""),
// so it is tracked separately and its name doubles as the literal text to
// emit verbatim into the props object.
type ResolvedAttrs struct {
	names   []string
	values  map[string]string
	spreads map[string]bool
}

func newResolvedAttrs() *ResolvedAttrs {
	return &ResolvedAttrs{values: make(map[string]string), spreads: make(map[string]bool)}
}

func (r *ResolvedAttrs) set(name, code string) {
	if _, exists := r.values[name]; !exists {
		r.names = append(r.names, name)
	}
	r.values[name] = code
}

// setSpread records a Spread attribute's raw "...(<expr>)" splice text.
func (r *ResolvedAttrs) setSpread(raw string) {
	r.set(raw, `""`)
	r.spreads[raw] = true
}

// Names returns attribute names in first-seen order.
func (r *ResolvedAttrs) Names() []string { return r.names }

// Get returns the code fragment for name, if present.
func (r *ResolvedAttrs) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// IsSpread reports whether name is a raw splice produced by the Spread
// rule rather than a real attribute name.
func (r *ResolvedAttrs) IsSpread(name string) bool { return r.spreads[name] }

// resolveAttributes implements the AttributeResolver (spec §4.2).
func (cg *templateCodegen) resolveAttributes(n *Node) (*ResolvedAttrs, error) {
	out := newResolvedAttrs()
	for i := range n.Attrs {
		a := &n.Attrs[i]
		switch a.Kind {
		case AttrSpread:
			code, err := cg.transpileExpr(a.Spread)
			if err != nil {
				return nil, err
			}
			out.setSpread("...(" + code + ")")

		case AttrBoolTrue:
			out.set(a.Name, `"true"`)

		case AttrBoolFalse:
			// omitted entirely

		case AttrShorthand:
			out.set(a.Name, "("+a.Shorthand+")")

		case AttrValue:
			code, err := cg.resolveValueSegments(n, a)
			if err != nil {
				return nil, err
			}
			out.set(a.Name, code)

		default:
			return nil, fmt.Errorf("unknown attribute kind for %q", a.Name)
		}
	}
	return out, nil
}

func (cg *templateCodegen) resolveValueSegments(n *Node, a *Attr) (string, error) {
	switch len(a.Segments) {
	case 0:
		return `""`, nil
	case 1:
		seg := a.Segments[0]
		if seg.IsExpr {
			code, err := cg.transpileExpr(seg.Expr)
			if err != nil {
				return "", err
			}
			return "(" + code + ")", nil
		}
		cg.warnIfRelativeStringLiteral(n, seg.Text)
		return jsonString(seg.Text), nil
	default:
		parts := make([]string, 0, len(a.Segments))
		for _, seg := range a.Segments {
			if seg.IsExpr {
				code, err := cg.transpileExpr(seg.Expr)
				if err != nil {
					return "", err
				}
				// only the expression's first code chunk participates in the
				// join (spec §4.2); remaining chunks belong to children
				// spliced inside the expression, not the attribute value.
				if len(seg.Expr.Chunks) > 0 {
					parts = append(parts, seg.Expr.Chunks[0])
				} else {
					parts = append(parts, code)
				}
			} else {
				parts = append(parts, jsonString(seg.Text))
			}
		}
		return "(" + strings.Join(parts, "+") + ")", nil
	}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// warnIfRelativeStringLiteral emits a warning when value looks like a
// relative path literal and the current file is not under the configured
// pages root (spec §4.2). The page-root scoping is kept exactly as
// specified; see DESIGN.md for the Open Question decision.
func (cg *templateCodegen) warnIfRelativeStringLiteral(n *Node, value string) {
	if cg.underPagesRoot() {
		return
	}
	if !strings.HasPrefix(value, "./") && !strings.HasPrefix(value, "../") {
		return
	}
	pos := cg.positionFor(n.Range.Start)
	cg.opts.Logging.Warn(diagnostic(cg.state.Filename, pos, renderCodeFrame(cg.state.Filename, pos),
		fmt.Sprintf("relative path literal %q may not resolve as expected outside a page file", value)))
}
