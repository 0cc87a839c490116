package codegen

import "strings"

var hydrationMethods = map[string]bool{
	"load":    true,
	"idle":    true,
	"visible": true,
	"media":   true,
	"only":    true,
}

// Hydration is the result of classifying a node's hydration directive
// (spec §4.3): at most one such directive may apply.
type Hydration struct {
	Present bool
	Method  string
	Value   string // "" (undefined) when the raw attribute value was the literal "true"
	HasValue bool
}

// classifyHydration finds the first client:<method> key in the resolved
// attribute map. value is undefined when the attribute's raw value was the
// literal "true"; otherwise it is the raw value.
func classifyHydration(n *Node, resolved *ResolvedAttrs) Hydration {
	for _, name := range resolved.Names() {
		method, ok := hydrationDirectiveMethod(name)
		if !ok {
			continue
		}
		if a, ok := n.Attr(name); ok && a.Kind == AttrBoolTrue {
			return Hydration{Present: true, Method: method}
		}
		raw, isSingleText := rawSingleText(n, name)
		if isSingleText && raw == "true" {
			return Hydration{Present: true, Method: method}
		}
		if isSingleText {
			return Hydration{Present: true, Method: method, Value: raw, HasValue: true}
		}
		// non-literal attribute value: still a directive, value carried as
		// the resolved code fragment rather than a raw string.
		code, _ := resolved.Get(name)
		return Hydration{Present: true, Method: method, Value: code, HasValue: true}
	}
	return Hydration{}
}

func hydrationDirectiveMethod(name string) (string, bool) {
	const prefix = "client:"
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	method := strings.TrimPrefix(name, prefix)
	if !hydrationMethods[method] {
		return "", false
	}
	return method, true
}

func rawSingleText(n *Node, name string) (string, bool) {
	a, ok := n.Attr(name)
	if !ok || a.Kind != AttrValue || len(a.Segments) != 1 || a.Segments[0].IsExpr {
		return "", false
	}
	return a.Segments[0].Text, true
}

// legacyHydrationSplit detects the deprecated <Name:method /> tag-name
// syntax before attribute resolution (spec §4.3). It is a pure
// pre-resolution normalization step, not a branch inside the wrapper
// synthesizer (spec §9 design note).
func legacyHydrationSplit(tagName string) (name, method string, matched bool) {
	idx := strings.Index(tagName, ":")
	if idx < 0 {
		return tagName, "", false
	}
	name = tagName[:idx]
	method = tagName[idx+1:]
	if !hydrationMethods[method] {
		return tagName, "", false
	}
	return name, method, true
}
