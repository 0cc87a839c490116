package codegen

// NodeKind identifies the shape of a node in the parsed template AST.
// The parser producing this tree is out of scope (spec §1); this file
// only describes the contract the walker consumes.
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindElement
	KindInlineComponent
	KindFragment
	KindSlot
	KindSlotTemplate
	KindHead
	KindTitle
	KindBody
	KindText
	KindMustacheTag
	KindExpression
	KindCodeSpan
	KindCodeFence
	KindComment
	KindStyle
)

// AttrKind classifies a single attribute node before resolution.
type AttrKind int

const (
	AttrValue AttrKind = iota // text/mustache segments, possibly empty or multi
	AttrSpread
	AttrShorthand
	AttrBoolTrue
	AttrBoolFalse // explicit false, or an undefined value
)

// Segment is one piece of a (possibly multi-segment) attribute value, e.g.
// `a="x/{y}/z"` has three segments: text, mustache, text.
type Segment struct {
	IsExpr bool   // true if this segment is an embedded expression
	Text   string // raw text for a text segment
	Expr   *Expr  // transpile target for an expression segment
}

// Attr is a single attribute on an Element/InlineComponent/Slot node.
type Attr struct {
	Kind      AttrKind
	Name      string
	Segments  []Segment // used by AttrValue: zero, one, or many segments
	Shorthand string    // used by AttrShorthand: bare identifier name
	Spread    *Expr     // used by AttrSpread
	Range     Range
}

// Expr is an embedded-expression fragment carrying its own source range so
// diagnostics can be positioned accurately (spec §4.1).
type Expr struct {
	Source string
	Range  Range
	// Children interleaved between code chunks, for Expression nodes whose
	// body mixes code and child template nodes (spec §3).
	Chunks   []string
	Children []*Node
}

// Range is a byte-offset span into the original source file.
type Range struct {
	Start, End int
}

// Node is a single element of the parsed template tree.
type Node struct {
	Kind     NodeKind
	Data     string // tag name for Element/InlineComponent, raw text for Text/Style/CodeFence
	Attrs    []Attr
	Children []*Node
	Range    Range

	// Expression-only fields (KindExpression).
	Expr *Expr

	// MustacheTag-only field.
	Mustache *Expr

	// Meta bitmask carried from the parser; only FeatureCustomElement is
	// consumed by this module (spec §3).
	Meta uint32
}

const FeatureCustomElement uint32 = 1 << 0

// HasFeature reports whether the document-level meta bitmask has a flag set.
func (n *Node) HasFeature(flag uint32) bool {
	return n != nil && n.Meta&flag != 0
}

// Module is the frontmatter script block: raw text plus its byte range in
// the original file.
type Module struct {
	Source string
	Range  Range
}

// Document is the root of the input AST (spec §3): an optional frontmatter
// module, an ordered list of style blocks, and an HTML root.
type Document struct {
	Module *Module
	Styles []*Node // KindStyle nodes
	HTML   *Node   // root of the template tree
	Meta   uint32
}

// Attr returns the first attribute with the given name, whatever its kind,
// and whether one was found at all.
func (n *Node) Attr(name string) (*Attr, bool) {
	if n == nil {
		return nil, false
	}
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			return &n.Attrs[i], true
		}
	}
	return nil, false
}
