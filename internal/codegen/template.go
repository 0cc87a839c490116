package codegen

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	importElementRegistryLine = `import __astro_element_registry from "astro/element-registry.js";`
	importWrapperRuntimeLine  = `import { __astro_component } from "astro/internal/index.js";`
	importPrismLine           = `import Prism from "astro/components/Prism.astro";`
)

// templateCodegen is the TemplateCodegen walk state (spec §4.6): a dual
// buffer (out/markdown) selected by curr, a paren counter tracking
// unclosed h( calls (spec §3 invariant 4), and the Markdown-region depth
// marker. One instance lives for one walk; Markdown flush recurses by
// constructing a fresh instance over the reparsed subtree (spec §4.6.2).
type templateCodegen struct {
	state      *CodegenState
	opts       CompileOptions
	transpiler Transpiler
	lines      *lineIndex

	out      strings.Builder
	markdown strings.Builder
	curr     *strings.Builder

	paren  int
	marker markdownMarker
}

func newTemplateCodegen(state *CodegenState, opts CompileOptions, transpiler Transpiler) *templateCodegen {
	cg := &templateCodegen{
		state:      state,
		opts:       opts,
		transpiler: transpiler,
		lines:      newLineIndex(state.Filename),
		paren:      -1,
	}
	cg.curr = &cg.out
	return cg
}

// runTemplateCodegen walks root and returns the cleaned-up html expression
// (spec §4.6, §4.6.3).
func runTemplateCodegen(state *CodegenState, opts CompileOptions, transpiler Transpiler, root *Node) (string, error) {
	cg := newTemplateCodegen(state, opts, transpiler)
	if root == nil {
		return "", nil
	}
	if err := cg.walk(root, nil); err != nil {
		return "", err
	}
	state.markers = cg.marker
	return cleanupOutput(cg.out.String()), nil
}

func (cg *templateCodegen) transpileExpr(e *Expr) (string, error) {
	if e == nil {
		return "", nil
	}
	pos := cg.positionFor(e.Range.Start)
	code, terr := cg.transpiler.Transpile(cg.state.Filename, e.Source, pos.Line, pos.Column)
	if terr != nil {
		return "", terr
	}
	return code, nil
}

func (cg *templateCodegen) positionFor(offset int) Position {
	return cg.lines.Position(offset)
}

func (cg *templateCodegen) underPagesRoot() bool {
	pages := cg.opts.AstroConfig.Pages
	if pages == nil {
		return false
	}
	return strings.HasPrefix(cg.state.Filename, pages.Path)
}

func (cg *templateCodegen) warnDeprecated(n *Node, message string) {
	pos := cg.positionFor(n.Range.Start)
	cg.opts.Logging.Warn(diagnostic(cg.state.Filename, pos, renderCodeFrame(cg.state.Filename, pos), message))
}

func (cg *templateCodegen) commaIfNeeded() {
	if cg.curr.Len() > 0 {
		cg.curr.WriteByte(',')
	}
}

// walk is the enter/leave-folded in-order visitor. parent is nil for the
// root of a walk: the document root, a reparsed Markdown subtree, or a
// child rendered in isolation by renderSubtree.
func (cg *templateCodegen) walk(n *Node, parent *Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindDocument:
		for _, c := range n.Children {
			if err := cg.walk(c, n); err != nil {
				return err
			}
		}
		return nil
	case KindFragment:
		return cg.emitFragment(n)
	case KindSlotTemplate:
		return cg.emitSlotTemplate(n)
	case KindSlot:
		return cg.emitSlot(n)
	case KindElement, KindHead, KindTitle, KindBody:
		return cg.emitElementOrComponent(n, false)
	case KindInlineComponent:
		return cg.emitElementOrComponent(n, true)
	case KindExpression:
		return cg.walkExpression(n)
	case KindMustacheTag:
		return cg.walkMustacheTag(n)
	case KindStyle:
		cg.state.CSS = append(cg.state.CSS, n.Data)
		return nil
	case KindComment:
		return nil
	case KindText:
		return cg.walkText(n, parent)
	case KindCodeSpan, KindCodeFence:
		return cg.walkCode(n)
	default:
		return newError(cg.state.Filename, cg.positionFor(n.Range.Start), fmt.Sprintf("unknown node kind %d", n.Kind))
	}
}

func (cg *templateCodegen) emitFragment(n *Node) error {
	cg.commaIfNeeded()
	cg.curr.WriteString("h(Fragment, null,")
	cg.paren++
	for _, c := range n.Children {
		if err := cg.walk(c, n); err != nil {
			return err
		}
	}
	cg.curr.WriteString(")")
	if cg.paren >= 0 {
		cg.paren--
	}
	return nil
}

func (cg *templateCodegen) emitSlotTemplate(n *Node) error {
	cg.commaIfNeeded()
	cg.curr.WriteString("h(Fragment, null, children")
	cg.paren++
	for _, c := range n.Children {
		if err := cg.walk(c, n); err != nil {
			return err
		}
	}
	cg.curr.WriteString(")")
	if cg.paren >= 0 {
		cg.paren--
	}
	return nil
}

func (cg *templateCodegen) emitSlot(n *Node) error {
	resolvedAttrs, err := cg.resolveAttributes(n)
	if err != nil {
		return err
	}
	cg.commaIfNeeded()
	cg.curr.WriteString("h(__astro_slot, " + cg.buildPropsObject(resolvedAttrs, "") + ", children")
	cg.paren++
	cg.curr.WriteString(")")
	if cg.paren >= 0 {
		cg.paren--
	}
	return nil
}

// emitElementOrComponent handles the "Element or an InlineComponent/Slot/
// Head/Title" bucket of enter rules (spec §4.6), minus Slot which is
// handled separately since it never recurses into its own children.
func (cg *templateCodegen) emitElementOrComponent(n *Node, isComponent bool) error {
	tagName := n.Data
	legacyMethod := ""
	if isComponent {
		if base, method, matched := legacyHydrationSplit(tagName); matched {
			cg.warnDeprecated(n, fmt.Sprintf("legacy hydration syntax <%s> is deprecated; use client:%s instead", tagName, method))
			tagName = base
			legacyMethod = method
		}
	}

	resolvedAttrs, err := cg.resolveAttributes(n)
	if err != nil {
		return err
	}
	hydration := classifyHydration(n, resolvedAttrs)
	if legacyMethod != "" {
		hydration = Hydration{Present: true, Method: legacyMethod}
	}

	// Prism falls through to the plain-element path rather than going
	// through wrapper synthesis (spec §9 open question, kept as the
	// documented special case).
	if isComponent && tagName == "Prism" {
		cg.ensurePrismDescriptor()
		return cg.emitTaggedCall(n, jsonString(tagName), resolvedAttrs, "")
	}

	if !isComponent && !customElementName(tagName) {
		return cg.emitTaggedCall(n, jsonString(tagName), resolvedAttrs, "")
	}

	resolved, rerr := cg.state.resolveComponent(tagName)
	if rerr != nil {
		return newError(cg.state.Filename, cg.positionFor(n.Range.Start), rerr.Error())
	}

	switch resolved.Class {
	case ClassFrontmatterDefined, ClassFragment:
		if hydration.Present {
			return newError(cg.state.Filename, cg.positionFor(n.Range.Start), "hydration directive on frontmatter-defined component")
		}
		return cg.emitTaggedCall(n, resolved.LocalName, resolvedAttrs, "")

	case ClassImported:
		if resolved.LocalName == "Markdown" {
			return cg.emitMarkdownComponent(n, resolved, resolvedAttrs)
		}
		fallthrough
	case ClassCustomElement:
		skip := ""
		if hydration.Present && legacyMethod == "" {
			skip = "client:" + hydration.Method
		}
		wrapper, werr := cg.componentWrapper(resolved, tagName, hydration)
		if werr != nil {
			return werr
		}
		return cg.emitTaggedCall(n, wrapper, resolvedAttrs, skip)
	}
	return nil
}

// emitTaggedCall is the shared emission for any node that becomes exactly
// one h(tagExpr, props, ...children) call, optionally wrapped in an
// h(__astro_slot_content, ...) when a slot attribute is present (spec
// §4.6). tagExpr is already-formatted code: a quoted string literal for
// a plain tag, or a bare identifier/wrapper-call expression otherwise.
func (cg *templateCodegen) emitTaggedCall(n *Node, tagExpr string, resolvedAttrs *ResolvedAttrs, skipAttr string) error {
	if cg.marker.insideMarkdown() {
		if err := cg.flushMarkdown(); err != nil {
			return err
		}
	}

	slotCode, hadSlot := resolvedAttrs.Get("slot")
	cg.commaIfNeeded()
	if hadSlot {
		cg.curr.WriteString("h(__astro_slot_content, {name: " + slotCode + "},")
		cg.paren++
	}

	cg.curr.WriteString("h(" + tagExpr + "," + cg.buildPropsObject(resolvedAttrs, skipAttr))
	cg.paren++
	for _, c := range n.Children {
		if err := cg.walk(c, n); err != nil {
			return err
		}
	}
	cg.curr.WriteString(")")
	if cg.paren >= 0 {
		cg.paren--
	}
	if hadSlot {
		cg.curr.WriteString(")")
		if cg.paren >= 0 {
			cg.paren--
		}
	}
	return nil
}

// buildPropsObject renders the props object literal every emitted element
// and component carries: a fixed __astroContext entry plus the resolved
// attributes, skipping the one that was consumed as a hydration directive.
func (cg *templateCodegen) buildPropsObject(resolved *ResolvedAttrs, skip string) string {
	var b strings.Builder
	b.WriteString("{[__astroContext]:props[__astroContext]")
	for _, name := range resolved.Names() {
		if name == skip {
			continue
		}
		b.WriteString(",")
		if resolved.IsSpread(name) {
			b.WriteString(name)
			continue
		}
		code, _ := resolved.Get(name)
		b.WriteString(jsonString(name))
		b.WriteString(":")
		b.WriteString(code)
	}
	b.WriteString("}")
	return b.String()
}

// emitMarkdownComponent implements the "Markdown component" enter rule
// (spec §4.6): it does not itself become an h(...) call (unless it carries
// attributes beyond $scope, in which case it also emits a __render call),
// it switches curr into the markdown buffer for its children.
func (cg *templateCodegen) emitMarkdownComponent(n *Node, resolved *ResolvedComponent, resolvedAttrs *ResolvedAttrs) error {
	cg.marker.enter(cg.state.Filename)

	hasOther := false
	for _, name := range resolvedAttrs.Names() {
		if name != "$scope" {
			hasOther = true
			break
		}
	}
	if hasOther {
		if err := cg.flushMarkdown(); err != nil {
			return err
		}
		cg.curr.WriteString("," + resolved.LocalName + ".__render(" + cg.buildPropsObject(resolvedAttrs, "") + "),")
	}

	cg.curr = &cg.markdown
	for _, c := range n.Children {
		if err := cg.walk(c, n); err != nil {
			return err
		}
	}
	cg.marker.leave()
	if !cg.marker.insideMarkdown() {
		return cg.flushMarkdown()
	}
	return nil
}

// flushMarkdown implements §4.6.2: dedent, render, re-parse, recursively
// codegen the resulting subtree with a fresh (insideMarkdown=false) walker,
// and splice the result into out.
func (cg *templateCodegen) flushMarkdown() error {
	if cg.markdown.Len() == 0 {
		cg.curr = &cg.out
		return nil
	}
	text := cg.markdown.String()
	cg.markdown.Reset()
	cg.curr = &cg.out

	scope := "astro-" + cg.state.FileID
	rendered, err := renderMarkdown(text, scope)
	if err != nil {
		return err
	}
	root, err := reparseHTML(rendered)
	if err != nil {
		return err
	}

	sub := newTemplateCodegen(cg.state, cg.opts, cg.transpiler)
	if err := sub.walk(root, nil); err != nil {
		return err
	}
	result := cleanupOutput(sub.out.String())
	cg.curr.WriteString("," + result)
	return nil
}

// ensurePrismDescriptor implements the standalone "Prism inline-component"
// enter rule (spec §4.6): a fixed import is guaranteed present and a
// synthetic component descriptor is injected if the user never imported
// Prism themselves.
func (cg *templateCodegen) ensurePrismDescriptor() {
	cg.state.addImport(importPrismLine)
	if _, ok := cg.state.Components["Prism"]; !ok {
		cg.state.Components["Prism"] = ComponentInfo{
			ImportSpecifierKind: ImportDefault,
			ImportedLocalName:   "Prism",
			SourceURL:           "astro/components/Prism.astro",
		}
		cg.state.ComponentImports["Prism"] = append(cg.state.ComponentImports["Prism"], importPrismLine)
	}
}

// componentWrapper implements §4.6.1: given a resolved component class,
// name, and hydration classification, render the wrapper expression that
// becomes the tag position of the enclosing h(...) call.
func (cg *templateCodegen) componentWrapper(resolved *ResolvedComponent, tagName string, hydration Hydration) (string, error) {
	switch resolved.Class {
	case ClassCustomElement:
		cg.state.addImport(importElementRegistryLine)
		cg.state.addImport(importWrapperRuntimeLine)
		methodLiteral := "undefined"
		if hydration.Present {
			methodLiteral = jsonString(hydration.Method)
		}
		return renderWrapper(tmplCustomElement, wrapperData{
			TagLiteral:    jsonString(tagName),
			MethodLiteral: methodLiteral,
			DisplayName:   jsonString(tagName),
		})

	case ClassImported:
		cg.state.addImport(importWrapperRuntimeLine)
		identifier := resolved.LocalName

		if !hydration.Present {
			return renderWrapper(tmplPlain, wrapperData{
				Identifier:  identifier,
				DisplayName: jsonString(tagName),
				Value:       "null",
			})
		}

		if hydration.Method == "only" {
			identifier = "Fragment"
			cg.removeRawImports(resolved.LocalName)
		}
		value := "null"
		if hydration.HasValue {
			value = hydration.Value
		}
		return renderWrapper(tmplHydrated, wrapperData{
			Identifier:           identifier,
			MethodLiteral:        jsonString(hydration.Method),
			DisplayName:          jsonString(tagName),
			ComponentURL:         jsonString(resolved.RuntimeURL),
			ComponentExportValue: componentExportValue(resolved, tagName),
			Value:                value,
		})
	}
	return "", fmt.Errorf("componentWrapper: unsupported class for %q", tagName)
}

func (cg *templateCodegen) removeRawImports(localName string) {
	for _, line := range cg.state.ComponentImports[localName] {
		cg.state.removeImport(line)
	}
}

// componentExportValue determines the componentExport.value field (spec
// §4.6.1) from the import-specifier kind that produced the resolved
// component.
func componentExportValue(resolved *ResolvedComponent, tagName string) string {
	switch resolved.Info.ImportSpecifierKind {
	case ImportNamed:
		return jsonString(resolved.Info.ImportedExportedName)
	case ImportNamespace:
		if idx := strings.Index(tagName, "."); idx >= 0 {
			return jsonString(tagName[idx+1:])
		}
		return jsonString(tagName)
	default:
		return jsonString("default")
	}
}

func (cg *templateCodegen) walkExpression(n *Node) error {
	e := n.Expr
	if e == nil {
		return nil
	}

	if len(e.Children) > 0 {
		var b strings.Builder
		for i, child := range e.Children {
			if i < len(e.Chunks) {
				b.WriteString(e.Chunks[i])
			}
			sub, err := cg.renderSubtree(child)
			if err != nil {
				return err
			}
			b.WriteString(sub)
		}
		if len(e.Chunks) > len(e.Children) {
			b.WriteString(e.Chunks[len(e.Children)])
		}
		return cg.emitExpressionCode(n, b.String())
	}

	code, err := cg.transpileExpr(e)
	if err != nil {
		return cg.recoverExpressionError(n, err)
	}
	if isSkippableExpression(code) {
		return nil
	}
	return cg.emitExpressionCode(n, code)
}

func isSkippableExpression(code string) bool {
	switch strings.TrimSpace(code) {
	case "false", "null", "undefined", "void 0":
		return true
	}
	return false
}

func (cg *templateCodegen) emitExpressionCode(n *Node, code string) error {
	if cg.marker.insideMarkdown() {
		cg.markdown.WriteString("{" + code + "}")
		return nil
	}
	cg.curr.WriteString(",(" + code + ")")
	return nil
}

// recoverExpressionError implements the "recovered locally" error kind
// (spec §7): report via the sink, keep paren balanced, keep walking.
func (cg *templateCodegen) recoverExpressionError(n *Node, err error) error {
	pos := cg.positionFor(n.Range.Start)
	msg := err.Error()
	frame := renderCodeFrame(cg.state.Filename, pos)
	if cerr, ok := err.(*Error); ok {
		msg = cerr.Message
		frame = cerr.Frame
	}
	cg.opts.Logging.Error(diagnostic(cg.state.Filename, pos, frame, msg))
	if cg.paren >= 0 {
		cg.paren--
	}
	return nil
}

func (cg *templateCodegen) walkMustacheTag(n *Node) error {
	if cg.marker.insideMarkdown() {
		cg.curr = &cg.markdown
	}
	code, err := cg.transpileExpr(n.Mustache)
	if err != nil {
		return cg.recoverExpressionError(n, err)
	}
	return cg.emitExpressionCode(n, code)
}

// renderSubtree walks n in isolation, redirecting emission into a scratch
// buffer, and returns the cleaned-up fragment. Used both for Expression
// nodes that splice child template nodes between code chunks and could be
// reused for any other isolated-subtree rendering need.
func (cg *templateCodegen) renderSubtree(n *Node) (string, error) {
	saved := cg.curr
	var buf strings.Builder
	cg.curr = &buf
	err := cg.walk(n, nil)
	cg.curr = saved
	if err != nil {
		return "", err
	}
	return cleanupOutput(buf.String()), nil
}

func (cg *templateCodegen) walkText(n *Node, parent *Node) error {
	text := n.Data
	if cg.marker.insideMarkdown() {
		cg.markdown.WriteString(text)
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if parent != nil && strings.EqualFold(parent.Data, "code") {
		text = strings.ReplaceAll(text, "ASTRO_ESCAPED_LEFT_CURLY_BRACKET\x00", "{")
	}
	cg.curr.WriteString("," + jsonString(text))
	return nil
}

func (cg *templateCodegen) walkCode(n *Node) error {
	if cg.marker.insideMarkdown() {
		cg.markdown.WriteString(n.Data)
		return nil
	}
	cg.curr.WriteString("," + jsonString(n.Data))
	return nil
}

var (
	reLeadingComma = regexp.MustCompile(`^,`)
	reCommaClose   = regexp.MustCompile(`,\)`)
	reCommaRun     = regexp.MustCompile(`,+`)
	reCloseThenH   = regexp.MustCompile(`\)h`)
)

// cleanupOutput applies the four output-cleanup rewrites (spec §4.6.3), in
// order. They repair the over-eager commas the enter/leave rules emit for
// skipped expressions and spliced Markdown fragments.
func cleanupOutput(s string) string {
	s = reLeadingComma.ReplaceAllString(s, "")
	s = reCommaClose.ReplaceAllString(s, ")")
	s = reCommaRun.ReplaceAllString(s, ",")
	s = reCloseThenH.ReplaceAllString(s, "),h")
	return s
}
