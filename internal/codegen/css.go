package codegen

// extractCSS implements CssExtractor (spec §4.7): it walks the document's
// top-level style blocks, appending each one's raw CSS text to state.CSS
// in order. The style nodes were already split out of the HTML tree by
// the front-end parser (spec §3 Document.Styles); any <style> tag that
// still appears inline inside the template tree is instead handled by
// TemplateCodegen's own Style emission rule (spec §4.6), which appends its
// text to state.CSS and emits nothing for it or its children; the node is
// skipped, not removed from the tree.
func extractCSS(state *CodegenState, doc *Document) {
	for _, s := range doc.Styles {
		state.CSS = append(state.CSS, s.Data)
	}
}
