package codegen

import "strings"

// Artifact is the result of compiling one document (spec §6).
type Artifact struct {
	Script                  string
	Imports                 []string
	Exports                 []string
	HTML                    string
	CSS                     *string
	GetStaticPaths          *string
	HasCustomElements       bool
	CustomElementCandidates map[string]string
}

// Compile is the CodegenDriver (spec §4.8): it creates a CodegenState,
// runs FrontmatterAnalyzer, CssExtractor, and TemplateCodegen in strict
// sequence (spec §9 "two passes but one state"), and assembles the
// Artifact. A CodegenState must not be reused across documents (spec §5);
// Compile always creates its own.
func Compile(doc *Document, opts CompileOptions) (*Artifact, error) {
	state := NewState(opts.Filename, opts.FileID)
	if opts.AstroConfig.ProjectRoot != nil {
		state.projectRoot = opts.AstroConfig.ProjectRoot.Path
	}

	transpiler := NewEsbuildTranspiler()

	var exprStart Position
	if doc.Module != nil {
		exprStart = newLineIndex(opts.Filename).Position(doc.Module.Range.Start)
	}
	hasCustomElements := doc.Meta&FeatureCustomElement != 0
	if err := analyzeFrontmatter(state, doc.Module, transpiler, exprStart, hasCustomElements); err != nil {
		return nil, err
	}
	if state.propExportWarning != "" {
		pos := Position{Line: 1, Column: 1}
		opts.Logging.Warn(diagnostic(state.Filename, pos, renderCodeFrame(state.Filename, pos), state.propExportWarning))
	}

	extractCSS(state, doc)

	html, err := runTemplateCodegen(state, opts, transpiler, doc.HTML)
	if err != nil {
		return nil, err
	}

	artifact := &Artifact{
		Script:                  state.Script,
		Imports:                 state.Imports(),
		Exports:                 state.Exports(),
		HTML:                    html,
		GetStaticPaths:          optionalString(state.GetStaticPaths),
		HasCustomElements:       hasCustomElements,
		CustomElementCandidates: state.CustomElementCandidates,
	}
	if len(state.CSS) > 0 {
		joined := strings.Join(state.CSS, "\n\n")
		artifact.CSS = &joined
	}
	return artifact, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
