package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// passthroughTranspiler returns the fragment unchanged, so frontmatter
// tests exercise statement classification without depending on esbuild.
type passthroughTranspiler struct{}

func (passthroughTranspiler) Transpile(filename, fragment string, startLine, startColumn int) (string, *Error) {
	return fragment, nil
}

func analyzeTestFrontmatter(t *testing.T, src string) *CodegenState {
	t.Helper()
	state := NewState("/project/src/pages/index.astro", "index")
	module := &Module{Source: src}
	err := analyzeFrontmatter(state, module, passthroughTranspiler{}, Position{Line: 1, Column: 1}, false)
	require.NoError(t, err)
	return state
}

func TestAnalyzeFrontmatter(t *testing.T) {
	t.Run("nil module is a no-op", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		require.NoError(t, analyzeFrontmatter(state, nil, passthroughTranspiler{}, Position{}, false))
		require.Empty(t, state.Script)
	})

	t.Run("default import registers a component binding and is stripped from the script", func(t *testing.T) {
		state := analyzeTestFrontmatter(t, `import Counter from '../components/Counter.jsx';
const greeting = "hi";`)
		ci, ok := state.Components["Counter"]
		require.True(t, ok)
		require.Equal(t, ImportDefault, ci.ImportSpecifierKind)
		require.Equal(t, "../components/Counter.jsx", ci.SourceURL)
		require.Contains(t, state.Imports(), `import Counter from '../components/Counter.jsx';`)
		require.NotContains(t, state.Script, "import Counter")
		require.Contains(t, state.Script, `const greeting = "hi";`)
	})

	t.Run("named and namespace imports are both recognized", func(t *testing.T) {
		state := analyzeTestFrontmatter(t, `import * as NS from '../components/index.jsx';
import { Card as CardView } from '../components/Card.jsx';`)
		ns, ok := state.Components["NS"]
		require.True(t, ok)
		require.Equal(t, ImportNamespace, ns.ImportSpecifierKind)

		card, ok := state.Components["CardView"]
		require.True(t, ok)
		require.Equal(t, ImportNamed, card.ImportSpecifierKind)
		require.Equal(t, "Card", card.ImportedExportedName)
	})

	t.Run("getStaticPaths export is lifted out of the script and preserved verbatim", func(t *testing.T) {
		state := analyzeTestFrontmatter(t, `export function getStaticPaths() {
  return [];
}
const x = 1;`)
		require.Contains(t, state.GetStaticPaths, "function getStaticPaths")
		require.NotContains(t, state.Script, "getStaticPaths")
		require.Contains(t, state.Script, "const x = 1;")
	})

	t.Run("export let is stripped from the script and recorded as a deprecation warning", func(t *testing.T) {
		state := analyzeTestFrontmatter(t, `export let title = "Home";`)
		require.Empty(t, state.Script)
		require.Contains(t, state.propExportWarning, "title")
	})

	t.Run("export const __layout is preserved as a raw export statement", func(t *testing.T) {
		state := analyzeTestFrontmatter(t, `export const __layout = '../layouts/Main.astro';`)
		require.Contains(t, state.Exports(), `export const __layout = '../layouts/Main.astro';`)
		require.Empty(t, state.Script)
	})

	t.Run("function and variable declarations are tracked without being stripped", func(t *testing.T) {
		state := analyzeTestFrontmatter(t, `function Layout() {}
const Card = () => null;`)
		require.True(t, state.Declarations["Layout"])
		require.True(t, state.Declarations["Card"])
		require.Contains(t, state.Script, "function Layout()")
	})

	t.Run("bare built-in module import without the node: scheme is a fatal error", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		module := &Module{Source: `import fs from 'fs';`}
		err := analyzeFrontmatter(state, module, passthroughTranspiler{}, Position{Line: 1, Column: 1}, false)
		require.Error(t, err)
	})

	t.Run("node: scoped built-in import is accepted", func(t *testing.T) {
		state := analyzeTestFrontmatter(t, `import fs from 'node:fs';`)
		require.Contains(t, state.Imports(), `import fs from 'node:fs';`)
	})

	t.Run("Astro.fetchContent with a string literal is rewritten and injects the runtime import", func(t *testing.T) {
		state := analyzeTestFrontmatter(t, `const posts = Astro.fetchContent('./posts/*.md');`)
		require.Contains(t, state.Script, "import.meta.globEager(")
		require.Contains(t, state.Imports(), `import { fetchContent } from "astro/internal/index.js";`)
	})

	t.Run("script without Astro.fetchContent does not inject the runtime import", func(t *testing.T) {
		state := analyzeTestFrontmatter(t, `const x = 1;`)
		require.NotContains(t, state.Imports(), `import { fetchContent } from "astro/internal/index.js";`)
	})

	t.Run("a side-effect import is a no-op when the document has no custom elements", func(t *testing.T) {
		state := analyzeTestFrontmatter(t, `import '../components/define-widget.js';`)
		require.Empty(t, state.CustomElementCandidates)
	})

	t.Run("a side-effect import synthesizes a namespace alias when the document has custom elements", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		module := &Module{Source: `import '../components/define-widget.js';`}
		err := analyzeFrontmatter(state, module, passthroughTranspiler{}, Position{Line: 1, Column: 1}, true)
		require.NoError(t, err)
		require.Len(t, state.CustomElementCandidates, 1)
		url, ok := state.CustomElementCandidates["__astro_ce_define_widget"]
		require.True(t, ok)
		require.Equal(t, "/_astro/project/src/components/define-widget.js", url)
		require.Contains(t, state.Imports(), `import '../components/define-widget.js';`)
	})

	t.Run("colliding aliases are deduplicated with a numeric suffix", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		module := &Module{Source: `import '../a/widget.js';
import '../b/widget.js';`}
		err := analyzeFrontmatter(state, module, passthroughTranspiler{}, Position{Line: 1, Column: 1}, true)
		require.NoError(t, err)
		require.Len(t, state.CustomElementCandidates, 2)
		_, ok := state.CustomElementCandidates["__astro_ce_widget"]
		require.True(t, ok)
		_, ok = state.CustomElementCandidates["__astro_ce_widget_2"]
		require.True(t, ok)
	})
}
