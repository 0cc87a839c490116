package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveComponent(t *testing.T) {
	t.Run("imported component resolves against the symbol table", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		state.Components["Counter"] = ComponentInfo{
			ImportSpecifierKind: ImportDefault,
			ImportedLocalName:   "Counter",
			SourceURL:           "../components/Counter.jsx",
		}
		rc, err := state.resolveComponent("Counter")
		require.NoError(t, err)
		require.Equal(t, ClassImported, rc.Class)
		require.Equal(t, "Counter", rc.LocalName)
		require.Equal(t, "/_astro/src/components/Counter.js", rc.RuntimeURL)
	})

	t.Run("tag name containing a hyphen is a custom element", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		rc, err := state.resolveComponent("my-widget")
		require.NoError(t, err)
		require.Equal(t, ClassCustomElement, rc.Class)
		require.Equal(t, "my-widget", rc.LocalName)
	})

	t.Run("capitalized tag declared in frontmatter resolves as frontmatter-defined", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		state.Declarations["Layout"] = true
		rc, err := state.resolveComponent("Layout")
		require.NoError(t, err)
		require.Equal(t, ClassFrontmatterDefined, rc.Class)
		require.Equal(t, "Layout", rc.LocalName)
	})

	t.Run("Fragment resolves to the fragment class without a symbol table entry", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		rc, err := state.resolveComponent("Fragment")
		require.NoError(t, err)
		require.Equal(t, ClassFragment, rc.Class)
	})

	t.Run("imported component wins over a same-named declaration", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		state.Declarations["Card"] = true
		state.Components["Card"] = ComponentInfo{
			ImportSpecifierKind: ImportDefault,
			ImportedLocalName:   "Card",
			SourceURL:           "../components/Card.jsx",
		}
		rc, err := state.resolveComponent("Card")
		require.NoError(t, err)
		require.Equal(t, ClassImported, rc.Class)
	})

	t.Run("unresolved capitalized tag is a fatal error", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		_, err := state.resolveComponent("Missing")
		require.Error(t, err)
	})

	t.Run("namespaced tag resolves against the namespace's local import", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		state.Components["NS"] = ComponentInfo{
			ImportSpecifierKind: ImportNamespace,
			ImportedLocalName:   "NS",
			SourceURL:           "../components/index.jsx",
		}
		rc, err := state.resolveComponent("NS.Card")
		require.NoError(t, err)
		require.Equal(t, ClassImported, rc.Class)
		require.Equal(t, "NS", rc.Namespace)
		require.Equal(t, "NS", rc.LocalName)
	})
}

func TestRuntimeURL(t *testing.T) {
	t.Run("js-like extensions collapse to .js", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		url, err := state.runtimeURL(ComponentInfo{SourceURL: "../components/Counter.tsx"})
		require.NoError(t, err)
		require.Equal(t, "/_astro/src/components/Counter.js", url)
	})

	t.Run("non-js-like extensions get .js appended", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		url, err := state.runtimeURL(ComponentInfo{SourceURL: "../components/Card.astro"})
		require.NoError(t, err)
		require.Equal(t, "/_astro/src/components/Card.astro.js", url)
	})

	t.Run("project root prefix is stripped before the /_astro/ prefix is added", func(t *testing.T) {
		state := NewState("/home/user/project/src/pages/index.astro", "index")
		state.projectRoot = "/home/user/project"
		url, err := state.runtimeURL(ComponentInfo{SourceURL: "../components/Counter.jsx"})
		require.NoError(t, err)
		require.Equal(t, "/_astro/src/components/Counter.js", url)
	})
}
