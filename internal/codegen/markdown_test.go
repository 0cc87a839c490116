package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDedent(t *testing.T) {
	t.Run("common leading whitespace is stripped from every line", func(t *testing.T) {
		in := "  # Title\n  body text\n"
		require.Equal(t, "# Title\nbody text\n", dedent(in))
	})

	t.Run("blank lines do not affect the computed indent", func(t *testing.T) {
		in := "    a\n\n    b\n"
		require.Equal(t, "a\n\nb\n", dedent(in))
	})

	t.Run("text with no common indent is returned unchanged", func(t *testing.T) {
		in := "a\n  b\n"
		require.Equal(t, in, dedent(in))
	})
}

func TestRenderMarkdown(t *testing.T) {
	t.Run("rendered HTML is wrapped in a div scoped with the given class", func(t *testing.T) {
		out, err := renderMarkdown("# Hello", "astro-xyz")
		require.NoError(t, err)
		require.Contains(t, out, `<div class="astro-xyz">`)
		require.Contains(t, out, "<h1")
		require.Contains(t, out, "Hello</h1>")
	})
}

func TestReparseHTML(t *testing.T) {
	t.Run("parsed fragment preserves element structure and attributes", func(t *testing.T) {
		root, err := reparseHTML(`<div class="astro-xyz"><p>hi</p></div>`)
		require.NoError(t, err)
		require.Equal(t, KindFragment, root.Kind)
		require.Len(t, root.Children, 1)

		div := root.Children[0]
		require.Equal(t, KindElement, div.Kind)
		require.Equal(t, "div", div.Data)
		require.Len(t, div.Attrs, 1)
		require.Equal(t, "class", div.Attrs[0].Name)

		require.Len(t, div.Children, 1)
		p := div.Children[0]
		require.Equal(t, "p", p.Data)
		require.Len(t, p.Children, 1)
		require.Equal(t, KindText, p.Children[0].Kind)
		require.Equal(t, "hi", p.Children[0].Data)
	})
}
