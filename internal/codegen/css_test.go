package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractCSS(t *testing.T) {
	t.Run("style block text is appended to state.CSS in document order", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		doc := &Document{
			Styles: []*Node{
				{Kind: KindStyle, Data: ".a { color: red; }"},
				{Kind: KindStyle, Data: ".b { color: blue; }"},
			},
		}
		extractCSS(state, doc)
		require.Equal(t, []string{".a { color: red; }", ".b { color: blue; }"}, state.CSS)
	})

	t.Run("a document with no style blocks leaves CSS empty", func(t *testing.T) {
		state := NewState("/project/src/pages/index.astro", "index")
		extractCSS(state, &Document{})
		require.Empty(t, state.CSS)
	})
}
