package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyHydration(t *testing.T) {
	t.Run("no hydration directive present", func(t *testing.T) {
		n := &Node{}
		resolved := newResolvedAttrs()
		resolved.set("href", `"/x"`)
		h := classifyHydration(n, resolved)
		require.False(t, h.Present)
	})

	t.Run("client:load with literal true value carries no explicit value", func(t *testing.T) {
		n := &Node{Attrs: []Attr{{Kind: AttrBoolTrue, Name: "client:load"}}}
		resolved := newResolvedAttrs()
		resolved.set("client:load", `"true"`)
		h := classifyHydration(n, resolved)
		require.True(t, h.Present)
		require.Equal(t, "load", h.Method)
		require.False(t, h.HasValue)
	})

	t.Run("client:visible with a raw string value carries that value", func(t *testing.T) {
		n := &Node{Attrs: []Attr{{
			Kind: AttrValue, Name: "client:visible",
			Segments: []Segment{{Text: "50%"}},
		}}}
		resolved := newResolvedAttrs()
		resolved.set("client:visible", `"50%"`)
		h := classifyHydration(n, resolved)
		require.True(t, h.Present)
		require.Equal(t, "visible", h.Method)
		require.True(t, h.HasValue)
		require.Equal(t, "50%", h.Value)
	})

	t.Run("unknown client: suffix is not a hydration directive", func(t *testing.T) {
		resolved := newResolvedAttrs()
		resolved.set("client:bogus", `"true"`)
		h := classifyHydration(&Node{}, resolved)
		require.False(t, h.Present)
	})
}

func TestLegacyHydrationSplit(t *testing.T) {
	t.Run("matches a known method suffix", func(t *testing.T) {
		name, method, matched := legacyHydrationSplit("Counter:load")
		require.True(t, matched)
		require.Equal(t, "Counter", name)
		require.Equal(t, "load", method)
	})

	t.Run("no colon at all", func(t *testing.T) {
		_, _, matched := legacyHydrationSplit("Counter")
		require.False(t, matched)
	})

	t.Run("colon present but suffix is not a hydration method", func(t *testing.T) {
		_, _, matched := legacyHydrationSplit("Namespace:Card")
		require.False(t, matched)
	})
}
