package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitTopLevelStatements(t *testing.T) {
	t.Run("simple statements split on semicolons", func(t *testing.T) {
		src := "import X from './x.js';\nconst a = 1;\nconst b = 2;"
		ranges := splitTopLevelStatements(src)
		require.Len(t, ranges, 3)
	})

	t.Run("braces inside strings and template literals do not affect depth", func(t *testing.T) {
		src := "const a = '{';\nconst b = `${1 + 2}`;\nconst c = 3;"
		ranges := splitTopLevelStatements(src)
		require.Len(t, ranges, 3)
		require.Equal(t, "const c = 3;", strings.TrimSpace(src[ranges[2].Start:ranges[2].End]))
	})

	t.Run("function declaration is one statement closed by its brace", func(t *testing.T) {
		src := "function f() {\n  return 1;\n}\nconst x = 1;"
		ranges := splitTopLevelStatements(src)
		require.Len(t, ranges, 2)
		require.Contains(t, src[ranges[0].Start:ranges[0].End], "function f()")
	})

	t.Run("line and block comments are skipped", func(t *testing.T) {
		src := "// a comment with a ; in it\nconst a = 1; /* also { has braces } */"
		ranges := splitTopLevelStatements(src)
		require.Len(t, ranges, 1)
	})

	t.Run("a template literal's closing backtick is not mistaken for a new one", func(t *testing.T) {
		src := "const a = `${f({x: 1})}`;\nconst b = 2;"
		ranges := splitTopLevelStatements(src)
		require.Len(t, ranges, 2)
		require.Equal(t, "const b = 2;", strings.TrimSpace(src[ranges[1].Start:ranges[1].End]))
	})

	t.Run("a nested template literal inside a substitution is skipped correctly", func(t *testing.T) {
		src := "const a = `${`inner ${1}`}`;\nconst b = 2;"
		ranges := splitTopLevelStatements(src)
		require.Len(t, ranges, 2)
	})
}
