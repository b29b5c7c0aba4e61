package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtftplint/internal/ui/pretty"
)

func TestFormatTree(t *testing.T) {
	styles := pretty.NewStyles(false)

	tree, err := parse(t,
		"IF_hasAddress", "FIELD street", "_Toc1", "WHILE_lines", "SORT_lineNo", "FIELD text",
		"ENDWHILE_lines", "ENDIF_hasAddress", "FIELD $internal", "FIELD footer")
	require.NoError(t, err)

	out := styles.FormatTree(tree)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 6, out)
	assert.Equal(t, "Document Root", lines[0])
	assert.Contains(t, lines[1], "If hasAddress")
	assert.Contains(t, lines[2], "Field street")
	assert.Contains(t, lines[3], "Iteration lines sort=lineNo")
	assert.Contains(t, lines[4], "Field text")
	assert.Contains(t, lines[5], "Field footer")

	assert.NotContains(t, out, "_Toc1", "typeless nodes are not listed")
	assert.NotContains(t, out, "internal")

	// Nesting shows up as deeper indentation.
	indent := func(s string) int { return strings.Index(s, "Field") }
	assert.Greater(t, indent(lines[4]), indent(lines[2]))
	assert.Greater(t, indent(lines[2]), indent(lines[5]))
}

func TestFormatTree_Nil(t *testing.T) {
	assert.Empty(t, pretty.NewStyles(false).FormatTree(nil))
}

func TestNodeLabel(t *testing.T) {
	tree, err := parse(t, "WHILE_w", "FIELD f", "_Toc", "ENDWHILE_w")
	require.NoError(t, err)

	root := tree.Root()
	loop := root.Child(0)

	assert.Equal(t, "Document Root", pretty.NodeLabel(root))
	assert.Equal(t, "Iteration w", pretty.NodeLabel(loop))
	assert.Equal(t, "Field f", pretty.NodeLabel(loop.Child(0)))
	assert.Empty(t, pretty.NodeLabel(loop.Child(1)))
}
