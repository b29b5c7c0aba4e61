package navigation_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtftplint/pkg/navigation"
	"github.com/yaklabco/rtftplint/pkg/rtf"
	"github.com/yaklabco/rtftplint/pkg/structure"
)

const testURL = "file:///t.rtf"

func buildTree(t *testing.T, items ...string) *structure.Tree {
	t.Helper()

	var elems []rtf.Element
	for _, item := range items {
		if name, ok := strings.CutPrefix(item, "FIELD "); ok {
			elems = append(elems, &rtf.Field{Name: name})
			continue
		}
		elems = append(elems, &rtf.BookmarkStart{Name: item}, &rtf.BookmarkEnd{Name: item})
	}

	tree, err := structure.NewParser().ParseDocument(rtf.NewDocument(elems...))
	require.NoError(t, err)

	return tree
}

func TestRender_SingleBlock(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, "IF_a", "FIELD x", "ENDIF_a")

	want := "{\\rtf1\\ansi\\deff0 {\\fonttbl {\\f0 Arial;}}\n" +
		`\f0\fs32 \line  {\field{\*\fldinst HYPERLINK "file:///t.rtf" \\l "IF_a"}{\fldrslt IF_a}}  ` +
		`\line  {\field{\*\fldinst HYPERLINK "file:///t.rtf" \\l "ENDIF_a"}{\fldrslt ENDIF_a}} }`

	assert.Equal(t, want, navigation.Render(tree, testURL, navigation.DefaultOptions()))
}

func TestRender_EmptyTree(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, "FIELD only")

	want := "{\\rtf1\\ansi\\deff0 {\\fonttbl {\\f0 Arial;}}\n\\f0\\fs32  }"
	assert.Equal(t, want, navigation.Render(tree, testURL, navigation.DefaultOptions()))
	assert.Equal(t, want, navigation.Render(nil, testURL, navigation.Options{}))
}

func TestRender_NestedOrderAndIndent(t *testing.T) {
	t.Parallel()

	tree := buildTree(t,
		"IF_hasAddress", "FIELD street", "WHILE_lines", "SORT_lineNo", "FIELD text",
		"ENDWHILE_lines", "ENDIF_hasAddress")

	out := navigation.Render(tree, testURL, navigation.DefaultOptions())

	anchors := []string{`"IF_hasAddress"`, `"WHILE_lines"`, `"ENDWHILE_lines"`, `"ENDIF_hasAddress"`}
	last := -1
	for _, anchor := range anchors {
		i := strings.Index(out, anchor)
		require.Greater(t, i, last, "anchor %s out of order", anchor)
		last = i
	}

	assert.Contains(t, out, `\line    {\field{\*\fldinst HYPERLINK "file:///t.rtf" \\l "WHILE_lines"}`)
	assert.Contains(t, out, `\line    {\field{\*\fldinst HYPERLINK "file:///t.rtf" \\l "ENDWHILE_lines"}`)
	assert.NotContains(t, out, "street")
	assert.NotContains(t, out, "lineNo")
}

// WHILE links point at the WHILE_ bookmarks but, by default, carry IF_ labels.
func TestRender_IterationLabels(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, "WHILE_rows", "ENDWHILE_rows")

	tests := []struct {
		name       string
		style      navigation.LabelStyle
		wantLabels []string
	}{
		{name: "default keeps IF labels", style: "", wantLabels: []string{"IF_rows", "ENDIF_rows"}},
		{name: "if", style: navigation.LabelIf, wantLabels: []string{"IF_rows", "ENDIF_rows"}},
		{name: "while", style: navigation.LabelWhile, wantLabels: []string{"WHILE_rows", "ENDWHILE_rows"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := navigation.Render(tree, testURL, navigation.Options{IterationLabels: tt.style})

			assert.Contains(t, out, `\\l "WHILE_rows"}{\fldrslt `+tt.wantLabels[0]+`}`)
			assert.Contains(t, out, `\\l "ENDWHILE_rows"}{\fldrslt `+tt.wantLabels[1]+`}`)
			assert.NotContains(t, out, `\\l "IF_rows"`)
		})
	}
}

func TestRender_Options(t *testing.T) {
	t.Parallel()

	out := navigation.Render(buildTree(t), testURL, navigation.Options{Font: "Calibri", FontSize: 24})
	assert.True(t, strings.HasPrefix(out, "{\\rtf1\\ansi\\deff0 {\\fonttbl {\\f0 Calibri;}}\n\\f0\\fs24 "))
}

func TestRender_IsReadableRTF(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, "WHILE_a", "IF_b", "ENDIF_b", "ENDWHILE_a")
	out := navigation.Render(tree, testURL, navigation.Options{IterationLabels: navigation.LabelWhile})

	doc, err := rtf.ParseBytes([]byte(out))
	require.NoError(t, err)

	var text strings.Builder
	_ = rtf.Walk(doc.Root, func(e rtf.Element) error {
		if txt, ok := e.(*rtf.Text); ok {
			text.WriteString(txt.Value)
		}
		return nil
	})

	labels := strings.Fields(text.String())
	assert.Equal(t, []string{"WHILE_a", "IF_b", "ENDIF_b", "ENDWHILE_a"}, labels)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	tree := buildTree(t, "IF_a", "ENDIF_a")

	var buf bytes.Buffer
	require.NoError(t, navigation.Write(&buf, tree, testURL, navigation.DefaultOptions()))
	assert.Equal(t, navigation.Render(tree, testURL, navigation.DefaultOptions()), buf.String())
}

func TestFileURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "/tmp/a b.rtf", want: "file:///tmp/a%20b.rtf"},
		{path: `C:\Templates\My Letter.rtf`, want: "file:///C:/Templates/My%20Letter.rtf"},
		{path: "relative/x.rtf", want: "file:///relative/x.rtf"},
		{path: "/tmp/100%.rtf", want: "file:///tmp/100%.rtf"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, navigation.FileURL(tt.path))
		})
	}
}

func TestParseLabelStyle(t *testing.T) {
	t.Parallel()

	style, err := navigation.ParseLabelStyle("WHILE")
	require.NoError(t, err)
	assert.Equal(t, navigation.LabelWhile, style)

	style, err = navigation.ParseLabelStyle("")
	require.NoError(t, err)
	assert.Equal(t, navigation.LabelIf, style)

	_, err = navigation.ParseLabelStyle("loop")
	require.Error(t, err)
}
