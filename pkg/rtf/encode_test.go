package rtf_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtftplint/pkg/rtf"
)

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	doc := rtf.NewDocument(
		&rtf.Text{Value: "Dear {customer}\n"},
		&rtf.BookmarkStart{Name: "IF_vip"},
		&rtf.Field{Name: "first name"},
		&rtf.BookmarkEnd{Name: "IF_vip"},
		&rtf.Text{Value: "café"},
	)

	data, err := rtf.Marshal(doc)
	require.NoError(t, err)

	got, err := rtf.ParseBytes(data)
	require.NoError(t, err)

	found := markers(got)
	require.Len(t, found, 3)

	assert.Equal(t, "IF_vip", found[0].(*rtf.BookmarkStart).Name)
	assert.Equal(t, "first name", found[1].(*rtf.Field).Name)
	assert.Equal(t, "IF_vip", found[2].(*rtf.BookmarkEnd).Name)
	assert.Equal(t, "Dear {customer}\ncafé", collectText(got))
}

func TestMarshal_RoundTripAstral(t *testing.T) {
	t.Parallel()

	doc := rtf.NewDocument(
		&rtf.Field{Name: "name😀"},
		&rtf.BookmarkStart{Name: "IF_😀"},
		&rtf.Text{Value: "a😀b"},
		&rtf.BookmarkEnd{Name: "IF_😀"},
	)

	data, err := rtf.Marshal(doc)
	require.NoError(t, err)

	got, err := rtf.ParseBytes(data)
	require.NoError(t, err)

	found := markers(got)
	require.Len(t, found, 3)

	assert.Equal(t, "name😀", found[0].(*rtf.Field).Name)
	assert.Equal(t, "IF_😀", found[1].(*rtf.BookmarkStart).Name)
	assert.Equal(t, "IF_😀", found[2].(*rtf.BookmarkEnd).Name)
	assert.Contains(t, collectText(got), "a😀b")
}

func TestWrite_PrefersRaw(t *testing.T) {
	t.Parallel()

	raw := `{\*\bkmkstart  IF_a }`
	doc := rtf.NewDocument(&rtf.BookmarkStart{Name: "IF_a", Raw: raw})

	var sb strings.Builder
	require.NoError(t, rtf.Write(&sb, doc))
	assert.Contains(t, sb.String(), raw)
	assert.True(t, strings.HasPrefix(sb.String(), `{\rtf1`))
}

func TestWrite_NilDocument(t *testing.T) {
	t.Parallel()

	data, err := rtf.Marshal(nil)
	require.NoError(t, err)

	doc, err := rtf.ParseBytes(data)
	require.NoError(t, err)
	assert.Empty(t, markers(doc))
}

func TestEscapeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "abc", want: "abc"},
		{name: "specials", in: `a\{b}`, want: `a\\\{b\}`},
		{name: "newline and tab", in: "a\nb\tc", want: `a\par b\tab c`},
		{name: "latin", in: "é", want: `\u233?`},
		{name: "astral", in: "😀", want: `\u-10179?\u-8704?`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rtf.EscapeText(tt.in))
		})
	}
}

func TestWalk(t *testing.T) {
	t.Parallel()

	inner := &rtf.Group{}
	inner.Append(&rtf.BookmarkStart{Name: "b"})
	doc := rtf.NewDocument(&rtf.Text{Value: "a"}, inner, &rtf.Field{Name: "c"})

	var kinds []rtf.Kind
	err := rtf.Walk(doc.Root, func(e rtf.Element) error {
		kinds = append(kinds, e.Kind())
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []rtf.Kind{
		rtf.KindGroup,
		rtf.KindText,
		rtf.KindGroup,
		rtf.KindBookmarkStart,
		rtf.KindField,
	}, kinds)
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	doc := rtf.NewDocument(&rtf.Text{Value: "a"}, &rtf.Text{Value: "b"})

	visited := 0
	err := rtf.Walk(doc.Root, func(e rtf.Element) error {
		visited++
		if e.Kind() == rtf.KindText {
			return stop
		}
		return nil
	})

	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, visited)
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BookmarkEnd", rtf.KindBookmarkEnd.String())
	assert.Equal(t, "Unknown", rtf.Kind(200).String())
}

// markers returns the bookmark markers and fields of doc in document order.
func markers(doc *rtf.Document) []rtf.Element {
	var out []rtf.Element
	_ = rtf.Walk(doc.Root, func(e rtf.Element) error {
		switch e.Kind() {
		case rtf.KindField, rtf.KindBookmarkStart, rtf.KindBookmarkEnd:
			out = append(out, e)
		}
		return nil
	})
	return out
}
