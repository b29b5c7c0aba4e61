package structure

import (
	"github.com/yaklabco/rtftplint/pkg/directive"
	"github.com/yaklabco/rtftplint/pkg/rtf"
)

// Directives serializes a tree back into a flat RTF directive sequence:
// each block becomes its begin bookmark, an optional SORT_ bookmark, its
// children and its end bookmark. Typeless nodes become text elements
// holding their content; a text element following another one is wrapped
// in its own group so the two stay separate runs once encoded. Parsing the
// result, directly or after rtf.Marshal, yields an equal tree.
func Directives(tree *Tree) *rtf.Document {
	doc := rtf.NewDocument()
	if tree == nil {
		return doc
	}

	for _, child := range tree.root.children {
		appendDirectives(doc.Root, child)
	}

	return doc
}

func appendDirectives(out *rtf.Group, n *Node) {
	switch n.kind {
	case KindField:
		out.Append(&rtf.Field{Name: n.key})

	case KindIf, KindWhile:
		begin, end := directive.PrefixIf, directive.PrefixEndIf
		if n.kind == KindWhile {
			begin, end = directive.PrefixWhile, directive.PrefixEndWhile
		}

		bookmark(out, begin+n.key)
		if sort, ok := n.Sort(); ok {
			bookmark(out, directive.PrefixSort+sort)
		}
		for _, child := range n.children {
			appendDirectives(out, child)
		}
		bookmark(out, end+n.key)

	default:
		text := &rtf.Text{Value: n.key}
		if last := len(out.Children); last > 0 {
			if _, ok := out.Children[last-1].(*rtf.Text); ok {
				out.Append(&rtf.Group{Children: []rtf.Element{text}})
				return
			}
		}
		out.Append(text)
	}
}

// bookmark appends the start and end markers of a collapsed bookmark.
func bookmark(out *rtf.Group, name string) {
	out.Append(&rtf.BookmarkStart{Name: name}, &rtf.BookmarkEnd{Name: name})
}
