package pretty

import (
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/yaklabco/rtftplint/pkg/structure"
)

// Labels of the structure listing.
const (
	LabelDocument  = "Document"
	LabelIf        = "If"
	LabelIteration = "Iteration"
	LabelField     = "Field"
)

// NodeLabel returns the listing label of n ("If hasAddress", "Field street"),
// or "" for typeless nodes, which are not listed.
func NodeLabel(n *structure.Node) string {
	switch n.Kind() {
	case structure.KindDocument:
		return LabelDocument + " " + n.Key()
	case structure.KindIf:
		return LabelIf + " " + n.Key()
	case structure.KindWhile:
		return LabelIteration + " " + n.Key()
	case structure.KindField:
		return LabelField + " " + n.Key()
	default:
		return ""
	}
}

// FormatTree renders the structure of a template as an indented tree.
func (s *Styles) FormatTree(t *structure.Tree) string {
	if t == nil {
		return ""
	}

	root := tree.Root(s.TreeRoot.Render(NodeLabel(t.Root()))).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(s.TreeEnumerator.PaddingRight(1))

	s.addChildren(root, t.Root())

	return root.String() + "\n"
}

func (s *Styles) addChildren(parent *tree.Tree, n *structure.Node) {
	for _, child := range n.Children() {
		label := NodeLabel(child)
		if label == "" {
			continue
		}

		if !child.IsBlock() {
			parent.Child(s.TreeField.Render(label))
			continue
		}

		text := s.TreeBlock.Render(label)
		args := child.Args()
		for _, name := range slices.Sorted(maps.Keys(args)) {
			text += " " + s.TreeArg.Render(name+"="+args[name])
		}

		sub := tree.Root(text)
		s.addChildren(sub, child)
		parent.Child(sub)
	}
}
