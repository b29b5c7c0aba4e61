// Package structure reconstructs the block tree implied by the directives of
// an RTF template and decides whether the template is well-formed.
package structure

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Kind is the type of a structure node.
type Kind uint8

// Node kinds. KindNone marks typeless nodes holding inline content.
const (
	KindNone Kind = iota
	KindDocument
	KindIf
	KindWhile
	KindField
)

// String returns the upper-case type name, or "" for typeless nodes.
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "DOCUMENT"
	case KindIf:
		return "IF"
	case KindWhile:
		return "WHILE"
	case KindField:
		return "FIELD"
	default:
		return ""
	}
}

// IsBlock reports whether nodes of this kind are opened and closed by directives.
func (k Kind) IsBlock() bool {
	return k == KindIf || k == KindWhile
}

// RootKey is the key of the document node.
const RootKey = "Root"

// ArgSort is the only recognized node attribute.
const ArgSort = "sort"

// Node is one element of a structure tree. Nodes are read-only once the
// parse that built them returns.
type Node struct {
	key      string
	kind     Kind
	line     int
	children []*Node
	args     map[string]string
}

func newNode(key string, kind Kind, line int) *Node {
	return &Node{key: key, kind: kind, line: line}
}

func (n *Node) appendChild(child *Node) {
	n.children = append(n.children, child)
}

func (n *Node) setArg(name, value string) {
	if n.args == nil {
		n.args = make(map[string]string)
	}
	n.args[name] = value
}

// Key returns the directive key, field name, or inline content.
func (n *Node) Key() string { return n.key }

// Kind returns the node type.
func (n *Node) Kind() Kind { return n.kind }

// Line returns the source line of the directive that created the node, or 0 if unknown.
func (n *Node) Line() int { return n.line }

// IsBlock reports whether n is an IF or WHILE node.
func (n *Node) IsBlock() bool { return n.kind.IsBlock() }

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Arg returns a node attribute.
func (n *Node) Arg(name string) (string, bool) {
	v, ok := n.args[name]
	return v, ok
}

// Args returns a copy of the node attributes.
func (n *Node) Args() map[string]string {
	if len(n.args) == 0 {
		return map[string]string{}
	}
	return maps.Clone(n.args)
}

// Sort returns the sort key bound to a WHILE node.
func (n *Node) Sort() (string, bool) { return n.Arg(ArgSort) }

// Equal reports whether n and other describe the same tree, ignoring source lines.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	if n.kind != other.kind || n.key != other.key || len(n.children) != len(other.children) {
		return false
	}

	if len(n.args) != len(other.args) || !maps.Equal(n.args, other.args) {
		return false
	}

	for i, child := range n.children {
		if !child.Equal(other.children[i]) {
			return false
		}
	}

	return true
}

// String renders the subtree in a compact bracket notation, e.g.
// DOCUMENT[ IF(a)[ FIELD(x), WHILE(b){args.sort=c} ] ].
func (n *Node) String() string {
	var sb strings.Builder
	n.format(&sb)
	return sb.String()
}

func (n *Node) format(sb *strings.Builder) {
	switch n.kind {
	case KindNone:
		sb.WriteString(strconv.Quote(n.key))
	case KindDocument:
		sb.WriteString(n.kind.String())
	default:
		sb.WriteString(n.kind.String())
		sb.WriteByte('(')
		sb.WriteString(n.key)
		sb.WriteByte(')')
	}

	if len(n.args) > 0 {
		sb.WriteByte('{')
		for i, name := range slices.Sorted(maps.Keys(n.args)) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("args.")
			sb.WriteString(name)
			sb.WriteByte('=')
			sb.WriteString(n.args[name])
		}
		sb.WriteByte('}')
	}

	if len(n.children) == 0 {
		return
	}

	sb.WriteString("[ ")
	for i, child := range n.children {
		if i > 0 {
			sb.WriteString(", ")
		}
		child.format(sb)
	}
	sb.WriteString(" ]")
}
