// Package rtf tokenizes RTF documents into the element tree consumed by the
// structure parser: text runs, merge fields, bookmark markers and groups.
//
// Only the parts of RTF that carry template semantics are modelled. Formatting
// control words are dropped, and header destinations such as the font and
// color tables are skipped.
package rtf

// Kind classifies an element.
type Kind uint8

// Element kinds.
const (
	KindGroup Kind = iota
	KindText
	KindField
	KindBookmarkStart
	KindBookmarkEnd
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "Group"
	case KindText:
		return "Text"
	case KindField:
		return "Field"
	case KindBookmarkStart:
		return "BookmarkStart"
	case KindBookmarkEnd:
		return "BookmarkEnd"
	default:
		return "Unknown"
	}
}

// Pos is the location of the first byte of an element.
type Pos struct {
	// Line is 1-based.
	Line int

	// Column is 1-based, counted in bytes.
	Column int

	// Offset is the 0-based byte offset into the document.
	Offset int
}

// Element is one node of the element tree.
type Element interface {
	Kind() Kind
	Position() Pos
}

// Text is a run of decoded document text.
type Text struct {
	Value string
	Pos   Pos
}

// Field is a MERGEFIELD field.
type Field struct {
	// Name is the merge field name with surrounding quotes removed.
	Name string

	// Instruction is the field instruction text with RTF control words removed.
	Instruction string

	// Raw is the verbatim RTF of the field group.
	Raw string

	Pos Pos
}

// BookmarkStart is a {\*\bkmkstart NAME} marker.
type BookmarkStart struct {
	Name string

	// Raw is the verbatim RTF of the bookmark group.
	Raw string

	Pos Pos
}

// BookmarkEnd is a {\*\bkmkend NAME} marker.
type BookmarkEnd struct {
	Name string

	// Raw is the verbatim RTF of the bookmark group.
	Raw string

	Pos Pos
}

// Group is a container whose children are visited in order.
// It carries no template semantics of its own.
type Group struct {
	Children []Element
	Pos      Pos
}

// Document is a tokenized RTF document.
type Document struct {
	// Root is the outermost {\rtf1 ...} group.
	Root *Group
}

// Kind implements Element.
func (*Text) Kind() Kind { return KindText }

// Kind implements Element.
func (*Field) Kind() Kind { return KindField }

// Kind implements Element.
func (*BookmarkStart) Kind() Kind { return KindBookmarkStart }

// Kind implements Element.
func (*BookmarkEnd) Kind() Kind { return KindBookmarkEnd }

// Kind implements Element.
func (*Group) Kind() Kind { return KindGroup }

// Position implements Element.
func (t *Text) Position() Pos { return t.Pos }

// Position implements Element.
func (f *Field) Position() Pos { return f.Pos }

// Position implements Element.
func (b *BookmarkStart) Position() Pos { return b.Pos }

// Position implements Element.
func (b *BookmarkEnd) Position() Pos { return b.Pos }

// Position implements Element.
func (g *Group) Position() Pos { return g.Pos }

// Append adds elements to the end of the group.
func (g *Group) Append(elements ...Element) {
	g.Children = append(g.Children, elements...)
}

// NewDocument returns a document whose root group holds the given elements.
func NewDocument(elements ...Element) *Document {
	root := &Group{}
	root.Append(elements...)
	return &Document{Root: root}
}
