package structure

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/rtftplint/pkg/directive"
	"github.com/yaklabco/rtftplint/pkg/rtf"
)

// Parser builds structure trees. A Parser keeps its open-block stack between
// calls and must not be used from more than one goroutine at a time.
type Parser struct {
	stack  []*Node
	logger *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug events.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger: log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse tokenizes the RTF read from r and builds its structure tree.
// The reader is read to the end but not closed.
func Parse(r io.Reader) (*Tree, error) {
	return NewParser().Parse(r)
}

// Parse tokenizes the RTF read from r and builds its structure tree.
// Tokenizer errors are returned unchanged; structure violations are *StructureError.
func (p *Parser) Parse(r io.Reader) (*Tree, error) {
	doc, err := rtf.Parse(r)
	if err != nil {
		return nil, err
	}

	return p.ParseDocument(doc)
}

// ParseDocument builds the structure tree of an already tokenized document.
func (p *Parser) ParseDocument(doc *rtf.Document) (*Tree, error) {
	root := newNode(RootKey, KindDocument, 0)
	p.stack = append(p.stack[:0], root)

	defer func() {
		clear(p.stack)
		p.stack = p.stack[:0]
	}()

	if doc != nil && doc.Root != nil {
		if err := p.visit(doc.Root); err != nil {
			return nil, err
		}
	}

	if len(p.stack) != 1 {
		return nil, &StructureError{Kind: UnclosedBlock, Open: p.frames(), Line: p.top().line}
	}

	return &Tree{root: root}, nil
}

func (p *Parser) top() *Node {
	return p.stack[len(p.stack)-1]
}

func (p *Parser) visit(elem rtf.Element) error {
	switch e := elem.(type) {
	case *rtf.Group:
		for _, child := range e.Children {
			if err := p.visit(child); err != nil {
				return err
			}
		}

	case *rtf.Text:
		p.top().appendChild(newNode(e.Value, KindNone, e.Pos.Line))

	case *rtf.Field:
		d, ok := directive.Classify(e.Name, directive.SourceField)
		if !ok {
			p.logger.Debug("skipping internal field", "name", e.Name, "line", e.Pos.Line)
			return nil
		}
		p.top().appendChild(newNode(d.Key, KindField, e.Pos.Line))

	case *rtf.BookmarkStart:
		return p.bookmarkStart(e)

	case *rtf.BookmarkEnd:
		return p.bookmarkEnd(e)
	}

	return nil
}

func (p *Parser) bookmarkStart(b *rtf.BookmarkStart) error {
	d, _ := directive.Classify(b.Name, directive.SourceBookmark)
	line := b.Pos.Line

	switch {
	case d.IsBegin():
		p.open(blockKind(d.Kind), d.Key, line)

	case d.Kind == directive.Sort:
		top := p.top()
		if top.kind != KindWhile {
			return &StructureError{
				Kind:      SortOutsideIteration,
				Directive: b.Name,
				Open:      p.frames(),
				Line:      line,
			}
		}
		top.setArg(ArgSort, d.Key)
		p.logger.Debug("bound sort key", "key", top.key, "sort", d.Key, "line", line)

	case d.Kind == directive.Plain:
		p.top().appendChild(newNode(inline(b.Raw, b.Name), KindNone, line))
	}

	return nil
}

func (p *Parser) bookmarkEnd(b *rtf.BookmarkEnd) error {
	d, _ := directive.Classify(b.Name, directive.SourceBookmark)
	line := b.Pos.Line

	switch {
	case d.IsEnd():
		return p.close(blockKind(d.Kind), d.Key, b.Name, line)

	case d.Kind == directive.Plain:
		p.top().appendChild(newNode(inline(b.Raw, b.Name), KindNone, line))
	}

	return nil
}

// blockKind maps a begin or end directive to the kind of block it delimits.
func blockKind(k directive.Kind) Kind {
	if k == directive.BeginWhile || k == directive.EndWhile {
		return KindWhile
	}
	return KindIf
}

func (p *Parser) open(kind Kind, key string, line int) {
	node := newNode(key, kind, line)
	p.top().appendChild(node)
	p.stack = append(p.stack, node)

	p.logger.Debug("open block", "kind", kind, "key", key, "depth", len(p.stack)-1, "line", line)
}

func (p *Parser) close(kind Kind, key, name string, line int) error {
	if len(p.stack) <= 1 {
		return &StructureError{Kind: UnmatchedEnd, Directive: name, Line: line}
	}

	top := p.top()
	if top.kind != kind || top.key != key {
		return &StructureError{
			Kind:      MismatchedEnd,
			Directive: name,
			Open:      p.frames(),
			Line:      line,
		}
	}

	p.stack[len(p.stack)-1] = nil
	p.stack = p.stack[:len(p.stack)-1]

	p.logger.Debug("close block", "kind", kind, "key", key, "depth", len(p.stack)-1, "line", line)

	return nil
}

// frames lists the open blocks, outermost first, excluding the document root.
func (p *Parser) frames() []Frame {
	frames := make([]Frame, 0, len(p.stack)-1)
	for _, n := range p.stack[1:] {
		frames = append(frames, Frame{Kind: n.kind, Key: n.key, Line: n.line})
	}
	return frames
}

func inline(raw, name string) string {
	if raw != "" {
		return raw
	}
	return name
}
