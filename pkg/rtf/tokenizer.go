package rtf

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// MaxDepth is the deepest group nesting accepted by the tokenizer.
const MaxDepth = 1024

// maxControlWordLen bounds control word names.
const maxControlWordLen = 32

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skippedDestinations are destinations whose content never reaches the document body.
var skippedDestinations = setOf(
	"colorschememapping", "colortbl", "datastore", "filetbl", "fldinst",
	"fonttbl", "footer", "footerf", "footerl", "footerr", "footnote",
	"generator", "header", "headerf", "headerl", "headerr", "info",
	"latentstyles", "listoverridetable", "listtable", "object", "pict",
	"revtbl", "rsidtbl", "stylesheet", "themedata", "xmlnstbl",
)

// wordText maps control words to the text they stand for.
var wordText = map[string]string{
	"par":       "\n",
	"line":      "\n",
	"sect":      "\n",
	"page":      "\n",
	"row":       "\n",
	"tab":       "\t",
	"cell":      "\t",
	"lquote":    "‘",
	"rquote":    "’",
	"ldblquote": "“",
	"rdblquote": "”",
	"emdash":    "—",
	"endash":    "–",
	"bullet":    "•",
	"emspace":   "\u2003",
	"enspace":   "\u2002",
}

// symbolText maps control symbols to the text they stand for.
var symbolText = map[byte]string{
	'\\': "\\",
	'{':  "{",
	'}':  "}",
	'~':  "\u00a0",
	'_':  "\u2011",
	'\n': "\n",
	'\r': "\n",
}

// Parse reads an RTF document from r and tokenizes it.
// The reader is not closed.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}

	return ParseBytes(data)
}

// ParseBytes tokenizes an RTF document held in memory.
func ParseBytes(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	start := 0
	for start < len(data) && isSpace(data[start]) {
		start++
	}

	if !bytes.HasPrefix(data[start:], []byte(`{\rtf`)) {
		return nil, ErrUnsupported
	}

	tok := &tokenizer{src: data, line: 1, ucSkip: 1}
	for tok.pos < start {
		tok.next()
	}

	elem, err := tok.parseGroup()
	if err != nil {
		return nil, err
	}

	root, ok := elem.(*Group)
	if !ok {
		return nil, &SyntaxError{Pos: Pos{Line: 1, Column: 1}, Msg: "document is not a group"}
	}

	for !tok.eof() && (isSpace(tok.peek()) || tok.peek() == 0) {
		tok.next()
	}
	if !tok.eof() {
		return nil, tok.errorf(tok.position(), "content after document end")
	}

	return &Document{Root: root}, nil
}

type control struct {
	word     string
	param    int
	hasParam bool
	symbol   byte
	hex      byte
}

func (c control) isWord() bool { return c.word != "" }

type tokenizer struct {
	src       []byte
	pos       int
	line      int
	lineStart int
	depth     int
	ucSkip    int
}

func (t *tokenizer) eof() bool { return t.pos >= len(t.src) }

func (t *tokenizer) peek() byte { return t.src[t.pos] }

// next consumes one byte and keeps line tracking current.
func (t *tokenizer) next() byte {
	c := t.src[t.pos]
	t.pos++

	switch c {
	case '\n':
		t.line++
		t.lineStart = t.pos
	case '\r':
		if t.pos >= len(t.src) || t.src[t.pos] != '\n' {
			t.line++
			t.lineStart = t.pos
		}
	}

	return c
}

func (t *tokenizer) position() Pos {
	return Pos{Line: t.line, Column: t.pos - t.lineStart + 1, Offset: t.pos}
}

func (t *tokenizer) errorf(pos Pos, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// destination reports the control word that opens the group at t.pos,
// which must be just past the opening brace.
func (t *tokenizer) destination() (string, bool) {
	i := t.pos
	ignorable := false

	if i+1 < len(t.src) && t.src[i] == '\\' && t.src[i+1] == '*' {
		ignorable = true
		i += 2
		for i < len(t.src) && isSpace(t.src[i]) {
			i++
		}
	}

	if i >= len(t.src) || t.src[i] != '\\' {
		return "", ignorable
	}

	i++
	j := i
	for j < len(t.src) && isLetter(t.src[j]) && j-i < maxControlWordLen {
		j++
	}

	return string(t.src[i:j]), ignorable
}

// parseGroup parses the group at t.pos. It returns a nil element for
// groups whose content is discarded.
func (t *tokenizer) parseGroup() (Element, error) {
	start := t.pos
	startPos := t.position()

	t.next()
	t.depth++
	defer func() { t.depth-- }()

	if t.depth > MaxDepth {
		return nil, t.errorf(startPos, "group nesting exceeds %d levels", MaxDepth)
	}

	savedSkip := t.ucSkip
	defer func() { t.ucSkip = savedSkip }()

	word, ignorable := t.destination()
	switch {
	case word == "bkmkstart":
		name, err := t.readDestinationText()
		if err != nil {
			return nil, err
		}
		return &BookmarkStart{Name: strings.TrimSpace(name), Raw: string(t.src[start:t.pos]), Pos: startPos}, nil

	case word == "bkmkend":
		name, err := t.readDestinationText()
		if err != nil {
			return nil, err
		}
		return &BookmarkEnd{Name: strings.TrimSpace(name), Raw: string(t.src[start:t.pos]), Pos: startPos}, nil

	case word == "field":
		return t.parseField(start, startPos)

	case ignorable || skippedDestinations[word]:
		return nil, t.skipGroup(startPos)
	}

	group := &Group{Pos: startPos}
	if err := t.parseBody(group, startPos); err != nil {
		return nil, err
	}

	return group, nil
}

// parseBody parses group content up to and including the closing brace.
func (t *tokenizer) parseBody(group *Group, groupPos Pos) error {
	var (
		text    strings.Builder
		textPos Pos
	)

	appendText := func(s string, at Pos) {
		if s == "" {
			return
		}
		if text.Len() == 0 {
			textPos = at
		}
		text.WriteString(s)
	}

	flush := func() {
		if text.Len() == 0 {
			return
		}
		group.Append(&Text{Value: text.String(), Pos: textPos})
		text.Reset()
	}

	for {
		if t.eof() {
			return t.errorf(groupPos, "unclosed group")
		}

		at := t.position()

		switch c := t.peek(); c {
		case '{':
			flush()
			child, err := t.parseGroup()
			if err != nil {
				return err
			}
			if child != nil {
				group.Append(child)
			}

		case '}':
			flush()
			t.next()
			return nil

		case '\\':
			ctl, err := t.readControl()
			if err != nil {
				return err
			}
			s, err := t.controlText(ctl)
			if err != nil {
				return err
			}
			appendText(s, at)

		case '\r', '\n':
			t.next()

		default:
			appendText(t.readPlain(), at)
		}
	}
}

// readPlain consumes a run of literal text.
func (t *tokenizer) readPlain() string {
	var sb strings.Builder

	for !t.eof() {
		c := t.peek()
		if c == '\\' || c == '{' || c == '}' || c == '\r' || c == '\n' {
			break
		}
		t.next()
		sb.WriteString(decodeByte(c))
	}

	return sb.String()
}

// controlText returns the text a control word or symbol contributes.
func (t *tokenizer) controlText(ctl control) (string, error) {
	if !ctl.isWord() {
		if ctl.symbol == '\'' {
			return decodeByte(ctl.hex), nil
		}
		return symbolText[ctl.symbol], nil
	}

	switch ctl.word {
	case "u":
		return t.unicode(ctl.param)

	case "uc":
		t.ucSkip = ctl.param
		return "", nil

	case "bin":
		return "", t.skipBinary(ctl.param)
	}

	return wordText[ctl.word], nil
}

// unicode decodes the \uN word whose parameter is param, consuming its
// fallback characters. A high surrogate is joined with an immediately
// following \uN low surrogate; unpaired surrogates become U+FFFD.
func (t *tokenizer) unicode(param int) (string, error) {
	r := utf16Unit(param)
	if err := t.skipFallback(); err != nil {
		return "", err
	}

	if r < 0xD800 || r >= 0xDC00 {
		return string(r), nil
	}
	if !t.atUnicodeWord() {
		return string(utf8.RuneError), nil
	}

	ctl, err := t.readControl()
	if err != nil {
		return "", err
	}
	low := utf16Unit(ctl.param)
	if err := t.skipFallback(); err != nil {
		return "", err
	}

	if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
		return string(pair), nil
	}
	return string(utf8.RuneError) + string(low), nil
}

// atUnicodeWord reports whether a \uN control word starts at t.pos.
func (t *tokenizer) atUnicodeWord() bool {
	rest := t.src[t.pos:]
	return len(rest) > 2 && rest[0] == '\\' && rest[1] == 'u' && (isDigit(rest[2]) || rest[2] == '-')
}

// utf16Unit maps a signed \uN parameter to its UTF-16 code unit.
func utf16Unit(param int) rune {
	if param < 0 {
		param += 0x10000
	}
	return rune(param)
}

// skipFallback drops the ANSI replacement characters following a \u word.
func (t *tokenizer) skipFallback() error {
	for n := t.ucSkip; n > 0 && !t.eof(); n-- {
		switch c := t.peek(); c {
		case '{', '}':
			return nil
		case '\\':
			if t.pos+1 < len(t.src) && isLetter(t.src[t.pos+1]) {
				return nil
			}
			if _, err := t.readControl(); err != nil {
				return err
			}
		case '\r', '\n':
			t.next()
			n++
		default:
			t.next()
		}
	}

	return nil
}

func (t *tokenizer) skipBinary(n int) error {
	if n < 0 || t.pos+n > len(t.src) {
		return t.errorf(t.position(), "truncated binary data")
	}

	for range n {
		t.next()
	}

	return nil
}

// readControl consumes a control word or control symbol starting at the backslash.
func (t *tokenizer) readControl() (control, error) {
	at := t.position()
	t.next()

	if t.eof() {
		return control{}, t.errorf(at, "truncated control word")
	}

	c := t.peek()
	if !isLetter(c) {
		t.next()
		if c != '\'' {
			return control{symbol: c}, nil
		}
		if t.pos+2 > len(t.src) {
			return control{}, t.errorf(at, "truncated hex escape")
		}
		hi, okHi := unhex(t.next())
		lo, okLo := unhex(t.next())
		if !okHi || !okLo {
			return control{}, t.errorf(at, "invalid hex escape")
		}
		return control{symbol: '\'', hex: hi<<4 | lo}, nil
	}

	start := t.pos
	for !t.eof() && isLetter(t.peek()) {
		if t.pos-start >= maxControlWordLen {
			return control{}, t.errorf(at, "control word too long")
		}
		t.next()
	}
	ctl := control{word: string(t.src[start:t.pos])}

	if t.eof() {
		return ctl, nil
	}

	negative := false
	if t.peek() == '-' && t.pos+1 < len(t.src) && isDigit(t.src[t.pos+1]) {
		negative = true
		t.next()
	}

	for !t.eof() && isDigit(t.peek()) {
		ctl.hasParam = true
		if ctl.param < 1<<24 {
			ctl.param = ctl.param*10 + int(t.next()-'0')
		} else {
			t.next()
		}
	}
	if negative {
		ctl.param = -ctl.param
	}

	if !t.eof() && t.peek() == ' ' {
		t.next()
	}

	return ctl, nil
}

// readDestinationText consumes the rest of the current group and returns its
// text content. Nested ignorable groups are dropped.
func (t *tokenizer) readDestinationText() (string, error) {
	var sb strings.Builder

	openPos := t.position()
	for {
		if t.eof() {
			return "", t.errorf(openPos, "unclosed group")
		}

		switch c := t.peek(); c {
		case '}':
			t.next()
			return sb.String(), nil

		case '{':
			groupPos := t.position()
			t.next()
			t.depth++
			if t.depth > MaxDepth {
				return "", t.errorf(groupPos, "group nesting exceeds %d levels", MaxDepth)
			}
			if _, ignorable := t.destination(); ignorable {
				err := t.skipGroup(groupPos)
				t.depth--
				if err != nil {
					return "", err
				}
				continue
			}
			inner, err := t.readDestinationText()
			t.depth--
			if err != nil {
				return "", err
			}
			sb.WriteString(inner)

		case '\\':
			ctl, err := t.readControl()
			if err != nil {
				return "", err
			}
			switch {
			case ctl.isWord() && ctl.word == "u":
				text, err := t.unicode(ctl.param)
				if err != nil {
					return "", err
				}
				sb.WriteString(text)
			case ctl.isWord():
				// formatting inside a destination carries no text
			case ctl.symbol == '\'':
				sb.WriteString(decodeByte(ctl.hex))
			case ctl.symbol == '\\' || ctl.symbol == '{' || ctl.symbol == '}':
				sb.WriteByte(ctl.symbol)
			}

		case '\r', '\n':
			t.next()

		default:
			sb.WriteString(decodeByte(t.next()))
		}
	}
}

// skipGroup discards the rest of the current group, nested groups included.
func (t *tokenizer) skipGroup(groupPos Pos) error {
	depth := 1
	for depth > 0 {
		if t.eof() {
			return t.errorf(groupPos, "unclosed group")
		}

		switch t.peek() {
		case '{':
			t.next()
			depth++
		case '}':
			t.next()
			depth--
		case '\\':
			ctl, err := t.readControl()
			if err != nil {
				return err
			}
			if ctl.word == "bin" {
				if err := t.skipBinary(ctl.param); err != nil {
					return err
				}
			}
		default:
			t.next()
		}
	}

	return nil
}

// parseField parses a {\field ...} group. MERGEFIELD fields become a Field;
// any other field is replaced by its result.
func (t *tokenizer) parseField(start int, startPos Pos) (Element, error) {
	// consume the \field word itself
	if _, err := t.readControl(); err != nil {
		return nil, err
	}

	var (
		instruction string
		result      *Group
	)

	for {
		if t.eof() {
			return nil, t.errorf(startPos, "unclosed group")
		}

		switch t.peek() {
		case '}':
			t.next()
			return t.buildField(start, startPos, instruction, result), nil

		case '{':
			groupPos := t.position()
			t.next()
			t.depth++
			if t.depth > MaxDepth {
				return nil, t.errorf(groupPos, "group nesting exceeds %d levels", MaxDepth)
			}
			word, _ := t.destination()

			var err error
			switch word {
			case "fldinst":
				var text string
				text, err = t.readDestinationText()
				instruction += text
			case "fldrslt":
				result = &Group{Pos: groupPos}
				err = t.parseBody(result, groupPos)
			default:
				err = t.skipGroup(groupPos)
			}
			t.depth--
			if err != nil {
				return nil, err
			}

		case '\\':
			if _, err := t.readControl(); err != nil {
				return nil, err
			}

		default:
			t.next()
		}
	}
}

func (t *tokenizer) buildField(start int, startPos Pos, instruction string, result *Group) Element {
	instruction = strings.TrimSpace(instruction)

	if name, ok := mergeFieldName(instruction); ok {
		return &Field{
			Name:        name,
			Instruction: instruction,
			Raw:         string(t.src[start:t.pos]),
			Pos:         startPos,
		}
	}

	if result == nil {
		return &Group{Pos: startPos}
	}
	result.Pos = startPos

	return result
}

// mergeFieldName extracts the field name from a MERGEFIELD instruction.
func mergeFieldName(instruction string) (string, bool) {
	words := strings.Fields(instruction)
	if len(words) < 2 || !strings.EqualFold(words[0], "MERGEFIELD") {
		return "", false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(instruction), words[0]))
	if rest[0] == '"' {
		name, _, found := strings.Cut(rest[1:], `"`)
		if !found {
			return "", false
		}
		return name, name != ""
	}

	return words[1], true
}

func setOf(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func decodeByte(b byte) string {
	if b < 0x80 {
		return string(rune(b))
	}
	return string(charmap.Windows1252.DecodeByte(b))
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
