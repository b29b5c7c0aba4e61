package rtf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
)

const documentHeader = "{\\rtf1\\ansi\\deff0 {\\fonttbl {\\f0 Arial;}}\n"

// Write encodes doc as RTF. Elements that carry their original RTF are
// written verbatim; others are synthesized.
func Write(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(documentHeader); err != nil {
		return err
	}

	if doc != nil && doc.Root != nil {
		for _, child := range doc.Root.Children {
			if err := writeElement(bw, child); err != nil {
				return err
			}
		}
	}

	if _, err := bw.WriteString("}\n"); err != nil {
		return err
	}

	return bw.Flush()
}

// Marshal returns the RTF encoding of doc.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeElement(w *bufio.Writer, elem Element) error {
	var err error

	switch e := elem.(type) {
	case *Text:
		_, err = w.WriteString(EscapeText(e.Value))

	case *Field:
		if e.Raw != "" {
			_, err = w.WriteString(e.Raw)
			break
		}
		name := e.Name
		if strings.ContainsAny(name, " \t") {
			name = `"` + name + `"`
		}
		_, err = fmt.Fprintf(w, "{\\field{\\*\\fldinst MERGEFIELD %s}{\\fldrslt %s}}",
			EscapeText(name), EscapeText("«"+e.Name+"»"))

	case *BookmarkStart:
		if e.Raw != "" {
			_, err = w.WriteString(e.Raw)
			break
		}
		_, err = fmt.Fprintf(w, "{\\*\\bkmkstart %s}", EscapeText(e.Name))

	case *BookmarkEnd:
		if e.Raw != "" {
			_, err = w.WriteString(e.Raw)
			break
		}
		_, err = fmt.Fprintf(w, "{\\*\\bkmkend %s}", EscapeText(e.Name))

	case *Group:
		if err = w.WriteByte('{'); err != nil {
			return err
		}
		for _, child := range e.Children {
			if err = writeElement(w, child); err != nil {
				return err
			}
		}
		err = w.WriteByte('}')

	default:
		err = fmt.Errorf("cannot encode element of type %T", elem)
	}

	return err
}

// EscapeText encodes s for inclusion in an RTF body.
func EscapeText(s string) string {
	var buf bytes.Buffer

	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			buf.WriteByte('\\')
			buf.WriteRune(r)
		case r == '\n':
			buf.WriteString("\\par ")
		case r == '\t':
			buf.WriteString("\\tab ")
		case r < 0x80:
			buf.WriteRune(r)
		default:
			for _, unit := range utf16.Encode([]rune{r}) {
				fmt.Fprintf(&buf, "\\u%d?", int16(unit))
			}
		}
	}

	return buf.String()
}
