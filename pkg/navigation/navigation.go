// Package navigation renders the navigation document of a template: an RTF
// file listing every IF and WHILE block as a pair of hyperlinks to the
// block's bookmarks in the original template.
package navigation

import (
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/rtftplint/pkg/directive"
	"github.com/yaklabco/rtftplint/pkg/rtf"
	"github.com/yaklabco/rtftplint/pkg/structure"
)

// LabelStyle selects the link labels used for WHILE blocks.
type LabelStyle string

const (
	// LabelIf labels WHILE links IF_k and ENDIF_k, as the template engine's
	// own navigation documents do.
	LabelIf LabelStyle = "if"

	// LabelWhile labels WHILE links WHILE_k and ENDWHILE_k.
	LabelWhile LabelStyle = "while"
)

// ParseLabelStyle parses a label style name.
func ParseLabelStyle(s string) (LabelStyle, error) {
	switch LabelStyle(strings.ToLower(strings.TrimSpace(s))) {
	case LabelIf, "":
		return LabelIf, nil
	case LabelWhile:
		return LabelWhile, nil
	default:
		return "", fmt.Errorf("unknown iteration label style %q (valid: if, while)", s)
	}
}

// Defaults.
const (
	DefaultFont     = "Arial"
	DefaultFontSize = 32
)

const (
	documentFormat  = "{\\rtf1\\ansi\\deff0 {\\fonttbl {\\f0 %s;}}\n\\f0\\fs%d %s }"
	hyperlinkFormat = "{\\field{\\*\\fldinst HYPERLINK \"%s\" \\\\l \"%s\"}{\\fldrslt %s}}"
	blockFormat     = "\\line %s %s %s \\line %s %s"
	indentUnit      = "  "
)

// Options controls the rendered document.
type Options struct {
	// Font is the single font of the document.
	Font string

	// FontSize is in half-points, as used by \fs.
	FontSize int

	// IterationLabels selects the labels of WHILE links.
	IterationLabels LabelStyle
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{
		Font:            DefaultFont,
		FontSize:        DefaultFontSize,
		IterationLabels: LabelIf,
	}
}

func (o Options) withDefaults() Options {
	if o.Font == "" {
		o.Font = DefaultFont
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.IterationLabels == "" {
		o.IterationLabels = LabelIf
	}
	return o
}

// Render returns the navigation document of tree. sourceURL identifies the
// template the hyperlinks point into, see FileURL.
func Render(tree *structure.Tree, sourceURL string, opts Options) string {
	opts = opts.withDefaults()

	var links strings.Builder
	if tree != nil {
		writeLinks(&links, tree.Root().Children(), 0, sourceURL, opts)
	}

	return fmt.Sprintf(documentFormat, opts.Font, opts.FontSize, links.String())
}

// Write renders the navigation document of tree to w.
func Write(w io.Writer, tree *structure.Tree, sourceURL string, opts Options) error {
	_, err := io.WriteString(w, Render(tree, sourceURL, opts))
	return err
}

func writeLinks(sb *strings.Builder, nodes []*structure.Node, depth int, url string, opts Options) {
	indent := strings.Repeat(indentUnit, depth)

	for _, n := range nodes {
		if !n.IsBlock() {
			continue
		}

		beginAnchor, endAnchor := directive.PrefixIf+n.Key(), directive.PrefixEndIf+n.Key()
		beginLabel, endLabel := beginAnchor, endAnchor

		if n.Kind() == structure.KindWhile {
			beginAnchor, endAnchor = directive.PrefixWhile+n.Key(), directive.PrefixEndWhile+n.Key()
			if opts.IterationLabels == LabelWhile {
				beginLabel, endLabel = beginAnchor, endAnchor
			}
		}

		var children strings.Builder
		writeLinks(&children, n.Children(), depth+1, url, opts)

		fmt.Fprintf(sb, blockFormat,
			indent, hyperlink(url, beginAnchor, beginLabel),
			children.String(),
			indent, hyperlink(url, endAnchor, endLabel))
	}
}

func hyperlink(url, anchor, label string) string {
	return fmt.Sprintf(hyperlinkFormat, url, anchor, rtf.EscapeText(label))
}

// FileURL returns the file:/// URL of a template path. Backslashes become
// slashes and spaces are percent-encoded; nothing else is escaped.
func FileURL(path string) string {
	p := strings.ReplaceAll(path, `\`, "/")
	p = strings.TrimPrefix(p, "/")
	p = strings.ReplaceAll(p, " ", "%20")
	return "file:///" + p
}
