// Package directive classifies bookmark and merge field names into template
// directives.
package directive

import "strings"

// Naming conventions of the template engine.
const (
	PrefixEndIf    = "ENDIF_"
	PrefixEndWhile = "ENDWHILE_"
	PrefixIf       = "IF_"
	PrefixWhile    = "WHILE_"
	PrefixSort     = "SORT_"

	// AlternateSuffix marks an alternate sort order; it and anything after it
	// are dropped from the sort key.
	AlternateSuffix = "_ALT"

	// InternalFieldPrefix marks merge fields reserved for the engine.
	InternalFieldPrefix = "$"
)

// Kind is the variant of a Directive.
type Kind uint8

// Directive kinds.
const (
	Plain Kind = iota
	BeginIf
	EndIf
	BeginWhile
	EndWhile
	Sort
	Field
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Plain:
		return "Plain"
	case BeginIf:
		return "BeginIf"
	case EndIf:
		return "EndIf"
	case BeginWhile:
		return "BeginWhile"
	case EndWhile:
		return "EndWhile"
	case Sort:
		return "Sort"
	case Field:
		return "Field"
	default:
		return "Unknown"
	}
}

// Source tells Classify where a name came from.
type Source uint8

// Name sources.
const (
	SourceBookmark Source = iota
	SourceField
)

// Directive is a classified bookmark or field name.
type Directive struct {
	Kind Kind

	// Key is the name with the directive prefix stripped. For Plain and
	// Field directives it is the name itself.
	Key string
}

// prefixes is ordered so that longer prefixes win over the prefixes they contain.
var prefixes = []struct {
	prefix string
	kind   Kind
}{
	{PrefixEndIf, EndIf},
	{PrefixEndWhile, EndWhile},
	{PrefixIf, BeginIf},
	{PrefixWhile, BeginWhile},
	{PrefixSort, Sort},
}

// Classify maps a name to its directive. The boolean is false when the name
// yields no directive at all, which only happens for internal merge fields.
func Classify(name string, src Source) (Directive, bool) {
	if src == SourceField {
		if strings.HasPrefix(name, InternalFieldPrefix) {
			return Directive{}, false
		}
		return Directive{Kind: Field, Key: name}, true
	}

	for _, p := range prefixes {
		key, found := strings.CutPrefix(name, p.prefix)
		if !found {
			continue
		}
		if p.kind == Sort {
			key = SortKey(key)
		}
		return Directive{Kind: p.kind, Key: key}, true
	}

	return Directive{Kind: Plain, Key: name}, true
}

// SortKey strips the alternate suffix from the remainder of a SORT_ name.
// A suffix at the very start of the remainder is kept.
func SortKey(remainder string) string {
	if i := strings.Index(remainder, AlternateSuffix); i > 0 {
		return remainder[:i]
	}
	return remainder
}

// Name reconstructs the bookmark or field name of the directive. Sort
// directives lose any alternate suffix.
func (d Directive) Name() string {
	switch d.Kind {
	case BeginIf:
		return PrefixIf + d.Key
	case EndIf:
		return PrefixEndIf + d.Key
	case BeginWhile:
		return PrefixWhile + d.Key
	case EndWhile:
		return PrefixEndWhile + d.Key
	case Sort:
		return PrefixSort + d.Key
	default:
		return d.Key
	}
}

// String implements fmt.Stringer.
func (d Directive) String() string {
	return d.Kind.String() + "(" + d.Key + ")"
}

// IsBegin reports whether d opens a block.
func (d Directive) IsBegin() bool {
	return d.Kind == BeginIf || d.Kind == BeginWhile
}

// IsEnd reports whether d closes a block.
func (d Directive) IsEnd() bool {
	return d.Kind == EndIf || d.Kind == EndWhile
}
