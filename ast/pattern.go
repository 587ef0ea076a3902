package ast

import (
	"github.com/emberlang/ember/internal/idalloc"
	"github.com/emberlang/ember/source"
)

// Pattern is implemented by every pattern variant named in spec.md §3.
type Pattern interface {
	Node
	isPattern()
}

// WildcardPattern is `_`.
type WildcardPattern struct{ base }

func (*WildcardPattern) isPattern() {}

func NewWildcardPattern(alloc *idalloc.Allocator, span source.Span) *WildcardPattern {
	return &WildcardPattern{base: newBase(alloc, span)}
}

// IdentPattern binds the entire scrutinee to Name.
type IdentPattern struct {
	base
	Name string
}

func (*IdentPattern) isPattern() {}

func NewIdentPattern(alloc *idalloc.Allocator, span source.Span, name string) *IdentPattern {
	return &IdentPattern{base: newBase(alloc, span), Name: name}
}

// LiteralPattern matches a scrutinee equal to a literal value.
type LiteralPattern struct {
	base
	Literal *LiteralExpr
}

func (*LiteralPattern) isPattern() {}

func NewLiteralPattern(alloc *idalloc.Allocator, span source.Span, lit *LiteralExpr) *LiteralPattern {
	return &LiteralPattern{base: newBase(alloc, span), Literal: lit}
}

// TuplePattern destructures a tuple positionally.
type TuplePattern struct {
	base
	Elems []Pattern
}

func (*TuplePattern) isPattern() {}

func NewTuplePattern(alloc *idalloc.Allocator, span source.Span, elems []Pattern) *TuplePattern {
	return &TuplePattern{base: newBase(alloc, span), Elems: elems}
}

// RecordPatternField is one named field of a RecordPattern; Sub is nil
// when the field is bound by its own name (shorthand `{ x }`).
type RecordPatternField struct {
	Name string
	Sub  Pattern
}

// RecordPattern destructures named fields; fields omitted from the
// pattern are simply not bound (spec.md §4.6).
type RecordPattern struct {
	base
	Fields []RecordPatternField
}

func (*RecordPattern) isPattern() {}

func NewRecordPattern(alloc *idalloc.Allocator, span source.Span, fields []RecordPatternField) *RecordPattern {
	return &RecordPattern{base: newBase(alloc, span), Fields: fields}
}

// VariantPattern matches a sum-type constructor, optionally destructuring
// its positional payload.
type VariantPattern struct {
	base
	Name    string
	Payload []Pattern // nil for a nullary variant pattern
}

func (*VariantPattern) isPattern() {}

func NewVariantPattern(alloc *idalloc.Allocator, span source.Span, name string, payload []Pattern) *VariantPattern {
	return &VariantPattern{base: newBase(alloc, span), Name: name, Payload: payload}
}
