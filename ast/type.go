package ast

import (
	"github.com/emberlang/ember/internal/idalloc"
	"github.com/emberlang/ember/source"
)

// TypeExpr is implemented by every type-expression variant named in
// spec.md §3: named, array, tuple, function, refined, effect, record.
type TypeExpr interface {
	Node
	isTypeExpr()
}

// NamedType is a type name with an optional type-argument list, e.g.
// `Option<Int>` or a bare `Int`.
type NamedType struct {
	base
	Name string
	Args []TypeExpr
}

func (*NamedType) isTypeExpr() {}

func NewNamedType(alloc *idalloc.Allocator, span source.Span, name string, args []TypeExpr) *NamedType {
	return &NamedType{base: newBase(alloc, span), Name: name, Args: args}
}

// ArrayType is `[T]`.
type ArrayType struct {
	base
	Elem TypeExpr
}

func (*ArrayType) isTypeExpr() {}

func NewArrayType(alloc *idalloc.Allocator, span source.Span, elem TypeExpr) *ArrayType {
	return &ArrayType{base: newBase(alloc, span), Elem: elem}
}

// TupleType is `(T1, T2, ...)`.
type TupleType struct {
	base
	Elems []TypeExpr
}

func (*TupleType) isTypeExpr() {}

func NewTupleType(alloc *idalloc.Allocator, span source.Span, elems []TypeExpr) *TupleType {
	return &TupleType{base: newBase(alloc, span), Elems: elems}
}

// FuncType is `(Params) -> Return`, with no effect row of its own (the
// row lives on EffectType, which wraps a FuncType's return position when
// a function declaration specifies one).
type FuncType struct {
	base
	Params []TypeExpr
	Return TypeExpr
}

func (*FuncType) isTypeExpr() {}

func NewFuncType(alloc *idalloc.Allocator, span source.Span, params []TypeExpr, ret TypeExpr) *FuncType {
	return &FuncType{base: newBase(alloc, span), Params: params, Return: ret}
}

// RefinedType is `Base{varName | predicate}`, e.g. `Int{x | x > 0}`.
// VarName is empty when the source omitted it; the checker/solver then
// infers it from the predicate's free variables or a conventional default
// (spec.md §3: "n" for integers, "arr" for arrays).
type RefinedType struct {
	base
	BaseType  TypeExpr
	VarName   string
	Predicate Expr
}

func (*RefinedType) isTypeExpr() {}

func NewRefinedType(alloc *idalloc.Allocator, span source.Span, baseType TypeExpr, varName string, pred Expr) *RefinedType {
	return &RefinedType{base: newBase(alloc, span), BaseType: baseType, VarName: varName, Predicate: pred}
}

// EffectType is `E1 + E2 + ... -> Result`: a function's declared effect
// row together with its result type.
type EffectType struct {
	base
	Effects []string // subset of {IO, Err, Async, Mut}, source order preserved
	Result  TypeExpr
}

func (*EffectType) isTypeExpr() {}

func NewEffectType(alloc *idalloc.Allocator, span source.Span, effects []string, result TypeExpr) *EffectType {
	return &EffectType{base: newBase(alloc, span), Effects: effects, Result: result}
}

// RecordTypeField is one field of an inline RecordType type-expression.
type RecordTypeField struct {
	Name string
	Type TypeExpr
}

// RecordType is an inline `{ field: Type, ... }` record type-expression,
// as opposed to RecordDecl which names and declares one at top level.
type RecordType struct {
	base
	Fields []RecordTypeField
	Open   bool
}

func (*RecordType) isTypeExpr() {}

func NewRecordType(alloc *idalloc.Allocator, span source.Span, fields []RecordTypeField, open bool) *RecordType {
	return &RecordType{base: newBase(alloc, span), Fields: fields, Open: open}
}
