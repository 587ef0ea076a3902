package ast

import (
	"github.com/emberlang/ember/internal/idalloc"
	"github.com/emberlang/ember/source"
)

// Decl is implemented by every top-level declaration variant named in
// spec.md §3: module header, use import, type alias, record type, sum
// type, function, external function, external module.
type Decl interface {
	Node
	isDecl()
}

// ModuleDecl is a `mod name` header declaration.
type ModuleDecl struct {
	base
	Name string
}

func (*ModuleDecl) isDecl() {}

func NewModuleDecl(alloc *idalloc.Allocator, span source.Span, name string) *ModuleDecl {
	return &ModuleDecl{base: newBase(alloc, span), Name: name}
}

// UseDecl is a `use a.b.c [items] [as alias]` import, optionally external.
type UseDecl struct {
	base
	Path     []string
	Items    []string // nil means "import the path itself", not a wildcard
	Alias    string    // empty if no alias
	External bool
}

func (*UseDecl) isDecl() {}

func NewUseDecl(alloc *idalloc.Allocator, span source.Span, path, items []string, alias string, external bool) *UseDecl {
	return &UseDecl{base: newBase(alloc, span), Path: path, Items: items, Alias: alias, External: external}
}

// TypeAliasDecl is `type Name<params> = TypeExpr`.
type TypeAliasDecl struct {
	base
	Name       string
	TypeParams []string
	Type       TypeExpr
}

func (*TypeAliasDecl) isDecl() {}

func NewTypeAliasDecl(alloc *idalloc.Allocator, span source.Span, name string, params []string, t TypeExpr) *TypeAliasDecl {
	return &TypeAliasDecl{base: newBase(alloc, span), Name: name, TypeParams: params, Type: t}
}

// RecordField is a single named field in a RecordDecl.
type RecordField struct {
	Name string
	Type TypeExpr
	Span source.Span
}

// RecordDecl is `rec Name<params> { field: Type, ... }`.
type RecordDecl struct {
	base
	Name       string
	TypeParams []string
	Fields     []RecordField
	Open       bool // open record types admit extra, unlisted fields
}

func (*RecordDecl) isDecl() {}

func NewRecordDecl(alloc *idalloc.Allocator, span source.Span, name string, params []string, fields []RecordField, open bool) *RecordDecl {
	return &RecordDecl{base: newBase(alloc, span), Name: name, TypeParams: params, Fields: fields, Open: open}
}

// VariantField is one field of a sum-type variant's payload: positional
// fields have an empty Name.
type VariantField struct {
	Name string
	Type TypeExpr
}

// Variant is one constructor case of a SumDecl.
type Variant struct {
	Name   string
	Fields []VariantField // nil for a nullary variant
	Span   source.Span
}

// SumDecl is `sum Name<params> { Variant1, Variant2(Type), ... }`.
type SumDecl struct {
	base
	Name       string
	TypeParams []string
	Variants   []Variant
}

func (*SumDecl) isDecl() {}

func NewSumDecl(alloc *idalloc.Allocator, span source.Span, name string, params []string, variants []Variant) *SumDecl {
	return &SumDecl{base: newBase(alloc, span), Name: name, TypeParams: params, Variants: variants}
}

// Param is a single function parameter.
type Param struct {
	Name string
	Type TypeExpr
	Span source.Span
}

// FuncDecl is `fn name<params>(params) -> effectRow { body }`.
type FuncDecl struct {
	base
	Name       string
	TypeParams []string
	Params     []Param
	Return     TypeExpr // the result type, stripped of its effect row
	Effects    *EffectType
	Body       *BlockExpr
}

func (*FuncDecl) isDecl() {}

func NewFuncDecl(alloc *idalloc.Allocator, span source.Span, name string, typeParams []string, params []Param, ret TypeExpr, effects *EffectType, body *BlockExpr) *FuncDecl {
	return &FuncDecl{base: newBase(alloc, span), Name: name, TypeParams: typeParams, Params: params, Return: ret, Effects: effects, Body: body}
}

// ExternFuncDecl is `external fn name(params) -> T = "hostName"`.
type ExternFuncDecl struct {
	base
	Name       string
	Params     []Param
	Return     TypeExpr
	Effects    *EffectType
	HostName   string
}

func (*ExternFuncDecl) isDecl() {}

func NewExternFuncDecl(alloc *idalloc.Allocator, span source.Span, name string, params []Param, ret TypeExpr, effects *EffectType, hostName string) *ExternFuncDecl {
	return &ExternFuncDecl{base: newBase(alloc, span), Name: name, Params: params, Return: ret, Effects: effects, HostName: hostName}
}

// ExternModDecl is `external mod name = "module" { ...ExternFuncDecl }`.
type ExternModDecl struct {
	base
	Name       string
	HostModule string
	Funcs      []*ExternFuncDecl
}

func (*ExternModDecl) isDecl() {}

func NewExternModDecl(alloc *idalloc.Allocator, span source.Span, name, hostModule string, funcs []*ExternFuncDecl) *ExternModDecl {
	return &ExternModDecl{base: newBase(alloc, span), Name: name, HostModule: hostModule, Funcs: funcs}
}
