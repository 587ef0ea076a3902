// Package ast defines the tagged-variant AST produced by the parser: one
// Go interface per spec.md §3 node category (Decl, TypeExpr, Expr, Stmt,
// Pattern), implemented by a closed set of concrete node types. Every node
// carries a stable ID (minted by an internal/idalloc.Allocator, never a
// process-wide counter) and a source.Span.
//
// Traversal is by type switch over the closed interfaces, giving the
// "double dispatch via match" visitor style called for in spec.md §9: a
// visitor function takes the interface value and switches on its
// concrete type.
package ast

import (
	"github.com/emberlang/ember/internal/idalloc"
	"github.com/emberlang/ember/source"
)

// Node is implemented by every AST node: declarations, statements,
// expressions, patterns, and type-expressions alike.
type Node interface {
	ID() idalloc.ID
	Span() source.Span
}

// base is embedded by every concrete node type to provide the common
// (id, span) pair required by Node, matching spec.md §3's "All nodes share
// (id, span, kind)".
type base struct {
	id   idalloc.ID
	span source.Span
}

func (b base) ID() idalloc.ID    { return b.id }
func (b base) Span() source.Span { return b.span }

func newBase(alloc *idalloc.Allocator, span source.Span) base {
	return base{id: alloc.Next(), span: span}
}

// Program is the root of an Ember AST: an ordered sequence of top-level
// declarations.
type Program struct {
	base
	Decls []Decl
}

func NewProgram(alloc *idalloc.Allocator, span source.Span, decls []Decl) *Program {
	return &Program{base: newBase(alloc, span), Decls: decls}
}
