package ast

import (
	"math/big"

	"github.com/emberlang/ember/internal/idalloc"
	"github.com/emberlang/ember/source"
)

// Expr is implemented by every expression variant named in spec.md §3.
type Expr interface {
	Node
	isExpr()
}

// LiteralKind distinguishes the payload carried by a LiteralExpr.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitTemplate
	LitBool
	LitUnit
)

// LiteralExpr is a literal int/float/string/template-string/bool/unit.
type LiteralExpr struct {
	base
	Kind    LiteralKind
	Int     *big.Int
	IntWidth string // "", "i32", or "i64"
	Float   float64
	String  string
	Bool    bool
}

func (*LiteralExpr) isExpr() {}

func NewLiteralExpr(alloc *idalloc.Allocator, span source.Span, kind LiteralKind) *LiteralExpr {
	return &LiteralExpr{base: newBase(alloc, span), Kind: kind}
}

// IdentExpr references a binding by name.
type IdentExpr struct {
	base
	Name string
}

func (*IdentExpr) isExpr() {}

func NewIdentExpr(alloc *idalloc.Allocator, span source.Span, name string) *IdentExpr {
	return &IdentExpr{base: newBase(alloc, span), Name: name}
}

// UnaryOp enumerates prefix unary operators.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota // -
	UnaryNot                // !
)

// UnaryExpr is a prefix unary operator applied to an operand.
type UnaryExpr struct {
	base
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) isExpr() {}

func NewUnaryExpr(alloc *idalloc.Allocator, span source.Span, op UnaryOp, operand Expr) *UnaryExpr {
	return &UnaryExpr{base: newBase(alloc, span), Op: op, Operand: operand}
}

// BinaryOp enumerates infix binary operators, ordered roughly by the
// precedence table in spec.md §4.2 (lowest to highest).
type BinaryOp int

const (
	BinPipe BinaryOp = iota // |>
	BinOr                   // ||
	BinAnd                  // &&
	BinEq                   // ==
	BinNeq                  // !=
	BinLt                   // <
	BinLe                   // <=
	BinGt                   // >
	BinGe                   // >=
	BinConcat               // ++
	BinAdd                  // +
	BinSub                  // -
	BinMul                  // *
	BinDiv                  // /
	BinMod                  // %
	BinPow                  // ^ (right-associative)
)

// BinaryExpr is an infix binary operator applied to two operands. Pipe
// expressions (BinPipe) are represented here pre-desugaring; canon
// rewrites `x |> f` into a CallExpr (spec.md §4.7 phase 1).
type BinaryExpr struct {
	base
	Op          BinaryOp
	Left, Right Expr
}

func (*BinaryExpr) isExpr() {}

func NewBinaryExpr(alloc *idalloc.Allocator, span source.Span, op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{base: newBase(alloc, span), Op: op, Left: left, Right: right}
}

// CallExpr is a function application `callee(args...)`.
type CallExpr struct {
	base
	Callee Expr
	Args   []Expr
}

func (*CallExpr) isExpr() {}

func NewCallExpr(alloc *idalloc.Allocator, span source.Span, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{base: newBase(alloc, span), Callee: callee, Args: args}
}

// IndexExpr is `arr[index]`.
type IndexExpr struct {
	base
	Array Expr
	Index Expr
}

func (*IndexExpr) isExpr() {}

func NewIndexExpr(alloc *idalloc.Allocator, span source.Span, arr, index Expr) *IndexExpr {
	return &IndexExpr{base: newBase(alloc, span), Array: arr, Index: index}
}

// FieldExpr is `receiver.field`.
type FieldExpr struct {
	base
	Receiver Expr
	Field    string
}

func (*FieldExpr) isExpr() {}

func NewFieldExpr(alloc *idalloc.Allocator, span source.Span, recv Expr, field string) *FieldExpr {
	return &FieldExpr{base: newBase(alloc, span), Receiver: recv, Field: field}
}

// LambdaExpr is an anonymous function literal.
type LambdaExpr struct {
	base
	Params []Param
	Return TypeExpr // nil if unannotated
	Body   Expr
}

func (*LambdaExpr) isExpr() {}

func NewLambdaExpr(alloc *idalloc.Allocator, span source.Span, params []Param, ret TypeExpr, body Expr) *LambdaExpr {
	return &LambdaExpr{base: newBase(alloc, span), Params: params, Return: ret, Body: body}
}

// IfExpr is `if cond { then } [else { else }]`. Else is nil until canon's
// normalize phase fills in a synthetic `else { unit }` (spec.md §4.7 phase
// 2); the parser itself leaves it nil for a bare `if` with no else.
type IfExpr struct {
	base
	Cond Expr
	Then *BlockExpr
	Else Expr // *BlockExpr or another *IfExpr (else-if chain), or nil
}

func (*IfExpr) isExpr() {}

func NewIfExpr(alloc *idalloc.Allocator, span source.Span, cond Expr, then *BlockExpr, els Expr) *IfExpr {
	return &IfExpr{base: newBase(alloc, span), Cond: cond, Then: then, Else: els}
}

// MatchArm is one `pattern [if guard] -> body` arm of a MatchExpr.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil if unguarded
	Body    Expr
	Span    source.Span
}

// MatchExpr is `match scrutinee { arm, arm, ... }`. Arms may legally be
// empty (spec.md §3 invariant: "the checker must tolerate an empty arm
// list and report it").
type MatchExpr struct {
	base
	Scrutinee Expr
	Arms      []MatchArm
}

func (*MatchExpr) isExpr() {}

func NewMatchExpr(alloc *idalloc.Allocator, span source.Span, scrutinee Expr, arms []MatchArm) *MatchExpr {
	return &MatchExpr{base: newBase(alloc, span), Scrutinee: scrutinee, Arms: arms}
}

// BlockExpr is `{ stmt; stmt; ...; [trailingExpr] }`. Value is nil for a
// block with no trailing expression, until canon's normalize phase fills
// in a synthetic unit value (spec.md §4.7 phase 2).
type BlockExpr struct {
	base
	Stmts []Stmt
	Value Expr
}

func (*BlockExpr) isExpr() {}

func NewBlockExpr(alloc *idalloc.Allocator, span source.Span, stmts []Stmt, value Expr) *BlockExpr {
	return &BlockExpr{base: newBase(alloc, span), Stmts: stmts, Value: value}
}

// ArrayExpr is an array literal `[e1, e2, ...]`.
type ArrayExpr struct {
	base
	Elems []Expr
}

func (*ArrayExpr) isExpr() {}

func NewArrayExpr(alloc *idalloc.Allocator, span source.Span, elems []Expr) *ArrayExpr {
	return &ArrayExpr{base: newBase(alloc, span), Elems: elems}
}

// TupleExpr is a tuple literal `(e1, e2, ...)`.
type TupleExpr struct {
	base
	Elems []Expr
}

func (*TupleExpr) isExpr() {}

func NewTupleExpr(alloc *idalloc.Allocator, span source.Span, elems []Expr) *TupleExpr {
	return &TupleExpr{base: newBase(alloc, span), Elems: elems}
}

// RecordFieldExpr is one `name: value` field of a RecordExpr.
type RecordFieldExpr struct {
	Name  string
	Value Expr
}

// RecordExpr is a positional or named record-construction expression.
// Note: `TypeIdent { field: ... }` literal syntax is rejected by the
// parser (spec.md §4.2); RecordExpr is only reachable via explicit
// positional construction or the hybrid-JSON bridge.
type RecordExpr struct {
	base
	TypeName string // may be empty for an untyped inline record
	Fields   []RecordFieldExpr
}

func (*RecordExpr) isExpr() {}

func NewRecordExpr(alloc *idalloc.Allocator, span source.Span, typeName string, fields []RecordFieldExpr) *RecordExpr {
	return &RecordExpr{base: newBase(alloc, span), TypeName: typeName, Fields: fields}
}

// RangeExpr is `a..b` or `a..=b`, pre-desugaring; canon rewrites it to
// `__range(a, b, inclusive)` (spec.md §4.7 phase 1).
type RangeExpr struct {
	base
	Start, End Expr
	Inclusive  bool
}

func (*RangeExpr) isExpr() {}

func NewRangeExpr(alloc *idalloc.Allocator, span source.Span, start, end Expr, inclusive bool) *RangeExpr {
	return &RangeExpr{base: newBase(alloc, span), Start: start, End: end, Inclusive: inclusive}
}

// TryExpr is the postfix error-propagation operator `expr?`.
type TryExpr struct {
	base
	Operand Expr
}

func (*TryExpr) isExpr() {}

func NewTryExpr(alloc *idalloc.Allocator, span source.Span, operand Expr) *TryExpr {
	return &TryExpr{base: newBase(alloc, span), Operand: operand}
}
