package canon

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/source"
)

// desugarProgram rewrites every function body in place, in the fashion of
// ast.Clone's own switch-per-variant walk: each case recurses into its
// children first, then the two sugar forms (pipe, range) are rewritten at
// the BinaryExpr/RangeExpr case itself once their operands are already
// desugared, so a chain like `a |> b |> c` folds left-to-right correctly.
//
// Unicode operator spellings (≠ ≤ ≥ ∧ ∨ ¬) are not handled here: the lexer
// (token.UnicodeSymbols) already maps them onto the same canonical Kind as
// their ASCII counterparts before the parser ever sees a token, so by the
// time an AST exists there is no surface distinction left to desugar.
func (c *canonicalizer) desugarProgram(prog *ast.Program) *ast.Program {
	for _, d := range prog.Decls {
		c.desugarDecl(d)
	}
	return prog
}

func (c *canonicalizer) desugarDecl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.FuncDecl:
		if d.Body != nil {
			d.Body = c.desugarExpr(d.Body).(*ast.BlockExpr)
		}
	}
}

func (c *canonicalizer) desugarStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LetStmt:
		s.Initializer = c.desugarExpr(s.Initializer)
	case *ast.AssignStmt:
		s.Target = c.desugarExpr(s.Target)
		s.Value = c.desugarExpr(s.Value)
	case *ast.ExprStmt:
		s.X = c.desugarExpr(s.X)
	case *ast.ForStmt:
		s.Iterable = c.desugarExpr(s.Iterable)
		s.Body = c.desugarExpr(s.Body).(*ast.BlockExpr)
	case *ast.WhileStmt:
		s.Cond = c.desugarExpr(s.Cond)
		s.Body = c.desugarExpr(s.Body).(*ast.BlockExpr)
	case *ast.LoopStmt:
		s.Body = c.desugarExpr(s.Body).(*ast.BlockExpr)
	case *ast.ReturnStmt:
		if s.Value != nil {
			s.Value = c.desugarExpr(s.Value)
		}
	case *ast.AssertStmt:
		s.Condition = c.desugarExpr(s.Condition)
		if s.Message != nil {
			s.Message = c.desugarExpr(s.Message)
		}
	}
}

func (c *canonicalizer) desugarExpr(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *ast.LiteralExpr, *ast.IdentExpr:
		return e
	case *ast.UnaryExpr:
		e.Operand = c.desugarExpr(e.Operand)
		return e
	case *ast.BinaryExpr:
		e.Left = c.desugarExpr(e.Left)
		e.Right = c.desugarExpr(e.Right)
		if e.Op == ast.BinPipe {
			return c.desugarPipe(e.Left, e.Right, e.Span())
		}
		return e
	case *ast.CallExpr:
		e.Callee = c.desugarExpr(e.Callee)
		for i, a := range e.Args {
			e.Args[i] = c.desugarExpr(a)
		}
		return e
	case *ast.IndexExpr:
		e.Array = c.desugarExpr(e.Array)
		e.Index = c.desugarExpr(e.Index)
		return e
	case *ast.FieldExpr:
		e.Receiver = c.desugarExpr(e.Receiver)
		return e
	case *ast.LambdaExpr:
		e.Body = c.desugarExpr(e.Body)
		return e
	case *ast.IfExpr:
		e.Cond = c.desugarExpr(e.Cond)
		e.Then = c.desugarExpr(e.Then).(*ast.BlockExpr)
		if e.Else != nil {
			e.Else = c.desugarExpr(e.Else)
		}
		return e
	case *ast.MatchExpr:
		e.Scrutinee = c.desugarExpr(e.Scrutinee)
		for i, arm := range e.Arms {
			if arm.Guard != nil {
				e.Arms[i].Guard = c.desugarExpr(arm.Guard)
			}
			e.Arms[i].Body = c.desugarExpr(arm.Body)
		}
		return e
	case *ast.BlockExpr:
		for _, s := range e.Stmts {
			c.desugarStmt(s)
		}
		if e.Value != nil {
			e.Value = c.desugarExpr(e.Value)
		}
		return e
	case *ast.ArrayExpr:
		for i, el := range e.Elems {
			e.Elems[i] = c.desugarExpr(el)
		}
		return e
	case *ast.TupleExpr:
		for i, el := range e.Elems {
			e.Elems[i] = c.desugarExpr(el)
		}
		return e
	case *ast.RecordExpr:
		for i, f := range e.Fields {
			e.Fields[i].Value = c.desugarExpr(f.Value)
		}
		return e
	case *ast.RangeExpr:
		start := c.desugarExpr(e.Start)
		end := c.desugarExpr(e.End)
		incl := ast.NewLiteralExpr(c.alloc, e.Span(), ast.LitBool)
		incl.Bool = e.Inclusive
		return ast.NewCallExpr(c.alloc, e.Span(), ast.NewIdentExpr(c.alloc, e.Span(), "__range"), []ast.Expr{start, end, incl})
	case *ast.TryExpr:
		e.Operand = c.desugarExpr(e.Operand)
		return e
	default:
		return e
	}
}

// desugarPipe rewrites `left |> right` as `right(left)`, or, when right is
// itself already a call, as that call with left prepended to its argument
// list — so `x |> f(y)` becomes `f(x, y)` rather than the two-argument
// call `f(y)(x)` a curried language would produce (spec.md §4.7 phase 1
// names only the one-argument case explicitly; this is its natural
// extension to callees that already carry arguments).
func (c *canonicalizer) desugarPipe(left, right ast.Expr, span source.Span) ast.Expr {
	if call, ok := right.(*ast.CallExpr); ok {
		args := append([]ast.Expr{left}, call.Args...)
		return ast.NewCallExpr(c.alloc, span, call.Callee, args)
	}
	return ast.NewCallExpr(c.alloc, span, right, []ast.Expr{left})
}
