package canon

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/source"
)

// normalizeProgram makes every implicit form explicit (spec.md §4.7 phase
// 2): an else-less `if` gains a synthetic `else { unit }`, an empty block
// gains a trailing unit value, and a bare `return` gains a unit value.
// Running this phase twice is a no-op, since each rewrite's precondition
// (Else == nil, Value == nil) is false once the rewrite has fired.
func (c *canonicalizer) normalizeProgram(prog *ast.Program) *ast.Program {
	for _, d := range prog.Decls {
		c.normalizeDecl(d)
	}
	return prog
}

func (c *canonicalizer) normalizeDecl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.FuncDecl:
		if d.Body != nil {
			d.Body = c.normalizeExpr(d.Body).(*ast.BlockExpr)
		}
	}
}

func (c *canonicalizer) unit(at source.Span) *ast.LiteralExpr {
	return ast.NewLiteralExpr(c.alloc, source.Synthesize(at), ast.LitUnit)
}

func (c *canonicalizer) normalizeStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LetStmt:
		s.Initializer = c.normalizeExpr(s.Initializer)
	case *ast.AssignStmt:
		s.Target = c.normalizeExpr(s.Target)
		s.Value = c.normalizeExpr(s.Value)
	case *ast.ExprStmt:
		s.X = c.normalizeExpr(s.X)
	case *ast.ForStmt:
		s.Iterable = c.normalizeExpr(s.Iterable)
		s.Body = c.normalizeExpr(s.Body).(*ast.BlockExpr)
	case *ast.WhileStmt:
		s.Cond = c.normalizeExpr(s.Cond)
		s.Body = c.normalizeExpr(s.Body).(*ast.BlockExpr)
	case *ast.LoopStmt:
		s.Body = c.normalizeExpr(s.Body).(*ast.BlockExpr)
	case *ast.ReturnStmt:
		if s.Value != nil {
			s.Value = c.normalizeExpr(s.Value)
		} else {
			s.Value = c.unit(s.Span())
		}
	case *ast.AssertStmt:
		s.Condition = c.normalizeExpr(s.Condition)
		if s.Message != nil {
			s.Message = c.normalizeExpr(s.Message)
		}
	}
}

func (c *canonicalizer) normalizeExpr(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *ast.LiteralExpr, *ast.IdentExpr:
		return e
	case *ast.UnaryExpr:
		e.Operand = c.normalizeExpr(e.Operand)
		return e
	case *ast.BinaryExpr:
		e.Left = c.normalizeExpr(e.Left)
		e.Right = c.normalizeExpr(e.Right)
		return e
	case *ast.CallExpr:
		e.Callee = c.normalizeExpr(e.Callee)
		for i, a := range e.Args {
			e.Args[i] = c.normalizeExpr(a)
		}
		return e
	case *ast.IndexExpr:
		e.Array = c.normalizeExpr(e.Array)
		e.Index = c.normalizeExpr(e.Index)
		return e
	case *ast.FieldExpr:
		e.Receiver = c.normalizeExpr(e.Receiver)
		return e
	case *ast.LambdaExpr:
		e.Body = c.normalizeExpr(e.Body)
		return e
	case *ast.IfExpr:
		e.Cond = c.normalizeExpr(e.Cond)
		e.Then = c.normalizeExpr(e.Then).(*ast.BlockExpr)
		// else-if chains (Else is itself an *ast.IfExpr) are normalized
		// recursively but left chained, per spec.md §4.7 phase 2's
		// explicit "not flattened".
		if e.Else != nil {
			e.Else = c.normalizeExpr(e.Else)
		} else {
			e.Else = ast.NewBlockExpr(c.alloc, source.Synthesize(e.Span()), nil, c.unit(e.Span()))
		}
		return e
	case *ast.MatchExpr:
		e.Scrutinee = c.normalizeExpr(e.Scrutinee)
		for i, arm := range e.Arms {
			if arm.Guard != nil {
				e.Arms[i].Guard = c.normalizeExpr(arm.Guard)
			}
			e.Arms[i].Body = c.normalizeExpr(arm.Body)
		}
		return e
	case *ast.BlockExpr:
		for _, s := range e.Stmts {
			c.normalizeStmt(s)
		}
		if e.Value != nil {
			e.Value = c.normalizeExpr(e.Value)
		} else {
			e.Value = c.unit(e.Span())
		}
		return e
	case *ast.ArrayExpr:
		for i, el := range e.Elems {
			e.Elems[i] = c.normalizeExpr(el)
		}
		return e
	case *ast.TupleExpr:
		for i, el := range e.Elems {
			e.Elems[i] = c.normalizeExpr(el)
		}
		return e
	case *ast.RecordExpr:
		for i, f := range e.Fields {
			e.Fields[i].Value = c.normalizeExpr(f.Value)
		}
		return e
	case *ast.RangeExpr:
		e.Start = c.normalizeExpr(e.Start)
		e.End = c.normalizeExpr(e.End)
		return e
	case *ast.TryExpr:
		e.Operand = c.normalizeExpr(e.Operand)
		return e
	default:
		return e
	}
}
