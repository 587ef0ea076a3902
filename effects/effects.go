// Package effects implements Ember's effect-row checker (spec.md §4.5):
// it validates that effectful operations (I/O and other host calls,
// error propagation `?`, mutation) occur only inside functions whose
// declared effect row permits them. Declared rows are authoritative;
// effect inference for annotation purposes is the canonicalizer's
// concern (spec.md §4.7 phase 3), not this package's.
package effects

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/types"
)

// IO, Err, Async, and Mut are the closed set of effect names spec.md §4.5
// recognizes.
const (
	IO    = "IO"
	Err   = "Err"
	Async = "Async"
	Mut   = "Mut"
)

// Check walks every function body in prog, enforcing:
//   - a call to a function whose declared effect row is not a subset of
//     the caller's declared row is an E4001 "effect not permitted";
//   - the `?` operator is legal only inside a function whose row
//     contains Err (E4002);
//   - assignment requires Mut in the enclosing function's row, or the
//     target to be a locally `mut`-declared binding.
//
// functionTypes is the signature table produced by checker.Check; it is
// how Check learns a callee's declared effect row without re-deriving it.
func Check(prog *ast.Program, functionTypes map[string]types.Func) *report.Report {
	rep := &report.Report{}
	c := &effectChecker{rep: rep, functionTypes: functionTypes}
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			c.checkFunc(fn)
		}
	}
	return rep
}

type effectChecker struct {
	rep           *report.Report
	functionTypes map[string]types.Func
	declared      map[string]bool // current function's declared effect row
	mutable       *mutScope
}

// mutScope tracks which bindings in the current lexical scope were
// declared `mut`, chained to an explicit parent (spec.md §9's lexical
// parent-chain model, reused here for the much smaller mutability-only
// scope effects needs).
type mutScope struct {
	parent *mutScope
	names  map[string]bool
}

func (s *mutScope) child() *mutScope { return &mutScope{parent: s, names: map[string]bool{}} }

func (s *mutScope) declare(name string, mut bool) {
	s.names[name] = mut
}

func (s *mutScope) isMutable(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if mut, ok := cur.names[name]; ok {
			return mut
		}
	}
	return false
}

func (c *effectChecker) checkFunc(fn *ast.FuncDecl) {
	row := map[string]bool{}
	if fn.Effects != nil {
		for _, e := range fn.Effects.Effects {
			row[e] = true
		}
	}
	c.declared = row
	c.mutable = (&mutScope{}).child()
	for _, p := range fn.Params {
		c.mutable.declare(p.Name, false)
	}
	if fn.Body != nil {
		c.checkBlock(fn.Body)
	}
}

func (c *effectChecker) checkBlock(b *ast.BlockExpr) {
	c.mutable = c.mutable.child()
	defer func() { c.mutable = c.mutable.parent }()
	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
	if b.Value != nil {
		c.checkExpr(b.Value)
	}
}

func (c *effectChecker) checkStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LetStmt:
		c.checkExpr(s.Initializer)
		c.declarePattern(s.Pattern, s.Mutable)
	case *ast.AssignStmt:
		c.checkExpr(s.Value)
		c.checkAssignTarget(s.Target)
	case *ast.ExprStmt:
		c.checkExpr(s.X)
	case *ast.ForStmt:
		c.checkExpr(s.Iterable)
		c.mutable = c.mutable.child()
		c.declarePattern(s.Pattern, false)
		c.checkBlock(s.Body)
		c.mutable = c.mutable.parent
	case *ast.WhileStmt:
		c.checkExpr(s.Cond)
		c.checkBlock(s.Body)
	case *ast.LoopStmt:
		c.checkBlock(s.Body)
	case *ast.ReturnStmt:
		if s.Value != nil {
			c.checkExpr(s.Value)
		}
	case *ast.AssertStmt:
		c.checkExpr(s.Condition)
		if s.Message != nil {
			c.checkExpr(s.Message)
		}
	}
}

func (c *effectChecker) declarePattern(pat ast.Pattern, mut bool) {
	switch pat := pat.(type) {
	case *ast.IdentPattern:
		c.mutable.declare(pat.Name, mut)
	case *ast.TuplePattern:
		for _, sub := range pat.Elems {
			c.declarePattern(sub, mut)
		}
	case *ast.RecordPattern:
		for _, f := range pat.Fields {
			if f.Sub != nil {
				c.declarePattern(f.Sub, mut)
			} else {
				c.mutable.declare(f.Name, mut)
			}
		}
	case *ast.VariantPattern:
		for _, sub := range pat.Payload {
			c.declarePattern(sub, mut)
		}
	}
}

// checkAssignTarget enforces spec.md §4.5's assignment rule: "requires
// the enclosing function to have Mut in its row (or the binding to be
// locally declared mut, which is always permitted in its defining
// scope)".
func (c *effectChecker) checkAssignTarget(target ast.Expr) {
	c.checkExpr(target)
	if c.declared[Mut] {
		return
	}
	if id, ok := target.(*ast.IdentExpr); ok && c.mutable.isMutable(id.Name) {
		return
	}
	d := c.rep.Errorf("E4001", "assignment requires the Mut effect or a locally `mut` binding")
	report.Apply(d, report.At(target.Span()), report.Payload(map[string]any{
		"kind": "effect_not_permitted", "effect": Mut,
	}))
}

func (c *effectChecker) checkExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.UnaryExpr:
		c.checkExpr(e.Operand)
	case *ast.BinaryExpr:
		c.checkExpr(e.Left)
		c.checkExpr(e.Right)
	case *ast.CallExpr:
		c.checkExpr(e.Callee)
		for _, a := range e.Args {
			c.checkExpr(a)
		}
		c.checkCallEffects(e)
	case *ast.IndexExpr:
		c.checkExpr(e.Array)
		c.checkExpr(e.Index)
	case *ast.FieldExpr:
		c.checkExpr(e.Receiver)
	case *ast.LambdaExpr:
		// spec.md §9 documents (and this reimplementation preserves) that
		// effectful calls are accepted transitively through lambdas
		// without visiting the lambda body here: the lambda forms a
		// latent effect it will discharge when invoked, not when defined.
	case *ast.IfExpr:
		c.checkExpr(e.Cond)
		c.checkBlock(e.Then)
		if e.Else != nil {
			c.checkExpr(e.Else)
		}
	case *ast.MatchExpr:
		c.checkExpr(e.Scrutinee)
		for _, arm := range e.Arms {
			if arm.Guard != nil {
				c.checkExpr(arm.Guard)
			}
			c.checkExpr(arm.Body)
		}
	case *ast.BlockExpr:
		c.checkBlock(e)
	case *ast.ArrayExpr:
		for _, el := range e.Elems {
			c.checkExpr(el)
		}
	case *ast.TupleExpr:
		for _, el := range e.Elems {
			c.checkExpr(el)
		}
	case *ast.RecordExpr:
		for _, f := range e.Fields {
			c.checkExpr(f.Value)
		}
	case *ast.RangeExpr:
		c.checkExpr(e.Start)
		c.checkExpr(e.End)
	case *ast.TryExpr:
		c.checkExpr(e.Operand)
		if !c.declared[Err] {
			d := c.rep.Errorf("E4002", "`?` used in a function without Err in its effect row")
			report.Apply(d, report.At(e.Span()), report.Payload(map[string]any{
				"kind": "try_without_err",
			}))
		}
	}
}

func (c *effectChecker) checkCallEffects(e *ast.CallExpr) {
	id, ok := e.Callee.(*ast.IdentExpr)
	if !ok {
		return
	}
	callee, ok := c.functionTypes[id.Name]
	if !ok {
		return
	}
	for _, eff := range callee.Effects {
		if !c.declared[eff] {
			d := c.rep.Errorf("E4001", "call to %s requires effect %s, not permitted here", id.Name, eff)
			report.Apply(d, report.At(e.Span()), report.Payload(map[string]any{
				"kind": "effect_not_permitted", "effect": eff, "callee": id.Name,
			}))
		}
	}
}
