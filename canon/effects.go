package canon

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/effects"
	"github.com/emberlang/ember/internal/idalloc"
)

// annotateProgram implements spec.md §4.7 phase 3: a bottom-up walk that
// assigns every node a per-node effect set, the union of its children's
// sets plus whatever this node itself contributes (Err at `?`, Mut at an
// assignment target, and the declared row of any identifier callee found
// in c.opts.EffectInfo). It reuses the effects package's own IO/Err/Async/
// Mut name constants so the two packages never drift on the closed set's
// spelling.
func (c *canonicalizer) annotateProgram(prog *ast.Program) map[idalloc.ID]Annotation {
	table := map[idalloc.ID]Annotation{}
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Body != nil {
			c.annotateExpr(fn.Body, table)
		}
	}
	return table
}

func emptyAnnotation() Annotation {
	return Annotation{Effects: map[string]bool{}}
}

func unionAnn(anns ...Annotation) Annotation {
	out := emptyAnnotation()
	for _, a := range anns {
		for e := range a.Effects {
			out.Effects[e] = true
		}
	}
	out.finish()
	return out
}

func (a *Annotation) finish() {
	a.HasIO = a.Effects[effects.IO]
	a.HasErr = a.Effects[effects.Err]
	a.HasAsync = a.Effects[effects.Async]
	a.HasMut = a.Effects[effects.Mut]
}

func withEffect(a Annotation, eff string) Annotation {
	out := unionAnn(a)
	out.Effects[eff] = true
	out.finish()
	return out
}

func (c *canonicalizer) record(n ast.Node, ann Annotation, table map[idalloc.ID]Annotation) Annotation {
	table[n.ID()] = ann
	return ann
}

func (c *canonicalizer) annotateStmt(s ast.Stmt, table map[idalloc.ID]Annotation) Annotation {
	switch s := s.(type) {
	case *ast.LetStmt:
		return c.record(s, c.annotateExpr(s.Initializer, table), table)
	case *ast.AssignStmt:
		target := c.annotateExpr(s.Target, table)
		value := c.annotateExpr(s.Value, table)
		return c.record(s, withEffect(unionAnn(target, value), effects.Mut), table)
	case *ast.ExprStmt:
		return c.record(s, c.annotateExpr(s.X, table), table)
	case *ast.ForStmt:
		it := c.annotateExpr(s.Iterable, table)
		body := c.annotateExpr(s.Body, table)
		return c.record(s, unionAnn(it, body), table)
	case *ast.WhileStmt:
		cond := c.annotateExpr(s.Cond, table)
		body := c.annotateExpr(s.Body, table)
		return c.record(s, unionAnn(cond, body), table)
	case *ast.LoopStmt:
		return c.record(s, c.annotateExpr(s.Body, table), table)
	case *ast.ReturnStmt:
		ann := emptyAnnotation()
		if s.Value != nil {
			ann = c.annotateExpr(s.Value, table)
		}
		return c.record(s, ann, table)
	case *ast.AssertStmt:
		ann := c.annotateExpr(s.Condition, table)
		if s.Message != nil {
			ann = unionAnn(ann, c.annotateExpr(s.Message, table))
		}
		return c.record(s, ann, table)
	case *ast.BreakStmt, *ast.ContinueStmt:
		return c.record(s, emptyAnnotation(), table)
	default:
		return emptyAnnotation()
	}
}

func (c *canonicalizer) annotateExpr(e ast.Expr, table map[idalloc.ID]Annotation) Annotation {
	switch e := e.(type) {
	case nil:
		return emptyAnnotation()
	case *ast.LiteralExpr, *ast.IdentExpr:
		return c.record(e, emptyAnnotation(), table)
	case *ast.UnaryExpr:
		return c.record(e, c.annotateExpr(e.Operand, table), table)
	case *ast.BinaryExpr:
		return c.record(e, unionAnn(c.annotateExpr(e.Left, table), c.annotateExpr(e.Right, table)), table)
	case *ast.CallExpr:
		ann := c.annotateExpr(e.Callee, table)
		for _, a := range e.Args {
			ann = unionAnn(ann, c.annotateExpr(a, table))
		}
		if id, ok := e.Callee.(*ast.IdentExpr); ok {
			for _, eff := range c.opts.EffectInfo[id.Name] {
				ann = withEffect(ann, eff)
			}
		}
		return c.record(e, ann, table)
	case *ast.IndexExpr:
		return c.record(e, unionAnn(c.annotateExpr(e.Array, table), c.annotateExpr(e.Index, table)), table)
	case *ast.FieldExpr:
		return c.record(e, c.annotateExpr(e.Receiver, table), table)
	case *ast.LambdaExpr:
		// A lambda's body is annotated for its own node table entries but
		// does not contribute its effects to the enclosing expression:
		// they are latent until the lambda is invoked, mirroring the
		// effects package's documented treatment of LambdaExpr (spec.md
		// §9's preserved open question).
		c.annotateExpr(e.Body, table)
		return c.record(e, emptyAnnotation(), table)
	case *ast.IfExpr:
		ann := c.annotateExpr(e.Cond, table)
		ann = unionAnn(ann, c.annotateExpr(e.Then, table))
		if e.Else != nil {
			ann = unionAnn(ann, c.annotateExpr(e.Else, table))
		}
		return c.record(e, ann, table)
	case *ast.MatchExpr:
		ann := c.annotateExpr(e.Scrutinee, table)
		for _, arm := range e.Arms {
			if arm.Guard != nil {
				ann = unionAnn(ann, c.annotateExpr(arm.Guard, table))
			}
			ann = unionAnn(ann, c.annotateExpr(arm.Body, table))
		}
		return c.record(e, ann, table)
	case *ast.BlockExpr:
		ann := emptyAnnotation()
		for _, s := range e.Stmts {
			ann = unionAnn(ann, c.annotateStmt(s, table))
		}
		if e.Value != nil {
			ann = unionAnn(ann, c.annotateExpr(e.Value, table))
		}
		return c.record(e, ann, table)
	case *ast.ArrayExpr:
		ann := emptyAnnotation()
		for _, el := range e.Elems {
			ann = unionAnn(ann, c.annotateExpr(el, table))
		}
		return c.record(e, ann, table)
	case *ast.TupleExpr:
		ann := emptyAnnotation()
		for _, el := range e.Elems {
			ann = unionAnn(ann, c.annotateExpr(el, table))
		}
		return c.record(e, ann, table)
	case *ast.RecordExpr:
		ann := emptyAnnotation()
		for _, f := range e.Fields {
			ann = unionAnn(ann, c.annotateExpr(f.Value, table))
		}
		return c.record(e, ann, table)
	case *ast.RangeExpr:
		return c.record(e, unionAnn(c.annotateExpr(e.Start, table), c.annotateExpr(e.End, table)), table)
	case *ast.TryExpr:
		ann := withEffect(c.annotateExpr(e.Operand, table), effects.Err)
		return c.record(e, ann, table)
	default:
		return emptyAnnotation()
	}
}
