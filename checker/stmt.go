package checker

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/refine"
	"github.com/emberlang/ember/types"
)

// checkBlock checks every statement of b in a child scope, then checks
// (and returns the type of) its optional trailing value expression.
func (fc *funcCheck) checkBlock(scope *types.Context, b *ast.BlockExpr) types.Type {
	inner := scope.Child()
	for _, s := range b.Stmts {
		fc.checkStmt(inner, s)
	}
	if b.Value == nil {
		return fc.setType(b, types.Con{Name: types.UnitName})
	}
	t := fc.checkExpr(inner, b.Value)
	return fc.setType(b, t)
}

func (fc *funcCheck) checkStmt(scope *types.Context, s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LetStmt:
		fc.checkLet(scope, s)
	case *ast.AssignStmt:
		targetType := fc.checkExpr(scope, s.Target)
		valueType := fc.checkExpr(scope, s.Value)
		fc.unify(targetType, valueType, s.Span(), "assignment")
	case *ast.ExprStmt:
		fc.checkExpr(scope, s.X)
	case *ast.ForStmt:
		iterType := fc.checkExpr(scope, s.Iterable)
		elemType := types.Type(fc.varGen.Fresh())
		if arr, ok := types.Base(iterType).(types.Array); ok {
			elemType = arr.Elem
		}
		inner := scope.Child()
		fc.bindPattern(inner, s.Pattern, elemType)
		fc.checkBlock(inner, s.Body)
	case *ast.WhileStmt:
		condType := fc.checkExpr(scope, s.Cond)
		fc.unify(condType, types.Con{Name: types.BoolName}, s.Cond.Span(), "while condition")
		fc.checkBlock(scope, s.Body)
	case *ast.LoopStmt:
		fc.checkBlock(scope, s.Body)
	case *ast.ReturnStmt:
		if s.Value != nil {
			vt := fc.checkExpr(scope, s.Value)
			fc.unify(fc.sig.Return, vt, s.Span(), "return value")
		}
		fc.checkReturnValue(scope, fc.sig.Return, s.Value, s)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// no type consequences
	case *ast.AssertStmt:
		condType := fc.checkExpr(scope, s.Condition)
		fc.unify(condType, types.Con{Name: types.BoolName}, s.Condition.Span(), "assert condition")
		if s.Message != nil {
			fc.checkExpr(scope, s.Message)
		}
		fc.facts.Add(refine.Extract(s.Condition))
	}
}

func (fc *funcCheck) checkLet(scope *types.Context, s *ast.LetStmt) {
	initType := fc.checkExpr(scope, s.Initializer)
	declared := initType
	if s.Type != nil {
		declared = fc.convertType(scope, s.Type, true)
		declared = fc.unify(declared, initType, s.Span(), "let binding")
	}
	if refined, ok := declared.(types.Refined); ok {
		term := refine.Extract(s.Initializer)
		goal := refine.Substitute(refined.Predicate, refined.VarName, term)
		fc.obligation(goal, s.Initializer.Span(), "let binding refinement")
	}
	fc.bindPattern(scope, s.Pattern, declared)

	// Symbolic let-binding fact for chained arithmetic reasoning (spec.md
	// §4.3 "Let binding facts"): only recorded for a single identifier
	// pattern binding an integer-ish initializer.
	if ident, ok := s.Pattern.(*ast.IdentPattern); ok {
		if isIntLike(declared) {
			fc.facts.AddLet(ident.Name, refine.Extract(s.Initializer))
		}
	}
}

func isIntLike(t types.Type) bool {
	switch b := types.Base(t).(type) {
	case types.Con:
		return b.Name == types.IntName || b.Name == types.NatName
	default:
		return false
	}
}
