package checker

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/refine"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/types"
)

// funcCheck holds the per-function-body state threaded through statement
// and expression checking: the function's declared signature (for
// return-type refinement obligations), the substitution built up by
// unification so far, and the refinement fact set accumulated from
// parameter refinements, if-branches, and let-bindings (spec.md §4.4
// "Fact set").
type funcCheck struct {
	*checker
	sig   types.Func
	subst types.Substitution
	facts *refine.FactSet
}

func (fc *funcCheck) unify(a, b types.Type, span source.Span, context string) types.Type {
	s, ok := unify(fc.subst, a, b)
	if !ok {
		d := fc.rep.Errorf("E2001", "type mismatch in %s: expected %s, found %s",
			context, types.Apply(fc.subst, a), types.Apply(fc.subst, b))
		report.Apply(d, report.At(span))
		return types.Never{}
	}
	fc.subst = s
	return types.Apply(fc.subst, a)
}

// obligation records a proof obligation and immediately attempts to
// discharge it against fc's current fact set, per spec.md §4.4's
// per-obligation solverResult output.
func (fc *funcCheck) obligation(pred refine.Pred, span source.Span, reason string) {
	result := refine.Discharge(fc.facts, pred)
	fc.obligations = append(fc.obligations, Obligation{Predicate: pred, Reason: reason, Span: span, Result: result})
	if result == refine.Refuted {
		d := fc.rep.Errorf("E5001", "refinement refuted: %s (%s)", pred, reason)
		report.Apply(d, report.At(span))
	}
}

// checkReturnValue emits the return-type refinement obligation for one
// returning position (spec.md §4.4 obligation site 2): the block-trailing
// expression and every explicit `return`.
func (fc *funcCheck) checkReturnValue(scope *types.Context, declared types.Type, value ast.Expr, at ast.Node) {
	refined, ok := declared.(types.Refined)
	if !ok || value == nil {
		return
	}
	term := refine.Extract(value)
	goal := refine.Substitute(refined.Predicate, refined.VarName, term)
	fc.obligation(goal, at.Span(), "return value")
}
