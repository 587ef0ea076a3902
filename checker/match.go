package checker

import (
	"fmt"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/types"
)

func (fc *funcCheck) checkMatch(scope *types.Context, e *ast.MatchExpr) types.Type {
	scrutType := fc.checkExpr(scope, e.Scrutinee)

	if len(e.Arms) == 0 {
		d := fc.rep.Errorf("E3001", "non-exhaustive match: no arms")
		report.Apply(d, report.At(e.Span()), report.Payload(map[string]any{
			"kind":             "non_exhaustive_match",
			"missing_patterns": []map[string]string{},
		}))
		return types.Con{Name: types.UnitName}
	}

	var resultType types.Type
	missing := fc.requiredClasses(scrutType)
	for i, arm := range e.Arms {
		armScope := scope.Child()
		fc.bindPattern(armScope, arm.Pattern, scrutType)
		if arm.Guard != nil {
			g := fc.checkExpr(armScope, arm.Guard)
			fc.unify(g, types.Con{Name: types.BoolName}, arm.Guard.Span(), "match guard")
		}
		bodyType := fc.checkExpr(armScope, arm.Body)
		if i == 0 {
			resultType = bodyType
		} else {
			resultType = fc.unify(resultType, bodyType, arm.Body.Span(), "match arm")
		}
		if arm.Guard == nil {
			discharge(missing, arm.Pattern)
		}
	}

	if remaining := remainingClasses(missing); len(remaining) > 0 {
		payload := make([]map[string]string, len(remaining))
		for i, r := range remaining {
			payload[i] = map[string]string{"description": missing.describe(r)}
		}
		d := fc.rep.Errorf("E3001", "non-exhaustive match: missing %v", remaining)
		report.Apply(d, report.At(e.Span()), report.Payload(map[string]any{
			"kind":             "non_exhaustive_match",
			"missing_patterns": payload,
		}))
	}

	if resultType == nil {
		resultType = types.Con{Name: types.UnitName}
	}
	return resultType
}

// classSet tracks which "constructor classes" (spec.md §4.3) a match's
// arms still need to cover: sum-type variant names, {"true","false"} for
// Bool, or the single sentinel "_" for any other scrutinee type (which
// only a wildcard/identifier arm can discharge). order preserves
// declaration order so a non-exhaustive diagnostic's missing_patterns
// payload lists them the way spec.md §8 scenario S3 expects.
type classSet struct {
	order     []string
	remaining map[string]bool
	// hasPayload marks which classes are sum-variant names with a
	// non-empty payload, so a missing-pattern description can read
	// "VariantName(_)" rather than bare "VariantName" (spec.md §4.3:
	// "using VariantName(_) placeholders for payloads").
	hasPayload map[string]bool
}

func newClassSet(order []string) *classSet {
	rem := make(map[string]bool, len(order))
	for _, o := range order {
		rem[o] = true
	}
	return &classSet{order: order, remaining: rem}
}

// describe renders class name k as it should appear in a
// non_exhaustive_match diagnostic's missing_patterns payload.
func (cs *classSet) describe(k string) string {
	if cs.hasPayload[k] {
		return k + "(_)"
	}
	return k
}

func (fc *funcCheck) requiredClasses(scrutType types.Type) *classSet {
	name, _ := sumNameAndArgs(types.Base(scrutType))
	if con, ok := types.Base(scrutType).(types.Con); ok && con.Name == types.BoolName {
		return newClassSet([]string{"true", "false"})
	}
	if name != "" {
		if def, ok := fc.global.LookupType(name); ok {
			if sum, ok := def.(types.SumDef); ok {
				order := make([]string, len(sum.Variants))
				hasPayload := make(map[string]bool, len(sum.Variants))
				for i, v := range sum.Variants {
					order[i] = v.Name
					if len(v.FieldTypes) > 0 {
						hasPayload[v.Name] = true
					}
				}
				cs := newClassSet(order)
				cs.hasPayload = hasPayload
				return cs
			}
		}
	}
	return newClassSet([]string{"_"})
}

// discharge removes whichever class(es) pat covers from cs, per spec.md
// §4.3's exhaustiveness walk: "An unguarded wildcard/identifier arm
// discharges all remaining classes. An unguarded variant/literal arm
// discharges exactly that class."
func discharge(cs *classSet, pat ast.Pattern) {
	switch pat := pat.(type) {
	case *ast.WildcardPattern, *ast.IdentPattern:
		for k := range cs.remaining {
			delete(cs.remaining, k)
		}
	case *ast.VariantPattern:
		delete(cs.remaining, pat.Name)
	case *ast.LiteralPattern:
		if pat.Literal.Kind == ast.LitBool {
			delete(cs.remaining, fmt.Sprintf("%t", pat.Literal.Bool))
		}
	}
}

func remainingClasses(cs *classSet) []string {
	var out []string
	for _, k := range cs.order {
		if cs.remaining[k] {
			out = append(out, k)
		}
	}
	return out
}
