package checker

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/types"
)

// bindPattern binds every name introduced by pat against scrutineeType
// into scope, per spec.md §4.6's pattern-binding rules. It is used both
// by `let` (whose pattern must always succeed structurally) and by match
// arms.
func (fc *funcCheck) bindPattern(scope *types.Context, pat ast.Pattern, scrutineeType types.Type) {
	fc.setType(pat, scrutineeType)
	switch pat := pat.(type) {
	case *ast.WildcardPattern:
	case *ast.IdentPattern:
		scope.Bind(pat.Name, scrutineeType)
	case *ast.LiteralPattern:
		fc.checkExpr(scope, pat.Literal)
	case *ast.TuplePattern:
		tup, ok := types.Base(scrutineeType).(types.Tuple)
		for i, sub := range pat.Elems {
			var elemType types.Type = fc.varGen.Fresh()
			if ok && i < len(tup.Elems) {
				elemType = tup.Elems[i]
			}
			fc.bindPattern(scope, sub, elemType)
		}
	case *ast.RecordPattern:
		rec, _ := types.Base(scrutineeType).(types.Record)
		for _, f := range pat.Fields {
			var fieldType types.Type = fc.varGen.Fresh()
			if ft, ok := rec.FieldType(f.Name); ok {
				fieldType = ft
			}
			if f.Sub != nil {
				fc.bindPattern(scope, f.Sub, fieldType)
			} else {
				scope.Bind(f.Name, fieldType)
			}
		}
	case *ast.VariantPattern:
		fc.bindVariantPattern(scope, pat, scrutineeType)
	}
}

// bindVariantPattern resolves a Variant(...) pattern against the
// scrutinee's type, which may be a bare sum-type constructor or an
// applied generic instantiation of one (spec.md §4.3 "Variant
// resolution"): locate the variant in the sum definition, substitute the
// declaration's type parameters with the applied arguments to obtain
// payload types, then recursively bind payload sub-patterns against
// those types. This works uniformly for nullary constructors and applied
// generics, per the spec's explicit requirement.
func (fc *funcCheck) bindVariantPattern(scope *types.Context, pat *ast.VariantPattern, scrutineeType types.Type) {
	sumName, args := sumNameAndArgs(types.Base(scrutineeType))
	if sumName == "" {
		for _, sub := range pat.Payload {
			fc.bindPattern(scope, sub, fc.varGen.Fresh())
		}
		return
	}
	def, ok := fc.global.LookupType(sumName)
	if !ok {
		for _, sub := range pat.Payload {
			fc.bindPattern(scope, sub, fc.varGen.Fresh())
		}
		return
	}
	sum, ok := def.(types.SumDef)
	if !ok {
		for _, sub := range pat.Payload {
			fc.bindPattern(scope, sub, fc.varGen.Fresh())
		}
		return
	}
	variant, ok := sum.Variant(pat.Name)
	if !ok {
		d := fc.rep.Errorf("E1003", "sum type %s has no variant %s", sumName, pat.Name)
		report.Apply(d, report.At(pat.Span()))
		for _, sub := range pat.Payload {
			fc.bindPattern(scope, sub, fc.varGen.Fresh())
		}
		return
	}
	payloadTypes := types.InstantiateVariant(sum.TypeParams, args, variant)
	for i, sub := range pat.Payload {
		var pt types.Type = fc.varGen.Fresh()
		if i < len(payloadTypes) {
			pt = payloadTypes[i]
		}
		fc.bindPattern(scope, sub, pt)
	}
}

// sumNameAndArgs extracts a sum type's name and instantiation arguments
// from either a nullary constructor reference (types.Con, the "con"
// case) or an applied generic (types.App, the "app" case).
func sumNameAndArgs(t types.Type) (string, []types.Type) {
	switch t := t.(type) {
	case types.Con:
		return t.Name, nil
	case types.App:
		return t.Con, t.Args
	default:
		return "", nil
	}
}
