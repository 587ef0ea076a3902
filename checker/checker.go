// Package checker implements Ember's bidirectional type checker
// (spec.md §4.3): it converts the raw AST into a Result bundling
// diagnostics, refinement proof obligations, per-function signatures, the
// declared effect row of every function, and a node-ID -> semantic-type
// table for every node whose type it determined.
//
// The algorithm is a simplified Hindley-Milner: a first pass binds every
// top-level type definition and function signature into the global
// types.Context, then a second pass checks each function body against its
// declared signature, threading a types.Substitution built up by ordinary
// occurs-checked syntactic unification.
package checker

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/internal/idalloc"
	"github.com/emberlang/ember/refine"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/types"
)

// Obligation is one discharged-or-not proof obligation generated while
// checking a function body (spec.md §4.4 "Obligation generation").
type Obligation struct {
	Predicate refine.Pred
	Reason    string
	Span      source.Span
	Result    refine.Result
}

// Result is everything the type checker produces for one Program,
// matching the tuple named in spec.md §6.1: typecheck(program) ->
// (diagnostics, obligations, functionTypes, effectTable, typeTable).
type Result struct {
	Diagnostics   *report.Report
	Obligations   []Obligation
	FunctionTypes map[string]types.Func
	EffectTable   map[string][]string
	TypeTable     map[idalloc.ID]types.Type
}

// Check type-checks an entire program and returns its Result. Checking
// never aborts: a statement or declaration the checker fails to type is
// assigned types.Never and checking continues with the rest of the
// program (spec.md §7).
func Check(prog *ast.Program) *Result {
	c := &checker{
		global:        types.NewContext(),
		rep:           &report.Report{},
		types:         map[idalloc.ID]types.Type{},
		functionTypes: map[string]types.Func{},
		effectTable:   map[string][]string{},
	}
	c.collectTypeDefs(prog)
	c.collectSignatures(prog)
	c.checkBodies(prog)

	return &Result{
		Diagnostics:   c.rep,
		Obligations:   c.obligations,
		FunctionTypes: c.functionTypes,
		EffectTable:   c.effectTable,
		TypeTable:     c.types,
	}
}

type checker struct {
	global *types.Context
	varGen types.VarGen
	rep    *report.Report

	types         map[idalloc.ID]types.Type
	functionTypes map[string]types.Func
	effectTable   map[string][]string
	obligations   []Obligation
}

func (c *checker) setType(n ast.Node, t types.Type) types.Type {
	c.types[n.ID()] = t
	return t
}

// collectTypeDefs is pass 1's type half: bind every record/sum/alias
// declaration into the global context before any body is checked, so
// forward references and mutual recursion between types resolve.
func (c *checker) collectTypeDefs(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch d := d.(type) {
		case *ast.RecordDecl:
			fields := make([]types.RecordField, len(d.Fields))
			for i, f := range d.Fields {
				fields[i] = types.RecordField{Name: f.Name, Type: c.convertPlaceholder(f.Type, d.TypeParams)}
			}
			c.global.DefineType(d.Name, types.RecordDef{Name: d.Name, TypeParams: d.TypeParams, Fields: fields, Open: d.Open})
		case *ast.SumDecl:
			seen := map[string]bool{}
			variants := make([]types.VariantDef, len(d.Variants))
			for i, v := range d.Variants {
				if seen[v.Name] {
					rd := c.rep.Errorf("E3002", "duplicate variant %q in sum type %s", v.Name, d.Name)
					report.Apply(rd, report.At(v.Span))
				}
				seen[v.Name] = true
				names := make([]string, len(v.Fields))
				fts := make([]types.Type, len(v.Fields))
				for j, f := range v.Fields {
					names[j] = f.Name
					fts[j] = c.convertPlaceholder(f.Type, d.TypeParams)
				}
				variants[i] = types.VariantDef{Name: v.Name, FieldNames: names, FieldTypes: fts}
			}
			c.global.DefineType(d.Name, types.SumDef{Name: d.Name, TypeParams: d.TypeParams, Variants: variants})
		case *ast.TypeAliasDecl:
			c.global.DefineType(d.Name, types.AliasDef{Name: d.Name, TypeParams: d.TypeParams, Type: c.convertPlaceholder(d.Type, d.TypeParams)})
		}
	}
}

// convertPlaceholder converts a field's type-expression in a scope where
// params are bound as bare type-parameter placeholders (Con{name}),
// substituted later at each instantiation site (types.Instantiate).
func (c *checker) convertPlaceholder(te ast.TypeExpr, params []string) types.Type {
	scope := c.global.Child()
	for _, p := range params {
		scope.BindTypeParam(p, types.Con{Name: p})
	}
	return c.convertType(scope, te, true)
}

// collectSignatures is pass 1's function half: record every function
// declaration's signature type (with its declared effect row) before any
// body is checked, so forward/mutually-recursive calls resolve.
func (c *checker) collectSignatures(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			ft := c.signatureOf(d.TypeParams, d.Params, d.Return, d.Effects)
			c.global.Bind(d.Name, ft)
			c.functionTypes[d.Name] = ft
			c.effectTable[d.Name] = ft.Effects
		case *ast.ExternFuncDecl:
			ft := c.signatureOf(nil, d.Params, d.Return, d.Effects)
			c.global.Bind(d.Name, ft)
			c.functionTypes[d.Name] = ft
			c.effectTable[d.Name] = ft.Effects
		case *ast.ExternModDecl:
			for _, f := range d.Funcs {
				ft := c.signatureOf(nil, f.Params, f.Return, f.Effects)
				c.global.Bind(f.Name, ft)
				c.functionTypes[f.Name] = ft
				c.effectTable[f.Name] = ft.Effects
			}
		}
	}
}

func (c *checker) signatureOf(typeParams []string, params []ast.Param, ret ast.TypeExpr, eff *ast.EffectType) types.Func {
	scope := c.global.Child()
	for _, p := range typeParams {
		scope.BindTypeParam(p, types.Con{Name: p})
	}
	paramTypes := make([]types.Type, len(params))
	for i, p := range params {
		paramTypes[i] = c.convertType(scope, p.Type, true)
	}
	var retExpr ast.TypeExpr = ret
	var effects []string
	if eff != nil {
		effects = types.SortEffects(eff.Effects)
		retExpr = eff.Result
	}
	retType := c.convertType(scope, retExpr, true)
	return types.Func{Params: paramTypes, Return: retType, Effects: effects}
}

// checkBodies is pass 2: check every function body against its already-
// recorded declared signature.
func (c *checker) checkBodies(prog *ast.Program) {
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			c.checkFunc(fn)
		}
	}
}

func (c *checker) checkFunc(fn *ast.FuncDecl) {
	sig := c.functionTypes[fn.Name]
	scope := c.global.Child()
	for _, tp := range fn.TypeParams {
		scope.BindTypeParam(tp, types.Con{Name: tp})
	}
	for i, p := range fn.Params {
		if i < len(sig.Params) {
			scope.Bind(p.Name, sig.Params[i])
		}
	}
	if fn.Body == nil {
		return
	}
	fc := &funcCheck{checker: c, sig: sig, facts: refine.NewFactSet()}
	for i, p := range fn.Params {
		if i >= len(sig.Params) {
			continue
		}
		if rt, ok := sig.Params[i].(types.Refined); ok {
			fc.facts.Add(refine.Substitute(rt.Predicate, rt.VarName, refine.Var{Name: p.Name}))
		}
	}
	bodyType := fc.checkBlock(scope, fn.Body)
	if fn.Body.Value != nil {
		fc.unify(sig.Return, bodyType, fn.Body.Value.Span(), "return value")
	}
	fc.checkReturnValue(scope, sig.Return, fn.Body.Value, fn.Body)
}

// unresolvedType records an E1001 "unresolved type" diagnostic and
// returns a fresh variable so checking can continue with a placeholder
// (spec.md §4.3: "unknown names produce an unresolved-type diagnostic
// and yield a fresh variable").
func (c *checker) unresolvedType(name string, span source.Span) types.Type {
	d := c.rep.Errorf("E1001", "unresolved type %q", name)
	report.Apply(d, report.At(span))
	return c.varGen.Fresh()
}
