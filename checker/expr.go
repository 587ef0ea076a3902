package checker

import (
	"math/big"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/refine"
	"github.com/emberlang/ember/types"
)

func (fc *funcCheck) checkExpr(scope *types.Context, e ast.Expr) types.Type {
	t := fc.checkExprRaw(scope, e)
	return fc.setType(e, t)
}

func (fc *funcCheck) checkExprRaw(scope *types.Context, e ast.Expr) types.Type {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return fc.checkLiteral(e)
	case *ast.IdentExpr:
		if t, ok := scope.Lookup(e.Name); ok {
			return t
		}
		return fc.unresolvedType(e.Name, e.Span())
	case *ast.UnaryExpr:
		operand := fc.checkExpr(scope, e.Operand)
		if e.Op == ast.UnaryNot {
			return fc.unify(operand, types.Con{Name: types.BoolName}, e.Span(), "unary !")
		}
		return operand
	case *ast.BinaryExpr:
		return fc.checkBinary(scope, e)
	case *ast.CallExpr:
		return fc.checkCall(scope, e)
	case *ast.IndexExpr:
		return fc.checkIndex(scope, e)
	case *ast.FieldExpr:
		return fc.checkField(scope, e)
	case *ast.LambdaExpr:
		return fc.checkLambda(scope, e)
	case *ast.IfExpr:
		return fc.checkIf(scope, e)
	case *ast.MatchExpr:
		return fc.checkMatch(scope, e)
	case *ast.BlockExpr:
		return fc.checkBlock(scope, e)
	case *ast.ArrayExpr:
		return fc.checkArray(scope, e)
	case *ast.TupleExpr:
		elems := make([]types.Type, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = fc.checkExpr(scope, el)
		}
		return types.Tuple{Elems: elems}
	case *ast.RecordExpr:
		return fc.checkRecord(scope, e)
	case *ast.RangeExpr:
		fc.checkExpr(scope, e.Start)
		fc.checkExpr(scope, e.End)
		return types.App{Con: "Range", Args: []types.Type{types.Con{Name: types.IntName}}}
	case *ast.TryExpr:
		inner := fc.checkExpr(scope, e.Operand)
		if app, ok := types.Base(inner).(types.App); ok && app.Con == "Result" && len(app.Args) == 2 {
			return app.Args[0]
		}
		return inner
	default:
		return types.Never{}
	}
}

func (fc *funcCheck) checkLiteral(e *ast.LiteralExpr) types.Type {
	switch e.Kind {
	case ast.LitInt:
		return types.Con{Name: types.IntName}
	case ast.LitFloat:
		return types.Con{Name: types.FloatName}
	case ast.LitString, ast.LitTemplate:
		return types.Con{Name: types.StrName}
	case ast.LitBool:
		return types.Con{Name: types.BoolName}
	default:
		return types.Con{Name: types.UnitName}
	}
}

func (fc *funcCheck) checkBinary(scope *types.Context, e *ast.BinaryExpr) types.Type {
	left := fc.checkExpr(scope, e.Left)
	right := fc.checkExpr(scope, e.Right)
	switch e.Op {
	case ast.BinAnd, ast.BinOr:
		fc.unify(left, types.Con{Name: types.BoolName}, e.Left.Span(), "logical operand")
		fc.unify(right, types.Con{Name: types.BoolName}, e.Right.Span(), "logical operand")
		return types.Con{Name: types.BoolName}
	case ast.BinEq, ast.BinNeq:
		fc.unify(left, right, e.Span(), "equality operands")
		return types.Con{Name: types.BoolName}
	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		fc.unify(left, right, e.Span(), "comparison operands")
		return types.Con{Name: types.BoolName}
	case ast.BinConcat:
		fc.unify(left, right, e.Span(), "concat operands")
		return types.Apply(fc.subst, left)
	case ast.BinPipe:
		// Pre-desugaring pipe: `x |> f` behaves like `f(x)` for typing
		// purposes too, so type errors are caught before canon runs.
		if fn, ok := types.Base(right).(types.Func); ok && len(fn.Params) >= 1 {
			fc.unify(fn.Params[0], left, e.Left.Span(), "pipe argument")
			return fn.Return
		}
		return types.Never{}
	default: // arithmetic
		fc.unify(left, right, e.Span(), "arithmetic operands")
		return types.Apply(fc.subst, left)
	}
}

func (fc *funcCheck) checkCall(scope *types.Context, e *ast.CallExpr) types.Type {
	calleeType := fc.checkExpr(scope, e.Callee)
	fn, ok := types.Base(calleeType).(types.Func)
	if !ok {
		for _, a := range e.Args {
			fc.checkExpr(scope, a)
		}
		return types.Never{}
	}
	calleeName := ""
	if id, ok := e.Callee.(*ast.IdentExpr); ok {
		calleeName = id.Name
	}
	for i, argExpr := range e.Args {
		argType := fc.checkExpr(scope, argExpr)
		if i >= len(fn.Params) {
			continue
		}
		paramType := fc.unify(fn.Params[i], argType, argExpr.Span(), "call argument")
		if refined, ok := paramType.(types.Refined); ok {
			term := refine.Extract(argExpr)
			goal := refine.Substitute(refined.Predicate, refined.VarName, term)
			reason := "argument to " + calleeName
			fc.obligation(goal, argExpr.Span(), reason)
		}
	}
	return types.Apply(fc.subst, fn.Return)
}

func (fc *funcCheck) checkIndex(scope *types.Context, e *ast.IndexExpr) types.Type {
	arrType := fc.checkExpr(scope, e.Array)
	idxType := fc.checkExpr(scope, e.Index)
	fc.unify(idxType, types.Con{Name: types.IntName}, e.Index.Span(), "array index")
	idxTerm := refine.Extract(e.Index)
	arrTerm := refine.Extract(e.Array)
	lower := refine.Cmp{Op: refine.CmpGe, Left: idxTerm, Right: refine.IntLit{Value: big.NewInt(0)}}
	upper := refine.Cmp{Op: refine.CmpLt, Left: idxTerm, Right: refine.Call{Name: "len", Args: []refine.Pred{arrTerm}}}
	fc.obligation(refine.And{Left: lower, Right: upper}, e.Span(), "array index bounds")
	if arr, ok := types.Base(arrType).(types.Array); ok {
		return arr.Elem
	}
	return fc.varGen.Fresh()
}

func (fc *funcCheck) checkField(scope *types.Context, e *ast.FieldExpr) types.Type {
	recvType := fc.checkExpr(scope, e.Receiver)
	if rec, ok := types.Base(recvType).(types.Record); ok {
		if t, ok := rec.FieldType(e.Field); ok {
			return t
		}
	}
	return fc.varGen.Fresh()
}

func (fc *funcCheck) checkLambda(scope *types.Context, e *ast.LambdaExpr) types.Type {
	inner := scope.Child()
	params := make([]types.Type, len(e.Params))
	for i, p := range e.Params {
		pt := fc.convertType(inner, p.Type, true)
		if p.Type == nil {
			pt = fc.varGen.Fresh()
		}
		params[i] = pt
		inner.Bind(p.Name, pt)
	}
	bodyType := fc.checkExpr(inner, e.Body)
	if e.Return != nil {
		ret := fc.convertType(inner, e.Return, true)
		bodyType = fc.unify(ret, bodyType, e.Span(), "lambda return")
	}
	return types.Func{Params: params, Return: bodyType}
}

func (fc *funcCheck) checkIf(scope *types.Context, e *ast.IfExpr) types.Type {
	condType := fc.checkExpr(scope, e.Cond)
	fc.unify(condType, types.Con{Name: types.BoolName}, e.Cond.Span(), "if condition")

	condFact := refine.Extract(e.Cond)
	savedFacts := fc.facts
	fc.facts = savedFacts.Clone().Add(condFact)
	thenType := fc.checkBlock(scope, e.Then)
	fc.facts = savedFacts

	var elseType types.Type = types.Con{Name: types.UnitName}
	if e.Else != nil {
		var negated refine.Pred
		if cmp, ok := condFact.(refine.Cmp); ok {
			negated = refine.Cmp{Op: cmp.Op.Negate(), Left: cmp.Left, Right: cmp.Right}
		} else {
			negated = refine.Not{Operand: condFact}
		}
		fc.facts = savedFacts.Clone().Add(negated)
		elseType = fc.checkExpr(scope, e.Else)
		fc.facts = savedFacts
	}
	return fc.unify(thenType, elseType, e.Span(), "if branches")
}

func (fc *funcCheck) checkArray(scope *types.Context, e *ast.ArrayExpr) types.Type {
	elemType := types.Type(fc.varGen.Fresh())
	for i, el := range e.Elems {
		t := fc.checkExpr(scope, el)
		if i == 0 {
			elemType = t
		} else {
			elemType = fc.unify(elemType, t, el.Span(), "array element")
		}
	}
	return types.Array{Elem: elemType}
}

func (fc *funcCheck) checkRecord(scope *types.Context, e *ast.RecordExpr) types.Type {
	fields := make([]types.RecordField, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = types.RecordField{Name: f.Name, Type: fc.checkExpr(scope, f.Value)}
	}
	if e.TypeName == "" {
		return types.Record{Fields: fields}
	}
	def, ok := fc.global.LookupType(e.TypeName)
	if !ok {
		return fc.unresolvedType(e.TypeName, e.Span())
	}
	rd, ok := def.(types.RecordDef)
	if !ok {
		return types.Record{Fields: fields}
	}
	if len(rd.TypeParams) == 0 {
		return types.Con{Name: e.TypeName}
	}
	args := make([]types.Type, len(rd.TypeParams))
	for i := range args {
		args[i] = fc.varGen.Fresh()
	}
	return types.App{Con: e.TypeName, Args: args}
}
