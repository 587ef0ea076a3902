package canon

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/types"
)

// insertValidators implements spec.md §4.7 phase 4: every call site whose
// callee names a declared external function is wrapped in
// `__validate_T(call)`, T derived from the callee's declared return type.
// Declarations themselves (and the already-external ExternFuncDecl/
// ExternModDecl nodes) are left untouched; only FuncDecl bodies are
// walked, since only ordinary Ember code calls into external functions.
func (c *canonicalizer) insertValidators(prog *ast.Program) (*ast.Program, []ValidatorInsertion) {
	externs := collectExternalReturns(prog)
	v := &validatorInserter{c: c, externs: externs}
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Body != nil {
			fn.Body = v.visitExpr(fn.Body, false).(*ast.BlockExpr)
		}
	}
	return prog, v.insertions
}

func collectExternalReturns(prog *ast.Program) map[string]ast.TypeExpr {
	out := map[string]ast.TypeExpr{}
	for _, d := range prog.Decls {
		switch d := d.(type) {
		case *ast.ExternFuncDecl:
			out[d.Name] = d.Return
		case *ast.ExternModDecl:
			for _, f := range d.Funcs {
				out[f.Name] = f.Return
			}
		}
	}
	return out
}

type validatorInserter struct {
	c          *canonicalizer
	externs    map[string]ast.TypeExpr
	insertions []ValidatorInsertion
}

// visitExpr rewrites e bottom-up. suppressWrap is true only for the sole
// argument of a call this function itself just constructed as a validator
// wrapper: without it, re-running insertValidators over already-wrapped
// output would wrap the inner call a second time, breaking spec.md §4.7's
// idempotence requirement. It is otherwise false and has no effect beyond
// that one recursive call.
func (v *validatorInserter) visitExpr(e ast.Expr, suppressWrap bool) ast.Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *ast.LiteralExpr, *ast.IdentExpr:
		return e
	case *ast.UnaryExpr:
		e.Operand = v.visitExpr(e.Operand, false)
		return e
	case *ast.BinaryExpr:
		e.Left = v.visitExpr(e.Left, false)
		e.Right = v.visitExpr(e.Right, false)
		return e
	case *ast.CallExpr:
		isWrapperShape := isValidatorName(e.Callee) && len(e.Args) == 1
		e.Callee = v.visitExpr(e.Callee, false)
		for i, a := range e.Args {
			if isWrapperShape && i == 0 {
				e.Args[i] = v.visitExpr(a, true)
			} else {
				e.Args[i] = v.visitExpr(a, false)
			}
		}
		if isWrapperShape || suppressWrap {
			return e
		}
		id, ok := e.Callee.(*ast.IdentExpr)
		if !ok {
			return e
		}
		retType, ok := v.externs[id.Name]
		if !ok {
			return e
		}
		vname := "__validate_" + v.c.classifyReturn(id.Name, retType)
		v.insertions = append(v.insertions, ValidatorInsertion{OriginalID: e.ID(), ValidatorName: vname, Callee: id.Name})
		return ast.NewCallExpr(v.c.alloc, e.Span(), ast.NewIdentExpr(v.c.alloc, e.Span(), vname), []ast.Expr{e})
	case *ast.IndexExpr:
		e.Array = v.visitExpr(e.Array, false)
		e.Index = v.visitExpr(e.Index, false)
		return e
	case *ast.FieldExpr:
		e.Receiver = v.visitExpr(e.Receiver, false)
		return e
	case *ast.LambdaExpr:
		e.Body = v.visitExpr(e.Body, false)
		return e
	case *ast.IfExpr:
		e.Cond = v.visitExpr(e.Cond, false)
		e.Then = v.visitExpr(e.Then, false).(*ast.BlockExpr)
		if e.Else != nil {
			e.Else = v.visitExpr(e.Else, false)
		}
		return e
	case *ast.MatchExpr:
		e.Scrutinee = v.visitExpr(e.Scrutinee, false)
		for i, arm := range e.Arms {
			if arm.Guard != nil {
				e.Arms[i].Guard = v.visitExpr(arm.Guard, false)
			}
			e.Arms[i].Body = v.visitExpr(arm.Body, false)
		}
		return e
	case *ast.BlockExpr:
		for _, s := range e.Stmts {
			v.visitStmt(s)
		}
		if e.Value != nil {
			e.Value = v.visitExpr(e.Value, false)
		}
		return e
	case *ast.ArrayExpr:
		for i, el := range e.Elems {
			e.Elems[i] = v.visitExpr(el, false)
		}
		return e
	case *ast.TupleExpr:
		for i, el := range e.Elems {
			e.Elems[i] = v.visitExpr(el, false)
		}
		return e
	case *ast.RecordExpr:
		for i, f := range e.Fields {
			e.Fields[i].Value = v.visitExpr(f.Value, false)
		}
		return e
	case *ast.RangeExpr:
		e.Start = v.visitExpr(e.Start, false)
		e.End = v.visitExpr(e.End, false)
		return e
	case *ast.TryExpr:
		e.Operand = v.visitExpr(e.Operand, false)
		return e
	default:
		return e
	}
}

func (v *validatorInserter) visitStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LetStmt:
		s.Initializer = v.visitExpr(s.Initializer, false)
	case *ast.AssignStmt:
		s.Target = v.visitExpr(s.Target, false)
		s.Value = v.visitExpr(s.Value, false)
	case *ast.ExprStmt:
		s.X = v.visitExpr(s.X, false)
	case *ast.ForStmt:
		s.Iterable = v.visitExpr(s.Iterable, false)
		s.Body = v.visitExpr(s.Body, false).(*ast.BlockExpr)
	case *ast.WhileStmt:
		s.Cond = v.visitExpr(s.Cond, false)
		s.Body = v.visitExpr(s.Body, false).(*ast.BlockExpr)
	case *ast.LoopStmt:
		s.Body = v.visitExpr(s.Body, false).(*ast.BlockExpr)
	case *ast.ReturnStmt:
		if s.Value != nil {
			s.Value = v.visitExpr(s.Value, false)
		}
	case *ast.AssertStmt:
		s.Condition = v.visitExpr(s.Condition, false)
		if s.Message != nil {
			s.Message = v.visitExpr(s.Message, false)
		}
	}
}

func isValidatorName(callee ast.Expr) bool {
	id, ok := callee.(*ast.IdentExpr)
	return ok && len(id.Name) > len("__validate_") && id.Name[:len("__validate_")] == "__validate_"
}

// classifyReturn derives T in `__validate_T` for a call to the external
// function funcName, preferring a precise resolved type from
// Options.TypeInfo[funcName] (e.g. checker.Result's signature table, which
// has already resolved any type alias) and falling back to a syntactic
// read of the declaration's own TypeExpr.
func (c *canonicalizer) classifyReturn(funcName string, te ast.TypeExpr) string {
	if resolved, ok := c.opts.TypeInfo[funcName]; ok {
		if s := suffixFromType(resolved); s != "" {
			return s
		}
	}
	return c.validatorSuffix(te)
}

func (c *canonicalizer) validatorSuffix(te ast.TypeExpr) string {
	switch t := te.(type) {
	case nil:
		return "Any"
	case *ast.NamedType:
		return t.Name
	case *ast.ArrayType:
		return "Array"
	case *ast.TupleType:
		return "Tuple"
	case *ast.FuncType:
		return "Fn"
	case *ast.RecordType:
		return "Record"
	case *ast.RefinedType:
		return c.validatorSuffix(t.BaseType)
	case *ast.EffectType:
		return c.validatorSuffix(t.Result)
	default:
		return "Any"
	}
}

func suffixFromType(t types.Type) string {
	switch t := t.(type) {
	case types.Con:
		return t.Name
	case types.App:
		return t.Con
	case types.Array:
		return "Array"
	case types.Tuple:
		return "Tuple"
	case types.Func:
		return "Fn"
	case types.Record:
		return "Record"
	default:
		return ""
	}
}
