package astjson

import (
	"github.com/emberlang/ember/ast"
)

func (e *encoder) program(p *ast.Program) map[string]any {
	decls := make([]any, len(p.Decls))
	for i, d := range p.Decls {
		decls[i] = e.decl(d)
	}
	obj := map[string]any{"kind": "Program"}
	if len(decls) > 0 {
		obj["decls"] = decls
	}
	return withSpan(obj, e.spanOf(p))
}

func (e *encoder) decl(d ast.Decl) map[string]any {
	switch d := d.(type) {
	case *ast.ModuleDecl:
		return withSpan(map[string]any{"kind": "ModuleDecl", "name": d.Name}, e.spanOf(d))
	case *ast.UseDecl:
		obj := map[string]any{"kind": "UseDecl", "path": stringsToAny(d.Path), "external": d.External}
		if len(d.Items) > 0 {
			obj["items"] = stringsToAny(d.Items)
		}
		if d.Alias != "" {
			obj["alias"] = d.Alias
		}
		return withSpan(obj, e.spanOf(d))
	case *ast.TypeAliasDecl:
		obj := map[string]any{"kind": "TypeAliasDecl", "name": d.Name, "type": e.typeExpr(d.Type)}
		if len(d.TypeParams) > 0 {
			obj["typeParams"] = stringsToAny(d.TypeParams)
		}
		return withSpan(obj, e.spanOf(d))
	case *ast.RecordDecl:
		fields := make([]any, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = map[string]any{"name": f.Name, "type": e.typeExpr(f.Type)}
		}
		obj := map[string]any{"kind": "RecordDecl", "name": d.Name, "fields": fields, "open": d.Open}
		if len(d.TypeParams) > 0 {
			obj["typeParams"] = stringsToAny(d.TypeParams)
		}
		return withSpan(obj, e.spanOf(d))
	case *ast.SumDecl:
		variants := make([]any, len(d.Variants))
		for i, v := range d.Variants {
			vo := map[string]any{"name": v.Name}
			if len(v.Fields) > 0 {
				fs := make([]any, len(v.Fields))
				for j, f := range v.Fields {
					fo := map[string]any{"type": e.typeExpr(f.Type)}
					if f.Name != "" {
						fo["name"] = f.Name
					}
					fs[j] = fo
				}
				vo["fields"] = fs
			}
			variants[i] = vo
		}
		obj := map[string]any{"kind": "SumDecl", "name": d.Name, "variants": variants}
		if len(d.TypeParams) > 0 {
			obj["typeParams"] = stringsToAny(d.TypeParams)
		}
		return withSpan(obj, e.spanOf(d))
	case *ast.FuncDecl:
		obj := map[string]any{"kind": "FuncDecl", "name": d.Name, "params": e.params(d.Params), "return": e.typeExpr(d.Return)}
		if len(d.TypeParams) > 0 {
			obj["typeParams"] = stringsToAny(d.TypeParams)
		}
		if d.Effects != nil {
			obj["effects"] = e.typeExpr(d.Effects)
		}
		if d.Body != nil {
			obj["body"] = e.expr(d.Body)
		}
		return withSpan(obj, e.spanOf(d))
	case *ast.ExternFuncDecl:
		obj := map[string]any{
			"kind": "ExternFuncDecl", "name": d.Name, "params": e.params(d.Params),
			"return": e.typeExpr(d.Return), "hostName": d.HostName,
		}
		if d.Effects != nil {
			obj["effects"] = e.typeExpr(d.Effects)
		}
		return withSpan(obj, e.spanOf(d))
	case *ast.ExternModDecl:
		funcs := make([]any, len(d.Funcs))
		for i, f := range d.Funcs {
			funcs[i] = e.decl(f)
		}
		obj := map[string]any{"kind": "ExternModDecl", "name": d.Name, "hostModule": d.HostModule, "funcs": funcs}
		return withSpan(obj, e.spanOf(d))
	default:
		return map[string]any{"kind": "Unknown"}
	}
}

func (e *encoder) params(ps []ast.Param) []any {
	out := make([]any, len(ps))
	for i, p := range ps {
		po := map[string]any{"name": p.Name}
		if p.Type != nil {
			po["type"] = e.typeExpr(p.Type)
		}
		out[i] = po
	}
	return out
}

func (e *encoder) typeExpr(t ast.TypeExpr) map[string]any {
	switch t := t.(type) {
	case nil:
		return nil
	case *ast.NamedType:
		obj := map[string]any{"kind": "NamedType", "name": t.Name}
		if len(t.Args) > 0 {
			args := make([]any, len(t.Args))
			for i, a := range t.Args {
				args[i] = e.typeExpr(a)
			}
			obj["args"] = args
		}
		return withSpan(obj, e.spanOf(t))
	case *ast.ArrayType:
		return withSpan(map[string]any{"kind": "ArrayType", "elem": e.typeExpr(t.Elem)}, e.spanOf(t))
	case *ast.TupleType:
		elems := make([]any, len(t.Elems))
		for i, el := range t.Elems {
			elems[i] = e.typeExpr(el)
		}
		return withSpan(map[string]any{"kind": "TupleType", "elems": elems}, e.spanOf(t))
	case *ast.FuncType:
		params := make([]any, len(t.Params))
		for i, p := range t.Params {
			params[i] = e.typeExpr(p)
		}
		return withSpan(map[string]any{"kind": "FuncType", "params": params, "return": e.typeExpr(t.Return)}, e.spanOf(t))
	case *ast.RefinedType:
		obj := map[string]any{"kind": "RefinedType", "baseType": e.typeExpr(t.BaseType), "predicate": e.expr(t.Predicate)}
		if t.VarName != "" {
			obj["varName"] = t.VarName
		}
		return withSpan(obj, e.spanOf(t))
	case *ast.EffectType:
		obj := map[string]any{"kind": "EffectType", "result": e.typeExpr(t.Result)}
		if len(t.Effects) > 0 {
			obj["effects"] = stringsToAny(t.Effects)
		}
		return withSpan(obj, e.spanOf(t))
	case *ast.RecordType:
		fields := make([]any, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = map[string]any{"name": f.Name, "type": e.typeExpr(f.Type)}
		}
		return withSpan(map[string]any{"kind": "RecordType", "fields": fields, "open": t.Open}, e.spanOf(t))
	default:
		return map[string]any{"kind": "Unknown"}
	}
}

func (e *encoder) expr(x ast.Expr) map[string]any {
	switch x := x.(type) {
	case nil:
		return nil
	case *ast.LiteralExpr:
		return withSpan(e.literal(x), e.spanOf(x))
	case *ast.IdentExpr:
		return withSpan(map[string]any{"kind": "IdentExpr", "name": x.Name}, e.spanOf(x))
	case *ast.UnaryExpr:
		return withSpan(map[string]any{"kind": "UnaryExpr", "op": unaryOpName(x.Op), "operand": e.expr(x.Operand)}, e.spanOf(x))
	case *ast.BinaryExpr:
		return withSpan(map[string]any{
			"kind": "BinaryExpr", "op": binaryOpName(x.Op), "left": e.expr(x.Left), "right": e.expr(x.Right),
		}, e.spanOf(x))
	case *ast.CallExpr:
		args := make([]any, len(x.Args))
		for i, a := range x.Args {
			args[i] = e.expr(a)
		}
		return withSpan(map[string]any{"kind": "CallExpr", "callee": e.expr(x.Callee), "args": args}, e.spanOf(x))
	case *ast.IndexExpr:
		return withSpan(map[string]any{"kind": "IndexExpr", "array": e.expr(x.Array), "index": e.expr(x.Index)}, e.spanOf(x))
	case *ast.FieldExpr:
		return withSpan(map[string]any{"kind": "FieldExpr", "receiver": e.expr(x.Receiver), "field": x.Field}, e.spanOf(x))
	case *ast.LambdaExpr:
		obj := map[string]any{"kind": "LambdaExpr", "params": e.params(x.Params), "body": e.expr(x.Body)}
		if x.Return != nil {
			obj["return"] = e.typeExpr(x.Return)
		}
		return withSpan(obj, e.spanOf(x))
	case *ast.IfExpr:
		obj := map[string]any{"kind": "IfExpr", "cond": e.expr(x.Cond), "then": e.expr(x.Then)}
		if x.Else != nil {
			obj["else"] = e.expr(x.Else)
		}
		return withSpan(obj, e.spanOf(x))
	case *ast.MatchExpr:
		arms := make([]any, len(x.Arms))
		for i, a := range x.Arms {
			ao := map[string]any{"pattern": e.pattern(a.Pattern), "body": e.expr(a.Body)}
			if a.Guard != nil {
				ao["guard"] = e.expr(a.Guard)
			}
			arms[i] = ao
		}
		return withSpan(map[string]any{"kind": "MatchExpr", "scrutinee": e.expr(x.Scrutinee), "arms": arms}, e.spanOf(x))
	case *ast.BlockExpr:
		stmts := make([]any, len(x.Stmts))
		for i, s := range x.Stmts {
			stmts[i] = e.stmt(s)
		}
		obj := map[string]any{"kind": "BlockExpr"}
		if len(stmts) > 0 {
			obj["stmts"] = stmts
		}
		if x.Value != nil {
			obj["value"] = e.expr(x.Value)
		}
		return withSpan(obj, e.spanOf(x))
	case *ast.ArrayExpr:
		elems := make([]any, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = e.expr(el)
		}
		return withSpan(map[string]any{"kind": "ArrayExpr", "elems": elems}, e.spanOf(x))
	case *ast.TupleExpr:
		elems := make([]any, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = e.expr(el)
		}
		return withSpan(map[string]any{"kind": "TupleExpr", "elems": elems}, e.spanOf(x))
	case *ast.RecordExpr:
		fields := make([]any, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = map[string]any{"name": f.Name, "value": e.expr(f.Value)}
		}
		obj := map[string]any{"kind": "RecordExpr", "fields": fields}
		if x.TypeName != "" {
			obj["typeName"] = x.TypeName
		}
		return withSpan(obj, e.spanOf(x))
	case *ast.RangeExpr:
		return withSpan(map[string]any{
			"kind": "RangeExpr", "start": e.expr(x.Start), "end": e.expr(x.End), "inclusive": x.Inclusive,
		}, e.spanOf(x))
	case *ast.TryExpr:
		return withSpan(map[string]any{"kind": "TryExpr", "operand": e.expr(x.Operand)}, e.spanOf(x))
	default:
		return map[string]any{"kind": "Unknown"}
	}
}

func (e *encoder) literal(x *ast.LiteralExpr) map[string]any {
	switch x.Kind {
	case ast.LitInt:
		obj := map[string]any{"kind": "LiteralExpr", "litKind": "int", "value": x.Int.String()}
		if x.IntWidth != "" {
			obj["width"] = x.IntWidth
		}
		return obj
	case ast.LitFloat:
		return map[string]any{"kind": "LiteralExpr", "litKind": "float", "value": x.Float}
	case ast.LitString:
		return map[string]any{"kind": "LiteralExpr", "litKind": "string", "value": x.String}
	case ast.LitTemplate:
		return map[string]any{"kind": "LiteralExpr", "litKind": "template", "value": x.String}
	case ast.LitBool:
		return map[string]any{"kind": "LiteralExpr", "litKind": "bool", "value": x.Bool}
	default:
		return map[string]any{"kind": "LiteralExpr", "litKind": "unit"}
	}
}

func (e *encoder) stmt(s ast.Stmt) map[string]any {
	switch s := s.(type) {
	case nil:
		return nil
	case *ast.LetStmt:
		obj := map[string]any{
			"kind": "LetStmt", "pattern": e.pattern(s.Pattern), "mutable": s.Mutable,
			"initializer": e.expr(s.Initializer),
		}
		if s.Type != nil {
			obj["type"] = e.typeExpr(s.Type)
		}
		return withSpan(obj, e.spanOf(s))
	case *ast.AssignStmt:
		return withSpan(map[string]any{"kind": "AssignStmt", "target": e.expr(s.Target), "value": e.expr(s.Value)}, e.spanOf(s))
	case *ast.ExprStmt:
		return withSpan(map[string]any{"kind": "ExprStmt", "x": e.expr(s.X)}, e.spanOf(s))
	case *ast.ForStmt:
		return withSpan(map[string]any{
			"kind": "ForStmt", "pattern": e.pattern(s.Pattern), "iterable": e.expr(s.Iterable), "body": e.expr(s.Body),
		}, e.spanOf(s))
	case *ast.WhileStmt:
		return withSpan(map[string]any{"kind": "WhileStmt", "cond": e.expr(s.Cond), "body": e.expr(s.Body)}, e.spanOf(s))
	case *ast.LoopStmt:
		return withSpan(map[string]any{"kind": "LoopStmt", "body": e.expr(s.Body)}, e.spanOf(s))
	case *ast.ReturnStmt:
		obj := map[string]any{"kind": "ReturnStmt"}
		if s.Value != nil {
			obj["value"] = e.expr(s.Value)
		}
		return withSpan(obj, e.spanOf(s))
	case *ast.BreakStmt:
		return withSpan(map[string]any{"kind": "BreakStmt"}, e.spanOf(s))
	case *ast.ContinueStmt:
		return withSpan(map[string]any{"kind": "ContinueStmt"}, e.spanOf(s))
	case *ast.AssertStmt:
		obj := map[string]any{"kind": "AssertStmt", "condition": e.expr(s.Condition)}
		if s.Message != nil {
			obj["message"] = e.expr(s.Message)
		}
		return withSpan(obj, e.spanOf(s))
	default:
		return map[string]any{"kind": "Unknown"}
	}
}

func (e *encoder) pattern(p ast.Pattern) map[string]any {
	switch p := p.(type) {
	case nil:
		return nil
	case *ast.WildcardPattern:
		return withSpan(map[string]any{"kind": "WildcardPattern"}, e.spanOf(p))
	case *ast.IdentPattern:
		return withSpan(map[string]any{"kind": "IdentPattern", "name": p.Name}, e.spanOf(p))
	case *ast.LiteralPattern:
		return withSpan(map[string]any{"kind": "LiteralPattern", "literal": e.literal(p.Literal)}, e.spanOf(p))
	case *ast.TuplePattern:
		elems := make([]any, len(p.Elems))
		for i, el := range p.Elems {
			elems[i] = e.pattern(el)
		}
		return withSpan(map[string]any{"kind": "TuplePattern", "elems": elems}, e.spanOf(p))
	case *ast.RecordPattern:
		fields := make([]any, len(p.Fields))
		for i, f := range p.Fields {
			fo := map[string]any{"name": f.Name}
			if f.Sub != nil {
				fo["sub"] = e.pattern(f.Sub)
			}
			fields[i] = fo
		}
		return withSpan(map[string]any{"kind": "RecordPattern", "fields": fields}, e.spanOf(p))
	case *ast.VariantPattern:
		obj := map[string]any{"kind": "VariantPattern", "name": p.Name}
		if len(p.Payload) > 0 {
			payload := make([]any, len(p.Payload))
			for i, sub := range p.Payload {
				payload[i] = e.pattern(sub)
			}
			obj["payload"] = payload
		}
		return withSpan(obj, e.spanOf(p))
	default:
		return map[string]any{"kind": "Unknown"}
	}
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func unaryOpName(op ast.UnaryOp) string {
	if op == ast.UnaryNot {
		return "!"
	}
	return "-"
}

var binaryOpNames = map[ast.BinaryOp]string{
	ast.BinPipe: "|>", ast.BinOr: "||", ast.BinAnd: "&&", ast.BinEq: "==", ast.BinNeq: "!=",
	ast.BinLt: "<", ast.BinLe: "<=", ast.BinGt: ">", ast.BinGe: ">=", ast.BinConcat: "++",
	ast.BinAdd: "+", ast.BinSub: "-", ast.BinMul: "*", ast.BinDiv: "/", ast.BinMod: "%", ast.BinPow: "^",
}

func binaryOpName(op ast.BinaryOp) string {
	if s, ok := binaryOpNames[op]; ok {
		return s
	}
	return "?"
}
