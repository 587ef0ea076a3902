package astjson

import (
	"math/big"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/internal/idalloc"
	"github.com/emberlang/ember/parser"
	"github.com/emberlang/ember/source"
)

// decoder mints one idalloc.Allocator for the whole decode, matching the
// other top-level entry points' "fresh allocator per request" discipline
// (spec.md §5, §9): every node produced by DeserializeProgram, whether
// from a kind-tagged object or a parsed source fragment, shares IDs drawn
// from the same counter.
func (d *decoder) alloc() *idalloc.Allocator {
	if d.a == nil {
		d.a = idalloc.New()
	}
	return d.a
}

func (d *decoder) decodeProgram(v any, path string) *ast.Program {
	obj, ok := asObject(v, path, d)
	if !ok {
		return nil
	}
	if k, _ := kindOf(obj); k != "" && k != "Program" {
		d.fail(path, "expected kind Program, got %q", k)
	}
	arr, _ := asArray(obj["decls"], path+".decls", d)
	decls := make([]ast.Decl, 0, len(arr))
	for i, dv := range arr {
		if decl := d.decodeDecl(dv, indexPath(path+".decls", i)); decl != nil {
			decls = append(decls, decl)
		}
	}
	return ast.NewProgram(d.alloc(), d.spanFrom(obj["span"]), decls)
}

func indexPath(base string, i int) string { return base + "[" + itoa(i) + "]" }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (d *decoder) decodeDecl(v any, path string) ast.Decl {
	obj, ok := asObject(v, path, d)
	if !ok {
		return nil
	}
	if isFragment(obj) {
		// The parser has no standalone "parse one declaration" entry point
		// (spec.md §4.8 lists Program/Expr/TypeExpr/Pattern/Stmt/Block
		// fragment positions only), so a fragment at declaration position
		// cannot be dispatched anywhere.
		d.fail(path, "source fragments are not supported at declaration position")
		return nil
	}
	k, ok := kindOf(obj)
	if !ok {
		d.fail(path, "missing \"kind\"")
		return nil
	}
	switch k {
	case "ModuleDecl":
		name, _ := asString(obj["name"], path+".name", d)
		return ast.NewModuleDecl(d.alloc(), d.spanFrom(obj["span"]), name)
	case "UseDecl":
		path_, _ := asArray(obj["path"], path+".path", d)
		items, _ := asArray(obj["items"], path+".items", d)
		alias, _ := obj["alias"].(string)
		external, _ := obj["external"].(bool)
		return ast.NewUseDecl(d.alloc(), d.spanFrom(obj["span"]), anyToStrings(path_), anyToStrings(items), alias, external)
	case "TypeAliasDecl":
		name, _ := asString(obj["name"], path+".name", d)
		params, _ := asArray(obj["typeParams"], path+".typeParams", d)
		t := d.decodeType(obj["type"], path+".type")
		return ast.NewTypeAliasDecl(d.alloc(), d.spanFrom(obj["span"]), name, anyToStrings(params), t)
	case "RecordDecl":
		name, _ := asString(obj["name"], path+".name", d)
		params, _ := asArray(obj["typeParams"], path+".typeParams", d)
		open, _ := obj["open"].(bool)
		farr, _ := asArray(obj["fields"], path+".fields", d)
		fields := make([]ast.RecordField, 0, len(farr))
		for i, fv := range farr {
			fo, ok := asObject(fv, indexPath(path+".fields", i), d)
			if !ok {
				continue
			}
			fname, _ := asString(fo["name"], indexPath(path+".fields", i)+".name", d)
			ft := d.decodeType(fo["type"], indexPath(path+".fields", i)+".type")
			fields = append(fields, ast.RecordField{Name: fname, Type: ft})
		}
		return ast.NewRecordDecl(d.alloc(), d.spanFrom(obj["span"]), name, anyToStrings(params), fields, open)
	case "SumDecl":
		name, _ := asString(obj["name"], path+".name", d)
		params, _ := asArray(obj["typeParams"], path+".typeParams", d)
		varr, _ := asArray(obj["variants"], path+".variants", d)
		variants := make([]ast.Variant, 0, len(varr))
		for i, vv := range varr {
			vo, ok := asObject(vv, indexPath(path+".variants", i), d)
			if !ok {
				continue
			}
			vname, _ := asString(vo["name"], indexPath(path+".variants", i)+".name", d)
			farr, _ := asArray(vo["fields"], indexPath(path+".variants", i)+".fields", d)
			var fields []ast.VariantField
			for j, fv := range farr {
				fp := indexPath(indexPath(path+".variants", i)+".fields", j)
				fo, ok := asObject(fv, fp, d)
				if !ok {
					continue
				}
				fname, _ := fo["name"].(string)
				ft := d.decodeType(fo["type"], fp+".type")
				fields = append(fields, ast.VariantField{Name: fname, Type: ft})
			}
			variants = append(variants, ast.Variant{Name: vname, Fields: fields})
		}
		return ast.NewSumDecl(d.alloc(), d.spanFrom(obj["span"]), name, anyToStrings(params), variants)
	case "FuncDecl":
		name, _ := asString(obj["name"], path+".name", d)
		params := d.decodeParams(obj["params"], path+".params")
		typeParams, _ := asArray(obj["typeParams"], path+".typeParams", d)
		ret := d.decodeType(obj["return"], path+".return")
		var eff *ast.EffectType
		if obj["effects"] != nil {
			if t := d.decodeType(obj["effects"], path+".effects"); t != nil {
				eff, _ = t.(*ast.EffectType)
			}
		}
		var body *ast.BlockExpr
		if obj["body"] != nil {
			if b := d.decodeExpr(obj["body"], path+".body"); b != nil {
				body, _ = b.(*ast.BlockExpr)
			}
		}
		return ast.NewFuncDecl(d.alloc(), d.spanFrom(obj["span"]), name, anyToStrings(typeParams), params, ret, eff, body)
	case "ExternFuncDecl":
		name, _ := asString(obj["name"], path+".name", d)
		params := d.decodeParams(obj["params"], path+".params")
		ret := d.decodeType(obj["return"], path+".return")
		hostName, _ := asString(obj["hostName"], path+".hostName", d)
		var eff *ast.EffectType
		if obj["effects"] != nil {
			if t := d.decodeType(obj["effects"], path+".effects"); t != nil {
				eff, _ = t.(*ast.EffectType)
			}
		}
		return ast.NewExternFuncDecl(d.alloc(), d.spanFrom(obj["span"]), name, params, ret, eff, hostName)
	case "ExternModDecl":
		name, _ := asString(obj["name"], path+".name", d)
		hostModule, _ := asString(obj["hostModule"], path+".hostModule", d)
		farr, _ := asArray(obj["funcs"], path+".funcs", d)
		funcs := make([]*ast.ExternFuncDecl, 0, len(farr))
		for i, fv := range farr {
			if fd := d.decodeDecl(fv, indexPath(path+".funcs", i)); fd != nil {
				if ef, ok := fd.(*ast.ExternFuncDecl); ok {
					funcs = append(funcs, ef)
				}
			}
		}
		return ast.NewExternModDecl(d.alloc(), d.spanFrom(obj["span"]), name, hostModule, funcs)
	default:
		d.fail(path, "unknown declaration kind %q", k)
		return nil
	}
}

func (d *decoder) decodeParams(v any, path string) []ast.Param {
	arr, _ := asArray(v, path, d)
	out := make([]ast.Param, 0, len(arr))
	for i, pv := range arr {
		p := indexPath(path, i)
		po, ok := asObject(pv, p, d)
		if !ok {
			continue
		}
		name, _ := asString(po["name"], p+".name", d)
		var t ast.TypeExpr
		if po["type"] != nil {
			t = d.decodeType(po["type"], p+".type")
		}
		out = append(out, ast.Param{Name: name, Type: t})
	}
	return out
}

func anyToStrings(arr []any) []string {
	if arr == nil {
		return nil
	}
	out := make([]string, len(arr))
	for i, v := range arr {
		s, _ := v.(string)
		out[i] = s
	}
	return out
}

func (d *decoder) decodeType(v any, path string) ast.TypeExpr {
	if v == nil {
		return nil
	}
	obj, ok := asObject(v, path, d)
	if !ok {
		return nil
	}
	if isFragment(obj) {
		toks, ok := fragmentTokens(obj, path, d)
		if !ok {
			return nil
		}
		t, rep := parser.ParseTypeExpr(toks)
		for _, diag := range rep.Diagnostics() {
			d.fail(path, "fragment parse error: %s", diag.Message)
		}
		return t
	}
	k, ok := kindOf(obj)
	if !ok {
		d.fail(path, "missing \"kind\"")
		return nil
	}
	switch k {
	case "NamedType":
		name, _ := asString(obj["name"], path+".name", d)
		argsArr, _ := asArray(obj["args"], path+".args", d)
		args := make([]ast.TypeExpr, 0, len(argsArr))
		for i, av := range argsArr {
			args = append(args, d.decodeType(av, indexPath(path+".args", i)))
		}
		return ast.NewNamedType(d.alloc(), d.spanFrom(obj["span"]), name, args)
	case "ArrayType":
		return ast.NewArrayType(d.alloc(), d.spanFrom(obj["span"]), d.decodeType(obj["elem"], path+".elem"))
	case "TupleType":
		arr, _ := asArray(obj["elems"], path+".elems", d)
		elems := make([]ast.TypeExpr, 0, len(arr))
		for i, ev := range arr {
			elems = append(elems, d.decodeType(ev, indexPath(path+".elems", i)))
		}
		return ast.NewTupleType(d.alloc(), d.spanFrom(obj["span"]), elems)
	case "FuncType":
		arr, _ := asArray(obj["params"], path+".params", d)
		params := make([]ast.TypeExpr, 0, len(arr))
		for i, pv := range arr {
			params = append(params, d.decodeType(pv, indexPath(path+".params", i)))
		}
		ret := d.decodeType(obj["return"], path+".return")
		return ast.NewFuncType(d.alloc(), d.spanFrom(obj["span"]), params, ret)
	case "RefinedType":
		base := d.decodeType(obj["baseType"], path+".baseType")
		varName, _ := obj["varName"].(string)
		pred := d.decodeExpr(obj["predicate"], path+".predicate")
		return ast.NewRefinedType(d.alloc(), d.spanFrom(obj["span"]), base, varName, pred)
	case "EffectType":
		effs, _ := asArray(obj["effects"], path+".effects", d)
		result := d.decodeType(obj["result"], path+".result")
		return ast.NewEffectType(d.alloc(), d.spanFrom(obj["span"]), anyToStrings(effs), result)
	case "RecordType":
		arr, _ := asArray(obj["fields"], path+".fields", d)
		fields := make([]ast.RecordTypeField, 0, len(arr))
		for i, fv := range arr {
			p := indexPath(path+".fields", i)
			fo, ok := asObject(fv, p, d)
			if !ok {
				continue
			}
			name, _ := asString(fo["name"], p+".name", d)
			fields = append(fields, ast.RecordTypeField{Name: name, Type: d.decodeType(fo["type"], p+".type")})
		}
		open, _ := obj["open"].(bool)
		return ast.NewRecordType(d.alloc(), d.spanFrom(obj["span"]), fields, open)
	default:
		d.fail(path, "unknown type kind %q", k)
		return nil
	}
}

var unaryOpByName = map[string]ast.UnaryOp{"-": ast.UnaryNeg, "!": ast.UnaryNot}

func reverseBinaryOpNames() map[string]ast.BinaryOp {
	out := make(map[string]ast.BinaryOp, len(binaryOpNames))
	for op, name := range binaryOpNames {
		out[name] = op
	}
	return out
}

var binaryOpByName = reverseBinaryOpNames()

func (d *decoder) decodeExpr(v any, path string) ast.Expr {
	if v == nil {
		return nil
	}
	obj, ok := asObject(v, path, d)
	if !ok {
		return nil
	}
	if isFragment(obj) {
		toks, ok := fragmentTokens(obj, path, d)
		if !ok {
			return nil
		}
		e, rep := parser.ParseExpression(toks)
		for _, diag := range rep.Diagnostics() {
			d.fail(path, "fragment parse error: %s", diag.Message)
		}
		return e
	}
	k, ok := kindOf(obj)
	if !ok {
		d.fail(path, "missing \"kind\"")
		return nil
	}
	switch k {
	case "LiteralExpr":
		return d.decodeLiteral(obj, path)
	case "IdentExpr":
		name, _ := asString(obj["name"], path+".name", d)
		return ast.NewIdentExpr(d.alloc(), d.spanFrom(obj["span"]), name)
	case "UnaryExpr":
		opName, _ := asString(obj["op"], path+".op", d)
		op, ok := unaryOpByName[opName]
		if !ok {
			d.fail(path+".op", "unknown unary operator %q", opName)
		}
		return ast.NewUnaryExpr(d.alloc(), d.spanFrom(obj["span"]), op, d.decodeExpr(obj["operand"], path+".operand"))
	case "BinaryExpr":
		opName, _ := asString(obj["op"], path+".op", d)
		op, ok := binaryOpByName[opName]
		if !ok {
			d.fail(path+".op", "unknown binary operator %q", opName)
		}
		left := d.decodeExpr(obj["left"], path+".left")
		right := d.decodeExpr(obj["right"], path+".right")
		return ast.NewBinaryExpr(d.alloc(), d.spanFrom(obj["span"]), op, left, right)
	case "CallExpr":
		callee := d.decodeExpr(obj["callee"], path+".callee")
		arr, _ := asArray(obj["args"], path+".args", d)
		args := make([]ast.Expr, 0, len(arr))
		for i, av := range arr {
			args = append(args, d.decodeExpr(av, indexPath(path+".args", i)))
		}
		return ast.NewCallExpr(d.alloc(), d.spanFrom(obj["span"]), callee, args)
	case "IndexExpr":
		return ast.NewIndexExpr(d.alloc(), d.spanFrom(obj["span"]), d.decodeExpr(obj["array"], path+".array"), d.decodeExpr(obj["index"], path+".index"))
	case "FieldExpr":
		field, _ := asString(obj["field"], path+".field", d)
		return ast.NewFieldExpr(d.alloc(), d.spanFrom(obj["span"]), d.decodeExpr(obj["receiver"], path+".receiver"), field)
	case "LambdaExpr":
		params := d.decodeParams(obj["params"], path+".params")
		var ret ast.TypeExpr
		if obj["return"] != nil {
			ret = d.decodeType(obj["return"], path+".return")
		}
		return ast.NewLambdaExpr(d.alloc(), d.spanFrom(obj["span"]), params, ret, d.decodeExpr(obj["body"], path+".body"))
	case "IfExpr":
		cond := d.decodeExpr(obj["cond"], path+".cond")
		thenE := d.decodeExpr(obj["then"], path+".then")
		then, _ := thenE.(*ast.BlockExpr)
		var els ast.Expr
		if obj["else"] != nil {
			els = d.decodeExpr(obj["else"], path+".else")
		}
		return ast.NewIfExpr(d.alloc(), d.spanFrom(obj["span"]), cond, then, els)
	case "MatchExpr":
		scrutinee := d.decodeExpr(obj["scrutinee"], path+".scrutinee")
		arr, _ := asArray(obj["arms"], path+".arms", d)
		arms := make([]ast.MatchArm, 0, len(arr))
		for i, av := range arr {
			p := indexPath(path+".arms", i)
			ao, ok := asObject(av, p, d)
			if !ok {
				continue
			}
			pat := d.decodePattern(ao["pattern"], p+".pattern")
			var guard ast.Expr
			if ao["guard"] != nil {
				guard = d.decodeExpr(ao["guard"], p+".guard")
			}
			body := d.decodeExpr(ao["body"], p+".body")
			arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		}
		return ast.NewMatchExpr(d.alloc(), d.spanFrom(obj["span"]), scrutinee, arms)
	case "BlockExpr":
		return d.decodeBlockFields(obj, path)
	case "ArrayExpr":
		arr, _ := asArray(obj["elems"], path+".elems", d)
		elems := make([]ast.Expr, 0, len(arr))
		for i, ev := range arr {
			elems = append(elems, d.decodeExpr(ev, indexPath(path+".elems", i)))
		}
		return ast.NewArrayExpr(d.alloc(), d.spanFrom(obj["span"]), elems)
	case "TupleExpr":
		arr, _ := asArray(obj["elems"], path+".elems", d)
		elems := make([]ast.Expr, 0, len(arr))
		for i, ev := range arr {
			elems = append(elems, d.decodeExpr(ev, indexPath(path+".elems", i)))
		}
		return ast.NewTupleExpr(d.alloc(), d.spanFrom(obj["span"]), elems)
	case "RecordExpr":
		typeName, _ := obj["typeName"].(string)
		arr, _ := asArray(obj["fields"], path+".fields", d)
		fields := make([]ast.RecordFieldExpr, 0, len(arr))
		for i, fv := range arr {
			p := indexPath(path+".fields", i)
			fo, ok := asObject(fv, p, d)
			if !ok {
				continue
			}
			name, _ := asString(fo["name"], p+".name", d)
			fields = append(fields, ast.RecordFieldExpr{Name: name, Value: d.decodeExpr(fo["value"], p+".value")})
		}
		return ast.NewRecordExpr(d.alloc(), d.spanFrom(obj["span"]), typeName, fields)
	case "RangeExpr":
		inclusive, _ := obj["inclusive"].(bool)
		return ast.NewRangeExpr(d.alloc(), d.spanFrom(obj["span"]), d.decodeExpr(obj["start"], path+".start"), d.decodeExpr(obj["end"], path+".end"), inclusive)
	case "TryExpr":
		return ast.NewTryExpr(d.alloc(), d.spanFrom(obj["span"]), d.decodeExpr(obj["operand"], path+".operand"))
	default:
		d.fail(path, "unknown expression kind %q", k)
		return nil
	}
}

func (d *decoder) decodeBlockFields(obj map[string]any, path string) *ast.BlockExpr {
	arr, _ := asArray(obj["stmts"], path+".stmts", d)
	stmts := make([]ast.Stmt, 0, len(arr))
	for i, sv := range arr {
		if s := d.decodeStmt(sv, indexPath(path+".stmts", i)); s != nil {
			stmts = append(stmts, s)
		}
	}
	var value ast.Expr
	if obj["value"] != nil {
		value = d.decodeExpr(obj["value"], path+".value")
	}
	return ast.NewBlockExpr(d.alloc(), d.spanFrom(obj["span"]), stmts, value)
}

func (d *decoder) decodeLiteral(obj map[string]any, path string) *ast.LiteralExpr {
	litKind, _ := asString(obj["litKind"], path+".litKind", d)
	switch litKind {
	case "int":
		n := ast.NewLiteralExpr(d.alloc(), d.spanFrom(obj["span"]), ast.LitInt)
		s, _ := asString(obj["value"], path+".value", d)
		v, okBig := new(big.Int).SetString(s, 10)
		if !okBig {
			d.fail(path+".value", "invalid integer literal %q", s)
			v = big.NewInt(0)
		}
		n.Int = v
		if w, ok := obj["width"].(string); ok {
			n.IntWidth = w
		}
		return n
	case "float":
		n := ast.NewLiteralExpr(d.alloc(), d.spanFrom(obj["span"]), ast.LitFloat)
		f, _ := obj["value"].(float64)
		n.Float = f
		return n
	case "string":
		n := ast.NewLiteralExpr(d.alloc(), d.spanFrom(obj["span"]), ast.LitString)
		s, _ := asString(obj["value"], path+".value", d)
		n.String = s
		return n
	case "template":
		n := ast.NewLiteralExpr(d.alloc(), d.spanFrom(obj["span"]), ast.LitTemplate)
		s, _ := asString(obj["value"], path+".value", d)
		n.String = s
		return n
	case "bool":
		n := ast.NewLiteralExpr(d.alloc(), d.spanFrom(obj["span"]), ast.LitBool)
		b, _ := obj["value"].(bool)
		n.Bool = b
		return n
	default:
		return ast.NewLiteralExpr(d.alloc(), d.spanFrom(obj["span"]), ast.LitUnit)
	}
}

func (d *decoder) decodeStmt(v any, path string) ast.Stmt {
	obj, ok := asObject(v, path, d)
	if !ok {
		return nil
	}
	if isFragment(obj) {
		toks, ok := fragmentTokens(obj, path, d)
		if !ok {
			return nil
		}
		s, rep := parser.ParseStatement(toks)
		for _, diag := range rep.Diagnostics() {
			d.fail(path, "fragment parse error: %s", diag.Message)
		}
		return s
	}
	k, ok := kindOf(obj)
	if !ok {
		d.fail(path, "missing \"kind\"")
		return nil
	}
	switch k {
	case "LetStmt":
		pat := d.decodePattern(obj["pattern"], path+".pattern")
		mutable, _ := obj["mutable"].(bool)
		var t ast.TypeExpr
		if obj["type"] != nil {
			t = d.decodeType(obj["type"], path+".type")
		}
		init := d.decodeExpr(obj["initializer"], path+".initializer")
		return ast.NewLetStmt(d.alloc(), d.spanFrom(obj["span"]), pat, t, mutable, init)
	case "AssignStmt":
		return ast.NewAssignStmt(d.alloc(), d.spanFrom(obj["span"]), d.decodeExpr(obj["target"], path+".target"), d.decodeExpr(obj["value"], path+".value"))
	case "ExprStmt":
		return ast.NewExprStmt(d.alloc(), d.spanFrom(obj["span"]), d.decodeExpr(obj["x"], path+".x"))
	case "ForStmt":
		pat := d.decodePattern(obj["pattern"], path+".pattern")
		iterable := d.decodeExpr(obj["iterable"], path+".iterable")
		body, _ := d.decodeExpr(obj["body"], path+".body").(*ast.BlockExpr)
		return ast.NewForStmt(d.alloc(), d.spanFrom(obj["span"]), pat, iterable, body)
	case "WhileStmt":
		cond := d.decodeExpr(obj["cond"], path+".cond")
		body, _ := d.decodeExpr(obj["body"], path+".body").(*ast.BlockExpr)
		return ast.NewWhileStmt(d.alloc(), d.spanFrom(obj["span"]), cond, body)
	case "LoopStmt":
		body, _ := d.decodeExpr(obj["body"], path+".body").(*ast.BlockExpr)
		return ast.NewLoopStmt(d.alloc(), d.spanFrom(obj["span"]), body)
	case "ReturnStmt":
		var val ast.Expr
		if obj["value"] != nil {
			val = d.decodeExpr(obj["value"], path+".value")
		}
		return ast.NewReturnStmt(d.alloc(), d.spanFrom(obj["span"]), val)
	case "BreakStmt":
		return ast.NewBreakStmt(d.alloc(), d.spanFrom(obj["span"]))
	case "ContinueStmt":
		return ast.NewContinueStmt(d.alloc(), d.spanFrom(obj["span"]))
	case "AssertStmt":
		cond := d.decodeExpr(obj["condition"], path+".condition")
		var msg ast.Expr
		if obj["message"] != nil {
			msg = d.decodeExpr(obj["message"], path+".message")
		}
		return ast.NewAssertStmt(d.alloc(), d.spanFrom(obj["span"]), cond, msg)
	default:
		d.fail(path, "unknown statement kind %q", k)
		return nil
	}
}

func (d *decoder) decodePattern(v any, path string) ast.Pattern {
	obj, ok := asObject(v, path, d)
	if !ok {
		return nil
	}
	if isFragment(obj) {
		toks, ok := fragmentTokens(obj, path, d)
		if !ok {
			return nil
		}
		p, rep := parser.ParsePattern(toks)
		for _, diag := range rep.Diagnostics() {
			d.fail(path, "fragment parse error: %s", diag.Message)
		}
		return p
	}
	k, ok := kindOf(obj)
	if !ok {
		d.fail(path, "missing \"kind\"")
		return nil
	}
	switch k {
	case "WildcardPattern":
		return ast.NewWildcardPattern(d.alloc(), d.spanFrom(obj["span"]))
	case "IdentPattern":
		name, _ := asString(obj["name"], path+".name", d)
		return ast.NewIdentPattern(d.alloc(), d.spanFrom(obj["span"]), name)
	case "LiteralPattern":
		litObj, ok := asObject(obj["literal"], path+".literal", d)
		if !ok {
			return nil
		}
		return ast.NewLiteralPattern(d.alloc(), d.spanFrom(obj["span"]), d.decodeLiteral(litObj, path+".literal"))
	case "TuplePattern":
		arr, _ := asArray(obj["elems"], path+".elems", d)
		elems := make([]ast.Pattern, 0, len(arr))
		for i, ev := range arr {
			elems = append(elems, d.decodePattern(ev, indexPath(path+".elems", i)))
		}
		return ast.NewTuplePattern(d.alloc(), d.spanFrom(obj["span"]), elems)
	case "RecordPattern":
		arr, _ := asArray(obj["fields"], path+".fields", d)
		fields := make([]ast.RecordPatternField, 0, len(arr))
		for i, fv := range arr {
			p := indexPath(path+".fields", i)
			fo, ok := asObject(fv, p, d)
			if !ok {
				continue
			}
			name, _ := asString(fo["name"], p+".name", d)
			var sub ast.Pattern
			if fo["sub"] != nil {
				sub = d.decodePattern(fo["sub"], p+".sub")
			}
			fields = append(fields, ast.RecordPatternField{Name: name, Sub: sub})
		}
		return ast.NewRecordPattern(d.alloc(), d.spanFrom(obj["span"]), fields)
	case "VariantPattern":
		name, _ := asString(obj["name"], path+".name", d)
		arr, _ := asArray(obj["payload"], path+".payload", d)
		var payload []ast.Pattern
		for i, pv := range arr {
			payload = append(payload, d.decodePattern(pv, indexPath(path+".payload", i)))
		}
		return ast.NewVariantPattern(d.alloc(), d.spanFrom(obj["span"]), name, payload)
	default:
		d.fail(path, "unknown pattern kind %q", k)
		return nil
	}
}
