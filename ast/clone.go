package ast

import "github.com/emberlang/ember/internal/idalloc"

// Clone deep-copies an entire Program, minting a fresh ID for every node
// from alloc while preserving spans. This is what canon.Canonicalize uses
// to avoid mutating its input (spec.md §3 "Lifecycle": "canonicalization
// produces a new AST with fresh IDs; the input is not mutated").
func Clone(alloc *idalloc.Allocator, p *Program) *Program {
	decls := make([]Decl, len(p.Decls))
	for i, d := range p.Decls {
		decls[i] = CloneDecl(alloc, d)
	}
	return NewProgram(alloc, p.span, decls)
}

// CloneDecl deep-copies a single declaration, minting fresh IDs throughout.
func CloneDecl(alloc *idalloc.Allocator, d Decl) Decl {
	switch d := d.(type) {
	case nil:
		return nil
	case *ModuleDecl:
		return NewModuleDecl(alloc, d.span, d.Name)
	case *UseDecl:
		return NewUseDecl(alloc, d.span, append([]string(nil), d.Path...), append([]string(nil), d.Items...), d.Alias, d.External)
	case *TypeAliasDecl:
		return NewTypeAliasDecl(alloc, d.span, d.Name, append([]string(nil), d.TypeParams...), CloneType(alloc, d.Type))
	case *RecordDecl:
		fields := make([]RecordField, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = RecordField{Name: f.Name, Type: CloneType(alloc, f.Type), Span: f.Span}
		}
		return NewRecordDecl(alloc, d.span, d.Name, append([]string(nil), d.TypeParams...), fields, d.Open)
	case *SumDecl:
		variants := make([]Variant, len(d.Variants))
		for i, v := range d.Variants {
			variants[i] = Variant{Name: v.Name, Fields: cloneVariantFields(alloc, v.Fields), Span: v.Span}
		}
		return NewSumDecl(alloc, d.span, d.Name, append([]string(nil), d.TypeParams...), variants)
	case *FuncDecl:
		var eff *EffectType
		if d.Effects != nil {
			eff = CloneType(alloc, d.Effects).(*EffectType)
		}
		var body *BlockExpr
		if d.Body != nil {
			body = CloneExpr(alloc, d.Body).(*BlockExpr)
		}
		return NewFuncDecl(alloc, d.span, d.Name, append([]string(nil), d.TypeParams...), cloneParams(alloc, d.Params), CloneType(alloc, d.Return), eff, body)
	case *ExternFuncDecl:
		var eff *EffectType
		if d.Effects != nil {
			eff = CloneType(alloc, d.Effects).(*EffectType)
		}
		return NewExternFuncDecl(alloc, d.span, d.Name, cloneParams(alloc, d.Params), CloneType(alloc, d.Return), eff, d.HostName)
	case *ExternModDecl:
		funcs := make([]*ExternFuncDecl, len(d.Funcs))
		for i, f := range d.Funcs {
			funcs[i] = CloneDecl(alloc, f).(*ExternFuncDecl)
		}
		return NewExternModDecl(alloc, d.span, d.Name, d.HostModule, funcs)
	default:
		panic("ast: Clone: unhandled Decl variant")
	}
}

func cloneVariantFields(alloc *idalloc.Allocator, fs []VariantField) []VariantField {
	if fs == nil {
		return nil
	}
	out := make([]VariantField, len(fs))
	for i, f := range fs {
		out[i] = VariantField{Name: f.Name, Type: CloneType(alloc, f.Type)}
	}
	return out
}

func cloneParams(alloc *idalloc.Allocator, ps []Param) []Param {
	out := make([]Param, len(ps))
	for i, p := range ps {
		out[i] = Param{Name: p.Name, Type: CloneType(alloc, p.Type), Span: p.Span}
	}
	return out
}

// CloneType deep-copies a type-expression, minting fresh IDs.
func CloneType(alloc *idalloc.Allocator, t TypeExpr) TypeExpr {
	switch t := t.(type) {
	case nil:
		return nil
	case *NamedType:
		args := make([]TypeExpr, len(t.Args))
		for i, a := range t.Args {
			args[i] = CloneType(alloc, a)
		}
		return NewNamedType(alloc, t.span, t.Name, args)
	case *ArrayType:
		return NewArrayType(alloc, t.span, CloneType(alloc, t.Elem))
	case *TupleType:
		elems := make([]TypeExpr, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = CloneType(alloc, e)
		}
		return NewTupleType(alloc, t.span, elems)
	case *FuncType:
		params := make([]TypeExpr, len(t.Params))
		for i, p := range t.Params {
			params[i] = CloneType(alloc, p)
		}
		return NewFuncType(alloc, t.span, params, CloneType(alloc, t.Return))
	case *RefinedType:
		return NewRefinedType(alloc, t.span, CloneType(alloc, t.BaseType), t.VarName, CloneExpr(alloc, t.Predicate))
	case *EffectType:
		return NewEffectType(alloc, t.span, append([]string(nil), t.Effects...), CloneType(alloc, t.Result))
	case *RecordType:
		fields := make([]RecordTypeField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = RecordTypeField{Name: f.Name, Type: CloneType(alloc, f.Type)}
		}
		return NewRecordType(alloc, t.span, fields, t.Open)
	default:
		panic("ast: CloneType: unhandled TypeExpr variant")
	}
}

// CloneExpr deep-copies an expression, minting fresh IDs.
func CloneExpr(alloc *idalloc.Allocator, e Expr) Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *LiteralExpr:
		n := NewLiteralExpr(alloc, e.span, e.Kind)
		n.Int, n.IntWidth, n.Float, n.String, n.Bool = e.Int, e.IntWidth, e.Float, e.String, e.Bool
		return n
	case *IdentExpr:
		return NewIdentExpr(alloc, e.span, e.Name)
	case *UnaryExpr:
		return NewUnaryExpr(alloc, e.span, e.Op, CloneExpr(alloc, e.Operand))
	case *BinaryExpr:
		return NewBinaryExpr(alloc, e.span, e.Op, CloneExpr(alloc, e.Left), CloneExpr(alloc, e.Right))
	case *CallExpr:
		args := make([]Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = CloneExpr(alloc, a)
		}
		return NewCallExpr(alloc, e.span, CloneExpr(alloc, e.Callee), args)
	case *IndexExpr:
		return NewIndexExpr(alloc, e.span, CloneExpr(alloc, e.Array), CloneExpr(alloc, e.Index))
	case *FieldExpr:
		return NewFieldExpr(alloc, e.span, CloneExpr(alloc, e.Receiver), e.Field)
	case *LambdaExpr:
		var ret TypeExpr
		if e.Return != nil {
			ret = CloneType(alloc, e.Return)
		}
		return NewLambdaExpr(alloc, e.span, cloneParams(alloc, e.Params), ret, CloneExpr(alloc, e.Body))
	case *IfExpr:
		var els Expr
		if e.Else != nil {
			els = CloneExpr(alloc, e.Else)
		}
		return NewIfExpr(alloc, e.span, CloneExpr(alloc, e.Cond), CloneExpr(alloc, e.Then).(*BlockExpr), els)
	case *MatchExpr:
		arms := make([]MatchArm, len(e.Arms))
		for i, a := range e.Arms {
			var guard Expr
			if a.Guard != nil {
				guard = CloneExpr(alloc, a.Guard)
			}
			arms[i] = MatchArm{Pattern: ClonePattern(alloc, a.Pattern), Guard: guard, Body: CloneExpr(alloc, a.Body), Span: a.Span}
		}
		return NewMatchExpr(alloc, e.span, CloneExpr(alloc, e.Scrutinee), arms)
	case *BlockExpr:
		stmts := make([]Stmt, len(e.Stmts))
		for i, s := range e.Stmts {
			stmts[i] = CloneStmt(alloc, s)
		}
		var value Expr
		if e.Value != nil {
			value = CloneExpr(alloc, e.Value)
		}
		return NewBlockExpr(alloc, e.span, stmts, value)
	case *ArrayExpr:
		elems := make([]Expr, len(e.Elems))
		for i, x := range e.Elems {
			elems[i] = CloneExpr(alloc, x)
		}
		return NewArrayExpr(alloc, e.span, elems)
	case *TupleExpr:
		elems := make([]Expr, len(e.Elems))
		for i, x := range e.Elems {
			elems[i] = CloneExpr(alloc, x)
		}
		return NewTupleExpr(alloc, e.span, elems)
	case *RecordExpr:
		fields := make([]RecordFieldExpr, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = RecordFieldExpr{Name: f.Name, Value: CloneExpr(alloc, f.Value)}
		}
		return NewRecordExpr(alloc, e.span, e.TypeName, fields)
	case *RangeExpr:
		return NewRangeExpr(alloc, e.span, CloneExpr(alloc, e.Start), CloneExpr(alloc, e.End), e.Inclusive)
	case *TryExpr:
		return NewTryExpr(alloc, e.span, CloneExpr(alloc, e.Operand))
	default:
		panic("ast: CloneExpr: unhandled Expr variant")
	}
}

// CloneStmt deep-copies a statement, minting fresh IDs.
func CloneStmt(alloc *idalloc.Allocator, s Stmt) Stmt {
	switch s := s.(type) {
	case nil:
		return nil
	case *LetStmt:
		var t TypeExpr
		if s.Type != nil {
			t = CloneType(alloc, s.Type)
		}
		return NewLetStmt(alloc, s.span, ClonePattern(alloc, s.Pattern), t, s.Mutable, CloneExpr(alloc, s.Initializer))
	case *AssignStmt:
		return NewAssignStmt(alloc, s.span, CloneExpr(alloc, s.Target), CloneExpr(alloc, s.Value))
	case *ExprStmt:
		return NewExprStmt(alloc, s.span, CloneExpr(alloc, s.X))
	case *ForStmt:
		return NewForStmt(alloc, s.span, ClonePattern(alloc, s.Pattern), CloneExpr(alloc, s.Iterable), CloneExpr(alloc, s.Body).(*BlockExpr))
	case *WhileStmt:
		return NewWhileStmt(alloc, s.span, CloneExpr(alloc, s.Cond), CloneExpr(alloc, s.Body).(*BlockExpr))
	case *LoopStmt:
		return NewLoopStmt(alloc, s.span, CloneExpr(alloc, s.Body).(*BlockExpr))
	case *ReturnStmt:
		var v Expr
		if s.Value != nil {
			v = CloneExpr(alloc, s.Value)
		}
		return NewReturnStmt(alloc, s.span, v)
	case *BreakStmt:
		return NewBreakStmt(alloc, s.span)
	case *ContinueStmt:
		return NewContinueStmt(alloc, s.span)
	case *AssertStmt:
		var msg Expr
		if s.Message != nil {
			msg = CloneExpr(alloc, s.Message)
		}
		return NewAssertStmt(alloc, s.span, CloneExpr(alloc, s.Condition), msg)
	default:
		panic("ast: CloneStmt: unhandled Stmt variant")
	}
}

// ClonePattern deep-copies a pattern, minting fresh IDs.
func ClonePattern(alloc *idalloc.Allocator, p Pattern) Pattern {
	switch p := p.(type) {
	case nil:
		return nil
	case *WildcardPattern:
		return NewWildcardPattern(alloc, p.span)
	case *IdentPattern:
		return NewIdentPattern(alloc, p.span, p.Name)
	case *LiteralPattern:
		return NewLiteralPattern(alloc, p.span, CloneExpr(alloc, p.Literal).(*LiteralExpr))
	case *TuplePattern:
		elems := make([]Pattern, len(p.Elems))
		for i, e := range p.Elems {
			elems[i] = ClonePattern(alloc, e)
		}
		return NewTuplePattern(alloc, p.span, elems)
	case *RecordPattern:
		fields := make([]RecordPatternField, len(p.Fields))
		for i, f := range p.Fields {
			var sub Pattern
			if f.Sub != nil {
				sub = ClonePattern(alloc, f.Sub)
			}
			fields[i] = RecordPatternField{Name: f.Name, Sub: sub}
		}
		return NewRecordPattern(alloc, p.span, fields)
	case *VariantPattern:
		var payload []Pattern
		if p.Payload != nil {
			payload = make([]Pattern, len(p.Payload))
			for i, e := range p.Payload {
				payload[i] = ClonePattern(alloc, e)
			}
		}
		return NewVariantPattern(alloc, p.span, p.Name, payload)
	default:
		panic("ast: ClonePattern: unhandled Pattern variant")
	}
}
