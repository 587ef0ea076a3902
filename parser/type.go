package parser

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/token"
)

// parseType parses one type-expression. allowRefinement threads through
// from the caller to disambiguate refinement braces from a function body
// in bare return-type position (spec.md §4.2): everywhere else it is true.
//
// A type-expression followed by a chain of `+`-joined effect names and a
// final `->` is instead an EffectType (spec.md §3, §4.5): `IO + Err -> T`.
// A single effect name needs no leading `+` of its own: `IO -> T` is an
// EffectType with one effect, recognized because a bare effect name is
// never otherwise followed directly by `->` (function types require the
// parenthesized `(T1, T2) -> R` form).
func (p *parser) parseType(allowRefinement bool) ast.TypeExpr {
	start := p.cur().Span
	base := p.parseTypePrimary(allowRefinement)
	if p.check(token.Plus) || (isEffectName(effectNameOf(base)) && p.check(token.Arrow)) {
		return p.parseEffectRow(start, base)
	}
	return base
}

func isEffectName(name string) bool {
	switch name {
	case "IO", "Err", "Async", "Mut":
		return true
	default:
		return false
	}
}

func (p *parser) parseEffectRow(start source.Span, first ast.TypeExpr) ast.TypeExpr {
	effects := []string{effectNameOf(first)}
	for {
		if _, ok := p.accept(token.Plus); !ok {
			break
		}
		effects = append(effects, p.expectIdentLike())
	}
	p.expect(token.Arrow)
	result := p.parseType(true)
	return ast.NewEffectType(p.alloc, p.spanFrom(start), effects, result)
}

func effectNameOf(t ast.TypeExpr) string {
	if nt, ok := t.(*ast.NamedType); ok {
		return nt.Name
	}
	return ""
}

func (p *parser) parseTypePrimary(allowRefinement bool) ast.TypeExpr {
	start := p.cur().Span
	var base ast.TypeExpr

	switch p.cur().Kind {
	case token.LParen:
		base = p.parseParenType()
	case token.LBracket:
		p.advance()
		elem := p.parseType(true)
		p.expect(token.RBracket)
		base = ast.NewArrayType(p.alloc, p.spanFrom(start), elem)
	case token.LBrace:
		base = p.parseRecordType(start)
	case token.KwInt, token.KwNat, token.KwFloat, token.KwBool, token.KwStr, token.KwUnit:
		name := p.cur().Value.Ident
		p.advance()
		base = ast.NewNamedType(p.alloc, p.spanFrom(start), name, nil)
	case token.TypeIdent:
		name := p.cur().Value.Ident
		p.advance()
		args := p.parseOptionalTypeArgs()
		base = ast.NewNamedType(p.alloc, p.spanFrom(start), name, args)
	default:
		d := p.rep.Errorf("E1001", "expected a type, found %s", p.cur().Kind)
		report.Apply(d, report.At(p.cur().Span))
		p.advance()
		base = ast.NewNamedType(p.alloc, p.spanFrom(start), "", nil)
	}

	if allowRefinement && p.check(token.LBrace) {
		base = p.parseRefinement(start, base)
	}
	return base
}

// parseParenType parses `(T)` (grouping), `(T1, T2, ...)` (TupleType), or
// `(T1, T2, ...) -> Return` (FuncType). A single parenthesized type with
// no trailing comma is pure grouping, which is what lets a refined return
// type be written `-> (T{v | P})` to escape the bare-return-type
// restriction (spec.md §3, §4.2).
func (p *parser) parseParenType() ast.TypeExpr {
	start := p.cur().Span
	p.advance() // (
	var elems []ast.TypeExpr
	trailingComma := false
	for !p.check(token.RParen) && !p.check(token.EOF) {
		elems = append(elems, p.parseType(true))
		if _, ok := p.accept(token.Comma); ok {
			trailingComma = true
			continue
		}
		trailingComma = false
		break
	}
	p.expect(token.RParen)

	if _, ok := p.accept(token.Arrow); ok {
		ret := p.parseType(true)
		return ast.NewFuncType(p.alloc, p.spanFrom(start), elems, ret)
	}
	if len(elems) == 1 && !trailingComma {
		return elems[0]
	}
	return ast.NewTupleType(p.alloc, p.spanFrom(start), elems)
}

func (p *parser) parseRecordType(start source.Span) ast.TypeExpr {
	p.advance() // {
	var fields []ast.RecordTypeField
	open := false
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		if _, ok := p.accept(token.DotDot); ok {
			open = true
			break
		}
		fname := p.expectIdentLike()
		p.expect(token.Colon)
		ftype := p.parseType(true)
		fields = append(fields, ast.RecordTypeField{Name: fname, Type: ftype})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace)
	return ast.NewRecordType(p.alloc, p.spanFrom(start), fields, open)
}

func (p *parser) parseOptionalTypeArgs() []ast.TypeExpr {
	if _, ok := p.accept(token.Lt); !ok {
		return nil
	}
	var args []ast.TypeExpr
	for !p.check(token.Gt) && !p.check(token.EOF) {
		args = append(args, p.parseType(true))
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.Gt)
	return args
}

// parseRefinement parses the `{ [varName |] predicate }` suffix of a
// refined type. varName is left empty when omitted; the checker/solver
// infer it per spec.md §3.
func (p *parser) parseRefinement(start source.Span, base ast.TypeExpr) ast.TypeExpr {
	p.advance() // {
	var varName string
	if p.check(token.Ident) && p.peek(1).Kind == token.Pipe {
		varName = p.cur().Value.Ident
		p.advance()
		p.advance() // |
	}
	pred := p.parseExpr(precPipe)
	p.expect(token.RBrace)
	return ast.NewRefinedType(p.alloc, p.spanFrom(start), base, varName, pred)
}
