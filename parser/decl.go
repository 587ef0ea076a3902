package parser

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/token"
)

// parseDecl parses one top-level declaration. On a fatal error it reports
// a diagnostic, synchronizes to the next sync point, and returns nil so
// the caller can keep parsing (spec.md §4.2).
func (p *parser) parseDecl() ast.Decl {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.KwMod:
		return p.parseModuleDecl(start)
	case token.KwUse:
		return p.parseUseDecl(start, false)
	case token.KwType:
		return p.parseTypeAliasDecl(start)
	case token.KwRec:
		return p.parseRecordDecl(start)
	case token.KwSum:
		return p.parseSumDecl(start)
	case token.KwFn:
		return p.parseFuncDecl(start)
	case token.KwExternal:
		return p.parseExternalDecl(start)
	default:
		d := p.rep.Errorf("E0001", "expected a declaration, found %s", p.cur().Kind)
		report.Apply(d, report.At(p.cur().Span))
		p.synchronize()
		return nil
	}
}

func (p *parser) parseModuleDecl(start source.Span) ast.Decl {
	p.advance() // mod
	name := p.expectIdentLike()
	p.acceptSemi()
	return ast.NewModuleDecl(p.alloc, p.spanFrom(start), name)
}

func (p *parser) parseUseDecl(start source.Span, external bool) ast.Decl {
	p.advance() // use
	var path []string
	path = append(path, p.expectIdentLike())
	for {
		if _, ok := p.accept(token.Dot); !ok {
			break
		}
		path = append(path, p.expectIdentLike())
	}

	var items []string
	if _, ok := p.accept(token.LBrace); ok {
		for !p.check(token.RBrace) && !p.check(token.EOF) {
			items = append(items, p.expectIdentLike())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.RBrace)
	}

	var alias string
	if _, ok := p.accept(token.KwAs); ok {
		alias = p.expectIdentLike()
	}

	p.acceptSemi()
	return ast.NewUseDecl(p.alloc, p.spanFrom(start), path, items, alias, external)
}

func (p *parser) parseTypeAliasDecl(start source.Span) ast.Decl {
	p.advance() // type
	name := p.expectIdentLike()
	params := p.parseOptionalTypeParams()
	p.expect(token.Eq)
	t := p.parseType(true)
	p.acceptSemi()
	return ast.NewTypeAliasDecl(p.alloc, p.spanFrom(start), name, params, t)
}

func (p *parser) parseRecordDecl(start source.Span) ast.Decl {
	p.advance() // rec
	name := p.expectIdentLike()
	params := p.parseOptionalTypeParams()
	p.expect(token.LBrace)

	var fields []ast.RecordField
	open := false
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		if _, ok := p.accept(token.DotDot); ok {
			open = true
			break
		}
		fstart := p.cur().Span
		fname := p.expectIdentLike()
		p.expect(token.Colon)
		ftype := p.parseType(true)
		fields = append(fields, ast.RecordField{Name: fname, Type: ftype, Span: p.spanFrom(fstart)})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace)
	return ast.NewRecordDecl(p.alloc, p.spanFrom(start), name, params, fields, open)
}

func (p *parser) parseSumDecl(start source.Span) ast.Decl {
	p.advance() // sum
	name := p.expectIdentLike()
	params := p.parseOptionalTypeParams()
	p.expect(token.LBrace)

	var variants []ast.Variant
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		vstart := p.cur().Span
		// Built-in type keywords are also accepted as variant names
		// (spec.md §4.2: "sum X { Bool, String(Str) }").
		vname := p.expectVariantName()

		var fields []ast.VariantField
		if _, ok := p.accept(token.LParen); ok {
			for !p.check(token.RParen) && !p.check(token.EOF) {
				fname := ""
				if p.check(token.Ident) && p.peek(1).Kind == token.Colon {
					fname = p.cur().Value.Ident
					p.advance()
					p.advance() // ':'
				}
				ftype := p.parseType(true)
				fields = append(fields, ast.VariantField{Name: fname, Type: ftype})
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
			}
			p.expect(token.RParen)
		}

		variants = append(variants, ast.Variant{Name: vname, Fields: fields, Span: p.spanFrom(vstart)})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace)
	return ast.NewSumDecl(p.alloc, p.spanFrom(start), name, params, variants)
}

func (p *parser) parseFuncDecl(start source.Span) ast.Decl {
	p.advance() // fn
	name := p.expectIdentLike()
	typeParams := p.parseOptionalTypeParams()
	params := p.parseParamList()

	var ret ast.TypeExpr
	var eff *ast.EffectType
	if _, ok := p.accept(token.Arrow); ok {
		ret, eff = p.parseReturnType()
	} else {
		ret = ast.NewNamedType(p.alloc, p.cur().Span, "Unit", nil)
	}

	body := p.parseBlock()
	return ast.NewFuncDecl(p.alloc, p.spanFrom(start), name, typeParams, params, ret, eff, body)
}

func (p *parser) parseExternalDecl(start source.Span) ast.Decl {
	p.advance() // external
	if _, ok := p.accept(token.KwMod); ok {
		name := p.expectIdentLike()
		p.expect(token.Eq)
		hostMod := p.expectStringLit()
		p.expect(token.LBrace)
		var funcs []*ast.ExternFuncDecl
		for !p.check(token.RBrace) && !p.check(token.EOF) {
			fstart := p.cur().Span
			p.expect(token.KwFn)
			funcs = append(funcs, p.parseExternFuncRest(fstart))
		}
		p.expect(token.RBrace)
		return ast.NewExternModDecl(p.alloc, p.spanFrom(start), name, hostMod, funcs)
	}
	p.expect(token.KwFn)
	return p.parseExternFuncRest(start)
}

func (p *parser) parseExternFuncRest(start source.Span) *ast.ExternFuncDecl {
	name := p.expectIdentLike()
	params := p.parseParamList()
	var ret ast.TypeExpr
	var eff *ast.EffectType
	if _, ok := p.accept(token.Arrow); ok {
		ret, eff = p.parseReturnType()
	} else {
		ret = ast.NewNamedType(p.alloc, p.cur().Span, "Unit", nil)
	}
	p.expect(token.Eq)
	hostName := p.expectStringLit()
	p.acceptSemi()
	return ast.NewExternFuncDecl(p.alloc, p.spanFrom(start), name, params, ret, eff, hostName)
}

// parseReturnType parses the type-expression that follows `->` in a
// function signature. Per spec.md §4.2, refinement braces are NOT parsed
// directly in this position (disambiguating `{...}` from a function
// body); a refined return type must be parenthesized, `-> (T{...})`,
// which parseType handles once allowRefinement is restored inside parens.
func (p *parser) parseReturnType() (ast.TypeExpr, *ast.EffectType) {
	t := p.parseType(false)
	if eff, ok := t.(*ast.EffectType); ok {
		return eff.Result, eff
	}
	return t, nil
}

func (p *parser) parseParamList() []ast.Param {
	p.expect(token.LParen)
	var params []ast.Param
	for !p.check(token.RParen) && !p.check(token.EOF) {
		pstart := p.cur().Span
		pname := p.expectIdentLike()
		p.expect(token.Colon)
		ptype := p.parseType(true)
		params = append(params, ast.Param{Name: pname, Type: ptype, Span: p.spanFrom(pstart)})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RParen)
	return params
}

func (p *parser) parseOptionalTypeParams() []string {
	if _, ok := p.accept(token.Lt); !ok {
		return nil
	}
	var params []string
	for !p.check(token.Gt) && !p.check(token.EOF) {
		params = append(params, p.expectIdentLike())
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.Gt)
	return params
}

func (p *parser) acceptSemi() { p.accept(token.Semi) }

func (p *parser) expectIdentLike() string {
	t := p.cur()
	switch t.Kind {
	case token.Ident:
		p.advance()
		return t.Value.Ident
	case token.TypeIdent:
		p.advance()
		return t.Value.Ident
	default:
		d := p.rep.Errorf("E0001", "expected an identifier, found %s", t.Kind)
		report.Apply(d, report.At(t.Span))
		return ""
	}
}

// expectVariantName accepts a TypeIdent or one of the built-in type
// keywords as a sum-type variant name (spec.md §4.2).
func (p *parser) expectVariantName() string {
	t := p.cur()
	for name, kind := range token.BuiltinTypeKeywords {
		if t.Kind == kind {
			p.advance()
			return name
		}
	}
	return p.expectIdentLike()
}

func (p *parser) expectStringLit() string {
	t := p.cur()
	if t.Kind != token.Str {
		d := p.rep.Errorf("E0001", "expected a string literal, found %s", t.Kind)
		report.Apply(d, report.At(t.Span))
		return ""
	}
	p.advance()
	return t.Value.String
}
