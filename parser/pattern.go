package parser

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/token"
)

// parsePattern parses one pattern variant named in spec.md §3 §4.6.
func (p *parser) parsePattern() ast.Pattern {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.Ident:
		name := p.cur().Value.Ident
		p.advance()
		if name == "_" {
			return ast.NewWildcardPattern(p.alloc, p.spanFrom(start))
		}
		return ast.NewIdentPattern(p.alloc, p.spanFrom(start), name)

	case token.TypeIdent, token.KwInt, token.KwNat, token.KwFloat, token.KwBool, token.KwStr, token.KwUnit:
		return p.parseVariantPattern(start)

	case token.Int, token.Float, token.Str, token.Template, token.KwTrue, token.KwFalse:
		lit := p.parseLiteralForPattern()
		return ast.NewLiteralPattern(p.alloc, p.spanFrom(start), lit)

	case token.Minus:
		p.advance()
		lit := p.parseLiteralForPattern()
		negateLiteral(lit)
		return ast.NewLiteralPattern(p.alloc, p.spanFrom(start), lit)

	case token.LParen:
		p.advance()
		var elems []ast.Pattern
		for !p.check(token.RParen) && !p.check(token.EOF) {
			elems = append(elems, p.parsePattern())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.RParen)
		return ast.NewTuplePattern(p.alloc, p.spanFrom(start), elems)

	case token.LBrace:
		return p.parseRecordPattern(start)

	default:
		d := p.rep.Errorf("E0001", "expected a pattern, found %s", p.cur().Kind)
		report.Apply(d, report.At(p.cur().Span))
		p.advance()
		return ast.NewWildcardPattern(p.alloc, p.spanFrom(start))
	}
}

// parseVariantPattern parses `Name` or `Name(pat, pat, ...)`, accepting
// built-in type keywords as variant names per spec.md §4.2 ("sum X {
// Bool, String(Str) }").
func (p *parser) parseVariantPattern(start source.Span) ast.Pattern {
	name := p.expectVariantName()
	var payload []ast.Pattern
	if _, ok := p.accept(token.LParen); ok {
		for !p.check(token.RParen) && !p.check(token.EOF) {
			payload = append(payload, p.parsePattern())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
		p.expect(token.RParen)
	}
	return ast.NewVariantPattern(p.alloc, p.spanFrom(start), name, payload)
}

func (p *parser) parseRecordPattern(start source.Span) ast.Pattern {
	p.advance() // {
	var fields []ast.RecordPatternField
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		fname := p.expectIdentLike()
		var sub ast.Pattern
		if _, ok := p.accept(token.Colon); ok {
			sub = p.parsePattern()
		}
		fields = append(fields, ast.RecordPatternField{Name: fname, Sub: sub})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace)
	return ast.NewRecordPattern(p.alloc, p.spanFrom(start), fields)
}

// parseLiteralForPattern builds a *ast.LiteralExpr from the current
// literal token, without wrapping it in an expression node of its own.
func (p *parser) parseLiteralForPattern() *ast.LiteralExpr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.Int:
		v := p.cur().Value.Int
		p.advance()
		lit := ast.NewLiteralExpr(p.alloc, p.spanFrom(start), ast.LitInt)
		lit.Int, lit.IntWidth = v.Value, v.Width
		return lit
	case token.Float:
		v := p.cur().Value.Float
		p.advance()
		lit := ast.NewLiteralExpr(p.alloc, p.spanFrom(start), ast.LitFloat)
		lit.Float = v
		return lit
	case token.Str:
		v := p.cur().Value.String
		p.advance()
		lit := ast.NewLiteralExpr(p.alloc, p.spanFrom(start), ast.LitString)
		lit.String = v
		return lit
	case token.Template:
		v := p.cur().Value.String
		p.advance()
		lit := ast.NewLiteralExpr(p.alloc, p.spanFrom(start), ast.LitTemplate)
		lit.String = v
		return lit
	case token.KwTrue:
		p.advance()
		lit := ast.NewLiteralExpr(p.alloc, p.spanFrom(start), ast.LitBool)
		lit.Bool = true
		return lit
	default: // token.KwFalse
		p.advance()
		lit := ast.NewLiteralExpr(p.alloc, p.spanFrom(start), ast.LitBool)
		lit.Bool = false
		return lit
	}
}
