package parser

import (
	"math/big"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/token"
)

// Precedence levels, per spec.md §4.2 (low to high). Each level is spaced
// by 10 so the range-operator levels can be slotted in between without
// renumbering everything else.
const (
	precPipe = 10 + iota*10
	precOr
	precAnd
	precEq
	precCmp
	precRange
	precConcat
	precAdd
	precMul
	precPow
)

type binOpInfo struct {
	op         ast.BinaryOp
	prec       int
	rightAssoc bool
	isRange    bool
	inclusive  bool
}

var binOps = map[token.Kind]binOpInfo{
	token.PipeGt:    {op: ast.BinPipe, prec: precPipe},
	token.PipePipe:  {op: ast.BinOr, prec: precOr},
	token.AmpAmp:    {op: ast.BinAnd, prec: precAnd},
	token.EqEq:      {op: ast.BinEq, prec: precEq},
	token.BangEq:    {op: ast.BinNeq, prec: precEq},
	token.Lt:        {op: ast.BinLt, prec: precCmp},
	token.Le:        {op: ast.BinLe, prec: precCmp},
	token.Gt:        {op: ast.BinGt, prec: precCmp},
	token.Ge:        {op: ast.BinGe, prec: precCmp},
	token.DotDot:    {prec: precRange, isRange: true},
	token.DotDotEq:  {prec: precRange, isRange: true, inclusive: true},
	token.PlusPlus:  {op: ast.BinConcat, prec: precConcat},
	token.Plus:      {op: ast.BinAdd, prec: precAdd},
	token.Minus:     {op: ast.BinSub, prec: precAdd},
	token.Star:      {op: ast.BinMul, prec: precMul},
	token.Slash:     {op: ast.BinDiv, prec: precMul},
	token.Percent:   {op: ast.BinMod, prec: precMul},
	token.Caret:     {op: ast.BinPow, prec: precPow, rightAssoc: true},
}

// parseExpr implements Pratt/precedence-climbing expression parsing,
// folding the range operators (`..`, `..=`) into the same climb since
// spec.md §4.2's table leaves them unplaced; here they bind tighter than
// comparison and looser than concatenation.
func (p *parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseUnary()

	for {
		info, ok := binOps[p.cur().Kind]
		if !ok || info.prec < minPrec {
			break
		}
		p.advance()

		nextMin := info.prec + 1
		if info.rightAssoc {
			nextMin = info.prec
		}
		right := p.parseExpr(nextMin)
		span := source.Join(left.Span(), right.Span())

		if info.isRange {
			left = ast.NewRangeExpr(p.alloc, span, left, right, info.inclusive)
			continue
		}
		left = ast.NewBinaryExpr(p.alloc, span, info.op, left, right)
	}
	return left
}

func (p *parser) parseUnary() ast.Expr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.Minus:
		p.advance()
		operand := p.parseUnary()
		return ast.NewUnaryExpr(p.alloc, p.spanFrom(start), ast.UnaryNeg, operand)
	case token.Bang:
		p.advance()
		operand := p.parseUnary()
		return ast.NewUnaryExpr(p.alloc, p.spanFrom(start), ast.UnaryNot, operand)
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

// parsePostfix implements the highest-precedence level: call, index,
// field access, and the `?` error-propagation operator, per spec.md §4.2.
func (p *parser) parsePostfix(e ast.Expr) ast.Expr {
	start := e.Span()
	for {
		switch p.cur().Kind {
		case token.LParen:
			p.advance()
			var args []ast.Expr
			for !p.check(token.RParen) && !p.check(token.EOF) {
				args = append(args, p.parseExpr(precPipe))
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
			}
			p.expect(token.RParen)
			e = ast.NewCallExpr(p.alloc, p.spanFrom(start), e, args)
		case token.LBracket:
			p.advance()
			idx := p.parseExpr(precPipe)
			p.expect(token.RBracket)
			e = ast.NewIndexExpr(p.alloc, p.spanFrom(start), e, idx)
		case token.Dot:
			p.advance()
			field := p.expectFieldName()
			e = ast.NewFieldExpr(p.alloc, p.spanFrom(start), e, field)
		case token.Question:
			p.advance()
			e = ast.NewTryExpr(p.alloc, p.spanFrom(start), e)
		default:
			return e
		}
	}
}

// expectFieldName accepts either an identifier field name or an integer
// literal tuple-index (`t.0`).
func (p *parser) expectFieldName() string {
	t := p.cur()
	switch t.Kind {
	case token.Ident, token.TypeIdent:
		p.advance()
		return t.Value.Ident
	case token.Int:
		p.advance()
		return t.Value.Int.Value.String()
	default:
		d := p.rep.Errorf("E0001", "expected a field name, found %s", t.Kind)
		report.Apply(d, report.At(t.Span))
		return ""
	}
}

func (p *parser) parsePrimary() ast.Expr {
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
	case token.KwFalse:
		p.advance()
		lit := ast.NewLiteralExpr(p.alloc, p.spanFrom(start), ast.LitBool)
		lit.Bool = false
		return lit
	case token.Ident:
		name := p.cur().Value.Ident
		p.advance()
		return ast.NewIdentExpr(p.alloc, p.spanFrom(start), name)
	case token.TypeIdent:
		name := p.cur().Value.Ident
		p.advance()
		if p.check(token.LBrace) {
			d := p.rep.Errorf("E0001", "record literals of the form %s { ... } are not supported", name)
			report.Apply(d, report.At(p.cur().Span),
				report.Hint("use positional construction %s(...) instead", name))
		}
		return ast.NewIdentExpr(p.alloc, p.spanFrom(start), name)
	case token.KwFn:
		return p.parseLambda(start)
	case token.KwIf:
		return p.parseIfExpr(start)
	case token.KwMatch:
		return p.parseMatchExpr(start)
	case token.LBrace:
		return p.parseBlock()
	case token.LParen:
		return p.parseParenExpr(start)
	case token.LBracket:
		return p.parseArrayExpr(start)
	default:
		d := p.rep.Errorf("E0001", "expected an expression, found %s", p.cur().Kind)
		report.Apply(d, report.At(p.cur().Span))
		p.advance()
		lit := ast.NewLiteralExpr(p.alloc, p.spanFrom(start), ast.LitUnit)
		return lit
	}
}

func (p *parser) parseParenExpr(start source.Span) ast.Expr {
	p.advance() // (
	if _, ok := p.accept(token.RParen); ok {
		return ast.NewLiteralExpr(p.alloc, p.spanFrom(start), ast.LitUnit)
	}
	var elems []ast.Expr
	trailingComma := false
	for {
		elems = append(elems, p.parseExpr(precPipe))
		if _, ok := p.accept(token.Comma); ok {
			trailingComma = true
			if p.check(token.RParen) {
				break
			}
			continue
		}
		trailingComma = false
		break
	}
	p.expect(token.RParen)
	if len(elems) == 1 && !trailingComma {
		return elems[0]
	}
	return ast.NewTupleExpr(p.alloc, p.spanFrom(start), elems)
}

func (p *parser) parseArrayExpr(start source.Span) ast.Expr {
	p.advance() // [
	var elems []ast.Expr
	for !p.check(token.RBracket) && !p.check(token.EOF) {
		elems = append(elems, p.parseExpr(precPipe))
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBracket)
	return ast.NewArrayExpr(p.alloc, p.spanFrom(start), elems)
}

func (p *parser) parseLambda(start source.Span) ast.Expr {
	p.advance() // fn
	params := p.parseParamList()
	var ret ast.TypeExpr
	if _, ok := p.accept(token.Arrow); ok {
		ret = p.parseType(true)
	}
	var body ast.Expr
	if _, ok := p.accept(token.FatArrow); ok {
		body = p.parseExpr(precPipe)
	} else {
		body = p.parseBlock()
	}
	return ast.NewLambdaExpr(p.alloc, p.spanFrom(start), params, ret, body)
}

func (p *parser) parseIfExpr(start source.Span) ast.Expr {
	p.advance() // if
	cond := p.parseExpr(precPipe)
	then := p.parseBlock()
	var els ast.Expr
	if _, ok := p.accept(token.KwElse); ok {
		if p.check(token.KwIf) {
			els = p.parseIfExpr(p.cur().Span)
		} else {
			els = p.parseBlock()
		}
	}
	return ast.NewIfExpr(p.alloc, p.spanFrom(start), cond, then, els)
}

func (p *parser) parseMatchExpr(start source.Span) ast.Expr {
	p.advance() // match
	scrutinee := p.parseExpr(precPipe)
	p.expect(token.LBrace)
	var arms []ast.MatchArm
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		arms = append(arms, p.parseMatchArm())
		if _, ok := p.accept(token.Comma); !ok {
			p.accept(token.Semi)
		}
	}
	p.expect(token.RBrace)
	return ast.NewMatchExpr(p.alloc, p.spanFrom(start), scrutinee, arms)
}

func (p *parser) parseMatchArm() ast.MatchArm {
	start := p.cur().Span
	pat := p.parsePattern()
	var guard ast.Expr
	if _, ok := p.accept(token.KwIf); ok {
		guard = p.parseExpr(precPipe)
	}
	if _, ok := p.accept(token.Arrow); !ok {
		p.expect(token.FatArrow)
	}
	body := p.parseExpr(precPipe)
	return ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Span: p.spanFrom(start)}
}

// negateLiteral is a small helper shared with the pattern parser that
// negates an integer or float literal in place, for negative literal
// patterns.
func negateLiteral(lit *ast.LiteralExpr) {
	switch lit.Kind {
	case ast.LitInt:
		lit.Int = new(big.Int).Neg(lit.Int)
	case ast.LitFloat:
		lit.Float = -lit.Float
	}
}
