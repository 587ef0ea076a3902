package parser

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/token"
)

// startsKeywordStmt reports the statement kinds with their own leading keyword;
// anything else at block scope is parsed as an expression, assignment,
// or (if followed immediately by `}`) the block's trailing value.
func startsKeywordStmt(k token.Kind) bool {
	switch k {
	case token.KwLet, token.KwFor, token.KwWhile, token.KwLoop,
		token.KwReturn, token.KwBreak, token.KwContinue, token.KwAssert:
		return true
	}
	return false
}

// parseStmt parses one standalone statement (used directly by the
// ParseStatement entry point, and by parseBlock for keyword-led
// statements).
func (p *parser) parseStmt() ast.Stmt {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.KwLet:
		return p.parseLetStmt(start)
	case token.KwFor:
		return p.parseForStmt(start)
	case token.KwWhile:
		return p.parseWhileStmt(start)
	case token.KwLoop:
		return p.parseLoopStmt(start)
	case token.KwReturn:
		return p.parseReturnStmt(start)
	case token.KwBreak:
		p.advance()
		p.acceptSemi()
		return ast.NewBreakStmt(p.alloc, p.spanFrom(start))
	case token.KwContinue:
		p.advance()
		p.acceptSemi()
		return ast.NewContinueStmt(p.alloc, p.spanFrom(start))
	case token.KwAssert:
		return p.parseAssertStmt(start)
	default:
		return p.parseExprOrAssignStmt(start)
	}
}

func (p *parser) parseExprOrAssignStmt(start source.Span) ast.Stmt {
	e := p.parseExpr(precPipe)
	if _, ok := p.accept(token.Eq); ok {
		val := p.parseExpr(precPipe)
		p.acceptSemi()
		return ast.NewAssignStmt(p.alloc, p.spanFrom(start), e, val)
	}
	p.acceptSemi()
	return ast.NewExprStmt(p.alloc, p.spanFrom(start), e)
}

func (p *parser) parseLetStmt(start source.Span) ast.Stmt {
	p.advance() // let
	mut := false
	if _, ok := p.accept(token.KwMut); ok {
		mut = true
	}
	pat := p.parsePattern()
	var t ast.TypeExpr
	if _, ok := p.accept(token.Colon); ok {
		t = p.parseType(true)
	}
	p.expect(token.Eq)
	init := p.parseExpr(precPipe)
	p.acceptSemi()
	return ast.NewLetStmt(p.alloc, p.spanFrom(start), pat, t, mut, init)
}

func (p *parser) parseForStmt(start source.Span) ast.Stmt {
	p.advance() // for
	pat := p.parsePattern()
	p.expect(token.KwIn)
	iterable := p.parseExpr(precPipe)
	body := p.parseBlock()
	return ast.NewForStmt(p.alloc, p.spanFrom(start), pat, iterable, body)
}

func (p *parser) parseWhileStmt(start source.Span) ast.Stmt {
	p.advance() // while
	cond := p.parseExpr(precPipe)
	body := p.parseBlock()
	return ast.NewWhileStmt(p.alloc, p.spanFrom(start), cond, body)
}

func (p *parser) parseLoopStmt(start source.Span) ast.Stmt {
	p.advance() // loop
	body := p.parseBlock()
	return ast.NewLoopStmt(p.alloc, p.spanFrom(start), body)
}

func (p *parser) parseReturnStmt(start source.Span) ast.Stmt {
	p.advance() // return
	var val ast.Expr
	if !p.check(token.Semi) && !p.check(token.RBrace) && !p.check(token.EOF) {
		val = p.parseExpr(precPipe)
	}
	p.acceptSemi()
	return ast.NewReturnStmt(p.alloc, p.spanFrom(start), val)
}

func (p *parser) parseAssertStmt(start source.Span) ast.Stmt {
	p.advance() // assert
	cond := p.parseExpr(precPipe)
	var msg ast.Expr
	if _, ok := p.accept(token.Comma); ok {
		msg = p.parseExpr(precPipe)
	}
	p.acceptSemi()
	return ast.NewAssertStmt(p.alloc, p.spanFrom(start), cond, msg)
}

// parseBlock parses `{ stmt; stmt; ...; [trailingExpr] }`. Semicolons are
// optional statement separators; a trailing expression with no semicolon
// immediately followed by `}` becomes the block's Value. Empty blocks are
// permitted (spec.md §4.2).
func (p *parser) parseBlock() *ast.BlockExpr {
	start := p.cur().Span
	p.expect(token.LBrace)

	var stmts []ast.Stmt
	var trailing ast.Expr

	for !p.check(token.RBrace) && !p.check(token.EOF) {
		// A named `fn` cannot start an expression (lambdas are `fn (`), so it
		// begins the next declaration: stop here and let Parse resynchronize.
		if p.check(token.KwFn) && p.peek(1).Kind == token.Ident {
			break
		}
		if startsKeywordStmt(p.cur().Kind) {
			stmts = append(stmts, p.parseStmt())
			continue
		}

		sStart := p.cur().Span
		e := p.parseExpr(precPipe)

		if _, ok := p.accept(token.Eq); ok {
			val := p.parseExpr(precPipe)
			p.acceptSemi()
			stmts = append(stmts, ast.NewAssignStmt(p.alloc, p.spanFrom(sStart), e, val))
			continue
		}
		if _, ok := p.accept(token.Semi); ok {
			stmts = append(stmts, ast.NewExprStmt(p.alloc, p.spanFrom(sStart), e))
			continue
		}
		if p.check(token.RBrace) {
			trailing = e
			break
		}
		// No semicolon but the block continues: a block-shaped expression
		// (if/match/loop/while) used for its side effects.
		stmts = append(stmts, ast.NewExprStmt(p.alloc, p.spanFrom(sStart), e))
	}

	end := p.cur().Span
	p.expect(token.RBrace)
	return ast.NewBlockExpr(p.alloc, source.Join(start, end), stmts, trailing)
}
