// Package parser implements Ember's recursive-descent-plus-Pratt parser
// (spec.md §4.2): declarations, statements, types, and patterns are parsed
// by hand-written recursive descent, while expressions use precedence
// climbing. Every public entry point mints a fresh internal/idalloc
// allocator, so node IDs are deterministic per call (spec.md §5).
package parser

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/internal/idalloc"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/token"
)

// syncKinds are the declaration/statement start tokens the parser
// resynchronizes on after a fatal error, per spec.md §4.2.
var syncKinds = map[token.Kind]bool{
	token.KwFn: true, token.KwLet: true, token.KwType: true, token.KwRec: true,
	token.KwSum: true, token.KwMod: true, token.KwUse: true, token.KwExternal: true,
	token.KwIf: true, token.KwFor: true, token.KwWhile: true, token.KwReturn: true,
	token.RBrace: true, token.EOF: true,
}

// parser holds all of the mutable state for one top-level parse: a
// position within the token stream, a fresh ID allocator, and the
// diagnostic report being built up.
type parser struct {
	toks  []token.Token
	pos   int
	alloc *idalloc.Allocator
	rep   *report.Report

	// allowRefinement threads through type-expression parsing to
	// disambiguate refinement braces from a function body in return
	// position (spec.md §4.2).
	allowRefinement bool
}

func newParser(toks []token.Token) *parser {
	if len(toks) == 0 {
		toks = []token.Token{{Kind: token.EOF}}
	}
	return &parser{toks: toks, alloc: idalloc.New(), rep: &report.Report{}, allowRefinement: true}
}

func (p *parser) cur() token.Token       { return p.at(0) }
func (p *parser) peek(n int) token.Token { return p.at(n) }

func (p *parser) at(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[i]
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *parser) accept(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *parser) expect(k token.Kind) token.Token {
	if t, ok := p.accept(k); ok {
		return t
	}
	tok := p.cur()
	d := p.rep.Errorf("E0001", "expected %s, found %s", k, tok.Kind)
	report.Apply(d, report.At(tok.Span))
	return tok
}

// synchronize advances until the next declaration/statement sync point,
// per spec.md §4.2's error-recovery strategy.
func (p *parser) synchronize() {
	for !syncKinds[p.cur().Kind] {
		p.advance()
	}
}

func (p *parser) spanFrom(start source.Span) source.Span {
	prevEnd := p.toks[max0(p.pos-1)].Span
	return source.Join(start, prevEnd)
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Parse parses a complete token stream into a Program, recovering from
// fatal errors at declaration boundaries so a partial Program is always
// returned (spec.md §4.2).
func Parse(toks []token.Token) (prog *ast.Program, rep *report.Report) {
	p := newParser(toks)
	rep = p.rep
	defer rep.CatchICE(nil)

	start := p.cur().Span

	var decls []ast.Decl
	for !p.check(token.EOF) {
		before := p.pos
		d := p.parseDecl()
		if d != nil {
			decls = append(decls, d)
		}
		if p.pos == before {
			// No progress: force advancement to avoid an infinite loop.
			p.advance()
		}
	}

	end := p.cur().Span
	prog = ast.NewProgram(p.alloc, source.Join(start, end), decls)
	return prog, rep
}

// ParseExpression parses toks as a single standalone expression. This is
// one of the hybrid-JSON deserializer's standalone entry points
// (spec.md §4.2, §4.8).
func ParseExpression(toks []token.Token) (e ast.Expr, rep *report.Report) {
	p := newParser(toks)
	rep = p.rep
	defer rep.CatchICE(nil)
	e = p.parseExpr(precPipe)
	return e, rep
}

// ParseTypeExpr parses toks as a single standalone type-expression, with
// refinement braces allowed (the position a hybrid-JSON fragment would be
// spliced into is never a bare function return-type position).
func ParseTypeExpr(toks []token.Token) (t ast.TypeExpr, rep *report.Report) {
	p := newParser(toks)
	rep = p.rep
	defer rep.CatchICE(nil)
	t = p.parseType(true)
	return t, rep
}

// ParsePattern parses toks as a single standalone pattern.
func ParsePattern(toks []token.Token) (pat ast.Pattern, rep *report.Report) {
	p := newParser(toks)
	rep = p.rep
	defer rep.CatchICE(nil)
	pat = p.parsePattern()
	return pat, rep
}

// ParseStatement parses toks as a single standalone statement.
func ParseStatement(toks []token.Token) (ast.Stmt, *report.Report) {
	p := newParser(toks)
	s := p.parseStmt()
	return s, p.rep
}

// ParseBlock parses toks as a single standalone block expression.
func ParseBlock(toks []token.Token) (*ast.BlockExpr, *report.Report) {
	p := newParser(toks)
	b := p.parseBlock()
	return b, p.rep
}
