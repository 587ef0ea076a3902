// Package lexer implements Ember's Unicode-aware tokenizer (spec.md §4.1):
// it converts a source file into an ordered token stream, always
// terminated by EOF, tolerating lexical errors by emitting inline Error
// tokens and continuing to scan rather than aborting.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/token"
)

// MaxFileSize bounds how large a source file this lexer will scan, to
// avoid pathological memory blowup on malformed input.
const MaxFileSize = 64 << 20 // 64 MiB

// Lex tokenizes file, returning the resulting token stream (always ending
// in an EOF token) and a report of any lexical diagnostics encountered.
// Lexical failure is never fatal: bad input produces inline Error tokens
// and scanning continues (spec.md §4.1, §7).
func Lex(file source.File) (toks []token.Token, rep *report.Report) {
	idx := source.NewIndex(file)
	rep = &report.Report{}
	defer rep.CatchICE(nil)

	if len(file.Text) > MaxFileSize {
		rep.Errorf("E0001", "file %q exceeds the maximum supported size of %d bytes", file.Path, MaxFileSize)
		return []token.Token{{Kind: token.EOF, Span: idx.Span(0, 0)}}, rep
	}

	l := &lexState{idx: idx, text: file.Text, rep: rep}
	l.run()
	toks = l.tokens
	return toks, rep
}

type lexState struct {
	idx    *source.Index
	text   string
	pos    int // byte offset of the next unread rune
	tokens []token.Token
	rep    *report.Report
}

func (l *lexState) done() bool { return l.pos >= len(l.text) }

// peek returns the rune at the current position without consuming it, or
// -1 at EOF.
func (l *lexState) peek() rune {
	return l.peekAt(l.pos)
}

func (l *lexState) peekAt(pos int) rune {
	if pos >= len(l.text) {
		return -1
	}
	r, size := utf8.DecodeRuneInString(l.text[pos:])
	if r == utf8.RuneError && size <= 1 {
		return -1
	}
	return r
}

// peekAhead returns the rune n positions after the current one (0 ==
// current), or -1 past EOF.
func (l *lexState) peekAhead(n int) rune {
	pos := l.pos
	for i := 0; i < n && pos < len(l.text); i++ {
		_, size := utf8.DecodeRuneInString(l.text[pos:])
		pos += size
	}
	return l.peekAt(pos)
}

// pop consumes and returns the current rune.
func (l *lexState) pop() rune {
	r, size := utf8.DecodeRuneInString(l.text[l.pos:])
	l.pos += size
	return r
}

func (l *lexState) takeWhile(pred func(rune) bool) {
	for !l.done() && pred(l.peek()) {
		l.pop()
	}
}

func (l *lexState) hasPrefix(s string) bool {
	return strHasPrefix(l.text[l.pos:], s)
}

func strHasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func (l *lexState) push(start int, kind token.Kind, value token.Value) token.Token {
	tok := token.Token{Kind: kind, Span: l.idx.Span(start, l.pos), Value: value}
	l.tokens = append(l.tokens, tok)
	return tok
}

func (l *lexState) errorAt(start int, format string, args ...any) {
	d := l.rep.Errorf("E0001", format, args...)
	report.Apply(d, report.At(l.idx.Span(start, l.pos)))
	l.push(start, token.Error, token.Value{Message: d.Message})
}

func (l *lexState) run() {
	for !l.done() {
		start := l.pos
		r := l.peek()

		switch {
		case isWhitespace(r):
			l.takeWhile(isWhitespace)

		case r == '/' && l.peekAhead(1) == '/':
			l.pop()
			l.pop()
			l.takeWhile(func(r rune) bool { return r != '\n' })

		case r == '/' && l.peekAhead(1) == '*':
			l.lexBlockComment(start)

		case unicodeSymbolKind(r) != token.Invalid:
			l.pop()
			l.push(start, unicodeSymbolKind(r), token.Value{})

		case isIdentStart(r):
			l.lexIdentOrKeyword(start)

		case isASCIIDigit(r):
			l.lexNumber(start)

		case r == '.' && isASCIIDigit(l.peekAhead(1)):
			l.lexNumber(start)

		case r == '"':
			l.lexString(start)

		case r == '`':
			l.lexTemplate(start)

		default:
			if kind, width := l.matchOperator(); kind != token.Invalid {
				for i := 0; i < width; i++ {
					l.pop()
				}
				l.push(start, kind, token.Value{})
				continue
			}
			l.pop()
			l.errorAt(start, "unexpected character %q", r)
		}
	}

	l.tokens = append(l.tokens, token.Token{Kind: token.EOF, Span: l.idx.Span(l.pos, l.pos)})
}

func (l *lexState) lexBlockComment(start int) {
	l.pop() // '/'
	l.pop() // '*'
	depth := 1
	for depth > 0 {
		if l.done() {
			l.errorAt(start, "unterminated block comment")
			return
		}
		switch {
		case l.hasPrefix("/*"):
			l.pop()
			l.pop()
			depth++
		case l.hasPrefix("*/"):
			l.pop()
			l.pop()
			depth--
		default:
			l.pop()
		}
	}
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLower(r) || unicode.IsUpper(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexState) lexIdentOrKeyword(start int) {
	first := l.peek()
	l.takeWhile(isIdentCont)
	text := l.text[start:l.pos]

	if kw, ok := token.Keywords[text]; ok {
		l.push(start, kw, token.Value{})
		return
	}
	if kw, ok := token.BuiltinTypeKeywords[text]; ok {
		l.push(start, kw, token.Value{Ident: text})
		return
	}
	if name, ok := token.UnicodeTypeSymbols[first]; ok && text == string(first) {
		l.push(start, token.BuiltinTypeKeywords[name], token.Value{Ident: name})
		return
	}

	if unicode.IsUpper(first) {
		l.push(start, token.TypeIdent, token.Value{Ident: text})
		return
	}
	l.push(start, token.Ident, token.Value{Ident: text})
}
