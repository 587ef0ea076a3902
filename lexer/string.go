package lexer

import (
	"strings"

	"github.com/emberlang/ember/token"
)

// lexString scans a single-line `"..."` or triple-quoted `"""..."""`
// string literal, per spec.md §4.1.
func (l *lexState) lexString(start int) {
	if l.hasPrefix(`"""`) {
		l.lexTripleQuoted(start)
		return
	}

	l.pop() // opening quote
	var b strings.Builder
	for {
		if l.done() {
			l.errorAt(start, "unterminated string literal")
			return
		}
		r := l.peek()
		if r == '"' {
			l.pop()
			break
		}
		if r == '\n' {
			l.errorAt(start, "unterminated string literal (newline before closing quote)")
			return
		}
		if r == '\\' {
			l.pop()
			b.WriteString(l.decodeEscape())
			continue
		}
		b.WriteRune(r)
		l.pop()
	}
	l.push(start, token.Str, token.Value{String: b.String()})
}

// lexTripleQuoted scans a `"""..."""` string: newline-tolerant, with the
// leading newline right after the opening quotes discarded.
func (l *lexState) lexTripleQuoted(start int) {
	l.pos += len(`"""`)

	if l.peek() == '\n' {
		l.pop()
	} else if l.peek() == '\r' && l.peekAhead(1) == '\n' {
		l.pop()
		l.pop()
	}

	var b strings.Builder
	for {
		if l.done() {
			l.errorAt(start, "unterminated triple-quoted string literal")
			return
		}
		if l.hasPrefix(`"""`) {
			l.pos += len(`"""`)
			break
		}
		if l.peek() == '\\' {
			l.pop()
			b.WriteString(l.decodeEscape())
			continue
		}
		b.WriteRune(l.pop())
	}
	l.push(start, token.Str, token.Value{String: b.String()})
}

// lexTemplate scans a `` `...` `` template string. `${...}` interpolations
// are preserved textually (brace-matched) for the parser to re-lex on
// demand; this stage only needs to track nested braces so it doesn't
// mistake an interpolation's own `` ` `` for the closing delimiter.
func (l *lexState) lexTemplate(start int) {
	l.pop() // opening backtick
	var b strings.Builder
	for {
		if l.done() {
			l.errorAt(start, "unterminated template string literal")
			return
		}
		switch {
		case l.peek() == '`':
			l.pop()
			l.push(start, token.Template, token.Value{String: b.String()})
			return
		case l.peek() == '\\':
			l.pop()
			esc := l.decodeEscape()
			b.WriteString(esc)
		case l.hasPrefix("${"):
			depth := 1
			interpStart := l.pos
			l.pos += 2
			for depth > 0 {
				if l.done() {
					l.errorAt(start, "unterminated ${...} interpolation in template string")
					return
				}
				switch l.peek() {
				case '{':
					depth++
				case '}':
					depth--
				}
				l.pop()
			}
			b.WriteString(l.text[interpStart:l.pos])
		default:
			b.WriteRune(l.pop())
		}
	}
}

// decodeEscape decodes a single escape sequence immediately following a
// consumed backslash, per spec.md §4.1's closed escape table. An invalid
// escape is kept literally (backslash + character), matching the triple-
// quoted-string tolerance the spec calls for.
func (l *lexState) decodeEscape() string {
	if l.done() {
		return `\`
	}
	r := l.pop()
	switch r {
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	case '\\':
		return `\`
	case '"':
		return `"`
	case '\'':
		return "'"
	case '0':
		return "\x00"
	case '`':
		return "`"
	case '$':
		return "$"
	default:
		return "\\" + string(r)
	}
}
