package lexer

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/emberlang/ember/token"
)

// lexNumber scans a decimal, hex (0x), or binary (0b) numeric literal,
// per spec.md §4.1: underscore separators are allowed and stripped; a
// decimal point followed by a digit makes a float; `..`/`..=` and a bare
// trailing `.` are left for the caller (run's operator dispatch lexes them
// as range and dot operators; the float-versus-dot decision is made here,
// at the character-class boundary).
func (l *lexState) lexNumber(start int) {
	if l.peek() == '0' && (l.peekAhead(1) == 'x' || l.peekAhead(1) == 'X') {
		l.lexRadixInt(start, 16, isHexDigit)
		return
	}
	if l.peek() == '0' && (l.peekAhead(1) == 'b' || l.peekAhead(1) == 'B') {
		l.lexRadixInt(start, 2, isBinaryDigit)
		return
	}

	l.takeDigitsAndUnderscores()

	isFloat := false
	if l.peek() == '.' && isASCIIDigit(l.peekAhead(1)) {
		isFloat = true
		l.pop() // '.'
		l.takeDigitsAndUnderscores()
	}
	if (l.peek() == 'e' || l.peek() == 'E') && (isASCIIDigit(l.peekAhead(1)) ||
		((l.peekAhead(1) == '+' || l.peekAhead(1) == '-') && isASCIIDigit(l.peekAhead(2)))) {
		isFloat = true
		l.pop()
		if l.peek() == '+' || l.peek() == '-' {
			l.pop()
		}
		l.takeDigitsAndUnderscores()
	}

	raw := strings.ReplaceAll(l.text[start:l.pos], "_", "")

	if isFloat {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			l.errorAt(start, "invalid float literal %q: %v", raw, err)
			return
		}
		l.push(start, token.Float, token.Value{Float: f})
		return
	}

	width := l.lexWidthSuffix()
	v := new(big.Int)
	v.SetString(raw, 10)
	l.push(start, token.Int, token.Value{Int: token.IntValue{Value: v, Width: width}})
}

func (l *lexState) lexRadixInt(start int, radix int, digit func(rune) bool) {
	l.pop() // '0'
	l.pop() // 'x'/'b'
	digitsStart := l.pos
	for !l.done() && (digit(l.peek()) || l.peek() == '_') {
		l.pop()
	}
	raw := strings.ReplaceAll(l.text[digitsStart:l.pos], "_", "")
	if raw == "" {
		l.errorAt(start, "numeric literal has no digits after its radix prefix")
		return
	}
	width := l.lexWidthSuffix()
	v := new(big.Int)
	if _, ok := v.SetString(raw, radix); !ok {
		l.errorAt(start, "invalid base-%d literal %q", radix, raw)
		return
	}
	l.push(start, token.Int, token.Value{Int: token.IntValue{Value: v, Width: width}})
}

// lexWidthSuffix consumes an optional i32/i64 width suffix immediately
// following an integer literal's digits.
func (l *lexState) lexWidthSuffix() string {
	if l.peek() == 'i' && (l.hasPrefix("i32") || l.hasPrefix("i64")) {
		s := l.text[l.pos : l.pos+3]
		l.pos += 3
		return s
	}
	return ""
}

func (l *lexState) takeDigitsAndUnderscores() {
	l.takeWhile(func(r rune) bool { return isASCIIDigit(r) || r == '_' })
}

func isHexDigit(r rune) bool {
	return isASCIIDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isBinaryDigit(r rune) bool { return r == '0' || r == '1' }
