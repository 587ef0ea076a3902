package lexer

import "github.com/emberlang/ember/token"

// unicodeSymbolKind returns the token.Kind a single Unicode operator/
// keyword rune resolves to, or token.Invalid if r is not one of the fixed
// set in spec.md §4.1. Multi-byte-but-single-rune symbols (ƒ, λ, →, …)
// are handled here; run() consults this table before its identifier case,
// so the letters ƒ and λ lex as KwFn. The ℤ/ℕ/ℝ numeric-type glyphs are
// not in this table: they reach lexIdentOrKeyword, which maps a bare glyph
// to its built-in type keyword through token.UnicodeTypeSymbols. A glyph
// followed by a width suffix (ℤ32) lexes as a single TypeIdent, which no
// later stage maps to a built-in type.
func unicodeSymbolKind(r rune) token.Kind {
	if kind, ok := token.UnicodeSymbols[string(r)]; ok {
		return kind
	}
	return token.Invalid
}

// opEntry is one candidate in the maximal-munch operator table, ordered
// so that longer spellings are tried before any of their prefixes.
type opEntry struct {
	text string
	kind token.Kind
}

// operatorTable is tried in order; matchOperator returns the first (and
// thus longest, since the table is sorted longest-first per starting
// byte) match. This implements the "short maximal-munch dispatch"
// called for in spec.md §4.1.
var operatorTable = []opEntry{
	{"..=", token.DotDotEq},
	{"..", token.DotDot},
	{"::", token.ColonColon},
	{"->", token.Arrow},
	{"=>", token.FatArrow},
	{"<-", token.LArrow},
	{"|>", token.PipeGt},
	{"++", token.PlusPlus},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.Le},
	{">=", token.Ge},
	{"&&", token.AmpAmp},
	{"||", token.PipePipe},
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"[", token.LBracket},
	{"]", token.RBracket},
	{",", token.Comma},
	{";", token.Semi},
	{":", token.Colon},
	{".", token.Dot},
	{"|", token.Pipe},
	{"!", token.Bang},
	{"=", token.Eq},
	{"<", token.Lt},
	{">", token.Gt},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"^", token.Caret},
	{"?", token.Question},
	{"@", token.At},
}

// matchOperator returns the kind and byte width of the longest operator
// in operatorTable that matches at the lexer's current position, or
// (token.Invalid, 0) if none does.
func (l *lexState) matchOperator() (token.Kind, int) {
	for _, e := range operatorTable {
		if l.hasPrefix(e.text) {
			return e.kind, len(e.text)
		}
	}
	return token.Invalid, 0
}
