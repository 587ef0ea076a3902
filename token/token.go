// Package token defines the token alphabet produced by the lexer: kinds,
// literal payloads, and the tables mapping dual ASCII/Unicode spellings
// (spec.md §4.1) onto a single canonical Kind.
package token

import (
	"fmt"
	"math/big"

	"github.com/emberlang/ember/source"
)

// Kind identifies the lexical category of a Token.
type Kind int

const (
	Invalid Kind = iota

	EOF
	Error // A lexical error; carries a Message in its Value.

	Ident     // lower-initial identifier, e.g. foo, foo_bar
	TypeIdent // Upper-initial identifier, e.g. Foo, Result

	Int    // integer literal, arbitrary precision, optional i32/i64 suffix
	Float  // floating-point literal
	Str    // "..." or """...""" string literal
	Template // `...` template string with ${...} interpolation preserved textually

	// Keywords.
	KwFn
	KwLet
	KwMut
	KwType
	KwRec
	KwSum
	KwMod
	KwUse
	KwExternal
	KwIf
	KwElse
	KwMatch
	KwFor
	KwWhile
	KwLoop
	KwReturn
	KwBreak
	KwContinue
	KwAssert
	KwTrue
	KwFalse
	KwAs
	KwIn

	// Built-in type keywords.
	KwInt
	KwNat
	KwFloat
	KwBool
	KwStr
	KwUnit

	// Punctuation & operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semi
	Colon
	ColonColon
	Dot
	DotDot
	DotDotEq
	Arrow      // ->
	FatArrow   // =>
	LArrow     // <-
	Pipe       // |  (used in refinement braces T{x | pred})
	PipePipe   // ||
	AmpAmp     // &&
	Bang       // !
	BangEq     // !=
	Eq         // =
	EqEq       // ==
	Lt         // <
	Le         // <=
	Gt         // >
	Ge         // >=
	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Caret      // ^  (power)
	PlusPlus   // ++ (concat)
	PipeGt     // |>
	Question   // ?
	At         // @
)

var names = map[Kind]string{
	Invalid: "Invalid", EOF: "EOF", Error: "Error",
	Ident: "Ident", TypeIdent: "TypeIdent",
	Int: "Int", Float: "Float", Str: "Str", Template: "Template",
	KwFn: "fn", KwLet: "let", KwMut: "mut", KwType: "type", KwRec: "rec", KwSum: "sum",
	KwMod: "mod", KwUse: "use", KwExternal: "external", KwIf: "if", KwElse: "else",
	KwMatch: "match", KwFor: "for", KwWhile: "while", KwLoop: "loop", KwReturn: "return",
	KwBreak: "break", KwContinue: "continue", KwAssert: "assert", KwTrue: "true", KwFalse: "false",
	KwAs: "as", KwIn: "in",
	KwInt: "Int", KwNat: "Nat", KwFloat: "Float", KwBool: "Bool", KwStr: "Str", KwUnit: "Unit",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Semi: ";", Colon: ":", ColonColon: "::", Dot: ".", DotDot: "..", DotDotEq: "..=",
	Arrow: "->", FatArrow: "=>", LArrow: "<-", Pipe: "|", PipePipe: "||", AmpAmp: "&&",
	Bang: "!", BangEq: "!=", Eq: "=", EqEq: "==", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Caret: "^",
	PlusPlus: "++", PipeGt: "|>", Question: "?", At: "@",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("token.Kind(%d)", int(k))
}

// IsSkippable reports whether this token kind should be ignored during
// syntactic analysis (there is currently no such kind: whitespace and
// comments are dropped by the lexer rather than tokenized, matching
// spec.md §4.1 "skip whitespace and comments").
func (k Kind) IsSkippable() bool { return false }

// Keywords maps keyword spelling (ASCII form) to its Kind.
var Keywords = map[string]Kind{
	"fn": KwFn, "let": KwLet, "mut": KwMut, "type": KwType, "rec": KwRec, "sum": KwSum,
	"mod": KwMod, "use": KwUse, "external": KwExternal, "if": KwIf, "else": KwElse,
	"match": KwMatch, "for": KwFor, "while": KwWhile, "loop": KwLoop, "return": KwReturn,
	"break": KwBreak, "continue": KwContinue, "assert": KwAssert, "true": KwTrue, "false": KwFalse,
	"as": KwAs, "in": KwIn,
}

// BuiltinTypeKeywords maps a built-in type name to its Kind (the lexer
// also maps a bare ℤ/ℕ/ℝ glyph here through UnicodeTypeSymbols). These are upper-initial but reserved, per spec.md §4.1.
var BuiltinTypeKeywords = map[string]Kind{
	"Int": KwInt, "Nat": KwNat, "Float": KwFloat, "Bool": KwBool, "Str": KwStr, "Unit": KwUnit,
}

// UnicodeSymbols maps a single Unicode operator/keyword rune (as a string,
// since some are represented by one rune of more than one byte) to its
// canonical ASCII-equivalent Kind, per spec.md §4.1's dual-syntax table.
var UnicodeSymbols = map[string]Kind{
	"ƒ": KwFn,
	"λ": KwFn,
	"→": Arrow,
	"←": LArrow,
	"≠": BangEq,
	"≤": Le,
	"≥": Ge,
	"∧": AmpAmp,
	"∨": PipePipe,
	"¬": Bang,
}

// UnicodeTypeSymbols maps the Unicode numeric-type glyphs to a base type
// keyword name; the lexer uses it for a bare glyph. A glyph followed by a
// width suffix (ℤ32/ℤ64) is not looked up here: it lexes as a single
// TypeIdent, which no later pass resolves to a built-in type.
var UnicodeTypeSymbols = map[rune]string{
	'ℤ': "Int",
	'ℕ': "Nat",
	'ℝ': "Float",
}

// IntValue is the payload of an Int token: an arbitrary-precision integer
// together with an optional explicit width suffix.
type IntValue struct {
	Value *big.Int
	Width string // "", "i32", or "i64"
}

// Value is the tagged payload carried by a token, per spec.md §3 "Tokens".
// Exactly one field is meaningful, selected by the token's Kind.
type Value struct {
	Int    IntValue
	Float  float64
	String string // decoded text for Str/Template; for Template this is the raw
	// source text between backticks, with ${...} interpolations left
	// untouched for the parser to re-lex (spec.md §4.1).
	Ident   string
	Message string // for Error tokens
}

// Token is a single lexical unit: a kind, a span, and an optional payload.
type Token struct {
	Kind  Kind
	Span  source.Span
	Value Value
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%s", t.Kind, t.Span)
}
