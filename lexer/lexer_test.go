package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/token"
)

func lex(t *testing.T, text string) []token.Token {
	t.Helper()
	toks, rep := Lex(source.File{Path: "test.em", Text: text})
	require.NotEmpty(t, toks)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind, "token stream must always end in EOF")
	_ = rep
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexer_KeywordsAndIdentifiers(t *testing.T) {
	toks := lex(t, "fn let mut foo Bar")
	assert.Equal(t, []token.Kind{
		token.KwFn, token.KwLet, token.KwMut, token.Ident, token.TypeIdent, token.EOF,
	}, kinds(toks))
}

func TestLexer_BuiltinTypeKeywords(t *testing.T) {
	toks := lex(t, "Int Nat Float Bool Str Unit")
	assert.Equal(t, []token.Kind{
		token.KwInt, token.KwNat, token.KwFloat, token.KwBool, token.KwStr, token.KwUnit, token.EOF,
	}, kinds(toks))
}

func TestLexer_UnicodeOperatorDoppelgangers(t *testing.T) {
	ascii := lex(t, "fn f(x: Int) -> Int { x != 0 }")
	unicode := lex(t, "ƒ f(x: Int) → Int { x ≠ 0 }")
	assert.Equal(t, kinds(ascii), kinds(unicode))
}

func TestLexer_LogicalUnicodeOperators(t *testing.T) {
	toks := lex(t, "a ∧ b ∨ ¬c ≤ d ≥ e")
	assert.Equal(t, []token.Kind{
		token.Ident, token.AmpAmp, token.Ident, token.PipePipe, token.Bang, token.Ident,
		token.Le, token.Ident, token.Ge, token.Ident, token.EOF,
	}, kinds(toks))
}

func TestLexer_IntegerLiterals(t *testing.T) {
	toks := lex(t, "123 0x1A 0b101 1_000_000 42i32 42i64")
	for _, tk := range toks[:6] {
		require.Equal(t, token.Int, tk.Kind)
	}
	assert.Equal(t, "123", toks[0].Value.Int.Value.String())
	assert.Equal(t, "26", toks[1].Value.Int.Value.String())
	assert.Equal(t, "5", toks[2].Value.Int.Value.String())
	assert.Equal(t, "1000000", toks[3].Value.Int.Value.String())
	assert.Equal(t, "i32", toks[4].Value.Int.Width)
	assert.Equal(t, "i64", toks[5].Value.Int.Width)
}

func TestLexer_FloatLiterals(t *testing.T) {
	toks := lex(t, "1.5 0.1 .5 1e10 1.5e-3")
	for _, tk := range toks[:5] {
		assert.Equal(t, token.Float, tk.Kind)
	}
}

func TestLexer_DotDisambiguation(t *testing.T) {
	// "." between digits is a decimal point; "1..2" is a range; "a.b" is
	// field access; ".5" begins a float.
	toks := lex(t, "1..2")
	assert.Equal(t, []token.Kind{token.Int, token.DotDot, token.Int, token.EOF}, kinds(toks))

	toks2 := lex(t, "a.b")
	assert.Equal(t, []token.Kind{token.Ident, token.Dot, token.Ident, token.EOF}, kinds(toks2))

	toks3 := lex(t, "1..=5")
	assert.Equal(t, []token.Kind{token.Int, token.DotDotEq, token.Int, token.EOF}, kinds(toks3))
}

func TestLexer_StringEscapes(t *testing.T) {
	toks := lex(t, `"a\nb\tc\"d"`)
	require.Equal(t, token.Str, toks[0].Kind)
	assert.Equal(t, "a\nb\tc\"d", toks[0].Value.String)
}

func TestLexer_TripleQuotedStringDiscardsLeadingNewline(t *testing.T) {
	toks := lex(t, "\"\"\"\nhello\n\"\"\"")
	require.Equal(t, token.Str, toks[0].Kind)
	assert.Equal(t, "hello\n", toks[0].Value.String)
}

func TestLexer_UnterminatedStringIsError(t *testing.T) {
	toks := lex(t, `"abc`)
	assert.Equal(t, token.Error, toks[0].Kind)
	assert.NotEmpty(t, toks[0].Value.Message)
}

func TestLexer_TemplateStringPreservesInterpolation(t *testing.T) {
	toks := lex(t, "`hi ${name}!`")
	require.Equal(t, token.Template, toks[0].Kind)
	assert.Contains(t, toks[0].Value.String, "${name}")
}

func TestLexer_LineComment(t *testing.T) {
	toks := lex(t, "1 // comment\n2")
	assert.Equal(t, []token.Kind{token.Int, token.Int, token.EOF}, kinds(toks))
}

func TestLexer_NestedBlockComment(t *testing.T) {
	toks := lex(t, "1 /* outer /* inner */ still outer */ 2")
	assert.Equal(t, []token.Kind{token.Int, token.Int, token.EOF}, kinds(toks))
}

func TestLexer_UnterminatedBlockCommentIsDiagnostic(t *testing.T) {
	_, rep := Lex(source.File{Path: "t", Text: "1 /* never closed"})
	assert.False(t, rep.Success())
}

func TestLexer_MultiCharOperators(t *testing.T) {
	toks := lex(t, "== != <= >= && || -> => <- |> ++ :: ..")
	assert.Equal(t, []token.Kind{
		token.EqEq, token.BangEq, token.Le, token.Ge, token.AmpAmp, token.PipePipe,
		token.Arrow, token.FatArrow, token.LArrow, token.PipeGt, token.PlusPlus,
		token.ColonColon, token.DotDot, token.EOF,
	}, kinds(toks))
}

func TestLexer_SinglePipeDistinctFromDoublePipe(t *testing.T) {
	toks := lex(t, "x{n | n > 0}")
	var found bool
	for _, tk := range toks {
		if tk.Kind == token.Pipe {
			found = true
		}
		assert.NotEqual(t, token.PipePipe, tk.Kind)
	}
	assert.True(t, found, "expected a lone Pipe token")
}

func TestLexer_EveryTokenHasASpan(t *testing.T) {
	toks := lex(t, "fn f(x: Int) -> Int { x }")
	for _, tk := range toks {
		if tk.Kind == token.EOF {
			continue
		}
		assert.LessOrEqual(t, tk.Span.Start, tk.Span.End)
	}
}

func TestLexer_MaxFileSizeGuard(t *testing.T) {
	big := make([]byte, MaxFileSize+1)
	for i := range big {
		big[i] = 'a'
	}
	toks, rep := Lex(source.File{Path: "huge", Text: string(big)})
	assert.False(t, rep.Success())
	require.Len(t, toks, 1)
	assert.Equal(t, token.EOF, toks[0].Kind)
}

func TestLexer_NeverPanics(t *testing.T) {
	inputs := []string{
		"", "\"", "/*", "`", "0x", "..", ".", "\x00", "───",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			Lex(source.File{Path: "t", Text: in})
		}, "input %q must not panic", in)
	}
}
