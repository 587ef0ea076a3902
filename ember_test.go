package ember_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember"
	"github.com/emberlang/ember/ast"
)

func TestCompile_EndToEndSuccess(t *testing.T) {
	res := ember.Compile(ember.File{Path: "ok.em", Text: `
		fn requires_positive(x: Int{x > 0}) -> Int { x }
		fn example(n: Int{n >= 0}) -> Int {
			let m = n + 1;
			requires_positive(m)
		}
	`})
	require.True(t, res.Success(), "diagnostics: %+v", res.Diagnostics.Diagnostics())
	assert.NotEmpty(t, res.Tokens)
	require.NotNil(t, res.Program)
	require.NotNil(t, res.Canon)
	require.NotNil(t, res.Canon.Program)
	_, ok := res.FunctionTypes["example"]
	assert.True(t, ok)
}

// S1 from spec.md §8, exercised through the full pipeline: the pipe
// desugars during the canonicalization stage Compile always runs.
func TestCompile_PipeDesugarsThroughFullPipeline(t *testing.T) {
	res := ember.Compile(ember.File{Path: "pipe.em", Text: `
		fn f(x: Int) -> Int { x + 1 }
		fn test() -> Int { 5 |> f }
	`})
	require.True(t, res.Success(), "diagnostics: %+v", res.Diagnostics.Diagnostics())
	fn := res.Canon.Program.Decls[1].(*ast.FuncDecl)
	call, ok := fn.Body.Value.(*ast.CallExpr)
	require.True(t, ok)
	callee := call.Callee.(*ast.IdentExpr)
	assert.Equal(t, "f", callee.Name)
}

func TestCompile_LexFailureShortCircuitsRemainingStages(t *testing.T) {
	res := ember.Compile(ember.File{Path: "bad.em", Text: "\"unterminated"})
	assert.False(t, res.Success())
	assert.Nil(t, res.Program)
	assert.Nil(t, res.Canon)
}

func TestCompile_ParseFailureShortCircuitsRemainingStages(t *testing.T) {
	res := ember.Compile(ember.File{Path: "bad.em", Text: "fn ("})
	assert.False(t, res.Success())
	assert.Nil(t, res.FunctionTypes)
	assert.Nil(t, res.Canon)
}

func TestCompile_TypeAndEffectDiagnosticsAreMerged(t *testing.T) {
	res := ember.Compile(ember.File{Path: "bad.em", Text: `
		fn f() -> Unit { 1 = 2; }
	`})
	assert.False(t, res.Success())
	require.NotEmpty(t, res.Diagnostics.Diagnostics())
}

func TestCompile_NeverPanics(t *testing.T) {
	inputs := []string{
		"", "fn", "fn f(", "sum S {", "match", "1 + + 2", "external fn f() -> IO -> Unit = ",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			ember.Compile(ember.File{Path: "t.em", Text: in})
		}, "input %q must not panic", in)
	}
}

func TestCompileBatch_PreservesOrderAndIndependentState(t *testing.T) {
	files := []ember.File{
		{Path: "a.em", Text: `fn a() -> Int { 1 }`},
		{Path: "b.em", Text: `fn b() -> Int { "oops" }`},
		{Path: "c.em", Text: `fn c() -> Int { 3 }`},
	}
	results := ember.CompileBatch(files, 2)
	require.Len(t, results, 3)
	assert.Equal(t, "a.em", results[0].File.Path)
	assert.Equal(t, "b.em", results[1].File.Path)
	assert.Equal(t, "c.em", results[2].File.Path)
	assert.True(t, results[0].Success())
	assert.False(t, results[1].Success())
	assert.True(t, results[2].Success())
}

func TestCompileBatch_EmptyInput(t *testing.T) {
	assert.Nil(t, ember.CompileBatch(nil, 0))
}

func TestCompileBatch_DefaultsConcurrencyWhenNonPositive(t *testing.T) {
	files := []ember.File{{Path: "a.em", Text: `fn a() -> Int { 1 }`}}
	results := ember.CompileBatch(files, 0)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success())
}
