package canon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/astjson"
	"github.com/emberlang/ember/canon"
	"github.com/emberlang/ember/effects"
	"github.com/emberlang/ember/lexer"
	"github.com/emberlang/ember/parser"
	"github.com/emberlang/ember/source"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, lexRep := lexer.Lex(source.File{Path: "t.em", Text: src})
	require.True(t, lexRep.Success())
	prog, parseRep := parser.Parse(toks)
	require.True(t, parseRep.Success(), "parse errors: %+v", parseRep.Diagnostics())
	return prog
}

func jsonOf(t *testing.T, prog *ast.Program) string {
	t.Helper()
	s, err := astjson.SerializeProgram(prog, astjson.Options{IncludeSpans: false})
	require.NoError(t, err)
	return s
}

// S1 — pipe desugaring.
func TestCanon_PipeDesugarsToCall(t *testing.T) {
	prog := parseProgram(t, `
		fn f(x: Int) -> Int { x + 1 }
		fn test() -> Int { 5 |> f }
	`)
	res := canon.Canonicalize(prog, canon.NewOptions())
	fn := res.Program.Decls[1].(*ast.FuncDecl)
	call, ok := fn.Body.Value.(*ast.CallExpr)
	require.True(t, ok, "pipe should desugar to a CallExpr")
	callee, ok := call.Callee.(*ast.IdentExpr)
	require.True(t, ok)
	assert.Equal(t, "f", callee.Name)
	require.Len(t, call.Args, 1)
	lit, ok := call.Args[0].(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, int64(5), lit.Int.Int64())
}

func TestCanon_PipeIntoCallPrependsArgument(t *testing.T) {
	prog := parseProgram(t, `
		fn g(a: Int, b: Int) -> Int { a + b }
		fn test() -> Int { 1 |> g(2) }
	`)
	res := canon.Canonicalize(prog, canon.NewOptions())
	fn := res.Program.Decls[1].(*ast.FuncDecl)
	call := fn.Body.Value.(*ast.CallExpr)
	callee := call.Callee.(*ast.IdentExpr)
	assert.Equal(t, "g", callee.Name)
	require.Len(t, call.Args, 2)
	first := call.Args[0].(*ast.LiteralExpr)
	assert.Equal(t, int64(1), first.Int.Int64())
	second := call.Args[1].(*ast.LiteralExpr)
	assert.Equal(t, int64(2), second.Int.Int64())
}

func TestCanon_RangeDesugarsToRangeCall(t *testing.T) {
	prog := parseProgram(t, `fn test() -> Unit { for i in 0..10 { } }`)
	res := canon.Canonicalize(prog, canon.NewOptions())
	fn := res.Program.Decls[0].(*ast.FuncDecl)
	forStmt := fn.Body.Stmts[0].(*ast.ForStmt)
	call, ok := forStmt.Iterable.(*ast.CallExpr)
	require.True(t, ok, "range should desugar to a __range call")
	callee := call.Callee.(*ast.IdentExpr)
	assert.Equal(t, "__range", callee.Name)
	require.Len(t, call.Args, 3)
	incl := call.Args[2].(*ast.LiteralExpr)
	assert.False(t, incl.Bool)
}

func TestCanon_InclusiveRangeRecordsTrue(t *testing.T) {
	prog := parseProgram(t, `fn test() -> Unit { for i in 0..=10 { } }`)
	res := canon.Canonicalize(prog, canon.NewOptions())
	fn := res.Program.Decls[0].(*ast.FuncDecl)
	forStmt := fn.Body.Stmts[0].(*ast.ForStmt)
	call := forStmt.Iterable.(*ast.CallExpr)
	incl := call.Args[2].(*ast.LiteralExpr)
	assert.True(t, incl.Bool)
}

// phase 2: normalize.
func TestCanon_ElselessIfGainsSyntheticElseUnit(t *testing.T) {
	prog := parseProgram(t, `fn test() -> Unit { if true { } }`)
	res := canon.Canonicalize(prog, canon.NewOptions())
	fn := res.Program.Decls[0].(*ast.FuncDecl)
	ifExpr := fn.Body.Value.(*ast.IfExpr)
	require.NotNil(t, ifExpr.Else)
	elseBlock, ok := ifExpr.Else.(*ast.BlockExpr)
	require.True(t, ok)
	lit, ok := elseBlock.Value.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, ast.LitUnit, lit.Kind)
}

func TestCanon_EmptyBlockGainsUnitValue(t *testing.T) {
	prog := parseProgram(t, `fn test() -> Unit { }`)
	res := canon.Canonicalize(prog, canon.NewOptions())
	fn := res.Program.Decls[0].(*ast.FuncDecl)
	require.NotNil(t, fn.Body.Value)
	lit, ok := fn.Body.Value.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, ast.LitUnit, lit.Kind)
}

func TestCanon_BareReturnGainsUnitValue(t *testing.T) {
	prog := parseProgram(t, `fn test() -> Unit { return; }`)
	res := canon.Canonicalize(prog, canon.NewOptions())
	fn := res.Program.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.NotNil(t, ret.Value)
	lit, ok := ret.Value.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, ast.LitUnit, lit.Kind)
}

// phase 3: effect annotation.
func TestCanon_AnnotatesTryWithErrEffect(t *testing.T) {
	prog := parseProgram(t, `
		external fn parse_int(s: Str) -> Err -> Int = "parseInt"
		fn test() -> Err -> Int { parse_int("1")? }
	`)
	opts := canon.NewOptions()
	opts.EffectInfo = map[string][]string{"parse_int": {effects.Err}}
	res := canon.Canonicalize(prog, opts)
	fn := res.Program.Decls[1].(*ast.FuncDecl)
	tryExpr := fn.Body.Value.(*ast.TryExpr)
	ann, ok := res.Effects[tryExpr.ID()]
	require.True(t, ok)
	assert.True(t, ann.HasErr)
}

func TestCanon_AnnotatesCallWithDeclaredCalleeEffect(t *testing.T) {
	prog := parseProgram(t, `
		external fn println(msg: Str) -> IO -> Unit = "println"
		fn test() -> IO -> Unit { println("hi") }
	`)
	opts := canon.NewOptions()
	opts.EffectInfo = map[string][]string{"println": {effects.IO}}
	res := canon.Canonicalize(prog, opts)
	fn := res.Program.Decls[1].(*ast.FuncDecl)
	call := fn.Body.Value.(*ast.CallExpr)
	ann, ok := res.Effects[call.ID()]
	require.True(t, ok)
	assert.True(t, ann.HasIO)
}

func TestCanon_AssignmentIsAnnotatedWithMut(t *testing.T) {
	prog := parseProgram(t, `
		fn test() -> Mut -> Unit {
			let mut x = 0;
			x = 1;
		}
	`)
	res := canon.Canonicalize(prog, canon.NewOptions())
	fn := res.Program.Decls[0].(*ast.FuncDecl)
	assign := fn.Body.Stmts[1].(*ast.AssignStmt)
	ann, ok := res.Effects[assign.ID()]
	require.True(t, ok)
	assert.True(t, ann.HasMut)
}

func TestCanon_LambdaBodyEffectsDoNotLeakToEnclosingNode(t *testing.T) {
	prog := parseProgram(t, `
		external fn println(msg: Str) -> IO -> Unit = "println"
		fn test() -> Unit {
			let emit = fn() -> Unit { println("hidden") };
		}
	`)
	opts := canon.NewOptions()
	opts.EffectInfo = map[string][]string{"println": {effects.IO}}
	res := canon.Canonicalize(prog, opts)
	fn := res.Program.Decls[1].(*ast.FuncDecl)
	letStmt := fn.Body.Stmts[0].(*ast.LetStmt)
	lambda := letStmt.Initializer.(*ast.LambdaExpr)
	ann, ok := res.Effects[lambda.ID()]
	require.True(t, ok)
	assert.False(t, ann.HasIO, "a lambda's own effects are latent, not hoisted to its definition site")
}

// phase 4: validator insertion.
func TestCanon_InsertsValidatorAtExternalCallSite(t *testing.T) {
	prog := parseProgram(t, `
		external fn read_line() -> IO -> Str = "readLine"
		fn test() -> IO -> Str { read_line() }
	`)
	res := canon.Canonicalize(prog, canon.NewOptions())
	require.Len(t, res.Insertions, 1)
	assert.Equal(t, "read_line", res.Insertions[0].Callee)
	assert.Equal(t, "__validate_Str", res.Insertions[0].ValidatorName)

	fn := res.Program.Decls[1].(*ast.FuncDecl)
	wrapper := fn.Body.Value.(*ast.CallExpr)
	wrapperCallee := wrapper.Callee.(*ast.IdentExpr)
	assert.Equal(t, "__validate_Str", wrapperCallee.Name)
	require.Len(t, wrapper.Args, 1)
	inner := wrapper.Args[0].(*ast.CallExpr)
	innerCallee := inner.Callee.(*ast.IdentExpr)
	assert.Equal(t, "read_line", innerCallee.Name)
}

func TestCanon_OrdinaryCallsAreNotWrapped(t *testing.T) {
	prog := parseProgram(t, `
		fn f(x: Int) -> Int { x }
		fn test() -> Int { f(1) }
	`)
	res := canon.Canonicalize(prog, canon.NewOptions())
	assert.Empty(t, res.Insertions)
	fn := res.Program.Decls[1].(*ast.FuncDecl)
	call := fn.Body.Value.(*ast.CallExpr)
	callee := call.Callee.(*ast.IdentExpr)
	assert.Equal(t, "f", callee.Name)
}

// spec.md §8 invariants 2 and 3: canonicalization is deterministic and
// idempotent — running it again over its own output must reproduce an
// identical tree (IDs excluded, since every run mints fresh ones).
func TestCanon_IdempotentOverOwnOutput(t *testing.T) {
	prog := parseProgram(t, `
		external fn read_line() -> IO -> Str = "readLine"
		fn f(x: Int) -> Int { x + 1 }
		fn test() -> IO -> Str {
			if f(1) > 0 {
				read_line()
			} else {
				1 |> f;
				read_line()
			}
		}
	`)
	opts := canon.NewOptions()
	opts.EffectInfo = map[string][]string{"read_line": {effects.IO}}

	once := canon.Canonicalize(prog, opts)
	twice := canon.Canonicalize(once.Program, opts)

	assert.Equal(t, jsonOf(t, once.Program), jsonOf(t, twice.Program))
}

func TestCanon_DeterministicAcrossRunsFromSameSource(t *testing.T) {
	src := `
		fn f(x: Int) -> Int { x }
		fn test() -> Int { 1 |> f }
	`
	progA := parseProgram(t, src)
	progB := parseProgram(t, src)
	resA := canon.Canonicalize(progA, canon.NewOptions())
	resB := canon.Canonicalize(progB, canon.NewOptions())
	assert.Equal(t, jsonOf(t, resA.Program), jsonOf(t, resB.Program))
}
