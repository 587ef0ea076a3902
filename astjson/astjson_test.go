package astjson_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/astjson"
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

// spec.md §8 invariant 1: serialize -> deserialize -> serialize produces
// byte-identical JSON.
func TestAstJSON_RoundTripIsLossless(t *testing.T) {
	prog := parseProgram(t, `
		sum Direction { North, South, East, West }
		fn requires_positive(x: Int{x > 0}) -> Int { x }
		fn turn(d: Direction) -> Direction {
			match d {
				North -> East
				East -> South
				South -> West
				West -> North
			}
		}
	`)
	opts := astjson.NewOptions()

	first, err := astjson.SerializeProgram(prog, opts)
	require.NoError(t, err)

	var decoded any
	require.NoError(t, json.Unmarshal([]byte(first), &decoded))

	ok, prog2, errs := astjson.DeserializeProgram(decoded)
	require.True(t, ok, "deserialize errors: %+v", errs)
	require.Empty(t, errs)

	second, err := astjson.SerializeProgram(prog2, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAstJSON_OkTrueOnlyWhenErrorsEmpty(t *testing.T) {
	ok, prog, errs := astjson.DeserializeProgram(map[string]any{"kind": "Program", "decls": []any{
		map[string]any{"kind": "NotARealDecl"},
	}})
	assert.False(t, ok)
	assert.Nil(t, prog)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "unknown declaration kind")
}

func TestAstJSON_ErrorsAggregateAcrossMultiplePositions(t *testing.T) {
	// Two independently-malformed declarations: both errors must surface
	// from the single decode pass, located by distinct JSON paths.
	input := map[string]any{"kind": "Program", "decls": []any{
		map[string]any{"kind": "RecordDecl", "name": "P", "fields": []any{
			map[string]any{"type": map[string]any{"kind": "NamedType", "name": "Int"}}, // missing "name"
		}},
		map[string]any{}, // missing "kind" entirely
	}}
	ok, _, errs := astjson.DeserializeProgram(input)
	assert.False(t, ok)
	require.Len(t, errs, 2)
	assert.Equal(t, "$.decls[0].fields[0].name", errs[0].Path)
	assert.Equal(t, "$.decls[1]", errs[1].Path)
}

// S5 — a function body given as a hybrid source fragment deserializes and
// round-trips identically to the equivalent parsed-from-source program.
func TestAstJSON_S5_HybridSourceFragmentBody(t *testing.T) {
	input := map[string]any{
		"kind": "Program",
		"decls": []any{
			map[string]any{
				"kind":   "FuncDecl",
				"name":   "answer",
				"params": []any{},
				"return": map[string]any{"kind": "NamedType", "name": "Int"},
				"body":   map[string]any{"source": "{ 42 }"},
			},
		},
	}
	ok, prog, errs := astjson.DeserializeProgram(input)
	require.True(t, ok, "deserialize errors: %+v", errs)
	require.Len(t, prog.Decls, 1)

	fn, isFn := prog.Decls[0].(*ast.FuncDecl)
	require.True(t, isFn)
	assert.Equal(t, "answer", fn.Name)
	require.NotNil(t, fn.Body)
	lit, isLit := fn.Body.Value.(*ast.LiteralExpr)
	require.True(t, isLit)
	assert.Equal(t, int64(42), lit.Int.Int64())

	equivalent := parseProgram(t, `fn answer() -> Int { 42 }`)
	opts := astjson.Options{IncludeSpans: false}
	fromFragment, err := astjson.SerializeProgram(prog, opts)
	require.NoError(t, err)
	fromSource, err := astjson.SerializeProgram(equivalent, opts)
	require.NoError(t, err)
	assert.Equal(t, fromSource, fromFragment)
}

func TestAstJSON_FragmentAtExpressionPosition(t *testing.T) {
	input := map[string]any{
		"kind": "Program",
		"decls": []any{
			map[string]any{
				"kind":   "FuncDecl",
				"name":   "f",
				"params": []any{},
				"return": map[string]any{"kind": "NamedType", "name": "Int"},
				"body":   map[string]any{"source": "{ 1 + 2 }"},
			},
		},
	}
	ok, prog, errs := astjson.DeserializeProgram(input)
	require.True(t, ok, "deserialize errors: %+v", errs)
	fn := prog.Decls[0].(*ast.FuncDecl)
	bin, isBin := fn.Body.Value.(*ast.BinaryExpr)
	require.True(t, isBin)
	assert.Equal(t, ast.BinAdd, bin.Op)
}

func TestAstJSON_FragmentAtDeclarationPositionIsUnsupported(t *testing.T) {
	input := map[string]any{
		"kind": "Program",
		"decls": []any{
			map[string]any{"source": "fn f() -> Int { 1 }"},
		},
	}
	ok, _, errs := astjson.DeserializeProgram(input)
	assert.False(t, ok)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "not supported at declaration position")
}

func TestAstJSON_InvalidJSONStringInput(t *testing.T) {
	ok, prog, errs := astjson.DeserializeProgram("{not valid json")
	assert.False(t, ok)
	assert.Nil(t, prog)
	require.NotEmpty(t, errs)
}
