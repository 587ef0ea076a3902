package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/internal/idalloc"
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

func collectIDs(n ast.Node, out map[idalloc.ID]bool) {
	out[n.ID()] = true
}

// Clone mints a fresh ID for every node from its own allocator; no cloned
// node shares an ID with its source, and cloned IDs are themselves unique
// (spec.md §3 "Lifecycle").
func TestClone_MintsFreshDisjointIDs(t *testing.T) {
	prog := parseProgram(t, `
		rec Point { x: Int, y: Int }
		fn add(a: Int, b: Int) -> Int { a + b }
		fn test() -> Int { add(1, 2) }
	`)

	origIDs := map[idalloc.ID]bool{}
	collectIDs(prog, origIDs)
	for _, d := range prog.Decls {
		collectIDs(d, origIDs)
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Body != nil {
			collectIDs(fn.Body, origIDs)
		}
	}

	alloc := idalloc.New()
	cloned := ast.Clone(alloc, prog)

	clonedIDs := map[idalloc.ID]bool{}
	collectIDs(cloned, clonedIDs)
	for _, d := range cloned.Decls {
		collectIDs(d, clonedIDs)
		if fn, ok := d.(*ast.FuncDecl); ok && fn.Body != nil {
			collectIDs(fn.Body, clonedIDs)
		}
	}

	assert.Len(t, clonedIDs, len(origIDs), "clone must not collapse distinct nodes onto one ID")
	for id := range clonedIDs {
		assert.False(t, origIDs[id], "cloned ID %d must not collide with a source ID", id)
	}
}

func TestClone_PreservesStructureAndSpans(t *testing.T) {
	prog := parseProgram(t, `fn add(a: Int, b: Int) -> Int { a + b }`)
	alloc := idalloc.New()
	cloned := ast.Clone(alloc, prog)

	require.Len(t, cloned.Decls, 1)
	fn, ok := cloned.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)

	origFn := prog.Decls[0].(*ast.FuncDecl)
	assert.Equal(t, origFn.Span(), fn.Span(), "clone must preserve spans verbatim")

	bin, ok := fn.Body.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.BinAdd, bin.Op)
}

// Cloning does not mutate the source tree: the clone's nodes are entirely
// separate objects, so rewriting a field on the clone (as canon does)
// cannot be observed through the original.
func TestClone_DoesNotShareNodeIdentityWithSource(t *testing.T) {
	prog := parseProgram(t, `fn f(x: Int) -> Int { x }`)
	alloc := idalloc.New()
	cloned := ast.Clone(alloc, prog)

	clonedFn := cloned.Decls[0].(*ast.FuncDecl)
	clonedFn.Name = "renamed"

	origFn := prog.Decls[0].(*ast.FuncDecl)
	assert.Equal(t, "f", origFn.Name, "mutating the clone must not affect the original")
}

func TestClone_NilDeclAndExprAreSafe(t *testing.T) {
	assert.Nil(t, ast.CloneDecl(idalloc.New(), nil))
	assert.Nil(t, ast.CloneExpr(idalloc.New(), nil))
}
