// Package canon implements Ember's canonicalization pipeline (spec.md
// §4.7): a composable, idempotent rewrite over a cloned copy of the AST
// that desugars surface sugar, normalizes implicit forms into explicit
// ones, annotates every node with its inferred effect set, and wraps
// external call sites with validators. Every output node is freshly
// allocated (spec.md §3 "Lifecycle"); the input Program is never mutated,
// matching how ast.Clone is used elsewhere in this module.
package canon

import (
	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/internal/idalloc"
	"github.com/emberlang/ember/types"
)

// Options selects which of the four ordered phases run and supplies the
// side tables the last two phases need. All four booleans default to true
// in NewOptions; a caller that wants the parser's raw desugared-but-not-
// annotated output, say, sets AnnotateEffects and InsertValidators false.
type Options struct {
	Desugar          bool
	Normalize        bool
	AnnotateEffects  bool
	InsertValidators bool

	// TypeInfo maps an external function's declared name to its resolved
	// return type (e.g. checker.Result's signature table), consulted by
	// InsertValidators to classify the validator suffix precisely when a
	// return type is a type alias. Keyed by name rather than node ID
	// because canonicalization clones the tree and mints fresh IDs
	// (spec.md §4.7: "every output node receives a fresh ID"), so an
	// ID-keyed table computed against the pre-clone tree could never be
	// correlated back. A missing entry falls back to classifying the
	// ExternFuncDecl's declared TypeExpr syntactically, which is always
	// available and sufficient for every case but an unresolved alias.
	TypeInfo map[string]types.Type

	// EffectInfo maps a function name to its declared effect row, for the
	// AnnotateEffects phase's "union the declared effect set of any
	// identifier callee" step (spec.md §4.7 phase 3). A missing entry is
	// treated as the empty row, per spec.md §9's tolerance for missing
	// declared-effect information.
	EffectInfo map[string][]string
}

// NewOptions returns an Options with every phase enabled and no side
// tables; set TypeInfo/EffectInfo before calling Canonicalize if
// InsertValidators/AnnotateEffects are enabled and precision matters.
func NewOptions() Options {
	return Options{Desugar: true, Normalize: true, AnnotateEffects: true, InsertValidators: true}
}

// Annotation is the per-node effect summary spec.md §4.7 phase 3 produces:
// the union of every effect reachable from this node, plus the four
// convenience booleans the spec calls out by name.
type Annotation struct {
	Effects  map[string]bool
	HasIO    bool
	HasErr   bool
	HasAsync bool
	HasMut   bool
}

// ValidatorInsertion records one call site canon wrapped in a validator
// (spec.md §4.7 phase 4), keyed by the original (pre-wrap) call node's ID
// so a later diagnostic can refer back to the call the user wrote.
type ValidatorInsertion struct {
	OriginalID    idalloc.ID
	ValidatorName string
	Callee        string
}

// Result bundles canon's three outputs (spec.md §6.1:
// "canonicalize(program, options) → (program', effectAnnotations,
// validatorInsertions)").
type Result struct {
	Program    *ast.Program
	Effects    map[idalloc.ID]Annotation
	Insertions []ValidatorInsertion
}

// Canonicalize runs the enabled phases, in order, over a clone of prog.
// Each phase clones nothing further itself: Desugar and Normalize mutate
// the already-cloned tree in place (every node in it was freshly minted by
// the initial ast.Clone, so this never touches caller-owned state);
// AnnotateEffects and InsertValidators are read-then-rewrite passes over
// that same tree.
func Canonicalize(prog *ast.Program, opts Options) *Result {
	alloc := idalloc.New()
	out := ast.Clone(alloc, prog)

	c := &canonicalizer{alloc: alloc, opts: opts}
	if opts.Desugar {
		out = c.desugarProgram(out)
	}
	if opts.Normalize {
		out = c.normalizeProgram(out)
	}

	res := &Result{Program: out}
	if opts.AnnotateEffects {
		res.Effects = c.annotateProgram(out)
	}
	if opts.InsertValidators {
		out, res.Insertions = c.insertValidators(out)
		res.Program = out
	}
	return res
}

type canonicalizer struct {
	alloc *idalloc.Allocator
	opts  Options
}
