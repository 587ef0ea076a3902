// Package ember is the root orchestrator for the Ember compiler: it wires
// together lexing, parsing, type checking, effect checking, and
// canonicalization into the single-call pipeline described by spec.md
// §6.1, while leaving every discrete stage (lexer.Lex, parser.Parse,
// checker.Check, effects.Check, canon.Canonicalize) independently
// exported and usable on its own.
package ember

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/canon"
	"github.com/emberlang/ember/checker"
	"github.com/emberlang/ember/effects"
	"github.com/emberlang/ember/internal/idalloc"
	"github.com/emberlang/ember/lexer"
	"github.com/emberlang/ember/parser"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/source"
	"github.com/emberlang/ember/token"
	"github.com/emberlang/ember/types"
)

// File is one compilation unit: a path label (used only for diagnostics)
// and its complete source text.
type File struct {
	Path string
	Text string
}

// Result bundles everything one call to Compile produces: the raw tokens
// and parsed/canonicalized programs, every diagnostic accumulated across
// all stages (spec.md §5: "the final diagnostic vector is the
// concatenation, in stage order, of every stage's own diagnostics"), and
// the side tables spec.md §6.1 names for typecheck and canonicalize.
type Result struct {
	File        File
	Tokens      []token.Token
	Program     *ast.Program
	Diagnostics *report.Report

	Obligations   []checker.Obligation
	FunctionTypes map[string]types.Func
	EffectTable   map[string][]string
	TypeTable     map[idalloc.ID]types.Type

	Canon *canon.Result
}

// Success reports whether every stage that ran completed without an
// error-level diagnostic.
func (r Result) Success() bool {
	return r.Diagnostics == nil || r.Diagnostics.Success()
}

// Compile runs the full lex → parse → typecheck → effect-check →
// canonicalize pipeline over f in one call. Each stage's diagnostics are
// merged into Result.Diagnostics in stage order; a stage that cannot
// proceed (the lexer or parser failing outright) short-circuits the rest
// and returns what it has so far, matching the checker's own "never abort,
// keep going with the rest of the program" posture at the granularity of
// whole stages rather than individual declarations.
func Compile(f File) (res Result) {
	rep := &report.Report{}
	res = Result{File: f, Diagnostics: rep}
	defer rep.CatchICE(nil)

	toks, lexRep := lexer.Lex(source.File{Path: f.Path, Text: f.Text})
	rep.Merge(lexRep)
	res.Tokens = toks
	if !lexRep.Success() {
		return res
	}

	prog, parseRep := parser.Parse(toks)
	rep.Merge(parseRep)
	res.Program = prog
	if prog == nil || !parseRep.Success() {
		return res
	}

	chk := checker.Check(prog)
	rep.Merge(chk.Diagnostics)
	res.Obligations = chk.Obligations
	res.FunctionTypes = chk.FunctionTypes
	res.EffectTable = chk.EffectTable
	res.TypeTable = chk.TypeTable

	rep.Merge(effects.Check(prog, chk.FunctionTypes))

	opts := canon.NewOptions()
	opts.EffectInfo = chk.EffectTable
	opts.TypeInfo = make(map[string]types.Type, len(chk.FunctionTypes))
	for name, fn := range chk.FunctionTypes {
		opts.TypeInfo[name] = fn.Return
	}
	res.Canon = canon.Canonicalize(prog, opts)

	return res
}

// CompileBatch runs Compile over every file in files, bounding parallelism
// to concurrency (a non-positive value defaults to GOMAXPROCS, mirroring
// the teacher's top-level Compiler.Compile default). Each file gets its
// own goroutine, its own idalloc.Allocator (by virtue of calling Compile,
// which never shares one across calls), and its own Result, satisfying
// spec.md §5's requirement that concurrent compiles not share mutable
// state; results[i] always corresponds to files[i] regardless of
// completion order.
func CompileBatch(files []File, concurrency int) []Result {
	if len(files) == 0 {
		return nil
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(-1)
	}

	results := make([]Result, len(files))
	sem := semaphore.NewWeighted(int64(concurrency))
	g, ctx := errgroup.WithContext(context.Background())

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return fmt.Errorf("compiling %s: %w", f.Path, err)
			}
			defer sem.Release(1)
			results[i] = Compile(f)
			return nil
		})
	}
	// CompileBatch never fails outright: a per-file problem is carried in
	// that file's own Result.Diagnostics, not as a batch-level error. The
	// errgroup only exists to wait for every goroutine and propagate a
	// semaphore-acquire failure (e.g. context cancellation), which cannot
	// happen with context.Background.
	_ = g.Wait()
	return results
}
