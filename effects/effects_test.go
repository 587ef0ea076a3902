package effects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/checker"
	"github.com/emberlang/ember/effects"
	"github.com/emberlang/ember/lexer"
	"github.com/emberlang/ember/parser"
	"github.com/emberlang/ember/report"
	"github.com/emberlang/ember/source"
)

func checkEffects(t *testing.T, src string) (*checker.Result, *report.Report) {
	t.Helper()
	toks, lexRep := lexer.Lex(source.File{Path: "t.em", Text: src})
	require.True(t, lexRep.Success())
	prog, parseRep := parser.Parse(toks)
	require.True(t, parseRep.Success(), "parse errors: %+v", parseRep.Diagnostics())
	res := checker.Check(prog)
	rep := effects.Check(prog, res.FunctionTypes)
	return res, rep
}

// S4 — a call to a declared-IO host function from a row with no IO is
// illegal. println has no implicit signature anywhere in this
// implementation (see DESIGN.md's Open Question #6): it must be declared
// like any other external function before a call to it means anything to
// the effect checker.
func TestEffects_S4_CallToUndeclaredIOFunctionIsNotPermitted(t *testing.T) {
	_, rep := checkEffects(t, `
		external fn println(msg: Str) -> IO -> Unit = "println"
		fn pure_fn() -> Int { println("side effect"); 42 }
	`)
	assert.False(t, rep.Success())
	var found bool
	for _, d := range rep.Diagnostics() {
		if d.Code == "E4001" {
			found = true
			payload, ok := d.Structured.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "println", payload["callee"])
			assert.Equal(t, effects.IO, payload["effect"])
		}
	}
	assert.True(t, found, "expected an E4001 for the undeclared-row IO call")
}

func TestEffects_CallPermittedWhenCallerDeclaresEffect(t *testing.T) {
	_, rep := checkEffects(t, `
		external fn println(msg: Str) -> IO -> Unit = "println"
		fn has_io() -> IO -> Unit { println("ok") }
	`)
	assert.True(t, rep.Success(), "diagnostics: %+v", rep.Diagnostics())
}

func TestEffects_CalleeRowMustBeSubsetOfCallerRow(t *testing.T) {
	// callee declares IO + Err; caller declares only IO: missing Err.
	_, rep := checkEffects(t, `
		external fn read_line() -> IO + Err -> Str = "readLine"
		fn caller() -> IO -> Str { read_line() }
	`)
	assert.False(t, rep.Success())
	var gotErrEffect bool
	for _, d := range rep.Diagnostics() {
		if d.Code == "E4001" {
			payload := d.Structured.(map[string]any)
			if payload["effect"] == effects.Err {
				gotErrEffect = true
			}
		}
	}
	assert.True(t, gotErrEffect, "missing Err should be flagged even though IO is shared")
}

func TestEffects_TryRequiresErrInRow(t *testing.T) {
	_, rep := checkEffects(t, `
		external fn parse_int(s: Str) -> Err -> Int = "parseInt"
		fn no_err() -> Int { parse_int("1")? }
	`)
	assert.False(t, rep.Success())
	var found bool
	for _, d := range rep.Diagnostics() {
		if d.Code == "E4002" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEffects_TryPermittedWhenRowDeclaresErr(t *testing.T) {
	_, rep := checkEffects(t, `
		external fn parse_int(s: Str) -> Err -> Int = "parseInt"
		fn with_err() -> Err -> Int { parse_int("1")? }
	`)
	assert.True(t, rep.Success(), "diagnostics: %+v", rep.Diagnostics())
}

func TestEffects_AssignmentRequiresMutEffectOrLocalMut(t *testing.T) {
	_, rep := checkEffects(t, `
		fn f(x: Int) -> Unit {
			x = 1;
		}
	`)
	assert.False(t, rep.Success())
	var found bool
	for _, d := range rep.Diagnostics() {
		if d.Code == "E4001" {
			payload := d.Structured.(map[string]any)
			if payload["effect"] == effects.Mut {
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestEffects_AssignmentToLocalMutBindingIsAlwaysPermitted(t *testing.T) {
	_, rep := checkEffects(t, `
		fn f() -> Unit {
			let mut total = 0;
			total = total + 1;
		}
	`)
	assert.True(t, rep.Success(), "diagnostics: %+v", rep.Diagnostics())
}

func TestEffects_AssignmentPermittedWithDeclaredMutEffect(t *testing.T) {
	_, rep := checkEffects(t, `
		fn f(x: Int) -> Mut -> Unit {
			x = 1;
		}
	`)
	assert.True(t, rep.Success(), "diagnostics: %+v", rep.Diagnostics())
}

// spec.md §9 / DESIGN.md Open Question #2: the effect checker does not
// descend into a lambda body, so an effectful call hidden inside one is
// not flagged at the lambda's point of definition.
func TestEffects_LambdaBodyEffectsAreLatentNotCheckedAtDefinition(t *testing.T) {
	_, rep := checkEffects(t, `
		external fn println(msg: Str) -> IO -> Unit = "println"
		fn pure_fn() -> Unit {
			let emit = fn() -> Unit { println("hidden") };
		}
	`)
	assert.True(t, rep.Success(), "diagnostics: %+v", rep.Diagnostics())
}
