package refine_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emberlang/ember/refine"
)

func intLit(n int64) refine.Pred { return refine.IntLit{Value: big.NewInt(n)} }

func cmp(op refine.CmpOp, l, r refine.Pred) refine.Pred {
	return refine.Cmp{Op: op, Left: l, Right: r}
}

func TestSolver_DirectFactImplication(t *testing.T) {
	fs := refine.NewFactSet()
	fs.Add(cmp(refine.CmpGt, refine.Var{Name: "x"}, intLit(0)))
	goal := cmp(refine.CmpGt, refine.Var{Name: "x"}, intLit(0))
	assert.Equal(t, refine.Discharged, refine.Discharge(fs, goal))
}

func TestSolver_StrictBoundImpliesNonStrict(t *testing.T) {
	// x > 0 implies x >= 0.
	fs := refine.NewFactSet()
	fs.Add(cmp(refine.CmpGt, refine.Var{Name: "x"}, intLit(0)))
	goal := cmp(refine.CmpGe, refine.Var{Name: "x"}, intLit(0))
	assert.Equal(t, refine.Discharged, refine.Discharge(fs, goal))
}

func TestSolver_RefutesContradiction(t *testing.T) {
	fs := refine.NewFactSet()
	fs.Add(cmp(refine.CmpLt, refine.Var{Name: "x"}, intLit(0)))
	goal := cmp(refine.CmpGt, refine.Var{Name: "x"}, intLit(0))
	assert.Equal(t, refine.Refuted, refine.Discharge(fs, goal))
}

func TestSolver_OpenWhenUnrelated(t *testing.T) {
	fs := refine.NewFactSet()
	fs.Add(cmp(refine.CmpGt, refine.Var{Name: "y"}, intLit(0)))
	goal := cmp(refine.CmpGt, refine.Var{Name: "x"}, intLit(0))
	assert.Equal(t, refine.Open, refine.Discharge(fs, goal))
}

func TestSolver_LetBindingChaining(t *testing.T) {
	// S2: n >= 0, m = n + 1 ⊢ m > 0.
	fs := refine.NewFactSet()
	fs.Add(cmp(refine.CmpGe, refine.Var{Name: "n"}, intLit(0)))
	fs.AddLet("m", refine.Arith{Op: refine.ArithAdd, Left: refine.Var{Name: "n"}, Right: intLit(1)})
	goal := cmp(refine.CmpGt, refine.Var{Name: "m"}, intLit(0))
	assert.Equal(t, refine.Discharged, refine.Discharge(fs, goal))
}

func TestSolver_ArrayLenBoundsBuiltin(t *testing.T) {
	// S6: len(arr) > 0 ⊢ 0 < len(arr).
	fs := refine.NewFactSet()
	arrLen := refine.Call{Name: "len", Args: []refine.Pred{refine.Var{Name: "arr"}}}
	fs.Add(cmp(refine.CmpGt, arrLen, intLit(0)))
	goal := cmp(refine.CmpLt, intLit(0), arrLen)
	assert.Equal(t, refine.Discharged, refine.Discharge(fs, goal))
}

func TestSolver_IndexBoundsDischargedFromLenFact(t *testing.T) {
	// arr[i] requires i >= 0 && i < len(arr); given i == 0 and len(arr) > 0.
	fs := refine.NewFactSet()
	arrLen := refine.Call{Name: "len", Args: []refine.Pred{refine.Var{Name: "arr"}}}
	fs.Add(cmp(refine.CmpGt, arrLen, intLit(0)))
	fs.AddLet("i", intLit(0))

	lower := cmp(refine.CmpGe, refine.Var{Name: "i"}, intLit(0))
	upper := cmp(refine.CmpLt, refine.Var{Name: "i"}, arrLen)
	goal := refine.And{Left: lower, Right: upper}
	assert.Equal(t, refine.Discharged, refine.Discharge(fs, goal))
}

func TestSolver_ConjunctionRefutesIfEitherSideRefutes(t *testing.T) {
	fs := refine.NewFactSet()
	fs.Add(cmp(refine.CmpLt, refine.Var{Name: "x"}, intLit(0)))
	goal := refine.And{
		Left:  cmp(refine.CmpGt, refine.Var{Name: "x"}, intLit(0)),
		Right: cmp(refine.CmpGt, refine.Var{Name: "x"}, intLit(-10)),
	}
	assert.Equal(t, refine.Refuted, refine.Discharge(fs, goal))
}

func TestSolver_DisjunctionFactsAreNotConsumed(t *testing.T) {
	// spec.md §9: the linear solver never consumes Or-shaped facts.
	fs := refine.NewFactSet()
	fs.Add(refine.Or{
		Left:  cmp(refine.CmpGt, refine.Var{Name: "x"}, intLit(0)),
		Right: cmp(refine.CmpLt, refine.Var{Name: "x"}, intLit(-100)),
	})
	goal := cmp(refine.CmpGt, refine.Var{Name: "x"}, intLit(0))
	assert.Equal(t, refine.Open, refine.Discharge(fs, goal))
}

func TestSolver_TrueAndFalseSentinels(t *testing.T) {
	fs := refine.NewFactSet()
	assert.Equal(t, refine.Discharged, refine.Discharge(fs, refine.True))
	assert.Equal(t, refine.Refuted, refine.Discharge(fs, refine.False))
	assert.Equal(t, refine.Open, refine.Discharge(fs, refine.Unknown))
}

func TestSolver_LiteralComparisonEvaluatesDirectly(t *testing.T) {
	fs := refine.NewFactSet()
	assert.Equal(t, refine.Discharged, refine.Discharge(fs, cmp(refine.CmpLt, intLit(1), intLit(2))))
	assert.Equal(t, refine.Refuted, refine.Discharge(fs, cmp(refine.CmpLt, intLit(2), intLit(1))))
}

// Determinism: Discharge must be order-independent over the fact set
// (spec.md §4.4 "purely a function of the obligation and fact sets... must
// be order-independent").
func TestSolver_OrderIndependent(t *testing.T) {
	goal := cmp(refine.CmpGt, refine.Var{Name: "x"}, intLit(0))

	fsA := refine.NewFactSet()
	fsA.Add(cmp(refine.CmpGe, refine.Var{Name: "x"}, intLit(1)))
	fsA.Add(cmp(refine.CmpLt, refine.Var{Name: "y"}, intLit(100)))

	fsB := refine.NewFactSet()
	fsB.Add(cmp(refine.CmpLt, refine.Var{Name: "y"}, intLit(100)))
	fsB.Add(cmp(refine.CmpGe, refine.Var{Name: "x"}, intLit(1)))

	assert.Equal(t, refine.Discharge(fsA, goal), refine.Discharge(fsB, goal))
}

func TestFreeVars_SortedAndDeduplicated(t *testing.T) {
	p := refine.And{
		Left:  cmp(refine.CmpGt, refine.Var{Name: "b"}, refine.Var{Name: "a"}),
		Right: cmp(refine.CmpLt, refine.Var{Name: "a"}, refine.Var{Name: "c"}),
	}
	assert.Equal(t, []string{"a", "b", "c"}, refine.FreeVars(p))
}

func TestSubstitute_ReplacesFreeOccurrencesOnly(t *testing.T) {
	p := cmp(refine.CmpGt, refine.Var{Name: "x"}, intLit(0))
	out := refine.Substitute(p, "x", refine.Var{Name: "result"})
	assert.Equal(t, "(result > 0)", out.String())
}
