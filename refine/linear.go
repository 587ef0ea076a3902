package refine

import (
	"math/big"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

// LinExpr is a canonical linear expression Σ cᵢ·xᵢ + k over the rationals,
// per spec.md §4.4 step 2 ("put each arithmetic term in a canonical
// linear form"). Coeffs maps an atomic term's canonical string (a
// variable name, or the String() of an opaque term like `len(arr)` or
// `point.x`) to its rational coefficient; zero coefficients are always
// pruned so two LinExprs with the same non-zero terms compare equal by
// their sorted key listing.
type LinExpr struct {
	Coeffs map[string]*big.Rat
	Const  *big.Rat
}

func ratInt(i int64) *big.Rat { return new(big.Rat).SetInt64(i) }

func newLinExpr() *LinExpr {
	return &LinExpr{Coeffs: map[string]*big.Rat{}, Const: ratInt(0)}
}

func constLinExpr(v *big.Rat) *LinExpr {
	e := newLinExpr()
	e.Const = v
	return e
}

func atomLinExpr(key string) *LinExpr {
	e := newLinExpr()
	e.Coeffs[key] = ratInt(1)
	return e
}

func addLin(a, b *LinExpr, sign int64) *LinExpr {
	out := newLinExpr()
	out.Const = new(big.Rat).Add(a.Const, new(big.Rat).Mul(b.Const, ratInt(sign)))
	for k, v := range a.Coeffs {
		out.Coeffs[k] = new(big.Rat).Set(v)
	}
	for k, v := range b.Coeffs {
		scaled := new(big.Rat).Mul(v, ratInt(sign))
		if cur, ok := out.Coeffs[k]; ok {
			out.Coeffs[k] = new(big.Rat).Add(cur, scaled)
		} else {
			out.Coeffs[k] = scaled
		}
	}
	for k, v := range out.Coeffs {
		if v.Sign() == 0 {
			delete(out.Coeffs, k)
		}
	}
	return out
}

func scaleLin(a *LinExpr, factor *big.Rat) *LinExpr {
	out := newLinExpr()
	out.Const = new(big.Rat).Mul(a.Const, factor)
	for k, v := range a.Coeffs {
		scaled := new(big.Rat).Mul(v, factor)
		if scaled.Sign() != 0 {
			out.Coeffs[k] = scaled
		}
	}
	return out
}

// linearize attempts to express an arithmetic Pred as a LinExpr. It
// succeeds for literals, variables, opaque atomic terms (calls, field
// accesses — treated as uninterpreted symbols), and +/-/scalar */÷
// combinations of those; it fails (ok=false) for anything genuinely
// non-linear (a variable multiplied by a variable, mod, boolean/logical
// shapes), matching spec.md §4.4's "incomplete but sound" discharge.
func linearize(p Pred) (*LinExpr, bool) {
	switch p := p.(type) {
	case IntLit:
		return constLinExpr(new(big.Rat).SetInt(p.Value)), true
	case Var:
		return atomLinExpr(p.String()), true
	case Call:
		return atomLinExpr(p.String()), true
	case Field:
		return atomLinExpr(p.String()), true
	case Arith:
		left, ok := linearize(p.Left)
		if !ok {
			return nil, false
		}
		right, ok := linearize(p.Right)
		if !ok {
			return nil, false
		}
		switch p.Op {
		case ArithAdd:
			return addLin(left, right, 1), true
		case ArithSub:
			return addLin(left, right, -1), true
		case ArithMul:
			if isConst(left) {
				return scaleLin(right, left.Const), true
			}
			if isConst(right) {
				return scaleLin(left, right.Const), true
			}
			return nil, false
		case ArithDiv:
			if isConst(right) && right.Const.Sign() != 0 {
				inv := new(big.Rat).Inv(right.Const)
				return scaleLin(left, inv), true
			}
			return nil, false
		default: // ArithMod is never linear
			return nil, false
		}
	default:
		return nil, false
	}
}

func isConst(e *LinExpr) bool { return len(e.Coeffs) == 0 }

// nonZeroKeys returns e's coefficient keys in sorted order.
func nonZeroKeys(e *LinExpr) []string {
	keys := make([]string, 0, len(e.Coeffs))
	for k := range e.Coeffs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// coeffKey returns a canonical string identifying e's variable part,
// ignoring its constant term, so two LinExprs with identical non-zero
// coefficients (after sign canonicalization) compare equal.
func coeffKey(e *LinExpr) string {
	var b strings.Builder
	for _, k := range nonZeroKeys(e) {
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(e.Coeffs[k].RatString())
		b.WriteByte(';')
	}
	return b.String()
}

// normalized is a canonicalized comparison `L ⋈ bound`, where L is e's
// variable part with its leading coefficient forced positive (flipping
// the operator and negating bound when the original leading coefficient
// was negative), matching spec.md §4.4 step 2's canonical form.
type normalized struct {
	expr  *LinExpr // variable part only; Const is always zero
	op    CmpOp
	bound *big.Rat
}

func normalizeCmp(c Cmp) (normalized, bool) {
	l, ok := linearize(c.Left)
	if !ok {
		return normalized{}, false
	}
	r, ok := linearize(c.Right)
	if !ok {
		return normalized{}, false
	}
	diff := addLin(l, r, -1)
	bound := new(big.Rat).Neg(diff.Const)
	op := c.Op

	keys := nonZeroKeys(diff)
	if len(keys) > 0 && diff.Coeffs[keys[0]].Sign() < 0 {
		neg := scaleLin(&LinExpr{Coeffs: diff.Coeffs, Const: ratInt(0)}, ratInt(-1))
		diff = &LinExpr{Coeffs: neg.Coeffs, Const: ratInt(0)}
		bound = new(big.Rat).Neg(bound)
		op = flipOp(op)
	} else {
		diff = &LinExpr{Coeffs: diff.Coeffs, Const: ratInt(0)}
	}
	return normalized{expr: diff, op: op, bound: bound}, true
}

func flipOp(op CmpOp) CmpOp {
	switch op {
	case CmpLt:
		return CmpGt
	case CmpLe:
		return CmpGe
	case CmpGt:
		return CmpLt
	case CmpGe:
		return CmpLe
	default:
		return op
	}
}

// implies reports whether fact `L fOp fBound` universally entails goal
// `L gOp gBound` for the *same* L (same canonical variable part),
// following the one-variable Fourier-Motzkin-lite reasoning of spec.md
// §4.4 step 4.
func implies(fOp CmpOp, fBound *big.Rat, gOp CmpOp, gBound *big.Rat) bool {
	cmp := fBound.Cmp(gBound) // -1 fBound<gBound, 0 equal, 1 fBound>gBound
	switch fOp {
	case CmpGe:
		switch gOp {
		case CmpGe:
			return cmp >= 0
		case CmpGt:
			return cmp > 0
		}
	case CmpGt:
		switch gOp {
		case CmpGe, CmpGt:
			return cmp >= 0
		}
	case CmpLe:
		switch gOp {
		case CmpLe:
			return cmp <= 0
		case CmpLt:
			return cmp < 0
		}
	case CmpLt:
		switch gOp {
		case CmpLe, CmpLt:
			return cmp <= 0
		}
	case CmpEq:
		switch gOp {
		case CmpEq:
			return cmp == 0
		case CmpGe:
			return cmp >= 0
		case CmpGt:
			return cmp > 0
		case CmpLe:
			return cmp <= 0
		case CmpLt:
			return cmp < 0
		case CmpNeq:
			return cmp != 0
		}
	}
	return false
}

// evalConstBound evaluates the degenerate comparison `0 ⋈ bound`, used
// when a goal or fact's variable part cancels entirely (e.g. two literal
// integers, or a let-chain that fully resolves to constants).
func evalConstBound(op CmpOp, bound *big.Rat) bool {
	sign := bound.Sign()
	switch op {
	case CmpEq:
		return sign == 0
	case CmpNeq:
		return sign != 0
	case CmpLt:
		return sign > 0
	case CmpLe:
		return sign >= 0
	case CmpGt:
		return sign < 0
	case CmpGe:
		return sign <= 0
	default:
		return false
	}
}

// boundedInt is a tiny generic helper (grounded on the teacher corpus's
// direct use of golang.org/x/exp/constraints in internal/interval): it
// reports whether v lies in the closed range [lo, hi]. Nothing in this
// package calls it.
func boundedInt[T constraints.Integer](v, lo, hi T) bool {
	return v >= lo && v <= hi
}
