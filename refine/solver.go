package refine

// Result is the outcome of discharging one obligation against a FactSet:
// Discharged (proven true), Refuted (proven false — a genuine type
// error), or Open (neither proven nor disproven — the solver's
// incompleteness showing through, reported as a warning rather than an
// error per spec.md §4.4 step 5).
type Result int

const (
	Discharged Result = iota
	Refuted
	Open
)

func (r Result) String() string {
	switch r {
	case Discharged:
		return "discharged"
	case Refuted:
		return "refuted"
	default:
		return "open"
	}
}

// Obligation pairs a predicate that must hold with the span it came
// from (a call argument, a return expression, a match scrutinee), for
// reporting.
type Obligation struct {
	Predicate Pred
	Reason    string // human-readable origin, e.g. "argument to requires_positive"
}

// Discharge attempts to prove goal from the facts accumulated in fs,
// per spec.md §4.4 steps 1-5:
//  1. substitute let-bound variables into goal,
//  2. put every arithmetic term in canonical linear form,
//  3. split conjunctions and literal constants off directly,
//  4. search facts with the same canonical variable part for a
//     one-variable Fourier-Motzkin-lite implication,
//  5. fall back to a small built-in bounds library (len(x) >= 0).
func Discharge(fs *FactSet, goal Pred) Result {
	goal = fs.resolveLets(goal)

	switch g := goal.(type) {
	case And:
		left := Discharge(fs, g.Left)
		if left == Refuted {
			return Refuted
		}
		right := Discharge(fs, g.Right)
		if right == Refuted {
			return Refuted
		}
		if left == Discharged && right == Discharged {
			return Discharged
		}
		return Open
	case sentinel:
		switch g {
		case True:
			return Discharged
		case False:
			return Refuted
		default:
			return Open
		}
	}

	cmp, ok := goal.(Cmp)
	if !ok {
		return Open // Or, Not, Call-as-boolean: outside the solver's fragment
	}
	gn, ok := normalizeCmp(cmp)
	if !ok {
		return Open
	}

	if len(nonZeroKeys(gn.expr)) == 0 {
		if evalConstBound(gn.op, gn.bound) {
			return Discharged
		}
		return Refuted
	}
	gKey := coeffKey(gn.expr)

	candidates := fs.All()
	candidates = append(candidates, builtinFacts(goal)...)

	for _, f := range candidates {
		f = fs.resolveLets(f)
		fc, ok := f.(Cmp)
		if !ok {
			continue
		}
		fn, ok := normalizeCmp(fc)
		if !ok {
			continue
		}
		if coeffKey(fn.expr) != gKey {
			continue
		}
		if implies(fn.op, fn.bound, gn.op, gn.bound) {
			return Discharged
		}
	}

	negOp := gn.op.Negate()
	for _, f := range candidates {
		f = fs.resolveLets(f)
		fc, ok := f.(Cmp)
		if !ok {
			continue
		}
		fn, ok := normalizeCmp(fc)
		if !ok {
			continue
		}
		if coeffKey(fn.expr) != gKey {
			continue
		}
		if implies(fn.op, fn.bound, negOp, gn.bound) {
			return Refuted
		}
	}

	return Open
}

// builtinFacts returns the small library of facts the solver always
// assumes, per spec.md §4.4 step 5: every `len(...)` term mentioned in
// the goal is non-negative.
func builtinFacts(goal Pred) []Pred {
	var out []Pred
	var walk func(Pred)
	seen := map[string]bool{}
	walk = func(p Pred) {
		switch p := p.(type) {
		case Call:
			if p.Name == "len" && !seen[p.String()] {
				seen[p.String()] = true
				out = append(out, Cmp{Op: CmpGe, Left: p, Right: IntLit{Value: bigZero()}})
			}
			for _, a := range p.Args {
				walk(a)
			}
		case And:
			walk(p.Left)
			walk(p.Right)
		case Or:
			walk(p.Left)
			walk(p.Right)
		case Not:
			walk(p.Operand)
		case Cmp:
			walk(p.Left)
			walk(p.Right)
		case Field:
			walk(p.Receiver)
		case Arith:
			walk(p.Left)
			walk(p.Right)
		}
	}
	walk(goal)
	return out
}
