package refine

import "github.com/tidwall/btree"

// FactSet is the accumulated fact environment the solver discharges
// obligations against: parameter refinements, nested if-condition facts
// (and their negations), and let-binding equalities (spec.md §4.4).
//
// Facts are keyed by their canonical string form in a btree.Map so that
// iteration order is always the same regardless of insertion order,
// satisfying the determinism requirement in spec.md §4.4 ("sort facts
// canonically before combination") without a separate sort step.
type FactSet struct {
	facts btree.Map[string, Pred]
	// lets holds the symbolic definition of each let-bound variable, used
	// by Substitute to chain reasoning through intermediate bindings
	// (spec.md §4.4 "let-binding equalities").
	lets btree.Map[string, Pred]
}

// NewFactSet returns an empty FactSet.
func NewFactSet() *FactSet { return &FactSet{} }

// Add inserts a fact (deduplicating on its canonical string form) and
// returns the same set for chaining.
func (fs *FactSet) Add(p Pred) *FactSet {
	fs.facts.Set(p.String(), p)
	return fs
}

// AddLet records the symbolic definition `name = value` used to resolve
// chained arithmetic, per spec.md §4.3 "Let binding facts".
func (fs *FactSet) AddLet(name string, value Pred) *FactSet {
	fs.lets.Set(name, value)
	return fs
}

// Clone returns an independent copy of fs, used when entering a nested
// scope (e.g. an if-branch) that should not leak facts back to its
// parent once the branch exits.
func (fs *FactSet) Clone() *FactSet {
	out := NewFactSet()
	fs.facts.Scan(func(k string, v Pred) bool {
		out.facts.Set(k, v)
		return true
	})
	fs.lets.Scan(func(k string, v Pred) bool {
		out.lets.Set(k, v)
		return true
	})
	return out
}

// All returns every fact in fs in canonical (sorted-key) order.
func (fs *FactSet) All() []Pred {
	var out []Pred
	fs.facts.Scan(func(_ string, v Pred) bool {
		out = append(out, v)
		return true
	})
	return out
}

// LetValue returns the symbolic definition of name, if any was recorded
// via AddLet.
func (fs *FactSet) LetValue(name string) (Pred, bool) {
	return fs.lets.Get(name)
}

// resolveLets repeatedly substitutes let-bound variables in p with their
// recorded symbolic definitions, so that e.g. `let m = n + 1` lets a goal
// mentioning `m` be checked against facts about `n` (spec.md §4.4 step 1,
// "Substitution").
func (fs *FactSet) resolveLets(p Pred) Pred {
	const maxDepth = 32 // guards against a pathological/cyclic let chain
	for i := 0; i < maxDepth; i++ {
		changed := false
		for _, name := range FreeVars(p) {
			if def, ok := fs.lets.Get(name); ok {
				p = Substitute(p, name, def)
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return p
}
