package checker

import "github.com/emberlang/ember/types"

// unify implements the ordinary occurs-checked syntactic unifier of
// spec.md §4.3 step 2: refined types unify by unifying their base types
// (predicates never participate), applied types unify constructor name
// and arg-by-arg, function types unify parameter-list length, each
// parameter, and the return type (effect rows are the effect checker's
// concern, not unification's — a mismatch there never blocks
// unification).
func unify(s types.Substitution, a, b types.Type) (types.Substitution, bool) {
	a = types.Apply(s, a)
	b = types.Apply(s, b)

	if r, ok := a.(types.Refined); ok {
		a = r.Base
	}
	if r, ok := b.(types.Refined); ok {
		b = r.Base
	}

	switch a := a.(type) {
	case types.Never:
		return s, true
	case types.Var:
		return bindVar(s, a, b)
	}
	if _, ok := b.(types.Never); ok {
		return s, true
	}
	if bv, ok := b.(types.Var); ok {
		return bindVar(s, bv, a)
	}

	switch a := a.(type) {
	case types.Con:
		b, ok := b.(types.Con)
		return s, ok && a.Name == b.Name
	case types.App:
		b, ok := b.(types.App)
		if !ok || a.Con != b.Con || len(a.Args) != len(b.Args) {
			return s, false
		}
		return unifyAll(s, a.Args, b.Args)
	case types.Tuple:
		b, ok := b.(types.Tuple)
		if !ok || len(a.Elems) != len(b.Elems) {
			return s, false
		}
		return unifyAll(s, a.Elems, b.Elems)
	case types.Array:
		b, ok := b.(types.Array)
		if !ok {
			return s, false
		}
		return unify(s, a.Elem, b.Elem)
	case types.Func:
		b, ok := b.(types.Func)
		if !ok || len(a.Params) != len(b.Params) {
			return s, false
		}
		s2, ok := unifyAll(s, a.Params, b.Params)
		if !ok {
			return s, false
		}
		return unify(s2, a.Return, b.Return)
	case types.Record:
		b, ok := b.(types.Record)
		if !ok {
			return s, false
		}
		return unifyRecords(s, a, b)
	}
	return s, false
}

func unifyAll(s types.Substitution, as, bs []types.Type) (types.Substitution, bool) {
	for i := range as {
		var ok bool
		s, ok = unify(s, as[i], bs[i])
		if !ok {
			return s, false
		}
	}
	return s, true
}

// unifyRecords requires every field named in the closed record to be
// present (by name) with a unifiable type in the other side; an open
// record tolerates the other side having extra fields it doesn't name.
func unifyRecords(s types.Substitution, a, b types.Record) (types.Substitution, bool) {
	bFields := map[string]types.Type{}
	for _, f := range b.Fields {
		bFields[f.Name] = f.Type
	}
	for _, f := range a.Fields {
		bt, ok := bFields[f.Name]
		if !ok {
			if a.Open || b.Open {
				continue
			}
			return s, false
		}
		var ok2 bool
		s, ok2 = unify(s, f.Type, bt)
		if !ok2 {
			return s, false
		}
	}
	if !a.Open && !b.Open && len(a.Fields) != len(b.Fields) {
		return s, false
	}
	return s, true
}

func bindVar(s types.Substitution, v types.Var, t types.Type) (types.Substitution, bool) {
	if other, ok := t.(types.Var); ok && other.ID == v.ID {
		return s, true
	}
	if types.Occurs(v.ID, t) {
		return s, false
	}
	out := types.Substitution{}
	for k, val := range s {
		out[k] = val
	}
	out[v.ID] = t
	return out, true
}
