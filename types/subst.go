package types

// Substitution maps type-variable IDs to their solved types, built up by
// unification (spec.md §4.3 step 2). A nil/zero Substitution is the
// identity substitution.
type Substitution map[int]Type

// Apply recursively replaces every variable in t bound by s, following
// chains (a variable solved to another variable that is itself solved)
// until reaching a fixed point or an unbound variable.
func Apply(s Substitution, t Type) Type {
	switch t := t.(type) {
	case Var:
		if bound, ok := s[t.ID]; ok {
			return Apply(s, bound)
		}
		return t
	case App:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = Apply(s, a)
		}
		return App{Con: t.Con, Args: args}
	case Func:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = Apply(s, p)
		}
		return Func{Params: params, Return: Apply(s, t.Return), Effects: t.Effects}
	case Tuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = Apply(s, e)
		}
		return Tuple{Elems: elems}
	case Array:
		return Array{Elem: Apply(s, t.Elem)}
	case Record:
		fields := make([]RecordField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = RecordField{Name: f.Name, Type: Apply(s, f.Type)}
		}
		return Record{Fields: fields, Open: t.Open}
	case Refined:
		return Refined{Base: Apply(s, t.Base), VarName: t.VarName, Predicate: t.Predicate}
	default: // Con, Never carry no sub-types
		return t
	}
}

// Compose returns a substitution equivalent to applying s1 then s2 (s2
// is applied to s1's results, and any binding only in s2 is carried
// through unchanged).
func Compose(s1, s2 Substitution) Substitution {
	out := Substitution{}
	for id, t := range s1 {
		out[id] = Apply(s2, t)
	}
	for id, t := range s2 {
		if _, ok := out[id]; !ok {
			out[id] = t
		}
	}
	return out
}

// Occurs reports whether the variable with the given ID appears free in
// t, used by the unifier's occurs check to reject infinite types like
// `?0 = [?0]`.
func Occurs(id int, t Type) bool {
	switch t := t.(type) {
	case Var:
		return t.ID == id
	case App:
		for _, a := range t.Args {
			if Occurs(id, a) {
				return true
			}
		}
		return false
	case Func:
		for _, p := range t.Params {
			if Occurs(id, p) {
				return true
			}
		}
		return Occurs(id, t.Return)
	case Tuple:
		for _, e := range t.Elems {
			if Occurs(id, e) {
				return true
			}
		}
		return false
	case Array:
		return Occurs(id, t.Elem)
	case Record:
		for _, f := range t.Fields {
			if Occurs(id, f.Type) {
				return true
			}
		}
		return false
	case Refined:
		return Occurs(id, t.Base)
	default:
		return false
	}
}

// VarGen mints fresh type variables for one inference session (spec.md
// §3: "Type variables are fresh per inference session... not aliased
// across functions").
type VarGen struct{ next int }

// Fresh returns a new unnamed type variable.
func (g *VarGen) Fresh() Var {
	g.next++
	return Var{ID: g.next}
}

// FreshNamed returns a new type variable carrying name for diagnostics.
func (g *VarGen) FreshNamed(name string) Var {
	g.next++
	return Var{ID: g.next, Name: name}
}
