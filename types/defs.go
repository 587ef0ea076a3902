package types

// TypeDef is a user-level type definition bound into a Context: a
// record, a sum, or an alias (spec.md §3 declaration variants).
type TypeDef interface {
	isTypeDef()
	TypeName() string
	Params() []string
}

// RecordDef is the resolved form of an ast.RecordDecl: field types may
// still mention the declaration's own TypeParams as bare Con names,
// substituted by the checker at each instantiation site.
type RecordDef struct {
	Name       string
	TypeParams []string
	Fields     []RecordField
	Open       bool
}

func (RecordDef) isTypeDef()            {}
func (d RecordDef) TypeName() string    { return d.Name }
func (d RecordDef) Params() []string    { return d.TypeParams }

// VariantDef is one constructor case of a SumDef. FieldNames entries are
// "" for positional payload fields (spec.md §3: "optional positional or
// named payload fields").
type VariantDef struct {
	Name       string
	FieldNames []string
	FieldTypes []Type
}

// SumDef is the resolved form of an ast.SumDecl.
type SumDef struct {
	Name       string
	TypeParams []string
	Variants   []VariantDef
}

func (SumDef) isTypeDef()         {}
func (d SumDef) TypeName() string { return d.Name }
func (d SumDef) Params() []string { return d.TypeParams }

// Variant looks up one of d's variants by name.
func (d SumDef) Variant(name string) (VariantDef, bool) {
	for _, v := range d.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return VariantDef{}, false
}

// AliasDef is the resolved form of an ast.TypeAliasDecl.
type AliasDef struct {
	Name       string
	TypeParams []string
	Type       Type
}

func (AliasDef) isTypeDef()         {}
func (d AliasDef) TypeName() string { return d.Name }
func (d AliasDef) Params() []string { return d.TypeParams }

// Instantiate substitutes def's type parameters with args (positionally)
// throughout t, used to resolve a generic record/sum/alias at an applied
// use site (spec.md §4.3 "Variant resolution": "substitute the
// declaration's type parameters with args to obtain payload types").
func Instantiate(params []string, args []Type, t Type) Type {
	if len(params) == 0 {
		return t
	}
	bind := map[string]Type{}
	for i, p := range params {
		if i < len(args) {
			bind[p] = args[i]
		}
	}
	return substituteNames(bind, t)
}

func substituteNames(bind map[string]Type, t Type) Type {
	switch t := t.(type) {
	case Con:
		if repl, ok := bind[t.Name]; ok {
			return repl
		}
		return t
	case App:
		newArgs := make([]Type, len(t.Args))
		for i, a := range t.Args {
			newArgs[i] = substituteNames(bind, a)
		}
		return App{Con: t.Con, Args: newArgs}
	case Func:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = substituteNames(bind, p)
		}
		return Func{Params: params, Return: substituteNames(bind, t.Return), Effects: t.Effects}
	case Tuple:
		elems := make([]Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = substituteNames(bind, e)
		}
		return Tuple{Elems: elems}
	case Array:
		return Array{Elem: substituteNames(bind, t.Elem)}
	case Record:
		fields := make([]RecordField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = RecordField{Name: f.Name, Type: substituteNames(bind, f.Type)}
		}
		return Record{Fields: fields, Open: t.Open}
	case Refined:
		return Refined{Base: substituteNames(bind, t.Base), VarName: t.VarName, Predicate: t.Predicate}
	default:
		return t
	}
}

// InstantiateVariant substitutes def's enclosing sum TypeParams with args
// throughout one variant's field types.
func InstantiateVariant(sumParams []string, args []Type, v VariantDef) []Type {
	out := make([]Type, len(v.FieldTypes))
	for i, ft := range v.FieldTypes {
		out[i] = Instantiate(sumParams, args, ft)
	}
	return out
}
