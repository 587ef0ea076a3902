// Package types represents semantic types, as distinct from the
// ast.TypeExpr syntax the parser produces (spec.md §3 "Semantic types").
// It also holds the lexical scope chain ("Type context") used to resolve
// names during checking.
package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emberlang/ember/refine"
)

// Type is a semantic type: type-variable, type-constructor, type-
// application, function (with an effect row), tuple, array, record
// (open/closed), refined, or never — the closed set named in spec.md §3.
type Type interface {
	isType()
	String() string
}

// Var is a type variable, fresh or named. Two Vars are the same
// variable iff their ID matches; Name is advisory (used only for
// readable error messages) and plays no role in equality.
type Var struct {
	ID   int
	Name string
}

func (Var) isType() {}
func (v Var) String() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("?%d", v.ID)
}

// Con is a nullary type constructor: a built-in (Int, Nat, Float, Bool,
// Str, Unit) or a user-defined type with no type parameters.
type Con struct{ Name string }

func (Con) isType()          {}
func (c Con) String() string { return c.Name }

// App is a type constructor applied to argument types, e.g. Option<Int>
// or a user generic record/sum instantiated with concrete arguments.
type App struct {
	Con  string
	Args []Type
}

func (App) isType() {}
func (a App) String() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s<%s>", a.Con, strings.Join(parts, ", "))
}

// Func is a function type: parameter types, a return type, and its
// declared effect row (spec.md §3: "Effects are stored directly on
// function types as a string set over {IO, Err, Async, Mut}").
type Func struct {
	Params  []Type
	Return  Type
	Effects []string // sorted, de-duplicated
}

func (Func) isType() {}
func (f Func) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	row := ""
	if len(f.Effects) > 0 {
		row = strings.Join(f.Effects, "+") + " "
	}
	return fmt.Sprintf("(%s) -> %s%s", strings.Join(parts, ", "), row, f.Return)
}

// HasEffect reports whether name is in f's declared effect row.
func (f Func) HasEffect(name string) bool {
	for _, e := range f.Effects {
		if e == name {
			return true
		}
	}
	return false
}

// SortEffects returns effects sorted and de-duplicated, the canonical
// form every Func.Effects value is stored in.
func SortEffects(effects []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range effects {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	sort.Strings(out)
	return out
}

// Tuple is a fixed-arity product type.
type Tuple struct{ Elems []Type }

func (Tuple) isType() {}
func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// Array is a homogeneous sequence type `[T]`.
type Array struct{ Elem Type }

func (Array) isType()          {}
func (a Array) String() string { return fmt.Sprintf("[%s]", a.Elem) }

// RecordField is one name/type pair of a Record, in declaration order.
type RecordField struct {
	Name string
	Type Type
}

// Record is a structural record type; Open records admit extra,
// unlisted fields (spec.md §3).
type Record struct {
	Fields []RecordField
	Open   bool
}

func (Record) isType() {}
func (r Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	if r.Open {
		parts = append(parts, "..")
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// FieldType returns the type of the named field, if declared.
func (r Record) FieldType(name string) (Type, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// Refined is a base semantic type narrowed by a predicate; it unifies
// with its Base (spec.md §3: "any value of a refined type is a value of
// its base type").
type Refined struct {
	Base      Type
	VarName   string
	Predicate refine.Pred
}

func (Refined) isType() {}
func (r Refined) String() string {
	return fmt.Sprintf("%s{%s | %s}", r.Base, r.VarName, r.Predicate)
}

// Never is the uninhabited type, assigned to expressions that cannot
// produce a value (used as a placeholder after an unrecoverable local
// type error so checking can continue).
type Never struct{}

func (Never) isType()          {}
func (Never) String() string   { return "Never" }

// Base unwraps any number of Refined layers to the underlying
// non-refined type; every other variant is its own base.
func Base(t Type) Type {
	for {
		r, ok := t.(Refined)
		if !ok {
			return t
		}
		t = r.Base
	}
}

// Builtin nullary type constructor names, resolved directly by the
// checker without a context lookup (spec.md §4.3).
const (
	IntName   = "Int"
	NatName   = "Nat"
	FloatName = "Float"
	BoolName  = "Bool"
	StrName   = "Str"
	UnitName  = "Unit"
)

// WellKnownGenerics are the closed set of built-in generic constructors
// the checker resolves without a user declaration (spec.md §4.3).
var WellKnownGenerics = map[string]int{
	"Option": 1,
	"Result": 2,
	"Map":    2,
	"Set":    1,
	"IO":     1,
	"Async":  1,
	"Err":    1,
	"Mut":    1,
}
