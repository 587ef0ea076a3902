package types

import "github.com/tidwall/btree"

// Context is a lexical scope frame: value bindings, type definitions,
// and type-parameter bindings, chained to an explicit parent (spec.md §9
// "Type contexts form a lexical parent chain"). Bindings use a
// btree.Map so a scope's own entries can be walked in deterministic
// order without a separate sort step, matching the determinism
// requirement that threads through the rest of this module.
type Context struct {
	parent *Context

	values     btree.Map[string, Type]
	typeDefs   btree.Map[string, TypeDef]
	typeParams btree.Map[string, Type]
}

// NewContext returns a fresh root context with no parent, seeded with
// the built-in nullary type constructors.
func NewContext() *Context {
	c := &Context{}
	for _, name := range []string{IntName, NatName, FloatName, BoolName, StrName, UnitName} {
		c.typeDefs.Set(name, nil) // presence-only marker; builtins resolve directly, not through TypeDef
	}
	return c
}

// Child returns a new scope nested under c.
func (c *Context) Child() *Context {
	return &Context{parent: c}
}

// Bind records a value binding (function parameter, let-bound name, for
// loop variable, match-arm pattern binding) in this scope.
func (c *Context) Bind(name string, t Type) {
	c.values.Set(name, t)
}

// Lookup walks the parent chain for a value binding.
func (c *Context) Lookup(name string) (Type, bool) {
	for s := c; s != nil; s = s.parent {
		if t, ok := s.values.Get(name); ok {
			return t, true
		}
	}
	return nil, false
}

// DefineType records a user type definition (record, sum, alias) in
// this scope. Definitions are conventionally added only at the root
// (module) scope, but nested scopes are permitted for local type
// aliases.
func (c *Context) DefineType(name string, def TypeDef) {
	c.typeDefs.Set(name, def)
}

// LookupType walks the parent chain for a type definition. The second
// return distinguishes "not found" from "found, but it's a built-in
// with no TypeDef" (def == nil, ok == true).
func (c *Context) LookupType(name string) (TypeDef, bool) {
	for s := c; s != nil; s = s.parent {
		if def, ok := s.typeDefs.Get(name); ok {
			return def, true
		}
	}
	return nil, false
}

// BindTypeParam records a generic function or type's type-parameter
// binding (e.g. `T` while checking inside `fn identity<T>(x: T) -> T`).
func (c *Context) BindTypeParam(name string, t Type) {
	c.typeParams.Set(name, t)
}

// LookupTypeParam walks the parent chain for a type-parameter binding.
func (c *Context) LookupTypeParam(name string) (Type, bool) {
	for s := c; s != nil; s = s.parent {
		if t, ok := s.typeParams.Get(name); ok {
			return t, true
		}
	}
	return nil, false
}
