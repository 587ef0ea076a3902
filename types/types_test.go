package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/types"
)

// NewContext seeds the built-in nullary constructors as presence-only
// markers: found with a nil TypeDef, not "not found" (spec.md §4.3).
func TestContext_BuiltinsArePresenceOnlyMarkers(t *testing.T) {
	ctx := types.NewContext()
	for _, name := range []string{types.IntName, types.NatName, types.FloatName, types.BoolName, types.StrName, types.UnitName} {
		def, ok := ctx.LookupType(name)
		assert.True(t, ok, "%s must be found", name)
		assert.Nil(t, def, "%s is a builtin with no TypeDef", name)
	}
	_, ok := ctx.LookupType("NoSuchType")
	assert.False(t, ok)
}

func TestContext_BindAndLookupValue(t *testing.T) {
	ctx := types.NewContext()
	ctx.Bind("x", types.Con{Name: types.IntName})

	got, ok := ctx.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, types.Con{Name: types.IntName}, got)

	_, ok = ctx.Lookup("y")
	assert.False(t, ok)
}

func TestContext_ChildSeesParentBindings(t *testing.T) {
	root := types.NewContext()
	root.Bind("x", types.Con{Name: types.IntName})
	child := root.Child()

	got, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, types.Con{Name: types.IntName}, got)
}

// A child's own binding shadows the parent's for the same name without
// mutating the parent's scope.
func TestContext_ChildShadowsParentBinding(t *testing.T) {
	root := types.NewContext()
	root.Bind("x", types.Con{Name: types.IntName})
	child := root.Child()
	child.Bind("x", types.Con{Name: types.BoolName})

	got, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, types.Con{Name: types.BoolName}, got)

	rootGot, ok := root.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, types.Con{Name: types.IntName}, rootGot)
}

func TestContext_DefineAndLookupUserType(t *testing.T) {
	ctx := types.NewContext()
	def := types.RecordDef{Name: "Point", Fields: []types.RecordField{
		{Name: "x", Type: types.Con{Name: types.IntName}},
		{Name: "y", Type: types.Con{Name: types.IntName}},
	}}
	ctx.DefineType("Point", def)

	got, ok := ctx.LookupType("Point")
	require.True(t, ok)
	assert.Equal(t, def, got)
}

func TestContext_TypeParamBindingWalksParentChain(t *testing.T) {
	root := types.NewContext()
	root.BindTypeParam("T", types.Var{ID: 1, Name: "T"})
	child := root.Child()

	got, ok := child.LookupTypeParam("T")
	require.True(t, ok)
	assert.Equal(t, types.Var{ID: 1, Name: "T"}, got)

	_, ok = child.LookupTypeParam("U")
	assert.False(t, ok)
}

func TestApply_ResolvesChainOfBoundVariables(t *testing.T) {
	v0 := types.Var{ID: 0}
	v1 := types.Var{ID: 1}
	s := types.Substitution{
		0: v1,
		1: types.Con{Name: types.IntName},
	}
	assert.Equal(t, types.Con{Name: types.IntName}, types.Apply(s, v0))
}

func TestApply_LeavesUnboundVariableUntouched(t *testing.T) {
	v := types.Var{ID: 9}
	assert.Equal(t, v, types.Apply(types.Substitution{}, v))
	assert.Equal(t, v, types.Apply(nil, v))
}

func TestApply_RecursesThroughCompoundTypes(t *testing.T) {
	v := types.Var{ID: 0}
	s := types.Substitution{0: types.Con{Name: types.IntName}}

	fn := types.Func{Params: []types.Type{v}, Return: types.Array{Elem: v}, Effects: []string{"IO"}}
	got := types.Apply(s, fn).(types.Func)
	assert.Equal(t, types.Con{Name: types.IntName}, got.Params[0])
	assert.Equal(t, types.Array{Elem: types.Con{Name: types.IntName}}, got.Return)
	assert.Equal(t, []string{"IO"}, got.Effects)

	tup := types.Tuple{Elems: []types.Type{v, types.Con{Name: types.BoolName}}}
	gotTup := types.Apply(s, tup).(types.Tuple)
	assert.Equal(t, types.Con{Name: types.IntName}, gotTup.Elems[0])

	rec := types.Record{Fields: []types.RecordField{{Name: "f", Type: v}}}
	gotRec := types.Apply(s, rec).(types.Record)
	assert.Equal(t, types.Con{Name: types.IntName}, gotRec.Fields[0].Type)

	refined := types.Refined{Base: v, VarName: "n"}
	gotRefined := types.Apply(s, refined).(types.Refined)
	assert.Equal(t, types.Con{Name: types.IntName}, gotRefined.Base)
}

// Compose(s1, s2) applies s2 to s1's results, and keeps any binding that
// exists only in s2.
func TestCompose_AppliesSecondSubstitutionToFirstResults(t *testing.T) {
	s1 := types.Substitution{0: types.Var{ID: 1}}
	s2 := types.Substitution{1: types.Con{Name: types.IntName}, 2: types.Con{Name: types.BoolName}}

	composed := types.Compose(s1, s2)
	assert.Equal(t, types.Con{Name: types.IntName}, types.Apply(composed, types.Var{ID: 0}))
	assert.Equal(t, types.Con{Name: types.BoolName}, types.Apply(composed, types.Var{ID: 2}))
}

func TestOccurs_DetectsVariableNestedInCompoundTypes(t *testing.T) {
	v := types.Var{ID: 0}
	other := types.Var{ID: 1}

	assert.True(t, types.Occurs(0, v))
	assert.False(t, types.Occurs(0, other))

	assert.True(t, types.Occurs(0, types.Array{Elem: v}))
	assert.True(t, types.Occurs(0, types.Tuple{Elems: []types.Type{other, v}}))
	assert.True(t, types.Occurs(0, types.Func{Params: []types.Type{other}, Return: v}))
	assert.True(t, types.Occurs(0, types.Func{Params: []types.Type{v}, Return: other}))
	assert.True(t, types.Occurs(0, types.Record{Fields: []types.RecordField{{Name: "f", Type: v}}}))
	assert.True(t, types.Occurs(0, types.Refined{Base: v, VarName: "n"}))

	assert.False(t, types.Occurs(0, types.Array{Elem: other}))
	assert.False(t, types.Occurs(0, types.Con{Name: types.IntName}))
	assert.False(t, types.Occurs(0, types.Never{}))
}

func TestVarGen_FreshProducesMonotonicDistinctIDs(t *testing.T) {
	var g types.VarGen
	a := g.Fresh()
	b := g.Fresh()
	c := g.FreshNamed("T")

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, b.ID, c.ID)
	assert.Less(t, a.ID, b.ID)
	assert.Less(t, b.ID, c.ID)
	assert.Equal(t, "T", c.Name)
	assert.Equal(t, "", a.Name)
}

func TestFunc_HasEffectAndSortEffects(t *testing.T) {
	f := types.Func{Effects: []string{"IO", "Err"}}
	assert.True(t, f.HasEffect("IO"))
	assert.True(t, f.HasEffect("Err"))
	assert.False(t, f.HasEffect("Mut"))

	sorted := types.SortEffects([]string{"Mut", "IO", "IO", "Err"})
	assert.Equal(t, []string{"Err", "IO", "Mut"}, sorted)
}

func TestBase_UnwrapsNestedRefinements(t *testing.T) {
	inner := types.Con{Name: types.IntName}
	once := types.Refined{Base: inner, VarName: "x"}
	twice := types.Refined{Base: once, VarName: "y"}

	assert.Equal(t, inner, types.Base(twice))
	assert.Equal(t, inner, types.Base(inner))
}

func TestInstantiate_SubstitutesTypeParametersPositionally(t *testing.T) {
	// Option<T> field type Con{"T"} becomes Con{"Int"} when instantiated
	// with args=[Int].
	fieldType := types.Con{Name: "T"}
	got := types.Instantiate([]string{"T"}, []types.Type{types.Con{Name: types.IntName}}, fieldType)
	assert.Equal(t, types.Con{Name: types.IntName}, got)
}

func TestInstantiate_NoParamsReturnsTypeUnchanged(t *testing.T) {
	ty := types.Array{Elem: types.Con{Name: "T"}}
	got := types.Instantiate(nil, nil, ty)
	assert.Equal(t, ty, got)
}

func TestInstantiateVariant_SubstitutesAcrossAllFields(t *testing.T) {
	v := types.VariantDef{Name: "Some", FieldTypes: []types.Type{types.Con{Name: "T"}}}
	out := types.InstantiateVariant([]string{"T"}, []types.Type{types.Con{Name: types.BoolName}}, v)
	require.Len(t, out, 1)
	assert.Equal(t, types.Con{Name: types.BoolName}, out[0])
}

func TestSumDef_VariantLookup(t *testing.T) {
	def := types.SumDef{Name: "Direction", Variants: []types.VariantDef{
		{Name: "North"}, {Name: "South"},
	}}
	v, ok := def.Variant("South")
	require.True(t, ok)
	assert.Equal(t, "South", v.Name)

	_, ok = def.Variant("NoSuchVariant")
	assert.False(t, ok)
}
