package dsl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gdlevel "github.com/reoring/gdlevel"
	g "github.com/reoring/gdlevel/dsl"
)

func modeFields() *g.FieldGroup {
	return g.MustFieldGroup(
		g.Field("1", "a", atoi, g.RawDefault("0")),
		g.Field("2", "b", atoi, g.RawDefault("0")),
		g.Field("3", "c", atoi, g.RawDefault("0")),
		g.Field("4", "note", nil),
	)
}

var modeMapping = g.MustMapping([]g.Pair{
	g.P([]any{0, 0}, "none"),
	g.P([]any{1, 0}, "a"),
	g.P([]any{0, 1}, "b"),
})

func modeAttrs(extra ...g.AttrBinding) *g.AttrGroup {
	bs := []g.AttrBinding{
		g.Attr("mode", gdlevel.Then(g.MultiKey("a", "b"), modeMapping)),
		g.Same("c", g.AttrPolicy(gdlevel.OmitDefault)),
	}
	return g.MustAttrGroup(append(bs, extra...)...).Over(modeFields())
}

func TestAttrGroup_CompositeUsesFieldDefaults(t *testing.T) {
	ctx := context.Background()
	ag := modeAttrs(g.UnusedAttr("unused"))

	attrs, err := ag.Analyze(ctx, map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"mode": "a"}, attrs)

	attrs, err = ag.Analyze(ctx, map[string]any{"a": 0, "b": 1, "c": 0, "note": "hi"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"mode": "b", "unused": map[string]any{"note": "hi"}}, attrs)

	d, ok, err := ag.Default(ctx, "mode")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "none", d)
}

func TestAttrGroup_UnusedSkipsFieldDefaults(t *testing.T) {
	ctx := context.Background()
	fields := g.MustFieldGroup(
		g.Field("1", "a", atoi, g.RawDefault("0")),
		g.Field("9", "extra", atoi, g.RawDefault("0")),
	)
	ag := g.MustAttrGroup(g.Same("a"), g.UnusedAttr("unused")).Over(fields)

	attrs, err := ag.Analyze(ctx, map[string]any{"a": 1, "extra": 0})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, attrs)

	attrs, err = ag.Analyze(ctx, map[string]any{"a": 1, "extra": 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "unused": map[string]any{"extra": 3}}, attrs)

	strict := g.MustAttrGroup(g.Same("a")).Over(fields)
	_, err = strict.Analyze(ctx, map[string]any{"a": 1, "extra": 0})
	assert.ErrorIs(t, err, gdlevel.ErrUnknownKey)
}

func TestAttrGroup_Compile(t *testing.T) {
	ctx := context.Background()
	ag := modeAttrs(g.UnusedAttr("unused"))

	sem, err := ag.Compile(ctx, map[string]any{"mode": "a", "c": 4, "unused": map[string]any{"note": "hi"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": 0, "c": 4, "note": "hi"}, sem)

	_, err = ag.Compile(ctx, map[string]any{"mode": "a", "unused": map[string]any{"a": 5}}, nil)
	assert.ErrorIs(t, err, gdlevel.ErrDuplicateName)

	_, err = ag.Compile(ctx, map[string]any{"speed": 1}, nil)
	assert.ErrorIs(t, err, gdlevel.ErrUnknownKey)

	_, err = ag.Compile(ctx, map[string]any{"mode": "sideways"}, nil)
	require.ErrorIs(t, err, gdlevel.ErrNoMapping)
	assert.Equal(t, []string{"/mode"}, issuePaths(t, err))
}

func TestAttrGroup_AlwaysEmitAndStrict(t *testing.T) {
	ctx := context.Background()
	ag := g.MustAttrGroup(
		g.Same("c", g.AttrPolicy(gdlevel.AlwaysEmit)),
		g.Attr("fixed", g.Key("a"), g.AttrPolicy(gdlevel.AlwaysEmit), g.AttrDefault(42)),
	).Over(modeFields())

	attrs, err := ag.Analyze(ctx, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"c": 0, "fixed": 42}, attrs)

	_, err = ag.Analyze(ctx, map[string]any{"note": "x"})
	require.ErrorIs(t, err, gdlevel.ErrUnknownKey)
	assert.Equal(t, []string{"/note"}, issuePaths(t, err))
}

func TestAttrGroup_DropAndRename(t *testing.T) {
	ctx := context.Background()
	ag := g.MustAttrGroup(
		g.Drop("note"),
		g.Rename("alpha", "a"),
	).Over(modeFields())

	attrs, err := ag.Analyze(ctx, map[string]any{"note": "x", "a": 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"alpha": 3}, attrs)

	sem, err := ag.Compile(ctx, attrs, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 3}, sem)
	assert.Equal(t, []string{"alpha"}, ag.Attrs())
}

func TestAttrGroup_CompositeReadsSink(t *testing.T) {
	ctx := context.Background()
	// "offset" is stored as a multiple of the sibling attribute "scale".
	scaled := g.Func(
		func(_ context.Context, data any) (any, error) {
			m := data.(map[string]any)
			return m["a"].(int) / m["b"].(int), nil
		},
		func(_ context.Context, value any, sink map[string]any) (any, error) {
			return map[string]any{"a": value.(int) * sink["scale"].(int)}, nil
		},
	)
	ag := g.MustAttrGroup(
		g.Attr("offset", scaled, g.Deps("a", "b")),
		g.Rename("scale", "b"),
	).Over(modeFields())

	sem, err := ag.Compile(ctx, map[string]any{"offset": 2, "scale": 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 6, "b": 3}, sem)

	attrs, err := ag.Analyze(ctx, sem)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"offset": 2, "scale": 3}, attrs)
}

func TestNewAttrGroup_Errors(t *testing.T) {
	_, err := g.NewAttrGroup(g.Same("a"), g.Rename("a", "b"))
	assert.ErrorIs(t, err, gdlevel.ErrDuplicateName)
	_, err = g.NewAttrGroup(g.Attr("x", g.Nothing()))
	assert.ErrorIs(t, err, gdlevel.ErrEmptyBinding)
	_, err = g.NewAttrGroup(g.UnusedAttr("u"), g.UnusedAttr("v"))
	assert.ErrorIs(t, err, gdlevel.ErrDuplicateName)
}

func TestCombineAttrs_DerivedClaimsDeps(t *testing.T) {
	base := g.MustAttrGroup(g.UnusedAttr("unused"), g.Same("a"), g.Same("b"), g.Same("c"))

	composite := g.CombineAttrs(base, g.MustAttrGroup(
		g.Attr("mode", gdlevel.Then(g.MultiKey("a", "b"), modeMapping)),
	))
	assert.Equal(t, []string{"c", "mode", "unused"}, composite.Attrs())

	renamed := g.CombineAttrs(base, g.MustAttrGroup(g.Rename("alpha", "a")))
	assert.Equal(t, []string{"b", "c", "alpha", "unused"}, renamed.Attrs())

	b, ok := renamed.Binding("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, b.DepNames())
}

func TestCombineAttrs_UnusedNameCollisions(t *testing.T) {
	base := g.MustAttrGroup(g.UnusedAttr("unused"), g.Same("a"), g.Same("extra"))

	shadowed := g.CombineAttrs(base, g.MustAttrGroup(g.UnusedAttr("extra")))
	assert.Equal(t, []string{"a", "extra"}, shadowed.Attrs())
	b, ok := shadowed.Binding("extra")
	require.True(t, ok)
	assert.Equal(t, []string{gdlevel.Wildcard}, b.DepNames())

	assert.Panics(t, func() {
		g.CombineAttrs(base, g.MustAttrGroup(g.Same("unused")))
	})
}
