package dsl_test

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	gdlevel "github.com/reoring/gdlevel"
	g "github.com/reoring/gdlevel/dsl"
)

// Canonical raw dicts survive Fields >> Attrs and back unchanged.
func TestRoundTrip_CanonicalRaw(t *testing.T) {
	ctx := context.Background()
	fields := g.MustFieldGroup(
		g.Unused(gdlevel.Wildcard, nil),
		g.Field("1", "a", atoi, g.RawDefault("0"), g.KeyPolicy(gdlevel.AlwaysEmit)),
		g.Field("2", "b", atoi, g.RawDefault("0"), g.KeyPolicy(gdlevel.OmitDefault)),
		g.Field("57", "groups", intList, g.RawDefault(""), g.KeyPolicy(gdlevel.OmitDefault)),
		g.Field("36", "", nil, g.RawDefault("1"), g.KeyPolicy(gdlevel.AlwaysEmit)),
	)
	attrs := g.MustAttrGroup(
		g.UnusedAttr("unused"),
		g.Attr("mode", gdlevel.Then(g.MultiKey("a", "b"), g.FuncOf(
			func(ab []any) (int, error) { return ab[0].(int)*1000 + ab[1].(int), nil },
			func(v int) ([]any, error) { return []any{v / 1000, v % 1000}, nil },
		))),
		g.Same("groups"),
	).Over(fields)
	tr := gdlevel.Then(fields, attrs)

	rapid.Check(t, func(rt *rapid.T) {
		raw := map[string]any{
			"1":  strconv.Itoa(rapid.IntRange(0, 999).Draw(rt, "a")),
			"36": "1",
		}
		if b := rapid.IntRange(0, 999).Draw(rt, "b"); b != 0 {
			raw["2"] = strconv.Itoa(b)
		}
		groups := rapid.SliceOfN(rapid.IntRange(1, 9999), 0, 5).Draw(rt, "groups")
		if len(groups) > 0 {
			parts := make([]string, len(groups))
			for i, v := range groups {
				parts[i] = strconv.Itoa(v)
			}
			raw["57"] = strings.Join(parts, ".")
		}
		extra := rapid.MapOfN(rapid.StringMatching(`[1-9][0-9]{2,3}`), rapid.StringMatching(`[a-z0-9.]{0,6}`), 0, 4).Draw(rt, "extra")
		for k, v := range extra {
			if _, bound := fields.BindingForKey(k); !bound {
				raw[k] = v
			}
		}

		attrsOut, err := tr.Analyze(ctx, raw)
		require.NoError(rt, err)
		back, err := tr.Compile(ctx, attrsOut, nil)
		require.NoError(rt, err)
		require.Equal(rt, raw, back)
	})
}
