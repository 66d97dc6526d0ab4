// Package dsl provides the combinators and mapping layers used to declare
// record schemas.
//
// Overview
//   - Combinators: Key/KeyOr, Func/FuncOf, Nothing, List, Tuple/TupleIter,
//     MultiKey, StrSplit, Enum, NewMapping. All are stateless gdlevel.Transform values
//     composed with gdlevel.Then.
//   - FieldGroup: raw key <-> semantic name, with per-binding defaults, tri-state
//     policies (gdlevel.Policy) and an unused bucket for unclaimed keys.
//   - AttrGroup: semantic names <-> attributes. One attribute may depend on
//     several semantic names (MultiKey), which is how flag sets become enums.
//   - Family: per-class registration of groups folded along an inheritance
//     lineage with Combine/CombineAttrs (derived bindings win).
//   - ToStruct/FromTuple: reflection binding of dicts and tuples onto structs.
//
// Decode direction
//
//	raw dict --FieldGroup.Analyze--> semantic dict --AttrGroup.Analyze--> attributes
//
// Encode is the exact inverse, running the stages right to left.
//
// Example
//
//	ints := dsl.NewPreset(codec.Int(), dsl.RawDefault("0"), dsl.KeyPolicy(gdlevel.OmitDefault))
//	fields := dsl.MustFieldGroup(
//		ints.Bind("77", "count"),
//		dsl.Unused(gdlevel.Wildcard, nil),
//	)
//	attrs := dsl.MustAttrGroup(dsl.Same("count"), dsl.UnusedAttr("unused"))
//	s := gdlevel.Then(fields, attrs.Over(fields))
//	v, err := s.Analyze(ctx, map[string]any{"77": "3", "9999": "x"})
//	// v == map[string]any{"count": 3, "unused": map[string]any{"9999": "x"}}
//
// Error model
//   - Build errors (duplicate key/name, empty binding, class registered twice) are
//     returned by New*/Define and panicked by Must*.
//   - Runtime failures are gdlevel.Issues with JSON Pointer paths rebased per layer.
package dsl
