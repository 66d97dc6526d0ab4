// Package gdlevel decodes and re-encodes level editor save records.
//
// The module is built from two halves:
//
// - Two-way transforms (Transform, Sequence) composed by the dsl package into
//   field and attribute groups with default elision, an unused bucket for
//   unclaimed keys, and schema inheritance.
// - An identity registry (package ident) for group/block/item/timer references
//   that compare by identity, allocate free integers lazily and can be merged.
//
// Design policy:
// - Keep only shared contracts in the root package (Transform, Issues, Policy, Equal).
// - Put combinators under dsl/, raw value codecs under codec/, object schemas under
//   gdobj/ and the CLI under cmd/gdlevel.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	lvl, err := level.Open(ctx, info)
//	err = lvl.Edit(ctx, func(ctx context.Context, m *level.Module) error {
//		for _, o := range m.Objects { ... }
//		return nil
//	})
package gdlevel
