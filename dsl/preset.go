package dsl

import (
	gdlevel "github.com/reoring/gdlevel"
)

// Preset bundles a raw transform with default binding options, so a schema
// can declare many keys of the same raw type tersely.
type Preset struct {
	transform gdlevel.Transform
	opts      []FieldOpt
}

// NewPreset creates a preset.
func NewPreset(t gdlevel.Transform, opts ...FieldOpt) Preset {
	return Preset{transform: t, opts: opts}
}

// Then returns a preset whose transform is followed by extra.
func (p Preset) Then(extra ...gdlevel.Transform) Preset {
	return Preset{
		transform: gdlevel.Then(append([]gdlevel.Transform{p.transform}, extra...)...),
		opts:      p.opts,
	}
}

// With returns a preset with more default options.
func (p Preset) With(opts ...FieldOpt) Preset {
	return Preset{transform: p.transform, opts: append(append([]FieldOpt(nil), p.opts...), opts...)}
}

// Transform returns the preset's raw transform.
func (p Preset) Transform() gdlevel.Transform { return p.transform }

// Bind builds a FieldBinding; opts are applied after the preset defaults.
func (p Preset) Bind(key, name string, opts ...FieldOpt) FieldBinding {
	all := append(append([]FieldOpt(nil), p.opts...), opts...)
	return Field(key, name, p.transform, all...)
}
