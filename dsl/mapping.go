package dsl

import (
	"context"
	"fmt"

	gdlevel "github.com/reoring/gdlevel"
)

// Pair is one row of a Mapping table.
type Pair struct {
	Raw   any
	Value any
}

// P builds a Pair.
func P(raw, value any) Pair { return Pair{Raw: raw, Value: value} }

// MappingOpt configures a Mapping.
type MappingOpt func(*mappingT)

// WithDefault makes lookups that miss fall back to the given row instead of failing.
func WithDefault(raw, value any) MappingOpt {
	return func(m *mappingT) {
		m.def = &Pair{Raw: raw, Value: value}
	}
}

type mappingT struct {
	pairs []Pair
	def   *Pair
}

// NewMapping builds a finite bijective table. Rows are compared with gdlevel.Equal,
// so tuples ([]any) and handles work as keys.
func NewMapping(pairs []Pair, opts ...MappingOpt) (gdlevel.Transform, error) {
	for i := range pairs {
		for j := 0; j < i; j++ {
			if gdlevel.Equal(pairs[i].Raw, pairs[j].Raw) {
				return nil, fmt.Errorf("%w: mapping raw %v", gdlevel.ErrDuplicateKey, pairs[i].Raw)
			}
			if gdlevel.Equal(pairs[i].Value, pairs[j].Value) {
				return nil, fmt.Errorf("%w: mapping value %v", gdlevel.ErrDuplicateName, pairs[i].Value)
			}
		}
	}
	m := &mappingT{pairs: pairs}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// MustMapping is like NewMapping but panics on error.
func MustMapping(pairs []Pair, opts ...MappingOpt) gdlevel.Transform {
	m, err := NewMapping(pairs, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *mappingT) Analyze(_ context.Context, data any) (any, error) {
	for _, p := range m.pairs {
		if gdlevel.Equal(p.Raw, data) {
			return p.Value, nil
		}
	}
	if m.def != nil {
		return m.def.Value, nil
	}
	return nil, noMapping(data)
}

func (m *mappingT) Compile(_ context.Context, value any, _ map[string]any) (any, error) {
	for _, p := range m.pairs {
		if gdlevel.Equal(p.Value, value) {
			return p.Raw, nil
		}
	}
	if m.def != nil {
		return m.def.Raw, nil
	}
	return nil, noMapping(value)
}

func noMapping(v any) error {
	return gdlevel.Issues{gdlevel.Root().Issue(gdlevel.CodeNoMapping, gdlevel.ErrNoMapping, "got", v)}
}
