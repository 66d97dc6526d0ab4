// Package recognize picks the concrete class of a raw record before it is
// decoded. Recognizers are one-way: they only read.
package recognize

import (
	"context"
	"fmt"

	gdlevel "github.com/reoring/gdlevel"
)

// Recognizer derives a discriminant from raw data.
type Recognizer interface {
	Recognize(ctx context.Context, data any) (any, error)
}

// Func adapts a function.
type Func func(ctx context.Context, data any) (any, error)

func (f Func) Recognize(ctx context.Context, data any) (any, error) { return f(ctx, data) }

// Key reads one entry of a raw dict, converted by the Analyze side of conv (nil
// keeps the raw value). A missing entry fails with gdlevel.ErrMissingKey.
func Key(name string, conv gdlevel.Transform) Recognizer {
	return keyR{name: name, conv: conv}
}

// KeyOr is Key with a default for missing entries. The default is not converted.
func KeyOr(name string, conv gdlevel.Transform, def any) Recognizer {
	return keyR{name: name, conv: conv, def: def, hasDef: true}
}

type keyR struct {
	name   string
	conv   gdlevel.Transform
	def    any
	hasDef bool
}

func (k keyR) Recognize(ctx context.Context, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue, fmt.Sprintf("expected dict, got %T", data))
	}
	v, ok := m[k.name]
	if !ok {
		if k.hasDef {
			return k.def, nil
		}
		return nil, gdlevel.Issues{gdlevel.Root().Field(k.name).Issue(gdlevel.CodeMissingKey, gdlevel.ErrMissingKey, "key", k.name)}
	}
	if k.conv == nil {
		return v, nil
	}
	out, err := k.conv.Analyze(ctx, v)
	if err != nil {
		return nil, gdlevel.Rebase(err, k.name)
	}
	return out, nil
}

// Tuple applies every recognizer to the same data and returns the results as []any.
func Tuple(rs ...Recognizer) Recognizer { return tupleR(rs) }

type tupleR []Recognizer

func (t tupleR) Recognize(ctx context.Context, data any) (any, error) {
	out := make([]any, len(t))
	for i, r := range t {
		v, err := r.Recognize(ctx, data)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Then chains recognizers: each one runs on the result of the previous one.
func Then(rs ...Recognizer) Recognizer { return seqR(rs) }

type seqR []Recognizer

func (s seqR) Recognize(ctx context.Context, data any) (any, error) {
	var err error
	for _, r := range s {
		if data, err = r.Recognize(ctx, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}
