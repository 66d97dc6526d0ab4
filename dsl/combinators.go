package dsl

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/i18n"
)

// Key extracts one entry of a dict on Analyze and produces a one-entry dict on
// Compile. A missing entry fails with gdlevel.ErrMissingKey.
func Key(name string) gdlevel.Transform { return keyT{name: name} }

// KeyOr is Key with a default: a missing entry analyzes to def and a value equal
// to def compiles to an empty dict.
func KeyOr(name string, def any) gdlevel.Transform {
	return keyT{name: name, def: def, hasDef: true}
}

type keyT struct {
	name   string
	def    any
	hasDef bool
}

func (k keyT) Keys() []string { return []string{k.name} }

func (k keyT) Analyze(_ context.Context, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, invalidType("expected dict", data)
	}
	v, ok := m[k.name]
	if !ok {
		if k.hasDef {
			return k.def, nil
		}
		return nil, gdlevel.Issues{gdlevel.Root().Field(k.name).Issue(gdlevel.CodeMissingKey, gdlevel.ErrMissingKey, "key", k.name)}
	}
	return v, nil
}

func (k keyT) Compile(_ context.Context, value any, _ map[string]any) (any, error) {
	if k.hasDef && gdlevel.Equal(value, k.def) {
		return map[string]any{}, nil
	}
	return map[string]any{k.name: value}, nil
}

// Func wraps an arbitrary pure bijection.
func Func(
	analyze func(ctx context.Context, data any) (any, error),
	compile func(ctx context.Context, value any, sink map[string]any) (any, error),
) gdlevel.Transform {
	return funcT{analyze: analyze, compile: compile}
}

type funcT struct {
	analyze func(ctx context.Context, data any) (any, error)
	compile func(ctx context.Context, value any, sink map[string]any) (any, error)
}

func (f funcT) Analyze(ctx context.Context, data any) (any, error) { return f.analyze(ctx, data) }
func (f funcT) Compile(ctx context.Context, value any, sink map[string]any) (any, error) {
	return f.compile(ctx, value, sink)
}

// FuncOf is a typed Func. Inputs of the wrong type fail with invalid_type.
func FuncOf[A, B any](analyze func(A) (B, error), compile func(B) (A, error)) gdlevel.Transform {
	return funcT{
		analyze: func(_ context.Context, data any) (any, error) {
			a, ok := data.(A)
			if !ok {
				var zero A
				return nil, invalidType(fmt.Sprintf("expected %T", zero), data)
			}
			return analyze(a)
		},
		compile: func(_ context.Context, value any, _ map[string]any) (any, error) {
			b, ok := value.(B)
			if !ok {
				var zero B
				return nil, invalidType(fmt.Sprintf("expected %T", zero), value)
			}
			return compile(b)
		},
	}
}

// Nothing returns its input unchanged in both directions.
func Nothing() gdlevel.Transform { return nothing{} }

type nothing struct{}

func (nothing) Analyze(_ context.Context, data any) (any, error) { return data, nil }
func (nothing) Compile(_ context.Context, value any, _ map[string]any) (any, error) {
	return value, nil
}

// List applies inner to every element of a slice. Analyze yields []any; Compile
// accepts any slice type.
func List(inner gdlevel.Transform) gdlevel.Transform { return listT{inner: inner} }

type listT struct{ inner gdlevel.Transform }

func (l listT) Analyze(ctx context.Context, data any) (any, error) {
	items, ok := data.([]any)
	if !ok {
		return nil, invalidType("expected list", data)
	}
	out := make([]any, 0, len(items))
	var iss gdlevel.Issues
	for i, it := range items {
		v, err := l.inner.Analyze(ctx, it)
		if err != nil {
			iss = gdlevel.AppendIssues(iss, gdlevel.IssuesFrom("/", gdlevel.Rebase(err, fmt.Sprint(i)))...)
			if gdlevel.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out = append(out, v)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (l listT) Compile(ctx context.Context, value any, sink map[string]any) (any, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, invalidType("expected list", value)
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		r, err := l.inner.Compile(ctx, rv.Index(i).Interface(), sink)
		if err != nil {
			return nil, gdlevel.Rebase(err, fmt.Sprint(i))
		}
		out = append(out, r)
	}
	return out, nil
}

// Tuple feeds the same input to every inner transform and collects the results
// in a []any. Compile merges the dicts the inner transforms produce; non-dict
// results must agree.
func Tuple(inner ...gdlevel.Transform) gdlevel.Transform { return tupleT{inner: inner} }

// TupleIter is the positional form: element i of a []any input goes to inner i.
func TupleIter(inner ...gdlevel.Transform) gdlevel.Transform {
	return tupleT{inner: inner, iterate: true}
}

// MultiKey reads several dict entries into a []any, in the given order.
func MultiKey(names ...string) gdlevel.Transform {
	ks := make([]gdlevel.Transform, len(names))
	for i, n := range names {
		ks[i] = Key(n)
	}
	return tupleT{inner: ks}
}

type tupleT struct {
	inner   []gdlevel.Transform
	iterate bool
}

func (t tupleT) Keys() []string {
	if t.iterate {
		return nil
	}
	var out []string
	for _, in := range t.inner {
		out = append(out, gdlevel.KeysOf(in)...)
	}
	return out
}

func (t tupleT) Analyze(ctx context.Context, data any) (any, error) {
	var items []any
	if t.iterate {
		var ok bool
		if items, ok = data.([]any); !ok {
			return nil, invalidType("expected list", data)
		}
		if len(items) != len(t.inner) {
			return nil, gdlevel.Fail(gdlevel.CodeInvalidFormat, gdlevel.ErrInvalidValue,
				fmt.Sprintf("expected %d items, got %d", len(t.inner), len(items)))
		}
	}
	out := make([]any, len(t.inner))
	for i, in := range t.inner {
		src := data
		if t.iterate {
			src = items[i]
		}
		v, err := in.Analyze(ctx, src)
		if err != nil {
			if t.iterate {
				return nil, gdlevel.Rebase(err, fmt.Sprint(i))
			}
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (t tupleT) Compile(ctx context.Context, value any, sink map[string]any) (any, error) {
	vals, ok := value.([]any)
	if !ok {
		return nil, invalidType("expected tuple", value)
	}
	if len(vals) != len(t.inner) {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidFormat, gdlevel.ErrInvalidValue,
			fmt.Sprintf("expected %d items, got %d", len(t.inner), len(vals)))
	}
	raws := make([]any, len(t.inner))
	for i, in := range t.inner {
		r, err := in.Compile(ctx, vals[i], sink)
		if err != nil {
			return nil, gdlevel.Rebase(err, fmt.Sprint(i))
		}
		raws[i] = r
	}
	if t.iterate {
		return raws, nil
	}
	return mergeRaws(raws)
}

// mergeRaws joins the outputs of a broadcast tuple back into one raw value.
func mergeRaws(raws []any) (any, error) {
	if len(raws) == 0 {
		return map[string]any{}, nil
	}
	if _, isMap := raws[0].(map[string]any); !isMap {
		for _, r := range raws[1:] {
			if !gdlevel.Equal(r, raws[0]) {
				return nil, gdlevel.Fail(gdlevel.CodeInvalidValue, gdlevel.ErrInvalidValue, "tuple parts disagree")
			}
		}
		return raws[0], nil
	}
	out := map[string]any{}
	for _, r := range raws {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, invalidType("expected dict", r)
		}
		for k, v := range m {
			out[k] = v
		}
	}
	return out, nil
}

// StrSplit splits a string into a []any of parts. The empty string is the empty list.
func StrSplit(sep string) gdlevel.Transform {
	return FuncOf(
		func(s string) ([]any, error) {
			if s == "" {
				return []any{}, nil
			}
			parts := strings.Split(s, sep)
			out := make([]any, len(parts))
			for i, p := range parts {
				out[i] = p
			}
			return out, nil
		},
		func(parts []any) (string, error) {
			ss := make([]string, len(parts))
			for i, p := range parts {
				s, ok := p.(string)
				if !ok {
					return "", gdlevel.Rebase(invalidType("expected string", p), fmt.Sprint(i))
				}
				ss[i] = s
			}
			return strings.Join(ss, sep), nil
		},
	)
}

// Enum converts an int to the integer enum E and back.
func Enum[E ~int]() gdlevel.Transform {
	return FuncOf(
		func(i int) (E, error) { return E(i), nil },
		func(e E) (int, error) { return int(e), nil },
	)
}

func invalidType(hint string, got any) error {
	return gdlevel.Issues{gdlevel.Issue{
		Path:    "/",
		Code:    gdlevel.CodeInvalidType,
		Message: i18n.T(gdlevel.CodeInvalidType, nil),
		Hint:    fmt.Sprintf("%s, got %T", hint, got),
		Cause:   gdlevel.ErrInvalidValue,
	}}
}
