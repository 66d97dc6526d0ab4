package gdlevel

import "context"

// Transform is a two-way conversion between a raw representation and a
// semantic value.
//
// Analyze turns raw data into a value. Compile turns a value back into raw
// data; sink is the enclosing dict being compiled by a group (nil otherwise),
// which lets composite transforms read sibling entries.
//
// Implementations are expected to satisfy Analyze(Compile(v)) == v and
// Compile(Analyze(x)) == x up to elided defaults.
type Transform interface {
	Analyze(ctx context.Context, data any) (any, error)
	Compile(ctx context.Context, value any, sink map[string]any) (any, error)
}

// Keyed is implemented by transforms that read a known set of dict keys.
type Keyed interface {
	Keys() []string
}

// KeysOf returns the keys a transform reads, or nil when it does not say.
func KeysOf(t Transform) []string {
	if k, ok := t.(Keyed); ok {
		return k.Keys()
	}
	return nil
}

// Sequence runs its stages left to right on Analyze and right to left on Compile.
type Sequence []Transform

// Then composes transforms into a flat Sequence. Nil entries are skipped and a
// single stage is returned as is.
func Then(ts ...Transform) Transform {
	var out Sequence
	for _, t := range ts {
		switch v := t.(type) {
		case nil:
		case Sequence:
			out = append(out, v...)
		default:
			out = append(out, v)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (s Sequence) Analyze(ctx context.Context, data any) (any, error) {
	var err error
	for _, t := range s {
		if data, err = t.Analyze(ctx, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (s Sequence) Compile(ctx context.Context, value any, sink map[string]any) (any, error) {
	var err error
	for i := len(s) - 1; i >= 0; i-- {
		if value, err = s[i].Compile(ctx, value, sink); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// Keys reports the keys of the first stage.
func (s Sequence) Keys() []string {
	if len(s) == 0 {
		return nil
	}
	return KeysOf(s[0])
}

// ---- Decode-time context options ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that makes groups stop at the first issue
// instead of collecting every issue of a record.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current pass should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
