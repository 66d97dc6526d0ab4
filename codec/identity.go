package codec

import (
	"context"
	"errors"
	"fmt"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/dsl"
	"github.com/reoring/gdlevel/ident"
)

// IntRef converts an int to a handle of cat and back through the registry
// carried by ctx. Constants resolve without a registry; everything else fails
// with gdlevel.ErrNoActiveModule when ctx has none. Compile allocates a value
// for handles that do not have one yet.
func IntRef(cat *ident.Category) gdlevel.Transform {
	return refT{cat: cat}
}

// Ref is Int >> IntRef(cat): a decimal string reference.
func Ref(cat *ident.Category) gdlevel.Transform {
	return gdlevel.Then(Int(), IntRef(cat))
}

// RefList splits a sep-joined list of references into []*ident.Handle.
func RefList(cat *ident.Category, sep string) gdlevel.Transform {
	return gdlevel.Then(dsl.StrSplit(sep), dsl.List(Ref(cat)), handleSlice{})
}

type refT struct{ cat *ident.Category }

func (r refT) Analyze(ctx context.Context, data any) (any, error) {
	v, ok := data.(int)
	if !ok {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue, fmt.Sprintf("expected int, got %T", data))
	}
	if h := r.cat.Constant(v); h != nil {
		return h, nil
	}
	reg, err := ident.FromContext(ctx)
	if err != nil {
		return nil, noModule(err)
	}
	return reg.Handle(r.cat, v), nil
}

func (r refT) Compile(ctx context.Context, value any, _ map[string]any) (any, error) {
	h, ok := value.(*ident.Handle)
	if !ok || h == nil {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue, fmt.Sprintf("expected %s handle, got %T", r.cat, value))
	}
	if h.Category() != r.cat {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrCategoryMismatch, fmt.Sprintf("expected %s handle, got %s", r.cat, h.Category()))
	}
	if v, ok := h.Constant(); ok {
		return v, nil
	}
	reg, err := ident.FromContext(ctx)
	if err != nil {
		return nil, noModule(err)
	}
	v, err := reg.Value(h)
	if err != nil {
		code := gdlevel.CodeInvalidValue
		if errors.Is(err, gdlevel.ErrAllocationExhausted) {
			code = gdlevel.CodeAllocationLimit
		}
		return nil, gdlevel.Fail(code, err, h.String())
	}
	return v, nil
}

func noModule(err error) error {
	return gdlevel.Fail(gdlevel.CodeNoActiveModule, err, "run inside ident.WithRegistry")
}

// handleSlice narrows []any of handles to []*ident.Handle.
type handleSlice struct{}

func (handleSlice) Analyze(_ context.Context, data any) (any, error) {
	items, ok := data.([]any)
	if !ok {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue, fmt.Sprintf("expected list, got %T", data))
	}
	out := make([]*ident.Handle, len(items))
	for i, it := range items {
		out[i] = it.(*ident.Handle)
	}
	return out, nil
}

func (handleSlice) Compile(_ context.Context, value any, _ map[string]any) (any, error) {
	hs, ok := value.([]*ident.Handle)
	if !ok {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue, fmt.Sprintf("expected []*ident.Handle, got %T", value))
	}
	out := make([]any, len(hs))
	for i, h := range hs {
		out[i] = h
	}
	return out, nil
}
