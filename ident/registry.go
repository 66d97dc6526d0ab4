package ident

import (
	"context"
	"fmt"

	gdlevel "github.com/reoring/gdlevel"
)

// Registry owns one container per category for one level session.
type Registry struct {
	containers map[*Category]*Container
}

// NewRegistry creates an empty registry. Containers are created on first use.
func NewRegistry() *Registry {
	return &Registry{containers: map[*Category]*Container{}}
}

// Container returns the container of cat, creating it if needed.
func (r *Registry) Container(cat *Category) *Container {
	c, ok := r.containers[cat]
	if !ok {
		c = NewContainer(cat)
		r.containers[cat] = c
	}
	return c
}

// Handle is shorthand for Container(cat).GetOrCreate(v).
func (r *Registry) Handle(cat *Category, v int) *Handle {
	return r.Container(cat).GetOrCreate(v)
}

// Value is shorthand for Container(h.Category()).Value(h).
func (r *Registry) Value(h *Handle) (int, error) {
	if h == nil {
		return 0, fmt.Errorf("%w: nil handle", gdlevel.ErrInvalidValue)
	}
	return r.Container(h.Category()).Value(h)
}

type ctxKey struct{}

// WithRegistry makes r the active registry of ctx. Scopes nest with the
// context tree: a child context may carry a different registry, and leaving
// the child restores the parent's.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

// FromContext returns the active registry or gdlevel.ErrNoActiveModule.
func FromContext(ctx context.Context) (*Registry, error) {
	r, ok := ctx.Value(ctxKey{}).(*Registry)
	if !ok || r == nil {
		return nil, gdlevel.ErrNoActiveModule
	}
	return r, nil
}
