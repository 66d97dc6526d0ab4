package ident

import (
	"github.com/goccy/go-json"
)

// Handle is what the rest of the module holds for a reference. Two handles are
// equal when they currently observe the same identity, whatever value that
// identity has or gets later.
type Handle struct {
	id       *Identity
	released bool
}

// Identity returns the cell the handle currently observes.
func (h *Handle) Identity() *Identity { return h.id }

func (h *Handle) Category() *Category { return h.id.cat }

// Constant returns the reserved value when the handle refers to a constant.
func (h *Handle) Constant() (int, bool) { return h.id.Constant() }

// Is reports whether h refers to the same identity as o.
func (h *Handle) Is(o *Handle) bool {
	return h != nil && o != nil && h.id == o.id
}

// EqualValue implements gdlevel.Equaler.
func (h *Handle) EqualValue(other any) bool {
	o, ok := other.(*Handle)
	return ok && h.Is(o)
}

// Release unregisters the handle from its identity. Constant handles are never
// released.
func (h *Handle) Release() {
	if h.released || h.id.constant {
		return
	}
	h.id.unobserve(h)
	h.released = true
}

// Released reports whether Release was called.
func (h *Handle) Released() bool { return h.released }

func (h *Handle) String() string {
	if h == nil {
		return "<nil>"
	}
	return h.id.String()
}

func (h *Handle) MarshalJSON() ([]byte, error) { return json.Marshal(h.String()) }

func (h *Handle) MarshalYAML() (any, error) { return h.String(), nil }
