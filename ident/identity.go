package ident

import (
	"fmt"
	"strconv"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/internal/log"
)

// Identity is the canonical cell of one logical reference. Handles observe it;
// containers may hold a value for it.
type Identity struct {
	cat        *Category
	constant   bool
	value      int    // reserved value of a constant
	name       string // name of a constant
	observers  []*Handle
	containers []*Container
	absorbed   bool
}

func (id *Identity) Category() *Category { return id.cat }

// Constant returns the reserved value when the identity is a constant.
func (id *Identity) Constant() (int, bool) { return id.value, id.constant }

// Absorbed reports whether the identity was merged into another one.
func (id *Identity) Absorbed() bool { return id.absorbed }

// Handle returns the first live observer, registering a new one if there is none.
// It panics with ErrAbsorbed on an absorbed identity.
func (id *Identity) Handle() *Handle {
	if len(id.observers) > 0 {
		return id.observers[0]
	}
	return id.NewHandle()
}

// NewHandle always registers a fresh observer. It panics with ErrAbsorbed on an
// absorbed identity; its handles now observe the survivor.
func (id *Identity) NewHandle() *Handle {
	if id.absorbed {
		panic(fmt.Errorf("%w: new handle on %s", gdlevel.ErrAbsorbed, id))
	}
	h := &Handle{id: id}
	id.observers = append(id.observers, h)
	return h
}

// Observers returns the number of live handles.
func (id *Identity) Observers() int { return len(id.observers) }

func (id *Identity) unobserve(h *Handle) {
	for i, o := range id.observers {
		if o == h {
			id.observers = append(id.observers[:i], id.observers[i+1:]...)
			return
		}
	}
}

// Absorb merges other into id. Every handle observing other is repointed to id,
// and for every container in which other holds a value, that value moves to id
// unless id already has one there. other is left empty and must not be used
// again.
func (id *Identity) Absorb(other *Identity) error {
	if other == nil {
		return fmt.Errorf("%w: absorb nil identity", gdlevel.ErrInvalidValue)
	}
	if id.cat != other.cat {
		return fmt.Errorf("%w: %s cannot absorb %s", gdlevel.ErrCategoryMismatch, id.cat, other.cat)
	}
	if id.constant || other.constant {
		return fmt.Errorf("%w: %s absorb %s", gdlevel.ErrAbsorbConstant, id, other)
	}
	if id.absorbed || other.absorbed {
		return gdlevel.ErrAbsorbed
	}
	if id == other {
		return nil
	}
	for _, h := range other.observers {
		h.id = id
		id.observers = append(id.observers, h)
	}
	other.observers = nil
	held := append([]*Container(nil), other.containers...)
	for _, c := range held {
		v := c.byID[other]
		c.drop(other)
		if _, has := c.byID[id]; has {
			log.Debug(log.CatIdent, "absorb dropped value", "category", id.cat, "value", v)
			continue
		}
		c.bind(id, v)
	}
	other.containers = nil
	other.absorbed = true
	return nil
}

func (id *Identity) String() string {
	if id.constant {
		return id.cat.name + "." + id.name
	}
	if len(id.containers) > 0 {
		return id.cat.name + "(" + strconv.Itoa(id.containers[0].byID[id]) + ")"
	}
	return id.cat.name + "(new)"
}

func (id *Identity) memberOf(c *Container) bool {
	for _, x := range id.containers {
		if x == c {
			return true
		}
	}
	return false
}

func (id *Identity) leave(c *Container) {
	for i, x := range id.containers {
		if x == c {
			id.containers = append(id.containers[:i], id.containers[i+1:]...)
			return
		}
	}
}
