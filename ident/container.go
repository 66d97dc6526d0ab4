package ident

import (
	"fmt"
	"sort"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/internal/log"
)

// DefaultMaxScan bounds the free-value search of one allocation.
const DefaultMaxScan = 1 << 20

// Container is the per-category bijection between identities and integers for
// one decode/encode session.
type Container struct {
	cat     *Category
	byValue map[int]*Identity
	byID    map[*Identity]int
	next    int // smallest value not yet ruled out by allocation
	MaxScan int
}

// NewContainer creates an empty container for cat.
func NewContainer(cat *Category) *Container {
	return &Container{
		cat:     cat,
		byValue: map[int]*Identity{},
		byID:    map[*Identity]int{},
		next:    1,
		MaxScan: DefaultMaxScan,
	}
}

func (c *Container) Category() *Category { return c.cat }

// GetOrCreate returns the handle for v: the fixed handle of a constant, the
// handle of the identity already bound to v, or the handle of a new identity
// bound to v.
func (c *Container) GetOrCreate(v int) *Handle {
	if h := c.cat.Constant(v); h != nil {
		return h
	}
	if id, ok := c.byValue[v]; ok {
		return id.Handle()
	}
	id := &Identity{cat: c.cat}
	c.bind(id, v)
	return id.Handle()
}

// New returns the handle of a fresh anonymous identity of the container's category.
func (c *Container) New() *Handle { return c.cat.New() }

// Lookup returns the handle bound to v without creating one.
func (c *Container) Lookup(v int) (*Handle, bool) {
	if h := c.cat.Constant(v); h != nil {
		return h, true
	}
	id, ok := c.byValue[v]
	if !ok {
		return nil, false
	}
	return id.Handle(), true
}

// Value returns the integer of h, allocating the smallest free positive value
// on first request. The allocation is permanent.
func (c *Container) Value(h *Handle) (int, error) {
	id, err := c.check(h)
	if err != nil {
		return 0, err
	}
	if v, ok := id.Constant(); ok {
		return v, nil
	}
	if v, ok := c.byID[id]; ok {
		return v, nil
	}
	limit := c.MaxScan
	if limit <= 0 {
		limit = DefaultMaxScan
	}
	for n := 0; n < limit; n++ {
		v := c.next
		c.next++
		if _, taken := c.byValue[v]; taken || c.cat.IsConstant(v) {
			continue
		}
		c.bind(id, v)
		log.Debug(log.CatIdent, "allocated value", "category", c.cat, "value", v)
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s after %d values", gdlevel.ErrAllocationExhausted, c.cat, limit)
}

// ValueOr returns the integer of h, or def when h has none here. It never allocates.
func (c *Container) ValueOr(h *Handle, def int) int {
	id, err := c.check(h)
	if err != nil {
		return def
	}
	if v, ok := id.Constant(); ok {
		return v
	}
	if v, ok := c.byID[id]; ok {
		return v
	}
	return def
}

// Assign binds h to v explicitly. Constants and values held by another
// identity are rejected.
func (c *Container) Assign(h *Handle, v int) error {
	id, err := c.check(h)
	if err != nil {
		return err
	}
	if id.constant || c.cat.IsConstant(v) {
		return fmt.Errorf("%w: %s cannot be assigned %d", gdlevel.ErrInvalidValue, id, v)
	}
	if other, ok := c.byValue[v]; ok && other != id {
		return fmt.Errorf("%w: %s value %d is taken", gdlevel.ErrDuplicateKey, c.cat, v)
	}
	c.drop(id)
	c.bind(id, v)
	return nil
}

// Unassign removes the value of h from this container.
func (c *Container) Unassign(h *Handle) {
	if h == nil {
		return
	}
	c.drop(h.id)
}

// Len returns the number of bound identities.
func (c *Container) Len() int { return len(c.byID) }

// Values lists bound values in ascending order.
func (c *Container) Values() []int {
	out := make([]int, 0, len(c.byValue))
	for v := range c.byValue {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func (c *Container) check(h *Handle) (*Identity, error) {
	if h == nil || h.id == nil {
		return nil, fmt.Errorf("%w: nil handle", gdlevel.ErrInvalidValue)
	}
	if h.id.cat != c.cat {
		return nil, fmt.Errorf("%w: %s handle in %s container", gdlevel.ErrCategoryMismatch, h.id.cat, c.cat)
	}
	if h.released {
		return nil, fmt.Errorf("%w: released handle", gdlevel.ErrInvalidValue)
	}
	return h.id, nil
}

func (c *Container) bind(id *Identity, v int) {
	c.byValue[v] = id
	c.byID[id] = v
	if !id.memberOf(c) {
		id.containers = append(id.containers, c)
	}
}

func (c *Container) drop(id *Identity) {
	v, ok := c.byID[id]
	if !ok {
		return
	}
	delete(c.byID, id)
	delete(c.byValue, v)
	id.leave(c)
}
