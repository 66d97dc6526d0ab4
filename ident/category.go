package ident

import "sort"

// Category is one kind of soft reference (group, block, item, timer). It owns
// the reserved constants of that kind.
type Category struct {
	name      string
	constants map[int]*Identity
}

// Const declares a reserved value of a category.
type Const struct {
	Value int
	Name  string
}

// NewCategory declares a category with its constants. Each constant gets one
// immutable identity and a fixed handle.
func NewCategory(name string, consts ...Const) *Category {
	c := &Category{name: name, constants: make(map[int]*Identity, len(consts))}
	for _, k := range consts {
		id := &Identity{cat: c, constant: true, value: k.Value, name: k.Name}
		id.Handle()
		c.constants[k.Value] = id
	}
	return c
}

var (
	Group = NewCategory("Group", Const{0, "Empty"})
	Block = NewCategory("Block", Const{0, "Empty"})
	Item  = NewCategory("Item", Const{0, "Empty"}, Const{-2, "Points"}, Const{-3, "Attempts"})
	Timer = NewCategory("Timer", Const{0, "Empty"}, Const{-1, "MainTime"})
)

// Fixed handles of the reserved constants.
var (
	EmptyGroup    = Group.Constant(0)
	EmptyBlock    = Block.Constant(0)
	EmptyItem     = Item.Constant(0)
	ItemPoints    = Item.Constant(-2)
	ItemAttempts  = Item.Constant(-3)
	EmptyTimer    = Timer.Constant(0)
	TimerMainTime = Timer.Constant(-1)
)

func (c *Category) Name() string   { return c.name }
func (c *Category) String() string { return c.name }

// Constant returns the fixed handle of a reserved value, or nil.
func (c *Category) Constant(v int) *Handle {
	id, ok := c.constants[v]
	if !ok {
		return nil
	}
	return id.observers[0]
}

// IsConstant reports whether v is reserved.
func (c *Category) IsConstant(v int) bool {
	_, ok := c.constants[v]
	return ok
}

// Constants lists the reserved values in ascending order.
func (c *Category) Constants() []int {
	out := make([]int, 0, len(c.constants))
	for v := range c.constants {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// New creates an anonymous identity that has no value in any container yet and
// returns its handle. A value is allocated the first time a container is asked
// for one.
func (c *Category) New() *Handle {
	id := &Identity{cat: c}
	return id.Handle()
}
