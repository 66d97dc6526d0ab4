package gdobj

import "fmt"

// Class is the closed set of object variants with a schema.
type Class int

const (
	Base Class = iota
	Special
	AnyID
	Trigger
	TargetTrigger
	EasingTrigger
	Spawn
	Toggle
	Stop
	Pickup
	Count
	InstantCount
	CounterLabel
	Touch
	CollisionBase
	Collision
	InstantCollision
	CollisionState
	CollisionBlock
	ToggleBlock
	Reset
	Move
	MoveBy
	MoveTo
	MoveAt
	Rotate
	RotateBy
	RotateAim
	RotateAs
	Text
	ItemEdit
	ItemCompare
	ItemPersistent

	numClasses
)

type classInfo struct {
	name     string
	parent   Class
	id       int // object id written to key 1; 0 when the class has none of its own
	abstract bool
}

const noParent Class = -1

var classTable = [numClasses]classInfo{
	Base:             {"Base", noParent, 0, true},
	Special:          {"Special", Base, 0, true},
	AnyID:            {"AnyID", Base, 0, false},
	Trigger:          {"Trigger", Special, 0, true},
	TargetTrigger:    {"TargetTrigger", Trigger, 0, true},
	EasingTrigger:    {"EasingTrigger", TargetTrigger, 0, true},
	Spawn:            {"Spawn", TargetTrigger, 1268, false},
	Toggle:           {"Toggle", TargetTrigger, 1049, false},
	Stop:             {"Stop", TargetTrigger, 1616, false},
	Pickup:           {"Pickup", Trigger, 1817, false},
	Count:            {"Count", TargetTrigger, 1611, false},
	InstantCount:     {"InstantCount", TargetTrigger, 1811, false},
	CounterLabel:     {"CounterLabel", Special, 1615, false},
	Touch:            {"Touch", TargetTrigger, 1595, false},
	CollisionBase:    {"CollisionBase", TargetTrigger, 0, true},
	Collision:        {"Collision", CollisionBase, 1815, false},
	InstantCollision: {"InstantCollision", CollisionBase, 3609, false},
	CollisionState:   {"CollisionState", CollisionBase, 3640, false},
	CollisionBlock:   {"CollisionBlock", Special, 1816, false},
	ToggleBlock:      {"ToggleBlock", Special, 3643, false},
	Reset:            {"Reset", TargetTrigger, 3618, false},
	Move:             {"Move", EasingTrigger, 901, true},
	MoveBy:           {"MoveBy", Move, 901, false},
	MoveTo:           {"MoveTo", Move, 901, false},
	MoveAt:           {"MoveAt", Move, 901, false},
	Rotate:           {"Rotate", EasingTrigger, 1346, true},
	RotateBy:         {"RotateBy", Rotate, 1346, false},
	RotateAim:        {"RotateAim", Rotate, 1346, false},
	RotateAs:         {"RotateAs", Rotate, 1346, false},
	Text:             {"Text", Special, 914, false},
	ItemEdit:         {"ItemEdit", Trigger, 3619, false},
	ItemCompare:      {"ItemCompare", Trigger, 3620, false},
	ItemPersistent:   {"ItemPersistent", Trigger, 3641, false},
}

func (c Class) valid() bool { return c >= 0 && c < numClasses }

func (c Class) String() string {
	if !c.valid() {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classTable[c].name
}

func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// ID returns the object id the class writes to key 1.
func (c Class) ID() (int, bool) {
	if !c.valid() || classTable[c].id == 0 {
		return 0, false
	}
	return classTable[c].id, true
}

// Abstract reports whether the class only exists to be inherited from.
func (c Class) Abstract() bool { return c.valid() && classTable[c].abstract }

// Parent returns the direct base class.
func (c Class) Parent() (Class, bool) {
	if !c.valid() || classTable[c].parent == noParent {
		return 0, false
	}
	return classTable[c].parent, true
}

// IsSpecial reports whether the class carries a fixed object id.
func (c Class) IsSpecial() bool { return c.Is(Special) }

// Is reports whether c is base or derives from it.
func (c Class) Is(base Class) bool {
	for x, ok := c, c.valid(); ok; x, ok = x.Parent() {
		if x == base {
			return true
		}
	}
	return false
}

// Lineage lists the ancestors of c, nearest first.
func (c Class) Lineage() []Class {
	var out []Class
	for p, ok := c.Parent(); ok; p, ok = p.Parent() {
		out = append(out, p)
	}
	return out
}

// ParseClass looks a class up by name.
func ParseClass(name string) (Class, bool) {
	for c := Class(0); c < numClasses; c++ {
		if classTable[c].name == name {
			return c, true
		}
	}
	return 0, false
}

// Classes lists every class in declaration order.
func Classes() []Class {
	out := make([]Class, numClasses)
	for i := range out {
		out[i] = Class(i)
	}
	return out
}
