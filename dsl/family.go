package dsl

import (
	"fmt"

	gdlevel "github.com/reoring/gdlevel"
)

// Schema is the pair of groups registered for one class.
type Schema struct {
	Fields *FieldGroup
	Attrs  *AttrGroup
}

// Transform composes Fields >> Attrs >> construct. construct may be nil.
func (s Schema) Transform(construct gdlevel.Transform) gdlevel.Transform {
	return gdlevel.Then(s.Fields, s.Attrs, construct)
}

// Family registers schemas per class and folds them along an inheritance
// lineage.
type Family[K comparable] struct {
	lineage func(K) []K
	schemas map[K]Schema
	order   []K
}

// NewFamily creates a family. lineage returns the ancestors of a class, nearest
// first; it is used when Define is given no explicit bases.
func NewFamily[K comparable](lineage func(K) []K) *Family[K] {
	return &Family[K]{lineage: lineage, schemas: map[K]Schema{}}
}

// Define registers class. The groups of each base (nil: every ancestor, most
// distant first) are combined in order, then fields and attrs are combined on
// top. Registering a class twice fails.
func (f *Family[K]) Define(class K, bases []K, fields *FieldGroup, attrs *AttrGroup) (Schema, error) {
	if _, dup := f.schemas[class]; dup {
		return Schema{}, fmt.Errorf("%w: %v", gdlevel.ErrClassRegistered, class)
	}
	if bases == nil && f.lineage != nil {
		anc := f.lineage(class)
		bases = make([]K, 0, len(anc))
		for i := len(anc) - 1; i >= 0; i-- {
			bases = append(bases, anc[i])
		}
	}
	var fg *FieldGroup
	var ag *AttrGroup
	for _, b := range bases {
		s, ok := f.schemas[b]
		if !ok {
			continue
		}
		fg = Combine(fg, s.Fields)
		ag = CombineAttrs(ag, s.Attrs)
	}
	fg = Combine(fg, fields)
	ag = CombineAttrs(ag, attrs).Over(fg)
	s := Schema{Fields: fg, Attrs: ag}
	f.schemas[class] = s
	f.order = append(f.order, class)
	return s, nil
}

// MustDefine is like Define but panics on error.
func (f *Family[K]) MustDefine(class K, bases []K, fields *FieldGroup, attrs *AttrGroup) Schema {
	s, err := f.Define(class, bases, fields, attrs)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the schema registered for class.
func (f *Family[K]) Lookup(class K) (Schema, bool) {
	s, ok := f.schemas[class]
	return s, ok
}

// Classes lists registered classes in registration order.
func (f *Family[K]) Classes() []K { return append([]K(nil), f.order...) }
