package gdobj

import (
	"context"
	"fmt"
	"sort"
	"sync"

	json "github.com/goccy/go-json"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/ident"
)

// DefaultPolicy supplies the value of an attribute that is not set. Factory
// defaults are built on every call so callers can mutate them freely.
type DefaultPolicy struct {
	value   any
	factory func() any
}

// Literal is a fixed default.
func Literal(v any) DefaultPolicy { return DefaultPolicy{value: v} }

// Factory is a default built on demand.
func Factory(fn func() any) DefaultPolicy { return DefaultPolicy{factory: fn} }

// Resolve returns the default value.
func (p DefaultPolicy) Resolve() any {
	if p.factory != nil {
		return p.factory()
	}
	return p.value
}

// Defaults returns the default policy of every attribute of c. They are derived
// from the raw defaults of the class schema.
func Defaults(c Class) map[string]DefaultPolicy {
	src := defaultsOf(c)
	out := make(map[string]DefaultPolicy, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

var (
	defaultsOnce    sync.Once
	defaultsByClass map[Class]map[string]DefaultPolicy
)

func defaultsOf(c Class) map[string]DefaultPolicy {
	defaultsOnce.Do(func() {
		defaultsByClass = map[Class]map[string]DefaultPolicy{}
		for _, cls := range family.Classes() {
			defaultsByClass[cls] = buildDefaults(cls)
		}
	})
	return defaultsByClass[c]
}

func buildDefaults(c Class) map[string]DefaultPolicy {
	s, _ := family.Lookup(c)
	ctx := context.Background()
	out := map[string]DefaultPolicy{}
	for _, name := range s.Attrs.Attrs() {
		v, ok, err := s.Attrs.Default(ctx, name)
		if !ok || err != nil {
			continue
		}
		switch v.(type) {
		case map[string]any, map[int]int, []*ident.Handle:
			name := name
			out[name] = Factory(func() any {
				v, _, _ := s.Attrs.Default(ctx, name)
				return v
			})
		default:
			out[name] = Literal(v)
		}
	}
	return out
}

// Object is one decoded level object: its class plus the attributes that were
// present or set. Everything else reads as the class default.
type Object struct {
	class Class
	attrs map[string]any
}

// New creates an object of c with no attributes set.
func New(c Class) *Object {
	return &Object{class: c, attrs: map[string]any{}}
}

func (o *Object) Class() Class { return o.class }

// Get returns the attribute, or its class default when it is not set.
func (o *Object) Get(name string) (any, bool) {
	if v, ok := o.attrs[name]; ok {
		return v, true
	}
	if p, ok := defaultsOf(o.class)[name]; ok {
		return p.Resolve(), true
	}
	return nil, false
}

// Has reports whether the attribute is set.
func (o *Object) Has(name string) bool {
	_, ok := o.attrs[name]
	return ok
}

// Set assigns an attribute declared by the class schema.
func (o *Object) Set(name string, v any) error {
	s, ok := family.Lookup(o.class)
	if !ok {
		return fmt.Errorf("%w: %s", gdlevel.ErrUnknownClass, o.class)
	}
	if _, ok := s.Attrs.Binding(name); !ok {
		return gdlevel.Issues{gdlevel.Root().Field(name).Issue(gdlevel.CodeUnknownKey, gdlevel.ErrUnknownKey, "class", o.class.String())}
	}
	o.attrs[name] = v
	return nil
}

// Unset drops an attribute so it reads as the default again.
func (o *Object) Unset(name string) { delete(o.attrs, name) }

// Attrs returns a copy of the set attributes.
func (o *Object) Attrs() map[string]any {
	out := make(map[string]any, len(o.attrs))
	for k, v := range o.attrs {
		out[k] = v
	}
	return out
}

// Names lists the set attributes in sorted order.
func (o *Object) Names() []string {
	out := make([]string, 0, len(o.attrs))
	for k := range o.attrs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (o *Object) Float(name string) (float64, bool) { return typed[float64](o, name) }
func (o *Object) Int(name string) (int, bool)       { return typed[int](o, name) }
func (o *Object) Bool(name string) (bool, bool)     { return typed[bool](o, name) }

func (o *Object) Handle(name string) (*ident.Handle, bool) {
	return typed[*ident.Handle](o, name)
}

func (o *Object) Handles(name string) ([]*ident.Handle, bool) {
	return typed[[]*ident.Handle](o, name)
}

func typed[T any](o *Object, name string) (T, bool) {
	v, _ := o.Get(name)
	t, ok := v.(T)
	return t, ok
}

// Equal compares class and attributes; unset attributes compare by their
// defaults.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.class != other.class {
		return false
	}
	names := map[string]struct{}{}
	for k := range o.attrs {
		names[k] = struct{}{}
	}
	for k := range other.attrs {
		names[k] = struct{}{}
	}
	for k := range names {
		a, _ := o.Get(k)
		b, _ := other.Get(k)
		if !gdlevel.Equal(a, b) {
			return false
		}
	}
	return true
}

func (o *Object) EqualValue(other any) bool {
	x, ok := other.(*Object)
	return ok && o.Equal(x)
}

type objectView struct {
	Class Class          `json:"class" yaml:"class"`
	ID    int            `json:"id,omitempty" yaml:"id,omitempty"`
	Attrs map[string]any `json:"attrs" yaml:"attrs"`
}

func (o *Object) view() objectView {
	v := objectView{Class: o.class, Attrs: o.attrs}
	if id, ok := o.class.ID(); ok {
		v.ID = id
	} else if id, ok := o.attrs["id"].(int); ok {
		v.ID = id
	}
	return v
}

func (o *Object) MarshalJSON() ([]byte, error) { return json.Marshal(o.view()) }

func (o *Object) MarshalYAML() (any, error) { return o.view(), nil }

func (o *Object) String() string {
	return fmt.Sprintf("%s%v", o.class, o.attrs)
}

// Relabel returns a copy whose unused raw keys are renamed by fn. The copy is
// meant for display; it does not encode back to the same record.
func (o *Object) Relabel(fn func(key string) string) *Object {
	c := &Object{class: o.class, attrs: o.Attrs()}
	if u, ok := c.attrs["unused"].(map[string]any); ok {
		r := make(map[string]any, len(u))
		for k, v := range u {
			r[fn(k)] = v
		}
		c.attrs["unused"] = r
	}
	return c
}
