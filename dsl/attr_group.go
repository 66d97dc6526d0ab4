package dsl

import (
	"context"
	"fmt"

	gdlevel "github.com/reoring/gdlevel"
)

// AttrBinding derives one attribute from one or more semantic names.
type AttrBinding struct {
	attr       string
	transform  gdlevel.Transform
	deps       []string
	policy     gdlevel.Policy
	def        any
	hasDef     bool
	unusedAttr bool
}

// AttrOpt configures an AttrBinding.
type AttrOpt func(*AttrBinding)

// Deps overrides the semantic names the binding depends on. By default they are
// the keys the transform reads.
func Deps(names ...string) AttrOpt {
	return func(b *AttrBinding) { b.deps = names }
}

// AttrPolicy sets the default handling of the attribute on Analyze.
func AttrPolicy(p gdlevel.Policy) AttrOpt {
	return func(b *AttrBinding) { b.policy = p }
}

// AttrDefault fixes the attribute default instead of deriving it from field defaults.
func AttrDefault(v any) AttrOpt {
	return func(b *AttrBinding) { b.def, b.hasDef = v, true }
}

// Attr builds a binding from attribute name and transform.
func Attr(name string, t gdlevel.Transform, opts ...AttrOpt) AttrBinding {
	b := AttrBinding{attr: name, transform: t}
	for _, o := range opts {
		o(&b)
	}
	if b.deps == nil {
		b.deps = gdlevel.KeysOf(t)
	}
	return b
}

// Same exposes semantic name as an attribute of the same name.
func Same(name string, opts ...AttrOpt) AttrBinding {
	return Attr(name, Key(name), opts...)
}

// Rename exposes semantic under attr, optionally converting it further.
func Rename(attr, semantic string, extra ...gdlevel.Transform) AttrBinding {
	return Attr(attr, gdlevel.Then(append([]gdlevel.Transform{Key(semantic)}, extra...)...))
}

// Drop consumes semantic names without producing an attribute.
func Drop(names ...string) AttrBinding {
	return AttrBinding{deps: names, transform: MultiKey(names...)}
}

// UnusedAttr collects every semantic name no other binding depends on into one
// dict attribute. Empty buckets are omitted.
func UnusedAttr(name string) AttrBinding {
	return AttrBinding{
		attr:       name,
		transform:  nothing{},
		deps:       []string{gdlevel.Wildcard},
		policy:     gdlevel.OmitDefault,
		def:        map[string]any{},
		hasDef:     true,
		unusedAttr: true,
	}
}

func (b AttrBinding) Attr() string      { return b.attr }
func (b AttrBinding) DepNames() []string { return append([]string(nil), b.deps...) }

// AttrGroup maps semantic names to object attributes.
type AttrGroup struct {
	bindings []AttrBinding
	byAttr   map[string]int
	unused   *AttrBinding
	fields   *FieldGroup
}

// NewAttrGroup indexes the bindings. Attribute names must be unique; dependent
// names may overlap.
func NewAttrGroup(bindings ...AttrBinding) (*AttrGroup, error) {
	g := &AttrGroup{byAttr: map[string]int{}}
	for _, b := range bindings {
		if b.unusedAttr {
			if g.unused != nil {
				return nil, fmt.Errorf("%w: second unused attribute", gdlevel.ErrDuplicateName)
			}
			bb := b
			g.unused = &bb
			continue
		}
		if len(b.deps) == 0 {
			return nil, fmt.Errorf("%w: attribute %q has no dependent names", gdlevel.ErrEmptyBinding, b.attr)
		}
		if err := g.add(b); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// MustAttrGroup is like NewAttrGroup but panics on error.
func MustAttrGroup(bindings ...AttrBinding) *AttrGroup {
	g, err := NewAttrGroup(bindings...)
	if err != nil {
		panic(err)
	}
	return g
}

// mustAdd panics on a collision; only a derived binding named like the base
// unused bucket can cause one.
func (g *AttrGroup) mustAdd(b AttrBinding) {
	if err := g.add(b); err != nil {
		panic(fmt.Sprintf("dsl: combining attribute groups: %v", err))
	}
}

func (g *AttrGroup) add(b AttrBinding) error {
	if b.attr != "" {
		if _, dup := g.byAttr[b.attr]; dup {
			return fmt.Errorf("%w: attribute %q", gdlevel.ErrDuplicateName, b.attr)
		}
		if g.unused != nil && g.unused.attr == b.attr {
			return fmt.Errorf("%w: attribute %q", gdlevel.ErrDuplicateName, b.attr)
		}
		g.byAttr[b.attr] = len(g.bindings)
	}
	g.bindings = append(g.bindings, b)
	return nil
}

// CombineAttrs returns a group in which derived's bindings win: a base binding is
// kept only when derived neither names its attribute nor depends on any of its
// dependent names.
func CombineAttrs(base, derived *AttrGroup) *AttrGroup {
	if base == nil {
		base = &AttrGroup{}
	}
	if derived == nil {
		derived = &AttrGroup{}
	}
	claimed := map[string]struct{}{}
	for _, b := range derived.bindings {
		for _, d := range b.deps {
			claimed[d] = struct{}{}
		}
	}
	g := &AttrGroup{byAttr: map[string]int{}, unused: base.unused, fields: base.fields}
	if derived.unused != nil {
		g.unused = derived.unused
	}
	if derived.fields != nil {
		g.fields = derived.fields
	}
outer:
	for _, b := range base.bindings {
		if _, taken := derived.byAttr[b.attr]; b.attr != "" && taken {
			continue
		}
		if g.unused != nil && b.attr == g.unused.attr {
			continue
		}
		for _, d := range b.deps {
			if _, taken := claimed[d]; taken {
				continue outer
			}
		}
		g.mustAdd(b)
	}
	for _, b := range derived.bindings {
		g.mustAdd(b)
	}
	return g
}

// Over returns a copy of the group that fills missing dependent names with the
// semantic defaults of fields.
func (g *AttrGroup) Over(fields *FieldGroup) *AttrGroup {
	cp := *g
	cp.fields = fields
	return &cp
}

// Attrs lists the attribute names in declaration order (the unused bucket last).
func (g *AttrGroup) Attrs() []string {
	var out []string
	for _, b := range g.bindings {
		if b.attr != "" {
			out = append(out, b.attr)
		}
	}
	if g.unused != nil {
		out = append(out, g.unused.attr)
	}
	return out
}

// Binding looks a binding up by attribute name.
func (g *AttrGroup) Binding(attr string) (AttrBinding, bool) {
	if g.unused != nil && g.unused.attr == attr {
		return *g.unused, true
	}
	i, ok := g.byAttr[attr]
	if !ok {
		return AttrBinding{}, false
	}
	return g.bindings[i], true
}

// Default evaluates the attribute default: the fixed one when given, otherwise
// the transform applied to the field defaults of every dependent name.
func (g *AttrGroup) Default(ctx context.Context, attr string) (any, bool, error) {
	b, ok := g.Binding(attr)
	if !ok {
		return nil, false, nil
	}
	return g.defaultOf(ctx, b)
}

func (g *AttrGroup) defaultOf(ctx context.Context, b AttrBinding) (any, bool, error) {
	if b.hasDef {
		return b.def, true, nil
	}
	if g.fields == nil {
		return nil, false, nil
	}
	view := make(map[string]any, len(b.deps))
	for _, d := range b.deps {
		dv, ok, err := g.fields.Default(ctx, d)
		if err != nil || !ok {
			return nil, false, err
		}
		view[d] = dv
	}
	v, err := b.transform.Analyze(ctx, view)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// view holds the present dependent names plus field defaults for the missing ones.
func (g *AttrGroup) view(ctx context.Context, sem map[string]any, deps []string) (map[string]any, error) {
	out := make(map[string]any, len(deps))
	for _, d := range deps {
		if v, ok := sem[d]; ok {
			out[d] = v
			continue
		}
		if g.fields == nil {
			continue
		}
		dv, ok, err := g.fields.Default(ctx, d)
		if err != nil {
			return nil, gdlevel.Rebase(err, d)
		}
		if ok {
			out[d] = dv
		}
	}
	return out, nil
}

// Analyze turns a semantic dict into an attribute dict.
func (g *AttrGroup) Analyze(ctx context.Context, data any) (any, error) {
	sem, ok := data.(map[string]any)
	if !ok {
		return nil, invalidType("expected dict", data)
	}
	out := make(map[string]any, len(sem))
	claimed := make(map[string]struct{}, len(sem))
	var iss gdlevel.Issues
	fail := func(err error, seg string) bool {
		iss = gdlevel.AppendIssues(iss, gdlevel.IssuesFrom("/", gdlevel.Rebase(err, seg))...)
		return gdlevel.IsFailFast(ctx)
	}
	for _, b := range g.bindings {
		active := false
		for _, d := range b.deps {
			claimed[d] = struct{}{}
			if _, ok := sem[d]; ok {
				active = true
			}
		}
		if b.attr == "" {
			continue
		}
		if !active {
			if b.policy == gdlevel.AlwaysEmit {
				dv, ok, err := g.defaultOf(ctx, b)
				if err != nil {
					if fail(err, b.attr) {
						return nil, iss
					}
					continue
				}
				if ok {
					out[b.attr] = dv
				}
			}
			continue
		}
		view, err := g.view(ctx, sem, b.deps)
		if err == nil {
			var v any
			if v, err = b.transform.Analyze(ctx, view); err == nil {
				if b.policy == gdlevel.OmitDefault {
					if dv, ok, _ := g.defaultOf(ctx, b); ok && gdlevel.Equal(v, dv) {
						continue
					}
				}
				out[b.attr] = v
				continue
			}
		}
		if fail(err, b.attr) {
			return nil, iss
		}
	}

	// Unclaimed names still holding their field default stay out of the bucket.
	rest := map[string]any{}
	for k, v := range sem {
		if _, ok := claimed[k]; ok {
			continue
		}
		if g.unused != nil && g.fields != nil {
			if dv, ok, err := g.fields.Default(ctx, k); err == nil && ok && gdlevel.Equal(v, dv) {
				continue
			}
		}
		rest[k] = v
	}
	if len(rest) > 0 {
		if g.unused == nil {
			iss = gdlevel.AppendIssues(iss, gdlevel.IssuesFrom("/", unknownKeys(rest))...)
		} else if g.unused.attr != "" {
			v, err := g.unused.transform.Analyze(ctx, rest)
			if err != nil {
				iss = gdlevel.AppendIssues(iss, gdlevel.IssuesFrom("/", gdlevel.Rebase(err, g.unused.attr))...)
			} else if g.unused.policy != gdlevel.OmitDefault || !gdlevel.Equal(v, g.unused.def) {
				out[g.unused.attr] = v
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// Compile turns an attribute dict back into a semantic dict. Each binding's
// transform receives the whole attribute dict as sink.
func (g *AttrGroup) Compile(ctx context.Context, value any, _ map[string]any) (any, error) {
	attrs, ok := value.(map[string]any)
	if !ok {
		return nil, invalidType("expected dict", value)
	}
	out := make(map[string]any, len(attrs))
	for _, b := range g.bindings {
		if b.attr == "" {
			continue
		}
		v, ok := attrs[b.attr]
		if !ok {
			continue
		}
		r, err := b.transform.Compile(ctx, v, attrs)
		if err != nil {
			return nil, gdlevel.Rebase(err, b.attr)
		}
		m, ok := r.(map[string]any)
		if !ok {
			return nil, gdlevel.Rebase(invalidType("attribute must compile to a dict", r), b.attr)
		}
		for k, x := range m {
			out[k] = x
		}
	}
	rest := map[string]any{}
	for k, v := range attrs {
		if _, bound := g.byAttr[k]; bound {
			continue
		}
		if g.unused != nil && g.unused.attr == k {
			continue
		}
		rest[k] = v
	}
	if len(rest) > 0 {
		return nil, unknownKeys(rest)
	}
	if g.unused == nil {
		return out, nil
	}
	v, ok := attrs[g.unused.attr]
	if !ok {
		return out, nil
	}
	r, err := g.unused.transform.Compile(ctx, v, attrs)
	if err != nil {
		return nil, gdlevel.Rebase(err, g.unused.attr)
	}
	m, ok := r.(map[string]any)
	if !ok {
		return nil, gdlevel.Rebase(invalidType("unused attribute must be a dict", r), g.unused.attr)
	}
	for k, x := range m {
		if _, taken := out[k]; taken {
			return nil, fmt.Errorf("%w: unused name %q is produced by an attribute", gdlevel.ErrDuplicateName, k)
		}
		out[k] = x
	}
	return out, nil
}
