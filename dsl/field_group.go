package dsl

import (
	"context"
	"fmt"
	"sort"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/i18n"
)

// FieldBinding ties one raw key to one semantic name through a transform.
//
// Either Key or Name may be empty (not both): a binding without a name consumes
// its raw key, one without a key only ever contributes its default.
type FieldBinding struct {
	key        string
	name       string
	transform  gdlevel.Transform
	defRaw     any
	hasRaw     bool
	defValue   any
	hasValue   bool
	keyPolicy  gdlevel.Policy
	namePolicy gdlevel.Policy
}

// FieldOpt configures a FieldBinding.
type FieldOpt func(*FieldBinding)

// RawDefault sets the default in its raw form.
func RawDefault(raw any) FieldOpt {
	return func(b *FieldBinding) { b.defRaw, b.hasRaw = raw, true }
}

// ValueDefault sets the default in its semantic form.
func ValueDefault(v any) FieldOpt {
	return func(b *FieldBinding) { b.defValue, b.hasValue = v, true }
}

// KeyPolicy controls raw-side default handling on Compile.
func KeyPolicy(p gdlevel.Policy) FieldOpt {
	return func(b *FieldBinding) { b.keyPolicy = p }
}

// NamePolicy controls semantic-side default handling on Analyze.
func NamePolicy(p gdlevel.Policy) FieldOpt {
	return func(b *FieldBinding) { b.namePolicy = p }
}

// Field builds a binding. A nil transform passes values through unchanged.
func Field(key, name string, t gdlevel.Transform, opts ...FieldOpt) FieldBinding {
	b := FieldBinding{key: key, name: name, transform: t}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Unused builds the unused bucket binding. name is gdlevel.Wildcard to splice the
// unclaimed keys into the semantic dict, another name to keep them as one
// sub-dict, or "" to drop them.
func Unused(name string, t gdlevel.Transform) FieldBinding {
	return FieldBinding{key: gdlevel.Wildcard, name: name, transform: t}
}

func (b FieldBinding) Key() string  { return b.key }
func (b FieldBinding) Name() string { return b.name }

func (b FieldBinding) xform() gdlevel.Transform {
	if b.transform == nil {
		return nothing{}
	}
	return b.transform
}

// DefaultValue returns the semantic default, deriving it from the raw default
// when only that was given.
func (b FieldBinding) DefaultValue(ctx context.Context) (any, bool, error) {
	switch {
	case b.hasValue:
		return b.defValue, true, nil
	case b.hasRaw:
		v, err := b.xform().Analyze(ctx, b.defRaw)
		return v, err == nil, err
	}
	return nil, false, nil
}

// DefaultRaw returns the canonical raw default: the compiled semantic default.
// "0" and "0.000" both describe a zero float; only the compiled form is
// compared against compiled output.
func (b FieldBinding) DefaultRaw(ctx context.Context) (any, bool, error) {
	v, ok, err := b.DefaultValue(ctx)
	if !ok || err != nil {
		return nil, false, err
	}
	r, err := b.xform().Compile(ctx, v, nil)
	return r, err == nil, err
}

// FieldGroup maps raw keys to semantic names.
type FieldGroup struct {
	bindings []FieldBinding
	byKey    map[string]int
	byName   map[string]int
	unused   *FieldBinding
}

// NewFieldGroup indexes the bindings. Duplicate keys or names and bindings with
// neither are rejected.
func NewFieldGroup(bindings ...FieldBinding) (*FieldGroup, error) {
	g := &FieldGroup{byKey: map[string]int{}, byName: map[string]int{}}
	for _, b := range bindings {
		if b.key == "" && b.name == "" {
			return nil, gdlevel.ErrEmptyBinding
		}
		if b.key == gdlevel.Wildcard {
			if g.unused != nil {
				return nil, fmt.Errorf("%w: second unused bucket", gdlevel.ErrDuplicateKey)
			}
			bb := b
			g.unused = &bb
			continue
		}
		if err := g.add(b); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// MustFieldGroup is like NewFieldGroup but panics on error.
func MustFieldGroup(bindings ...FieldBinding) *FieldGroup {
	g, err := NewFieldGroup(bindings...)
	if err != nil {
		panic(err)
	}
	return g
}

// mustAdd is add for bindings taken from groups that were already validated.
func (g *FieldGroup) mustAdd(b FieldBinding) {
	if err := g.add(b); err != nil {
		panic(fmt.Sprintf("dsl: combining field groups: %v", err))
	}
}

func (g *FieldGroup) add(b FieldBinding) error {
	if b.key != "" {
		if _, dup := g.byKey[b.key]; dup {
			return fmt.Errorf("%w: %q", gdlevel.ErrDuplicateKey, b.key)
		}
	}
	if b.name != "" {
		if _, dup := g.byName[b.name]; dup {
			return fmt.Errorf("%w: %q", gdlevel.ErrDuplicateName, b.name)
		}
	}
	i := len(g.bindings)
	g.bindings = append(g.bindings, b)
	if b.key != "" {
		g.byKey[b.key] = i
	}
	if b.name != "" {
		g.byName[b.name] = i
	}
	return nil
}

// Combine returns a group in which derived's bindings win: a base binding is
// kept only when neither its key nor its name is claimed by derived. The unused
// bucket of derived replaces the base one when present.
func Combine(base, derived *FieldGroup) *FieldGroup {
	if base == nil {
		base = &FieldGroup{}
	}
	if derived == nil {
		derived = &FieldGroup{}
	}
	g := &FieldGroup{byKey: map[string]int{}, byName: map[string]int{}, unused: base.unused}
	for _, b := range base.bindings {
		if _, taken := derived.byKey[b.key]; b.key != "" && taken {
			continue
		}
		if _, taken := derived.byName[b.name]; b.name != "" && taken {
			continue
		}
		g.mustAdd(b)
	}
	for _, b := range derived.bindings {
		g.mustAdd(b)
	}
	if derived.unused != nil {
		g.unused = derived.unused
	}
	return g
}

// Binding looks a binding up by semantic name.
func (g *FieldGroup) Binding(name string) (FieldBinding, bool) {
	i, ok := g.byName[name]
	if !ok {
		return FieldBinding{}, false
	}
	return g.bindings[i], true
}

// BindingForKey looks a binding up by raw key.
func (g *FieldGroup) BindingForKey(key string) (FieldBinding, bool) {
	i, ok := g.byKey[key]
	if !ok {
		return FieldBinding{}, false
	}
	return g.bindings[i], true
}

// Keys lists the claimed raw keys in declaration order.
func (g *FieldGroup) Keys() []string {
	var out []string
	for _, b := range g.bindings {
		if b.key != "" {
			out = append(out, b.key)
		}
	}
	return out
}

// Names lists the produced semantic names in declaration order.
func (g *FieldGroup) Names() []string {
	var out []string
	for _, b := range g.bindings {
		if b.name != "" {
			out = append(out, b.name)
		}
	}
	return out
}

// Default returns the semantic default of name.
func (g *FieldGroup) Default(ctx context.Context, name string) (any, bool, error) {
	b, ok := g.Binding(name)
	if !ok {
		return nil, false, nil
	}
	return b.DefaultValue(ctx)
}

// Analyze turns a raw dict into a semantic dict.
func (g *FieldGroup) Analyze(ctx context.Context, data any) (any, error) {
	raw, ok := data.(map[string]any)
	if !ok {
		return nil, invalidType("expected dict", data)
	}
	out := make(map[string]any, len(raw))
	var iss gdlevel.Issues
	fail := func(err error, seg string) bool {
		iss = gdlevel.AppendIssues(iss, gdlevel.IssuesFrom("/", gdlevel.Rebase(err, seg))...)
		return gdlevel.IsFailFast(ctx)
	}
	for _, b := range g.bindings {
		rv, present := raw[b.key]
		if b.key == "" || !present {
			if b.name != "" && b.namePolicy == gdlevel.AlwaysEmit {
				dv, ok, err := b.DefaultValue(ctx)
				if err != nil {
					if fail(err, b.name) {
						return nil, iss
					}
					continue
				}
				if ok {
					out[b.name] = dv
				}
			}
			continue
		}
		v, err := b.xform().Analyze(ctx, rv)
		if err != nil {
			if fail(err, b.key) {
				return nil, iss
			}
			continue
		}
		if b.name == "" {
			continue
		}
		if b.namePolicy == gdlevel.OmitDefault {
			if dv, ok, _ := b.DefaultValue(ctx); ok && gdlevel.Equal(v, dv) {
				continue
			}
		}
		out[b.name] = v
	}

	rest := map[string]any{}
	for k, v := range raw {
		if _, claimed := g.byKey[k]; !claimed {
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		if err := g.analyzeUnused(ctx, rest, out); err != nil {
			iss = gdlevel.AppendIssues(iss, gdlevel.IssuesFrom("/", err)...)
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (g *FieldGroup) analyzeUnused(ctx context.Context, rest, out map[string]any) error {
	if g.unused == nil {
		return unknownKeys(rest)
	}
	v, err := g.unused.xform().Analyze(ctx, rest)
	if err != nil {
		return err
	}
	switch g.unused.name {
	case "":
		return nil
	case gdlevel.Wildcard:
		m, ok := v.(map[string]any)
		if !ok {
			return invalidType("unused bucket must produce a dict", v)
		}
		for k, x := range m {
			if _, taken := out[k]; taken {
				return fmt.Errorf("%w: unused key %q collides with a semantic name", gdlevel.ErrDuplicateName, k)
			}
			out[k] = x
		}
	default:
		out[g.unused.name] = v
	}
	return nil
}

// Compile turns a semantic dict back into a raw dict.
func (g *FieldGroup) Compile(ctx context.Context, value any, _ map[string]any) (any, error) {
	sem, ok := value.(map[string]any)
	if !ok {
		return nil, invalidType("expected dict", value)
	}
	out := make(map[string]any, len(sem))
	for _, b := range g.bindings {
		v, present := sem[b.name]
		if b.name == "" || b.key == "" || !present {
			continue
		}
		r, err := b.xform().Compile(ctx, v, sem)
		if err != nil {
			return nil, gdlevel.Rebase(err, b.name)
		}
		if b.keyPolicy == gdlevel.OmitDefault {
			if dr, ok, _ := b.DefaultRaw(ctx); ok && gdlevel.Equal(r, dr) {
				continue
			}
		}
		out[b.key] = r
	}

	if err := g.compileUnused(ctx, sem, out); err != nil {
		return nil, err
	}

	for _, b := range g.bindings {
		if b.key == "" || b.keyPolicy != gdlevel.AlwaysEmit {
			continue
		}
		if _, written := out[b.key]; written {
			continue
		}
		dr, ok, err := b.DefaultRaw(ctx)
		if err != nil {
			return nil, gdlevel.Rebase(err, b.key)
		}
		if ok {
			out[b.key] = dr
		}
	}
	return out, nil
}

func (g *FieldGroup) compileUnused(ctx context.Context, sem, out map[string]any) error {
	rest := map[string]any{}
	for k, v := range sem {
		if _, bound := g.byName[k]; bound {
			continue
		}
		if g.unused != nil && g.unused.name == k {
			continue
		}
		rest[k] = v
	}
	var in any
	switch {
	case g.unused == nil || g.unused.name == "":
		if len(rest) > 0 {
			return unknownKeys(rest)
		}
		return nil
	case g.unused.name == gdlevel.Wildcard:
		if len(rest) == 0 {
			return nil
		}
		in = rest
	default:
		if len(rest) > 0 {
			return unknownKeys(rest)
		}
		v, ok := sem[g.unused.name]
		if !ok {
			return nil
		}
		in = v
	}
	r, err := g.unused.xform().Compile(ctx, in, sem)
	if err != nil {
		return err
	}
	m, ok := r.(map[string]any)
	if !ok {
		return invalidType("unused bucket must compile to a dict", r)
	}
	for k, x := range m {
		if _, bound := g.byKey[k]; bound {
			return fmt.Errorf("%w: unused key %q is bound by the group", gdlevel.ErrDuplicateKey, k)
		}
		out[k] = x
	}
	return nil
}

func unknownKeys(rest map[string]any) error {
	ks := make([]string, 0, len(rest))
	for k := range rest {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	var iss gdlevel.Issues
	for _, k := range ks {
		iss = gdlevel.AppendIssues(iss, gdlevel.Issue{
			Path:    gdlevel.Root().Field(k).Pointer(),
			Code:    gdlevel.CodeUnknownKey,
			Message: i18n.T(gdlevel.CodeUnknownKey, nil),
			Cause:   gdlevel.ErrUnknownKey,
		})
	}
	return iss
}
