package gdobj

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/catalog"
	"github.com/reoring/gdlevel/codec"
	"github.com/reoring/gdlevel/internal/log"
	"github.com/reoring/gdlevel/recognize"
)

var modeFlags = recognize.Tuple(
	recognize.KeyOr("100", codec.Bool(), false),
	recognize.KeyOr("394", codec.Bool(), false),
)

var classOf = recognize.Map(recognize.KeyOr("1", codec.Int(), 0),
	recognize.Case(1268, Spawn),
	recognize.Case(1049, Toggle),
	recognize.Case(1616, Stop),
	recognize.Case(1817, Pickup),
	recognize.Case(1611, Count),
	recognize.Case(1811, InstantCount),
	recognize.Case(1615, CounterLabel),
	recognize.Case(1595, Touch),
	recognize.Case(1815, Collision),
	recognize.Case(3609, InstantCollision),
	recognize.Case(3640, CollisionState),
	recognize.Case(1816, CollisionBlock),
	recognize.Case(3643, ToggleBlock),
	recognize.Case(3618, Reset),
	recognize.Case(901, recognize.Map(modeFlags,
		recognize.Case([]any{false, false}, MoveBy),
		recognize.Case([]any{true, false}, MoveTo),
		recognize.Case([]any{false, true}, MoveAt),
		recognize.Otherwise(AnyID),
	)),
	recognize.Case(1346, recognize.Map(modeFlags,
		recognize.Case([]any{false, false}, RotateBy),
		recognize.Case([]any{true, false}, RotateAim),
		recognize.Case([]any{false, true}, RotateAs),
		recognize.Otherwise(AnyID),
	)),
	recognize.Case(914, Text),
	recognize.Case(3619, ItemEdit),
	recognize.Case(3620, ItemCompare),
	recognize.Case(3641, ItemPersistent),
	recognize.Otherwise(AnyID),
)

// checkRecognizer panics unless every recognized class has a concrete schema.
func checkRecognizer() {
	for _, o := range recognize.Outcomes(classOf) {
		c, ok := o.(Class)
		if !ok {
			panic(fmt.Sprintf("gdobj: recognizer yields %T", o))
		}
		if _, ok := family.Lookup(c); !ok || c.Abstract() {
			panic("gdobj: recognizer yields class without a concrete schema: " + c.String())
		}
	}
}

// ObjectCodec converts one object record ("k,v,k,v") to an *Object and back.
// Group, block, item and timer references resolve through the registry in ctx.
type ObjectCodec struct{}

func NewObjectCodec() *ObjectCodec { return &ObjectCodec{} }

// Analyze accepts a record string or an already split raw dict.
func (c *ObjectCodec) Analyze(ctx context.Context, data any) (any, error) {
	switch d := data.(type) {
	case string:
		return c.Decode(ctx, d)
	case map[string]any:
		return c.DecodeDict(ctx, d)
	}
	return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue, fmt.Sprintf("expected object record, got %T", data))
}

// Compile returns the record string.
func (c *ObjectCodec) Compile(ctx context.Context, value any, _ map[string]any) (any, error) {
	o, ok := value.(*Object)
	if !ok || o == nil {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue, fmt.Sprintf("expected *gdobj.Object, got %T", value))
	}
	return c.Encode(ctx, o)
}

// Decode parses one object record.
func (c *ObjectCodec) Decode(ctx context.Context, s string) (*Object, error) {
	raw, err := Split(s)
	if err != nil {
		return nil, err
	}
	return c.DecodeDict(ctx, raw)
}

// DecodeDict decodes a raw key/value dict.
func (c *ObjectCodec) DecodeDict(ctx context.Context, raw map[string]any) (*Object, error) {
	r, err := classOf.Recognize(ctx, raw)
	if err != nil {
		return nil, err
	}
	cls := r.(Class)
	if cls == AnyID {
		noteFallback(raw)
	}
	s, _ := family.Lookup(cls)
	v, err := s.Transform(nil).Analyze(ctx, raw)
	if err != nil {
		return nil, err
	}
	return &Object{class: cls, attrs: v.(map[string]any)}, nil
}

// Encode writes one object record.
func (c *ObjectCodec) Encode(ctx context.Context, o *Object) (string, error) {
	raw, err := c.EncodeDict(ctx, o)
	if err != nil {
		return "", err
	}
	return Join(raw), nil
}

// EncodeDict compiles o to its raw dict, adding key 1 for classes with a fixed id.
func (c *ObjectCodec) EncodeDict(ctx context.Context, o *Object) (map[string]any, error) {
	s, ok := family.Lookup(o.class)
	if !ok || o.class.Abstract() {
		return nil, gdlevel.Issues{gdlevel.Root().Issue(gdlevel.CodeUnknownClass, gdlevel.ErrUnknownClass, "class", o.class.String())}
	}
	v, err := s.Transform(nil).Compile(ctx, o.Attrs(), nil)
	if err != nil {
		return nil, err
	}
	raw := v.(map[string]any)
	if id, ok := o.class.ID(); ok {
		raw["1"] = strconv.Itoa(id)
	}
	return raw, nil
}

func noteFallback(raw map[string]any) {
	s, _ := raw["1"].(string)
	id, err := strconv.Atoi(s)
	if err != nil {
		return
	}
	if name, ok := catalog.Default().SpecialName(id); ok {
		log.Warn(log.CatCodec, "no schema for special object, decoding generically", "id", id, "name", name)
		return
	}
	log.Debug(log.CatCodec, "generic object", "id", id)
}

// Split parses "k,v,k,v" into a raw dict. A later duplicate key wins.
func Split(s string) (map[string]any, error) {
	out := map[string]any{}
	if s == "" {
		return out, nil
	}
	parts := strings.Split(s, ",")
	if len(parts)%2 != 0 {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidFormat, gdlevel.ErrInvalidValue,
			fmt.Sprintf("odd number of fields (%d)", len(parts)))
	}
	for i := 0; i < len(parts); i += 2 {
		out[parts[i]] = parts[i+1]
	}
	return out, nil
}

// Join writes a raw dict as "k,v,k,v": key 1 first, then numeric keys in
// ascending order, then any other keys sorted.
func Join(raw map[string]any) string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(',')
		fmt.Fprint(&b, raw[k])
	}
	return b.String()
}

func keyLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		if ai == 1 || bi == 1 {
			return ai == 1 && bi != 1
		}
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	}
	return a < b
}
