package codec

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/dsl"
)

// HSV is a color adjustment. The add flags switch saturation and value from
// multiplicative to additive.
type HSV struct {
	Hue           int     `json:"hue" yaml:"hue"`
	Saturation    float64 `json:"saturation" yaml:"saturation"`
	Value         float64 `json:"value" yaml:"value"`
	SaturationAdd bool    `json:"saturation_add" yaml:"saturation_add"`
	ValueAdd      bool    `json:"value_add" yaml:"value_add"`
}

// DefaultHSVRaw is the raw default of an unset adjustment.
const DefaultHSVRaw = "0a0a0a0a0"

// HSVOf parses "hue a sat a val a satAdd a valAdd".
func HSVOf() gdlevel.Transform {
	return gdlevel.Then(
		dsl.StrSplit("a"),
		dsl.TupleIter(Int(), Float(), Float(), Bool(), Bool()),
		dsl.FromTuple[HSV](),
	)
}

// IntMap reads "k.v.k.v" into map[int]int. Compile writes keys in ascending order.
func IntMap(sep string) gdlevel.Transform { return intMapT{sep: sep} }

type intMapT struct{ sep string }

func (m intMapT) Analyze(_ context.Context, data any) (any, error) {
	s, ok := data.(string)
	if !ok {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue, fmt.Sprintf("expected string, got %T", data))
	}
	out := map[int]int{}
	if s == "" {
		return out, nil
	}
	parts := strings.Split(s, m.sep)
	if len(parts)%2 != 0 {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidFormat, gdlevel.ErrInvalidValue,
			fmt.Sprintf("odd number of items (%d)", len(parts)))
	}
	for i := 0; i < len(parts); i += 2 {
		k, err := strconv.Atoi(parts[i])
		if err != nil {
			return nil, gdlevel.Rebase(formatErr("decimal integer", err), strconv.Itoa(i))
		}
		v, err := strconv.Atoi(parts[i+1])
		if err != nil {
			return nil, gdlevel.Rebase(formatErr("decimal integer", err), strconv.Itoa(i+1))
		}
		out[k] = v
	}
	return out, nil
}

func (m intMapT) Compile(_ context.Context, value any, _ map[string]any) (any, error) {
	mm, ok := value.(map[int]int)
	if !ok {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidType, gdlevel.ErrInvalidValue, fmt.Sprintf("expected map[int]int, got %T", value))
	}
	keys := make([]int, 0, len(mm))
	for k := range mm {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	parts := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		parts = append(parts, strconv.Itoa(k), strconv.Itoa(mm[k]))
	}
	return strings.Join(parts, m.sep), nil
}
