package save

import (
	"context"
	"fmt"
	"io"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/codec"
	"github.com/reoring/gdlevel/dsl"
	"github.com/reoring/gdlevel/internal/container"
)

// LevelInfo is one entry of the local levels list. Data holds the compressed
// level record; see the level package to open it. Every tag besides the four
// typed ones is kept in Unused under its semantic name (or raw tag when the
// tag is unknown) and written back unchanged.
type LevelInfo struct {
	Name        string         `gd:"name" json:"name"`
	Revision    int            `gd:"revision" json:"revision,omitempty"`
	Data        string         `gd:"data" json:"-"`
	Description string         `gd:"description" json:"description,omitempty"`
	Unused      map[string]any `gd:"unused" json:"unused,omitempty"`
}

var omit = dsl.KeyPolicy(gdlevel.OmitDefault)

var infoFields = dsl.MustFieldGroup(
	dsl.Field("k1", "id", nil),
	dsl.Field("k2", "name", codec.Str()),
	dsl.Field("k3", "description", codec.B64Str(), dsl.ValueDefault(""), omit),
	dsl.Field("k4", "data", codec.Str(), dsl.ValueDefault(""), omit),
	dsl.Field("k5", "creator", nil),
	dsl.Field("k8", "official_song", nil),
	dsl.Field("k11", "downloads", nil),
	dsl.Field("k14", "verified", nil),
	dsl.Field("k15", "uploaded", nil),
	dsl.Field("k16", "version", nil),
	dsl.Field("k18", "attempts", nil),
	dsl.Field("k19", "normal_mode_progress", nil),
	dsl.Field("k20", "practice_mode_progress", nil),
	dsl.Field("k21", "level_type", nil),
	dsl.Field("k22", "likes", nil),
	dsl.Field("k23", "length", nil),
	dsl.Field("k26", "stars", nil),
	dsl.Field("k34", "info", nil),
	dsl.Field("k36", "jumps", nil),
	dsl.Field("k41", "password", nil),
	dsl.Field("k42", "original", nil),
	dsl.Field("k45", "custom_song", nil),
	dsl.Field("k46", "revision", nil, dsl.ValueDefault(0), omit),
	dsl.Field("k48", "objects", nil),
	dsl.Field("k50", "binary_version", nil),
	dsl.Field("k61", "first_coin_acquired", nil),
	dsl.Field("k62", "second_coin_acquired", nil),
	dsl.Field("k63", "third_coin_acquired", nil),
	dsl.Field("k66", "requested_stars", nil),
	dsl.Field("k67", "extra", nil),
	dsl.Field("k74", "timely_id", nil),
	dsl.Field("k79", "unlisted", nil),
	dsl.Field("k80", "seconds_spent_in_editor", nil),
	dsl.Field("k84", "folder", nil),
	dsl.Field("kI1", "editor_x", nil),
	dsl.Field("kI2", "editor_y", nil),
	dsl.Field("kI3", "editor_zoom", nil),
	dsl.Field("kI4", "editor_tab_page", nil),
	dsl.Field("kI5", "editor_tab", nil),
	dsl.Field("kI6", "editor_tab_pages", nil),
	dsl.Field("kI7", "editor_layer", nil),
	dsl.Field("kCEK", "kcek", nil),
	dsl.Unused(gdlevel.Wildcard, nil),
)

var infoAttrs = dsl.MustAttrGroup(
	dsl.Same("name"),
	dsl.Same("revision"),
	dsl.Same("data"),
	dsl.Same("description"),
	dsl.UnusedAttr("unused"),
).Over(infoFields)

var levelInfo = gdlevel.Then(
	infoFields,
	infoAttrs,
	dsl.ToStruct[LevelInfo](),
	dsl.FuncOf(
		func(l LevelInfo) (*LevelInfo, error) { return &l, nil },
		func(l *LevelInfo) (LevelInfo, error) {
			if l == nil {
				return LevelInfo{}, fmt.Errorf("%w: nil level info", gdlevel.ErrInvalidValue)
			}
			return *l, nil
		},
	),
)

// DecodeInfo decodes one level entry from its plist dict.
func DecodeInfo(ctx context.Context, raw map[string]any) (*LevelInfo, error) {
	v, err := levelInfo.Analyze(ctx, raw)
	if err != nil {
		return nil, err
	}
	return v.(*LevelInfo), nil
}

// Record encodes the entry back to its plist dict.
func (l *LevelInfo) Record(ctx context.Context) (map[string]any, error) {
	v, err := levelInfo.Compile(ctx, l, nil)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// Clone returns a deep copy, renamed unless newName is empty.
func (l *LevelInfo) Clone(newName string) *LevelInfo {
	c := *l
	if u, ok := deepCopy(l.Unused).(map[string]any); ok {
		c.Unused = u
	}
	if newName != "" {
		c.Name = newName
	}
	return &c
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if x == nil {
			return x
		}
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}

// LoadGMD reads a single exported level (a plain plist of one entry).
func LoadGMD(ctx context.Context, r io.Reader) (*LevelInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw, err := container.DecodePlist(b)
	if err != nil {
		return nil, err
	}
	return DecodeInfo(ctx, raw)
}

// WriteGMD writes the entry as an exported level.
func (l *LevelInfo) WriteGMD(ctx context.Context, w io.Writer) error {
	raw, err := l.Record(ctx)
	if err != nil {
		return err
	}
	b, err := container.EncodePlist(raw)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
