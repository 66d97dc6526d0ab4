package save_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gdlevel/internal/container"
	"github.com/reoring/gdlevel/save"
)

func rawInfo() map[string]any {
	return map[string]any{
		"kCEK": 4,
		"k1":   117,
		"k2":   "Stairs",
		"k3":   "SGVsbG8gd29ybGQ=",
		"k4":   "H4sIAAAAAAAAC...",
		"k5":   "me",
		"k13":  true,
		"k46":  2,
		"kI6":  map[string]any{"0": "0", "1": "0"},
		"k999": "unknown tag",
	}
}

func TestLevelInfo_Decode(t *testing.T) {
	ctx := context.Background()
	info, err := save.DecodeInfo(ctx, rawInfo())
	require.NoError(t, err)

	assert.Equal(t, "Stairs", info.Name)
	assert.Equal(t, 2, info.Revision)
	assert.Equal(t, "Hello world", info.Description)
	assert.Equal(t, "H4sIAAAAAAAAC...", info.Data)
	assert.Equal(t, map[string]any{
		"kcek":             4,
		"id":               117,
		"creator":          "me",
		"k13":              true,
		"editor_tab_pages": map[string]any{"0": "0", "1": "0"},
		"k999":             "unknown tag",
	}, info.Unused)

	back, err := info.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, rawInfo(), back)
}

func TestLevelInfo_DefaultsOmitted(t *testing.T) {
	ctx := context.Background()
	info := &save.LevelInfo{Name: "fresh"}
	raw, err := info.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k2": "fresh"}, raw)

	again, err := save.DecodeInfo(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, info, again)
}

func TestLevelInfo_Clone(t *testing.T) {
	info, err := save.DecodeInfo(context.Background(), rawInfo())
	require.NoError(t, err)
	c := info.Clone("Copy")
	assert.Equal(t, "Copy", c.Name)
	assert.Equal(t, "Stairs", info.Name)

	c.Unused["editor_tab_pages"].(map[string]any)["0"] = "9"
	assert.Equal(t, "0", info.Unused["editor_tab_pages"].(map[string]any)["0"], "clone is deep")
	assert.Equal(t, "Stairs", info.Clone("").Name)
}

func newSave() *save.Save {
	return &save.Save{
		Version: 35,
		Levels: []*save.LevelInfo{
			{Name: "B", Revision: 0},
			{Name: "A", Revision: 0},
			{Name: "A", Revision: 1},
		},
	}
}

func TestSave_LookupAndAdd(t *testing.T) {
	s := newSave()
	assert.True(t, s.Has("A", save.AnyRevision))
	assert.True(t, s.Has("A", 1))
	assert.False(t, s.Has("A", 2))
	assert.False(t, s.Has("C", save.AnyRevision))

	l, ok := s.Lookup("A", save.AnyRevision)
	require.True(t, ok)
	assert.Equal(t, 0, l.Revision, "newest first")

	s.Add(&save.LevelInfo{Name: "A"})
	assert.Equal(t, "A", s.Levels[0].Name)
	assert.Equal(t, 2, s.Levels[0].Revision)
	assert.Len(t, s.Levels, 4)
}

func TestSave_Clone(t *testing.T) {
	s := newSave()
	c, err := s.Clone("B", 0, "")
	require.NoError(t, err)
	assert.Equal(t, "B", c.Name)
	assert.Equal(t, 1, c.Revision)
	assert.Same(t, c, s.Levels[0])

	_, err = s.Clone("missing", save.AnyRevision, "x")
	assert.ErrorIs(t, err, save.ErrLevelNotFound)
}

func TestSave_DATRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSave()
	s.Levels[0].Data = "H4sIAAAAAAAAC"
	s.Levels[0].Unused = map[string]any{"creator": "me"}
	s.Unused = map[string]any{"LLM_99": 1}

	for _, ios := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, s.WriteDAT(ctx, &buf, ios))
		got, err := save.LoadDAT(ctx, &buf)
		require.NoError(t, err)
		assert.Equal(t, s, got, "ios=%v", ios)
	}
}

func TestSave_Record(t *testing.T) {
	ctx := context.Background()
	raw, err := newSave().Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, []any{}, raw["LLM_03"])
	assert.Equal(t, 35, raw["LLM_02"])
	levels := raw["LLM_01"].([]any)
	require.Len(t, levels, 3)
	assert.Equal(t, map[string]any{"k2": "A", "k46": 1}, levels[2])

	raw["LLM_03"] = []any{"surprise"}
	s, err := save.Decode(ctx, raw)
	require.NoError(t, err, "LLM_03 is only reported")
	assert.Len(t, s.Levels, 3)
}

func TestLoadGMD(t *testing.T) {
	ctx := context.Background()
	doc, err := container.EncodePlist(rawInfo())
	require.NoError(t, err)

	info, err := save.LoadGMD(ctx, bytes.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Stairs", info.Name)

	var out bytes.Buffer
	require.NoError(t, info.WriteGMD(ctx, &out))
	assert.Equal(t, string(doc), out.String())
}
