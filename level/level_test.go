package level_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/gdobj"
	"github.com/reoring/gdlevel/ident"
	"github.com/reoring/gdlevel/internal/container"
	"github.com/reoring/gdlevel/level"
	"github.com/reoring/gdlevel/save"
)

const record = "kS38,1_40_2_125,kA13,0;1,1,2,15.000,3,15.000;1,1816,2,0.000,3,0.000,94,1;"

func TestParseRecord_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l, err := level.ParseRecord(ctx, record)
	require.NoError(t, err)

	assert.Equal(t, []string{"kS38", "kA13"}, l.Settings.Keys())
	v, _ := l.Settings.Get("kS38")
	assert.Equal(t, "1_40_2_125", v)
	require.Len(t, l.Module.Objects, 2)
	assert.Equal(t, gdobj.AnyID, l.Module.Objects[0].Class())
	assert.Equal(t, gdobj.CollisionBlock, l.Module.Objects[1].Class())

	out, err := l.EncodeRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, record, out)
}

func TestParseRecord_SettingsOnly(t *testing.T) {
	l, err := level.ParseRecord(context.Background(), "kA13,0;")
	require.NoError(t, err)
	assert.Empty(t, l.Module.Objects)

	l, err = level.ParseRecord(context.Background(), "")
	require.NoError(t, err)
	out, err := l.EncodeRecord(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ";", out)
}

func TestParseRecord_SkipsEmptySegments(t *testing.T) {
	ctx := context.Background()
	l, err := level.ParseRecord(ctx, "kA13,0;;1,1,2,0.000,3,0.000;")
	require.NoError(t, err)
	require.Len(t, l.Module.Objects, 1)
	out, err := l.EncodeRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kA13,0;1,1,2,0.000,3,0.000;", out)
}

func TestParseRecord_ErrorPaths(t *testing.T) {
	ctx := context.Background()
	_, err := level.ParseRecord(ctx, "kA13;")
	iss, ok := gdlevel.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "/settings", iss[0].Path)

	_, err = level.ParseRecord(ctx, "kA13,0;1,1;1,1,2;1,1,3;")
	iss, ok = gdlevel.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 2)
	assert.Equal(t, "/objects/1", iss[0].Path)
	assert.Equal(t, gdlevel.CodeInvalidFormat, iss[0].Code)
	assert.Equal(t, "/objects/2", iss[1].Path)

	_, err = level.ParseRecord(gdlevel.WithFailFast(ctx, true), "kA13,0;1,1,2;1,1,3;")
	iss, _ = gdlevel.AsIssues(err)
	assert.Len(t, iss, 1)
}

func TestModule_SharesIdentities(t *testing.T) {
	ctx := context.Background()
	l, err := level.ParseRecord(ctx, "a,b;1,1268,51,7;1,1,57,7;")
	require.NoError(t, err)
	target, _ := l.Module.Objects[0].Handle("target")
	groups, _ := l.Module.Objects[1].Handles("groups")
	require.Len(t, groups, 1)
	assert.True(t, target.Is(groups[0]))

	other, err := level.ParseRecord(ctx, "a,b;1,1,57,7;")
	require.NoError(t, err)
	g2, _ := other.Module.Objects[0].Handles("groups")
	assert.False(t, target.Is(g2[0]), "each record gets its own module")
}

func infoFor(t *testing.T, rec string) *save.LevelInfo {
	t.Helper()
	blob, err := container.Compress([]byte(rec))
	require.NoError(t, err)
	return &save.LevelInfo{Name: "L", Data: string(blob)}
}

func TestEdit_WritesBack(t *testing.T) {
	ctx := context.Background()
	info := infoFor(t, "kA13,0;1,1,2,0.000,3,0.000,57,7;")

	err := level.Edit(ctx, info, func(ctx context.Context, l *level.Level) error {
		reg, err := ident.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, l.Module.Registry, reg)

		spawn := gdobj.New(gdobj.Spawn)
		if err := spawn.Set("target", ident.Group.New()); err != nil {
			return err
		}
		l.Module.Add(spawn)
		return nil
	})
	require.NoError(t, err)

	l, err := level.Open(ctx, info)
	require.NoError(t, err)
	require.Len(t, l.Module.Objects, 2)
	assert.Same(t, info, l.Info)
	rec, err := l.EncodeRecord(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rec, ",51,1;"), "fresh group takes the smallest free value: %s", rec)
}

func TestEdit_FailureKeepsData(t *testing.T) {
	ctx := context.Background()
	info := infoFor(t, "kA13,0;")
	before := info.Data
	boom := errors.New("boom")
	err := level.Edit(ctx, info, func(context.Context, *level.Level) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, info.Data)
}

func TestOpen_EmptyEntry(t *testing.T) {
	ctx := context.Background()
	info := &save.LevelInfo{Name: "new"}
	l, err := level.Open(ctx, info)
	require.NoError(t, err)
	assert.Empty(t, l.Module.Objects)

	l.Settings.Set("kA13", "0")
	require.NoError(t, l.Commit(ctx))
	again, err := level.Open(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, []string{"kA13"}, again.Settings.Keys())

	assert.Error(t, level.New().Commit(ctx))
}

func TestSettings_Order(t *testing.T) {
	s, err := level.ParseSettings("b,1,a,2,b,3")
	require.NoError(t, err)
	assert.Equal(t, "b,3,a,2", s.String())
	s.Set("c", "4")
	s.Delete("b")
	s.Delete("missing")
	assert.Equal(t, "a,2,c,4", s.String())
	assert.Equal(t, map[string]string{"a": "2", "c": "4"}, s.Map())
	assert.Equal(t, 2, s.Len())
}
