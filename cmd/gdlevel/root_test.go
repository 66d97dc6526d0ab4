package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gdlevel/internal/container"
	"github.com/reoring/gdlevel/save"
)

// writeSave creates a save file with one level per record, newest first.
func writeSave(t *testing.T, records map[string]string) string {
	t.Helper()
	s := &save.Save{Version: 35}
	for name, rec := range records {
		blob, err := container.Compress([]byte(rec))
		require.NoError(t, err)
		s.Levels = append(s.Levels, &save.LevelInfo{
			Name:        name,
			Data:        string(blob),
			Description: "about " + name,
			Unused:      map[string]any{"objects": strings.Count(rec, ";") - 1},
		})
	}
	path := filepath.Join(t.TempDir(), "CCLocalLevels.dat")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, s.WriteDAT(context.Background(), f, false))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const canonical = "kA13,0;1,1,2,0.000,3,0.000,35,0.5;1,1268,2,0.000,3,0.000,36,1,51,7;"

func TestLevels(t *testing.T) {
	path := writeSave(t, map[string]string{"Stairs": canonical})
	out, err := run(t, "levels", "--save", path)
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `Stairs\s+0\s+2\s+about Stairs`, out)
}

func TestDump_JSONWithLabels(t *testing.T) {
	path := writeSave(t, map[string]string{"Stairs": canonical})
	out, err := run(t, "dump", "Stairs", "--save", path)
	require.NoError(t, err)

	var d struct {
		Name     string            `json:"name"`
		Settings map[string]string `json:"settings"`
		Objects  []struct {
			Class string         `json:"class"`
			ID    int            `json:"id"`
			Attrs map[string]any `json:"attrs"`
		} `json:"objects"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &d), out)
	assert.Equal(t, "Stairs", d.Name)
	assert.Equal(t, map[string]string{"kA13": "0"}, d.Settings)
	require.Len(t, d.Objects, 2)
	assert.Equal(t, "AnyID", d.Objects[0].Class)
	assert.Equal(t, map[string]any{"35: opacity": "0.5"}, d.Objects[0].Attrs["unused"])
	assert.Equal(t, "Spawn", d.Objects[1].Class)
	assert.Equal(t, 1268, d.Objects[1].ID)

	out, err = run(t, "dump", "Stairs", "--save", path, "--no-labels", "--class", "Trigger")
	require.NoError(t, err)
	assert.NotContains(t, out, "AnyID")
	assert.Contains(t, out, "Spawn")
}

func TestDump_Formats(t *testing.T) {
	path := writeSave(t, map[string]string{"Stairs": canonical})
	out, err := run(t, "dump", "Stairs", "--save", path, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "class: Spawn")

	out, err = run(t, "dump", "Stairs", "--save", path, "-f", "spew")
	require.NoError(t, err)
	assert.Contains(t, out, "Stairs")

	_, err = run(t, "dump", "Stairs", "--save", path, "-f", "xml")
	assert.ErrorContains(t, err, "dump.format")

	_, err = run(t, "dump", "Nope", "--save", path)
	assert.ErrorIs(t, err, save.ErrLevelNotFound)

	_, err = run(t, "dump", "Stairs", "--save", path, "--class", "Nope")
	assert.Error(t, err)
}

func TestObject(t *testing.T) {
	out, err := run(t, "object", "--encode", "1,1616,580,1")
	require.NoError(t, err)
	assert.Equal(t, "1,1616,2,0.000,3,0.000,36,1,580,1\n", out)

	out, err = run(t, "object", "1,1616,580,1")
	require.NoError(t, err)
	assert.Contains(t, out, `"mode": "Pause"`)

	_, err = run(t, "object", "1,2,3")
	assert.ErrorContains(t, err, "record 1")
}

func TestRoundtrip(t *testing.T) {
	path := writeSave(t, map[string]string{
		"Clean": canonical,
		"Messy": "kA13,0;1,1,2,15,3,15;",
	})
	out, err := run(t, "roundtrip", "Clean", "--save", path, "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "Clean (rev 0): 2 objects, +0 -0 segments")

	out, err = run(t, "roundtrip", "--all", "--save", path)
	require.NoError(t, err)
	assert.Contains(t, out, "- 1,1,2,15,3,15")
	assert.Contains(t, out, "+ 1,1,2,15.000,3,15.000")

	_, err = run(t, "roundtrip", "--all", "--save", path, "--strict")
	assert.ErrorIs(t, err, errRoundtrip)

	_, err = run(t, "roundtrip", "--save", path)
	assert.Error(t, err)
}

func TestConfigFileAndLogging(t *testing.T) {
	path := writeSave(t, map[string]string{"Stairs": canonical})
	dir := t.TempDir()
	logPath := filepath.Join(dir, "gdlevel.log")
	cfgPath := filepath.Join(dir, "gdlevel.yaml")
	cfg := "save:\n  path: " + path + "\nlog:\n  file: " + logPath + "\n  level: debug\ndump:\n  format: yaml\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out, err := run(t, "dump", "Stairs", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "name: Stairs")

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "save loaded")
}

func TestNoSave(t *testing.T) {
	t.Setenv("GDLEVEL_SAVE_PATH", "")
	_, err := run(t, "levels")
	assert.ErrorContains(t, err, "no save file")
}
