// Package save reads and writes the local levels save: the encrypted plist that
// lists every editor level with its compressed level record.
package save

import (
	"context"
	"errors"
	"fmt"
	"io"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/dsl"
	"github.com/reoring/gdlevel/internal/container"
	"github.com/reoring/gdlevel/internal/log"
)

// AnyRevision matches a level of any revision in Has and Lookup.
const AnyRevision = -1

// ErrLevelNotFound is returned when no level matches a name and revision.
var ErrLevelNotFound = errors.New("save: level not found")

// Save is the local levels save. Levels are ordered newest first.
type Save struct {
	Levels  []*LevelInfo
	Version int
	// Unused keeps top level keys other than the level list and version.
	Unused map[string]any
}

// llm03 has only ever been seen empty; anything else is logged and dropped.
func llm03() gdlevel.Transform {
	return dsl.Func(
		func(_ context.Context, data any) (any, error) {
			if l, ok := data.([]any); !ok || len(l) > 0 {
				log.Warn(log.CatSave, "LLM_03 has a value", "value", fmt.Sprint(data))
			}
			return data, nil
		},
		func(_ context.Context, v any, _ map[string]any) (any, error) { return v, nil },
	)
}

var saveFields = dsl.MustFieldGroup(
	dsl.Field("LLM_01", "levels", dsl.List(levelInfo), dsl.ValueDefault([]any{})),
	dsl.Field("LLM_02", "version", nil, dsl.ValueDefault(0), omit),
	dsl.Field("LLM_03", "", llm03(), dsl.RawDefault([]any{}), dsl.KeyPolicy(gdlevel.AlwaysEmit)),
	dsl.Unused("unused", nil),
)

var saveRecord = gdlevel.Then(
	saveFields,
	dsl.FuncOf(
		func(m map[string]any) (*Save, error) {
			s := &Save{}
			if l, ok := m["levels"].([]any); ok {
				s.Levels = make([]*LevelInfo, len(l))
				for i, e := range l {
					s.Levels[i] = e.(*LevelInfo)
				}
			}
			if v, ok := m["version"].(int); ok {
				s.Version = v
			}
			s.Unused, _ = m["unused"].(map[string]any)
			return s, nil
		},
		func(s *Save) (map[string]any, error) {
			if s == nil {
				return nil, fmt.Errorf("%w: nil save", gdlevel.ErrInvalidValue)
			}
			levels := make([]any, len(s.Levels))
			for i, l := range s.Levels {
				levels[i] = l
			}
			m := map[string]any{"levels": levels, "version": s.Version}
			if len(s.Unused) > 0 {
				m["unused"] = s.Unused
			}
			return m, nil
		},
	),
)

// Decode builds a Save from the decoded plist dict.
func Decode(ctx context.Context, raw map[string]any) (*Save, error) {
	v, err := saveRecord.Analyze(ctx, raw)
	if err != nil {
		return nil, err
	}
	return v.(*Save), nil
}

// Record encodes the save back to its plist dict.
func (s *Save) Record(ctx context.Context) (map[string]any, error) {
	v, err := saveRecord.Compile(ctx, s, nil)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// LoadDAT reads an encrypted save file; desktop and iOS formats are detected.
func LoadDAT(ctx context.Context, r io.Reader) (*Save, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	xml, err := container.DecryptSave(b)
	if err != nil {
		return nil, fmt.Errorf("decrypting save: %w", err)
	}
	raw, err := container.DecodePlist(xml)
	if err != nil {
		return nil, err
	}
	s, err := Decode(ctx, raw)
	if err != nil {
		return nil, err
	}
	log.Info(log.CatSave, "save loaded", "levels", len(s.Levels), "version", s.Version)
	return s, nil
}

// WriteDAT writes the save encrypted, in the iOS format when ios is set.
func (s *Save) WriteDAT(ctx context.Context, w io.Writer, ios bool) error {
	raw, err := s.Record(ctx)
	if err != nil {
		return err
	}
	xml, err := container.EncodePlist(raw)
	if err != nil {
		return err
	}
	b, err := container.EncryptSave(xml, ios)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	log.Info(log.CatSave, "save written", "levels", len(s.Levels), "ios", ios)
	return nil
}

// Has reports whether a level named name exists. revision may be AnyRevision.
func (s *Save) Has(name string, revision int) bool {
	_, ok := s.Lookup(name, revision)
	return ok
}

// Lookup returns the first (newest) level named name with the given revision,
// or of any revision for AnyRevision.
func (s *Save) Lookup(name string, revision int) (*LevelInfo, bool) {
	for _, l := range s.Levels {
		if l.Name != name {
			continue
		}
		if revision == AnyRevision || l.Revision == revision {
			return l, true
		}
	}
	return nil, false
}

// Add prepends level, bumping its revision until no level shares name and
// revision.
func (s *Save) Add(level *LevelInfo) {
	for s.Has(level.Name, level.Revision) {
		level.Revision++
	}
	s.Levels = append([]*LevelInfo{level}, s.Levels...)
	log.Debug(log.CatSave, "level added", "name", level.Name, "revision", level.Revision)
}

// Clone copies the matching level under newName (the same name when empty) and
// adds the copy.
func (s *Save) Clone(name string, revision int, newName string) (*LevelInfo, error) {
	l, ok := s.Lookup(name, revision)
	if !ok {
		return nil, fmt.Errorf("%w: %q revision %d", ErrLevelNotFound, name, revision)
	}
	c := l.Clone(newName)
	s.Add(c)
	return c, nil
}
