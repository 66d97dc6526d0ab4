// Package level opens the level record kept in a save entry. A record is the
// settings header followed by one object record per ';' separated segment. All
// objects of a level share one identity registry, the Module.
package level

import (
	"context"
	"strconv"
	"strings"

	gdlevel "github.com/reoring/gdlevel"
	"github.com/reoring/gdlevel/gdobj"
	"github.com/reoring/gdlevel/ident"
	"github.com/reoring/gdlevel/internal/container"
	"github.com/reoring/gdlevel/internal/log"
	"github.com/reoring/gdlevel/save"
)

// Module owns the identity registry and the decoded objects of one level.
type Module struct {
	Registry *ident.Registry
	Objects  []*gdobj.Object
}

func NewModule() *Module {
	return &Module{Registry: ident.NewRegistry()}
}

// Context makes the module's registry the active one.
func (m *Module) Context(ctx context.Context) context.Context {
	return ident.WithRegistry(ctx, m.Registry)
}

// Add appends objects to the level.
func (m *Module) Add(objs ...*gdobj.Object) {
	m.Objects = append(m.Objects, objs...)
}

// Level is an opened level: its save entry (nil for a bare record), settings
// header and module.
type Level struct {
	Info     *save.LevelInfo
	Settings *Settings
	Module   *Module
}

// New returns an empty level.
func New() *Level {
	return &Level{Settings: NewSettings(), Module: NewModule()}
}

// Context returns ctx with the level's registry active.
func (l *Level) Context(ctx context.Context) context.Context {
	return l.Module.Context(ctx)
}

// ParseRecord decodes an uncompressed level record. The trailing empty segment
// left by the final ';' is dropped, as are empty segments in between. Objects
// are decoded in a fresh module.
func ParseRecord(ctx context.Context, s string) (*Level, error) {
	segs := strings.Split(s, ";")
	settings, err := ParseSettings(segs[0])
	if err != nil {
		return nil, gdlevel.Rebase(err, "settings")
	}
	segs = segs[1:]
	if n := len(segs); n > 0 && segs[n-1] == "" {
		segs = segs[:n-1]
	}

	l := &Level{Settings: settings, Module: NewModule()}
	mctx := l.Context(ctx)
	codec := gdobj.NewObjectCodec()
	l.Module.Objects = make([]*gdobj.Object, 0, len(segs))
	var iss gdlevel.Issues
	skipped := 0
	for i, seg := range segs {
		if seg == "" {
			skipped++
			continue
		}
		o, err := codec.Decode(mctx, seg)
		if err != nil {
			iss = gdlevel.AppendIssues(iss, gdlevel.IssuesFrom("/", objectErr(err, i))...)
			if gdlevel.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		l.Module.Objects = append(l.Module.Objects, o)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if skipped > 0 {
		log.Debug(log.CatLevel, "empty object segments skipped", "count", skipped)
	}
	log.Debug(log.CatLevel, "level record decoded", "settings", settings.Len(), "objects", len(l.Module.Objects))
	return l, nil
}

func objectErr(err error, i int) error {
	return gdlevel.Rebase(gdlevel.Rebase(err, strconv.Itoa(i)), "objects")
}

// EncodeRecord writes the uncompressed record "settings;obj;...;".
func (l *Level) EncodeRecord(ctx context.Context) (string, error) {
	mctx := l.Context(ctx)
	codec := gdobj.NewObjectCodec()
	var b strings.Builder
	b.WriteString(l.Settings.String())
	b.WriteByte(';')
	for i, o := range l.Module.Objects {
		s, err := codec.Encode(mctx, o)
		if err != nil {
			return "", objectErr(err, i)
		}
		b.WriteString(s)
		b.WriteByte(';')
	}
	return b.String(), nil
}

// Decode decompresses and parses a level blob.
func Decode(ctx context.Context, blob []byte) (*Level, error) {
	raw, err := container.Decompress(blob)
	if err != nil {
		return nil, err
	}
	return ParseRecord(ctx, string(raw))
}

// Encode writes the compressed level blob.
func (l *Level) Encode(ctx context.Context) ([]byte, error) {
	s, err := l.EncodeRecord(ctx)
	if err != nil {
		return nil, err
	}
	return container.Compress([]byte(s))
}

// Open decodes the level of a save entry. An entry without data opens as an
// empty level.
func Open(ctx context.Context, info *save.LevelInfo) (*Level, error) {
	if info.Data == "" {
		l := New()
		l.Info = info
		return l, nil
	}
	l, err := Decode(ctx, []byte(info.Data))
	if err != nil {
		return nil, err
	}
	l.Info = info
	log.Debug(log.CatLevel, "level opened", "name", info.Name, "revision", info.Revision)
	return l, nil
}

// Commit encodes the level back into its save entry.
func (l *Level) Commit(ctx context.Context) error {
	if l.Info == nil {
		return gdlevel.Fail(gdlevel.CodeInvalidValue, gdlevel.ErrInvalidValue, "level has no save entry")
	}
	blob, err := l.Encode(ctx)
	if err != nil {
		return err
	}
	l.Info.Data = string(blob)
	return nil
}

// Edit opens the level of info, runs fn with the level's registry active and
// writes the result back into info. Nothing is written when fn fails.
func Edit(ctx context.Context, info *save.LevelInfo, fn func(ctx context.Context, l *Level) error) error {
	l, err := Open(ctx, info)
	if err != nil {
		return err
	}
	if err := fn(l.Context(ctx), l); err != nil {
		return err
	}
	return l.Commit(ctx)
}
