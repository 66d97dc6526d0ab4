package recognize

import (
	"context"

	gdlevel "github.com/reoring/gdlevel"
)

// Entry is one row of a Map.
type Entry struct {
	match     any
	result    any
	otherwise bool
}

// Case maps a discriminant (compared with gdlevel.Equal) to a result. A result
// that is itself a Recognizer is applied to the original data.
func Case(match, result any) Entry { return Entry{match: match, result: result} }

// Otherwise is the result used when no case matches.
func Otherwise(result any) Entry { return Entry{result: result, otherwise: true} }

// Map recognizes with of and looks the result up in entries.
func Map(of Recognizer, entries ...Entry) Recognizer {
	m := &mapR{of: of}
	for _, e := range entries {
		if e.otherwise {
			e := e
			m.fallback = &e
			continue
		}
		m.cases = append(m.cases, e)
	}
	return m
}

type mapR struct {
	of       Recognizer
	cases    []Entry
	fallback *Entry
}

func (m *mapR) Recognize(ctx context.Context, data any) (any, error) {
	key, err := m.of.Recognize(ctx, data)
	if err != nil {
		return nil, err
	}
	res, ok := m.lookup(key)
	if !ok {
		return nil, gdlevel.Issues{gdlevel.Root().Issue(gdlevel.CodeNoMapping, gdlevel.ErrNoMapping, "got", key)}
	}
	if next, ok := res.(Recognizer); ok {
		return next.Recognize(ctx, data)
	}
	return res, nil
}

func (m *mapR) lookup(key any) (any, bool) {
	for _, c := range m.cases {
		if gdlevel.Equal(c.match, key) {
			return c.result, true
		}
	}
	if m.fallback != nil {
		return m.fallback.result, true
	}
	return nil, false
}

// Outcomes lists every terminal result reachable through nested Maps, each once,
// in declaration order. Results of other recognizers are not known statically
// and are skipped.
func Outcomes(r Recognizer) []any {
	var out []any
	var walk func(Recognizer)
	walk = func(r Recognizer) {
		m, ok := r.(*mapR)
		if !ok {
			return
		}
		rows := m.cases
		if m.fallback != nil {
			rows = append(append([]Entry(nil), rows...), *m.fallback)
		}
		for _, e := range rows {
			if next, ok := e.result.(Recognizer); ok {
				walk(next)
				continue
			}
			seen := false
			for _, o := range out {
				if gdlevel.Equal(o, e.result) {
					seen = true
					break
				}
			}
			if !seen {
				out = append(out, e.result)
			}
		}
	}
	walk(r)
	return out
}
