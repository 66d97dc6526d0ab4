package level

import (
	"fmt"
	"strings"

	gdlevel "github.com/reoring/gdlevel"
)

// Settings is the header segment of a level record: "k,v" pairs kept as raw
// strings in their original order.
type Settings struct {
	keys   []string
	values map[string]string
}

// NewSettings returns empty settings.
func NewSettings() *Settings {
	return &Settings{values: map[string]string{}}
}

// ParseSettings splits the header segment. A repeated key keeps its first
// position and its last value.
func ParseSettings(s string) (*Settings, error) {
	st := NewSettings()
	if s == "" {
		return st, nil
	}
	parts := strings.Split(s, ",")
	if len(parts)%2 != 0 {
		return nil, gdlevel.Fail(gdlevel.CodeInvalidFormat, gdlevel.ErrInvalidValue,
			fmt.Sprintf("odd number of settings fields (%d)", len(parts)))
	}
	for i := 0; i < len(parts); i += 2 {
		st.Set(parts[i], parts[i+1])
	}
	return st, nil
}

func (s *Settings) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set updates a key in place or appends it.
func (s *Settings) Set(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

func (s *Settings) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in record order.
func (s *Settings) Keys() []string { return append([]string(nil), s.keys...) }

func (s *Settings) Len() int { return len(s.keys) }

// Map returns a copy of the settings as a dict.
func (s *Settings) Map() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// String writes the header segment back.
func (s *Settings) String() string {
	var b strings.Builder
	for i, k := range s.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(',')
		b.WriteString(s.values[k])
	}
	return b.String()
}
