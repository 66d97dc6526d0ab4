// Package catalog names raw object property keys and special object ids. The
// tables are embedded so dumps can label keys no schema claims.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

// Catalog maps property keys and object ids to names.
type Catalog struct {
	Properties map[string]int `yaml:"properties"`
	Specials   map[int]string `yaml:"specials"`
	Legacy     map[int]string `yaml:"legacy"`

	propByID    map[int]string
	specialByNm map[string]int
}

// Load decodes a catalog from YAML.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	c.index()
	return &c, nil
}

func (c *Catalog) index() {
	c.propByID = make(map[int]string, len(c.Properties))
	names := make([]string, 0, len(c.Properties))
	for n := range c.Properties {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if _, dup := c.propByID[c.Properties[n]]; !dup {
			c.propByID[c.Properties[n]] = n
		}
	}
	c.specialByNm = make(map[string]int, len(c.Specials))
	for id, n := range c.Specials {
		c.specialByNm[n] = id
	}
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(bytes.NewReader(builtin))
		if err != nil {
			panic(err)
		}
		defaultCat = c
	})
	return defaultCat
}

// PropertyName returns the name of a raw property key.
func (c *Catalog) PropertyName(key int) (string, bool) {
	n, ok := c.propByID[key]
	return n, ok
}

// PropertyID returns the raw key of a named property.
func (c *Catalog) PropertyID(name string) (int, bool) {
	id, ok := c.Properties[name]
	return id, ok
}

// SpecialName returns the name of a special object id, including legacy ids.
func (c *Catalog) SpecialName(id int) (string, bool) {
	if n, ok := c.Specials[id]; ok {
		return n, true
	}
	n, ok := c.Legacy[id]
	return n, ok
}

// SpecialID returns the object id of a named special object.
func (c *Catalog) SpecialID(name string) (int, bool) {
	id, ok := c.specialByNm[name]
	return id, ok
}

// Label returns "key: name" for a known property key and the key alone otherwise.
func (c *Catalog) Label(key string) string {
	if n, err := strconv.Atoi(key); err == nil {
		if name, ok := c.PropertyName(n); ok {
			return key + ": " + name
		}
	}
	return key
}
