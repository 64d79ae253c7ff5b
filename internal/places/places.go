// Package places carries the destination gazetteer used to normalize
// free-text place names and to ground research tool output in realistic
// regional rates. The catalog is embedded at build time.
package places

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed places.yaml
var catalogYAML []byte

// Place is one known destination (or origin) with the regional data the
// research tools synthesize results from.
type Place struct {
	Name    string   `yaml:"name"`
	Country string   `yaml:"country"`
	State   string   `yaml:"state,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`

	// CostIndex scales baseline daily rates; 1.0 is the national baseline.
	CostIndex float64 `yaml:"cost_index"`

	Tags  []string `yaml:"tags,omitempty"`
	Areas []string `yaml:"areas,omitempty"`
	Hubs  []string `yaml:"hubs,omitempty"`

	Stays       []Stay             `yaml:"stays,omitempty"`
	Activities  []ActivityTemplate `yaml:"activities,omitempty"`
	Restaurants []Restaurant       `yaml:"restaurants,omitempty"`
}

// Stay is a lodging option template with a nightly rate in whole rupees.
type Stay struct {
	Name    string `yaml:"name"`
	Area    string `yaml:"area,omitempty"`
	Class   string `yaml:"class"` // budget, midrange, premium
	Nightly int64  `yaml:"nightly"`
}

// ActivityTemplate is an activity option with a price in whole rupees and a
// preferred slot of the day.
type ActivityTemplate struct {
	Name  string   `yaml:"name"`
	Area  string   `yaml:"area,omitempty"`
	Tags  []string `yaml:"tags,omitempty"`
	Price int64    `yaml:"price"`
	Slot  string   `yaml:"slot"` // morning, afternoon, evening
	Hours int      `yaml:"hours,omitempty"`
}

// Restaurant is a dining option with a typical per-head meal price in whole
// rupees.
type Restaurant struct {
	Name      string   `yaml:"name"`
	Area      string   `yaml:"area,omitempty"`
	Cuisine   string   `yaml:"cuisine,omitempty"`
	MealPrice int64    `yaml:"meal_price"`
	Tags      []string `yaml:"tags,omitempty"`
}

// Catalog is the loaded gazetteer with normalized lookup indexes.
type Catalog struct {
	places []*Place
	byKey  map[string]*Place
}

type catalogFile struct {
	Places []*Place `yaml:"places"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, parsed once per process.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// Parse loads a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse places catalog: %w", err)
	}
	if len(file.Places) == 0 {
		return nil, fmt.Errorf("places catalog is empty")
	}

	c := &Catalog{
		places: file.Places,
		byKey:  make(map[string]*Place),
	}
	for _, p := range file.Places {
		if p.CostIndex == 0 {
			p.CostIndex = 1.0
		}
		c.byKey[normalize(p.Name)] = p
		for _, alias := range p.Aliases {
			c.byKey[normalize(alias)] = p
		}
	}
	return c, nil
}

// Resolve normalizes name and returns the matching place, if any.
func (c *Catalog) Resolve(name string) (*Place, bool) {
	p, ok := c.byKey[normalize(name)]
	return p, ok
}

// Match is a place mention found in free text.
type Match struct {
	Place *Place
	// Index is the byte offset of the mention in the normalized text, used
	// to order mentions as written.
	Index int
}

// FindAll scans free text for mentions of known places or their aliases,
// returning matches ordered by position. Each place is reported once at its
// earliest mention.
func (c *Catalog) FindAll(text string) []Match {
	normalized := " " + normalize(text) + " "

	earliest := make(map[*Place]int)
	for key, place := range c.byKey {
		idx := strings.Index(normalized, " "+key+" ")
		if idx < 0 {
			continue
		}
		if prev, seen := earliest[place]; !seen || idx < prev {
			earliest[place] = idx
		}
	}

	matches := make([]Match, 0, len(earliest))
	for place, idx := range earliest {
		matches = append(matches, Match{Place: place, Index: idx})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })
	return matches
}

// Names returns all canonical place names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.places))
	for _, p := range c.places {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Normalize returns the canonical lookup form of free text: lowercase, no
// punctuation, single spaces. Match.Index offsets are relative to this form
// padded with one leading space.
func Normalize(s string) string {
	return normalize(s)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)
var multiSpace = regexp.MustCompile(`\s+`)

// normalize lowercases, strips punctuation, and collapses whitespace.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, " ")
	return multiSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}
