// Package catalog provides the read-only registry of cared-for plants.
package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/urban-jungle/backend/internal/models"
)

//go:embed plants.yaml
var builtinPlants []byte

// Catalog is an immutable, ordered set of plants keyed by id.
// It is built once at startup and shared by reference.
type Catalog struct {
	plants []models.Plant
	byID   map[string]int
}

type catalogFile struct {
	Plants []models.Plant `yaml:"plants"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(strings.NewReader(string(builtinPlants)))
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file. An empty path yields the
// built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a catalog from YAML.
func Parse(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var raw catalogFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	return New(raw.Plants)
}

// New builds a catalog from plants in their iteration order.
func New(plants []models.Plant) (*Catalog, error) {
	if len(plants) == 0 {
		return nil, fmt.Errorf("catalog has no plants")
	}

	c := &Catalog{
		plants: make([]models.Plant, len(plants)),
		byID:   make(map[string]int, len(plants)),
	}
	copy(c.plants, plants)

	for i, p := range c.plants {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("plant %d has no id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plant id: %s", p.ID)
		}
		c.byID[p.ID] = i
	}

	return c, nil
}

// All returns the plants in catalog order.
func (c *Catalog) All() []models.Plant {
	out := make([]models.Plant, len(c.plants))
	copy(out, c.plants)
	return out
}

// IDs returns plant ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.plants))
	for i, p := range c.plants {
		ids[i] = p.ID
	}
	return ids
}

// Len returns the number of plants.
func (c *Catalog) Len() int {
	return len(c.plants)
}

// Get returns the plant with the given id.
func (c *Catalog) Get(id string) (models.Plant, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Plant{}, false
	}
	return c.plants[i], true
}

// Has reports whether id names a catalog plant.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Name returns the display name for id, or id itself when unknown.
func (c *Catalog) Name(id string) string {
	if p, ok := c.Get(id); ok {
		return p.Name
	}
	return id
}

// Match resolves free text to a plant. Matching is case-insensitive: a
// plant matches when the text is a substring of its display name or its id
// is a substring of the text. The first plant in catalog order wins.
func (c *Catalog) Match(text string) (models.Plant, bool) {
	needle := lower(strings.TrimSpace(text))
	if needle == "" {
		return models.Plant{}, false
	}

	for _, p := range c.plants {
		if strings.Contains(lower(p.Name), needle) || strings.Contains(needle, lower(p.ID)) {
			return p, true
		}
	}
	return models.Plant{}, false
}

// lower uses a fresh Caser per call; Casers are not safe for concurrent use.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
