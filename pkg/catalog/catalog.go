// Package catalog provides the resolver candidate catalog. The default
// catalog is embedded at build time; an alternative catalog can be loaded
// from a YAML file at runtime.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/HerbHall/dnstuner/pkg/models"
	"gopkg.in/yaml.v3"
)

//go:embed resolvers.yaml
var defaultRawData []byte

// catalogFile is the top-level structure of the catalog YAML.
type catalogFile struct {
	Resolvers []models.Candidate `yaml:"resolvers"`
}

// Catalog provides lazy-loaded access to the embedded resolver catalog.
type Catalog struct {
	once    sync.Once
	entries []models.Candidate
	err     error
}

// Default creates a Catalog that parses the embedded YAML on first access.
func Default() *Catalog {
	return &Catalog{}
}

// Entries returns a copy of all catalog entries in catalog order.
func (c *Catalog) Entries() ([]models.Candidate, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	cp := make([]models.Candidate, len(c.entries))
	copy(cp, c.entries)
	return cp, nil
}

// load parses the embedded YAML catalog data.
func (c *Catalog) load() {
	entries, err := parse(defaultRawData)
	if err != nil {
		c.err = err
		return
	}
	c.entries = entries
}

// LoadFile reads a user-supplied catalog from a YAML file.
func LoadFile(path string) ([]models.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) ([]models.Candidate, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	if len(f.Resolvers) == 0 {
		return nil, fmt.Errorf("catalog: no resolver entries")
	}
	for i, e := range f.Resolvers {
		if e.Name == "" || e.Address == "" {
			return nil, fmt.Errorf("catalog: entry %d: name and address are required", i)
		}
	}
	return f.Resolvers, nil
}
