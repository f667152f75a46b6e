package gallery

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the top-level structure of a hall catalog YAML file.
//
// Example:
//
//	hall:
//	  name: "Weyland Heritage Hall"
//	  default_exhibit: weyland
//	exhibits:
//	  - id: apollo
//	    title: "Apollo Guidance Computer"
//	    images: ["exhibits/apollo/01.jpg", "exhibits/apollo/02.jpg"]
type CatalogFile struct {
	Hall     HallMeta  `yaml:"hall"`
	Exhibits []Exhibit `yaml:"exhibits"`
}

// HallMeta holds top-level metadata for a hall.
type HallMeta struct {
	// Name is the hall's display name.
	Name string `yaml:"name"`

	// DefaultExhibit is the id of the exhibit shown while idle. Defaults to
	// the first public exhibit when empty.
	DefaultExhibit string `yaml:"default_exhibit"`
}

// LoadCatalog reads, parses, and validates a hall catalog YAML file.
// Missing image files are tolerated at load time — the slideshow skips them
// per frame — so validation here is structural only.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gallery: open catalog %q: %w", path, err)
	}
	defer f.Close()

	c, err := LoadCatalogFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("gallery: parse catalog %q: %w", path, err)
	}
	return c, nil
}

// LoadCatalogFromReader parses catalog YAML from r and validates the result.
// Useful in tests where catalogs are constructed from string literals.
func LoadCatalogFromReader(r io.Reader) (*Catalog, error) {
	var cf CatalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown keys to catch typos
	if err := dec.Decode(&cf); err != nil {
		return nil, fmt.Errorf("gallery: decode catalog yaml: %w", err)
	}
	return NewCatalog(cf.Hall, cf.Exhibits)
}
