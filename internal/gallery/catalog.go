// Package gallery holds the exhibit catalog and the spoken-passphrase
// matcher for a Heritage Hall session.
//
// The catalog is immutable after construction: it is loaded once at startup
// from a YAML file and every accessor returns copies or read-only views.
package gallery

import (
	"errors"
	"fmt"
)

// Exhibit is a named content set the slideshow can display.
type Exhibit struct {
	// ID is the stable catalog key (e.g., "apollo", "mother").
	ID string `yaml:"id"`

	// Title is the display name used in narration results.
	Title string `yaml:"title"`

	// Blurb is a one-line description the curator can weave into replies.
	Blurb string `yaml:"blurb"`

	// Images is the ordered sequence of image paths the slideshow cycles.
	Images []string `yaml:"images"`

	// Restricted marks the one exhibit that is never reachable via the
	// public navigation path, only through the passphrase gate.
	Restricted bool `yaml:"restricted"`
}

// Catalog is the immutable exhibit-id → exhibit mapping for a hall.
type Catalog struct {
	hall      HallMeta
	exhibits  map[string]Exhibit
	order     []string // public exhibit ids in file order
	restrict  string   // id of the restricted exhibit, or ""
	defaultID string   // id of the idle/default exhibit
}

// NewCatalog builds a validated [Catalog] from hall metadata and exhibit
// definitions. Validation failures are joined into a single error.
func NewCatalog(hall HallMeta, exhibits []Exhibit) (*Catalog, error) {
	c := &Catalog{
		hall:     hall,
		exhibits: make(map[string]Exhibit, len(exhibits)),
	}

	var errs []error
	for i, ex := range exhibits {
		prefix := fmt.Sprintf("exhibits[%d]", i)
		if ex.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
			continue
		}
		if _, dup := c.exhibits[ex.ID]; dup {
			errs = append(errs, fmt.Errorf("%s.id %q is a duplicate", prefix, ex.ID))
			continue
		}
		if len(ex.Images) == 0 {
			errs = append(errs, fmt.Errorf("%s (%q) has no images", prefix, ex.ID))
		}
		if ex.Restricted {
			if c.restrict != "" {
				errs = append(errs, fmt.Errorf("%s (%q): restricted exhibit already declared as %q", prefix, ex.ID, c.restrict))
			} else {
				c.restrict = ex.ID
			}
		} else {
			c.order = append(c.order, ex.ID)
		}
		c.exhibits[ex.ID] = ex
	}

	if len(c.order) == 0 {
		errs = append(errs, errors.New("catalog needs at least one public exhibit"))
	}

	c.defaultID = hall.DefaultExhibit
	switch {
	case c.defaultID == "" && len(c.order) > 0:
		c.defaultID = c.order[0]
	case c.defaultID != "":
		ex, ok := c.exhibits[c.defaultID]
		if !ok {
			errs = append(errs, fmt.Errorf("hall.default_exhibit %q is not in the catalog", c.defaultID))
		} else if ex.Restricted {
			errs = append(errs, fmt.Errorf("hall.default_exhibit %q must not be the restricted exhibit", c.defaultID))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("gallery: invalid catalog: %w", errors.Join(errs...))
	}
	return c, nil
}

// Hall returns the hall metadata.
func (c *Catalog) Hall() HallMeta { return c.hall }

// Lookup returns the exhibit for id. The second return is false for unknown ids.
func (c *Catalog) Lookup(id string) (Exhibit, bool) {
	ex, ok := c.exhibits[id]
	return ex, ok
}

// Public returns the public exhibits in catalog order.
func (c *Catalog) Public() []Exhibit {
	out := make([]Exhibit, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.exhibits[id])
	}
	return out
}

// Restricted returns the passphrase-gated exhibit, if the catalog has one.
func (c *Catalog) Restricted() (Exhibit, bool) {
	if c.restrict == "" {
		return Exhibit{}, false
	}
	return c.exhibits[c.restrict], true
}

// Default returns the exhibit shown when the session is idle.
func (c *Catalog) Default() Exhibit {
	return c.exhibits[c.defaultID]
}
