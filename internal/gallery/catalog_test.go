package gallery

import (
	"strings"
	"testing"
)

const testCatalogYAML = `
hall:
  name: "Weyland Heritage Hall"
  default_exhibit: weyland
exhibits:
  - id: weyland
    title: "Weyland Corp Retrospective"
    images: ["exhibits/weyland/01.jpg", "exhibits/weyland/02.jpg"]
  - id: david-7
    title: "DAVID-7 Synthetic Cranium"
    images: ["exhibits/david-7/01.jpg"]
  - id: mother
    title: "MOTHER AI Core"
    images: ["exhibits/mother/01.jpg"]
  - id: apollo
    title: "Apollo Guidance Computer"
    images: ["exhibits/apollo/01.jpg", "exhibits/apollo/02.jpg"]
  - id: xenomorph
    title: "Specimen XX121"
    restricted: true
    images: ["exhibits/xenomorph/01.jpg"]
`

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadCatalogFromReader(strings.NewReader(testCatalogYAML))
	if err != nil {
		t.Fatalf("load test catalog: %v", err)
	}
	return c
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	c := testCatalog(t)

	if got := c.Hall().Name; got != "Weyland Heritage Hall" {
		t.Errorf("hall name = %q", got)
	}
	if got := len(c.Public()); got != 4 {
		t.Errorf("public exhibits = %d, want 4", got)
	}
	if got := c.Default().ID; got != "weyland" {
		t.Errorf("default exhibit = %q, want weyland", got)
	}

	r, ok := c.Restricted()
	if !ok {
		t.Fatal("expected a restricted exhibit")
	}
	if r.ID != "xenomorph" {
		t.Errorf("restricted exhibit = %q, want xenomorph", r.ID)
	}

	if _, ok := c.Lookup("apollo"); !ok {
		t.Error("apollo not found")
	}
	if _, ok := c.Lookup("hyperdyne"); ok {
		t.Error("unknown id must not resolve")
	}
}

func TestLoadCatalog_UnknownKeysRejected(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalogFromReader(strings.NewReader("hall:\n  nmae: typo\n"))
	if err == nil {
		t.Fatal("expected error for unknown yaml key")
	}
}

func TestNewCatalog_Validation(t *testing.T) {
	t.Parallel()

	imgs := []string{"a.jpg"}

	tests := []struct {
		name     string
		hall     HallMeta
		exhibits []Exhibit
		wantErr  string
	}{
		{
			name:     "missing id",
			exhibits: []Exhibit{{Images: imgs}},
			wantErr:  "id is required",
		},
		{
			name: "duplicate id",
			exhibits: []Exhibit{
				{ID: "a", Images: imgs},
				{ID: "a", Images: imgs},
			},
			wantErr: "duplicate",
		},
		{
			name:     "no images",
			exhibits: []Exhibit{{ID: "a"}},
			wantErr:  "no images",
		},
		{
			name: "two restricted",
			exhibits: []Exhibit{
				{ID: "a", Images: imgs},
				{ID: "b", Images: imgs, Restricted: true},
				{ID: "c", Images: imgs, Restricted: true},
			},
			wantErr: "already declared",
		},
		{
			name:     "only restricted",
			exhibits: []Exhibit{{ID: "a", Images: imgs, Restricted: true}},
			wantErr:  "at least one public",
		},
		{
			name:     "default not in catalog",
			hall:     HallMeta{DefaultExhibit: "ghost"},
			exhibits: []Exhibit{{ID: "a", Images: imgs}},
			wantErr:  "not in the catalog",
		},
		{
			name: "default is restricted",
			hall: HallMeta{DefaultExhibit: "b"},
			exhibits: []Exhibit{
				{ID: "a", Images: imgs},
				{ID: "b", Images: imgs, Restricted: true},
			},
			wantErr: "must not be the restricted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewCatalog(tt.hall, tt.exhibits)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewCatalog_DefaultFallsBackToFirstPublic(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(HallMeta{}, []Exhibit{
		{ID: "first", Images: []string{"a.jpg"}},
		{ID: "second", Images: []string{"b.jpg"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Default().ID; got != "first" {
		t.Errorf("default = %q, want first", got)
	}
	if _, ok := c.Restricted(); ok {
		t.Error("catalog without restricted entry must report none")
	}
}
