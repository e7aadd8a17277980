// Package catalog provides the selectable service areas and certifications
// offered during companion registration.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/felixgeelhaar/companion/internal/ports"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Catalog errors.
var (
	ErrEmptyCode     = errors.New("catalog entry has no code")
	ErrDuplicateCode = errors.New("catalog code already exists")
	ErrEmptyCatalog  = errors.New("catalog has no service areas")
)

// Kind distinguishes the two code lists.
type Kind string

// Catalog kinds.
const (
	KindArea          Kind = "area"
	KindCertification Kind = "certification"
)

// Entry is a selectable code with its display label.
type Entry = ports.CatalogEntry

//go:embed catalog.yaml
var defaultYAML []byte

type catalogDTO struct {
	Areas          []Entry `yaml:"areas"`
	Certifications []Entry `yaml:"certifications"`
}

// Catalog is an immutable list of areas and certifications.
type Catalog struct {
	areas          []Entry
	certifications []Entry
	labels         map[Kind]map[string]string
}

// New builds a catalog, rejecting blank or duplicate codes.
func New(areas, certifications []Entry) (*Catalog, error) {
	if len(areas) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		areas:          slices.Clone(areas),
		certifications: slices.Clone(certifications),
		labels: map[Kind]map[string]string{
			KindArea:          make(map[string]string, len(areas)),
			KindCertification: make(map[string]string, len(certifications)),
		},
	}
	if err := c.index(KindArea, c.areas); err != nil {
		return nil, err
	}
	if err := c.index(KindCertification, c.certifications); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index(kind Kind, entries []Entry) error {
	for i := range entries {
		entries[i].Code = strings.TrimSpace(entries[i].Code)
		e := entries[i]
		if e.Code == "" {
			return fmt.Errorf("%w: %s #%d", ErrEmptyCode, kind, i+1)
		}
		if _, exists := c.labels[kind][e.Code]; exists {
			return fmt.Errorf("%w: %s %s", ErrDuplicateCode, kind, e.Code)
		}
		label := e.Label
		if label == "" {
			label = e.Code
		}
		c.labels[kind][e.Code] = label
	}
	return nil
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Parse reads a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var dto catalogDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return New(dto.Areas, dto.Certifications)
}

// Fetch loads both lists from src concurrently.
func Fetch(ctx context.Context, src ports.CatalogSource) (*Catalog, error) {
	var areas, certs []Entry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		areas, err = src.ServiceAreas(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch service areas: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		certs, err = src.Certifications(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch certifications: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(areas, certs)
}

// Load fetches from src and falls back to the embedded catalog when src is
// nil or fails. The fetch error, if any, is returned alongside the fallback.
func Load(ctx context.Context, src ports.CatalogSource) (*Catalog, error) {
	if src != nil {
		cat, err := Fetch(ctx, src)
		if err == nil {
			return cat, nil
		}
		fallback, derr := Default()
		if derr != nil {
			return nil, errors.Join(err, derr)
		}
		return fallback, err
	}
	return Default()
}

// Areas returns the service areas in catalog order.
func (c *Catalog) Areas() []Entry {
	return slices.Clone(c.areas)
}

// Certifications returns the certifications in catalog order.
func (c *Catalog) Certifications() []Entry {
	return slices.Clone(c.certifications)
}

// Entries returns the list for kind.
func (c *Catalog) Entries(kind Kind) []Entry {
	if kind == KindCertification {
		return c.Certifications()
	}
	return c.Areas()
}

// Label returns the display label for code.
func (c *Catalog) Label(kind Kind, code string) (string, bool) {
	label, ok := c.labels[kind][code]
	return label, ok
}

// Labels maps codes to labels, keeping unknown codes as-is.
func (c *Catalog) Labels(kind Kind, codes []string) []string {
	out := make([]string, len(codes))
	for i, code := range codes {
		if label, ok := c.Label(kind, code); ok {
			out[i] = label
		} else {
			out[i] = code
		}
	}
	return out
}

// Regions returns the distinct area regions in first-seen order.
func (c *Catalog) Regions() []string {
	var regions []string
	seen := make(map[string]bool)
	for _, a := range c.areas {
		if a.Region != "" && !seen[a.Region] {
			seen[a.Region] = true
			regions = append(regions, a.Region)
		}
	}
	return regions
}

// AreasPreferring returns the areas with those in region moved to the
// front. Relative order is otherwise preserved.
func (c *Catalog) AreasPreferring(region string) []Entry {
	areas := c.Areas()
	if region == "" {
		return areas
	}
	slices.SortStableFunc(areas, func(a, b Entry) int {
		ra, rb := a.Region == region, b.Region == region
		switch {
		case ra && !rb:
			return -1
		case rb && !ra:
			return 1
		default:
			return 0
		}
	})
	return areas
}
