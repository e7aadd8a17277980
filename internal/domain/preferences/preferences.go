// Package preferences provides persisted UI preferences: display scale and
// preferred service region.
package preferences

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Scale is the UI text scale.
type Scale string

// Supported scales.
const (
	ScaleSmall  Scale = "small"
	ScaleMedium Scale = "medium"
	ScaleLarge  Scale = "large"
)

// ErrInvalidScale is returned for an unsupported scale name.
var ErrInvalidScale = errors.New("invalid scale")

// ParseScale parses a scale name.
func ParseScale(s string) (Scale, error) {
	switch Scale(strings.ToLower(strings.TrimSpace(s))) {
	case ScaleSmall:
		return ScaleSmall, nil
	case ScaleMedium, "":
		return ScaleMedium, nil
	case ScaleLarge:
		return ScaleLarge, nil
	default:
		return "", fmt.Errorf("%w: %q (want small, medium or large)", ErrInvalidScale, s)
	}
}

// Width returns the content width used for this scale.
func (s Scale) Width() int {
	switch s {
	case ScaleSmall:
		return 60
	case ScaleLarge:
		return 100
	default:
		return 80
	}
}

// Preferences are the user's persisted UI choices.
type Preferences struct {
	Scale     Scale     `yaml:"scale"`
	Region    string    `yaml:"region,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
}

// Default returns medium scale and no preferred region.
func Default() *Preferences {
	return &Preferences{Scale: ScaleMedium}
}

// SetScale validates and sets the scale.
func (p *Preferences) SetScale(s string) error {
	scale, err := ParseScale(s)
	if err != nil {
		return err
	}
	p.Scale = scale
	p.UpdatedAt = time.Now()
	return nil
}

// SetRegion sets the preferred region. An empty region clears it.
func (p *Preferences) SetRegion(region string) {
	p.Region = strings.TrimSpace(region)
	p.UpdatedAt = time.Now()
}

// Store persists preferences to a YAML file.
type Store struct {
	path string
	mu   sync.RWMutex
}

// DefaultPath returns ~/.companion/preferences.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".companion", "preferences.yaml"), nil
}

// NewStore creates a store at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the storage path.
func (s *Store) Path() string {
	return s.path
}

// Load reads preferences. A missing file yields defaults.
func (s *Store) Load() (*Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var prefs Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if prefs.Scale, err = ParseScale(string(prefs.Scale)); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return &prefs, nil
}

// Save writes preferences, creating the parent directory.
func (s *Store) Save(prefs *Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(prefs)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
