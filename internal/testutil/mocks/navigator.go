package mocks

import (
	"sync"

	"github.com/felixgeelhaar/companion/internal/ports"
)

// Navigator records navigation targets.
type Navigator struct {
	mu    sync.Mutex
	paths []string
}

// NavigateTo records path.
func (m *Navigator) NavigateTo(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, path)
}

// Paths returns the recorded targets.
func (m *Navigator) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

// Ensure Navigator implements ports.Navigator.
var _ ports.Navigator = (*Navigator)(nil)
