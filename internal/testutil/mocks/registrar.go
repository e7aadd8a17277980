package mocks

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/companion/internal/ports"
)

// Registrar is a thread-safe test double for ports.Registrar.
type Registrar struct {
	mu       sync.RWMutex
	errs     []error
	payloads []ports.RegistrationPayload
	block    chan struct{}
	entered  chan struct{}
	enter    *sync.Once
}

// NewRegistrar creates a Registrar that accepts every payload.
func NewRegistrar() *Registrar {
	return &Registrar{}
}

// FailWith queues errors returned by the next calls, in order. Once the
// queue is empty calls succeed.
func (m *Registrar) FailWith(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, errs...)
}

// Block makes RegisterCompanion wait until the returned function is called
// or the context is done. Entered is closed once a call is waiting.
func (m *Registrar) Block() (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{})
	m.block = ch
	m.entered = make(chan struct{})
	m.enter = &sync.Once{}
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// RegisterCompanion records payload.
func (m *Registrar) RegisterCompanion(ctx context.Context, payload ports.RegistrationPayload) error {
	m.mu.Lock()
	m.payloads = append(m.payloads, payload)
	var err error
	if len(m.errs) > 0 {
		err, m.errs = m.errs[0], m.errs[1:]
	}
	block, entered, enter := m.block, m.entered, m.enter
	m.mu.Unlock()

	if block != nil {
		enter.Do(func() { close(entered) })
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// Entered returns a channel closed when a call reaches the block set by
// Block. It is nil before Block is called.
func (m *Registrar) Entered() <-chan struct{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entered
}

// Calls returns the number of RegisterCompanion calls.
func (m *Registrar) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payloads)
}

// Payloads returns every payload received.
func (m *Registrar) Payloads() []ports.RegistrationPayload {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ports.RegistrationPayload, len(m.payloads))
	copy(out, m.payloads)
	return out
}

// Ensure Registrar implements ports.Registrar.
var _ ports.Registrar = (*Registrar)(nil)
