// Package mocks provides test doubles for testing.
package mocks

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/companion/internal/ports"
)

// VerifierCall is one recorded PhoneVerifier invocation.
type VerifierCall struct {
	Method string
	Phone  string
	Code   string
}

// PhoneVerifier is a thread-safe test double for ports.PhoneVerifier. A
// code is accepted when it equals the code registered for the phone, or
// the default code when none was registered.
type PhoneVerifier struct {
	mu          sync.RWMutex
	defaultCode string
	codes       map[string]string
	sendErr     error
	confirmErr  error
	calls       []VerifierCall
}

// NewPhoneVerifier creates a PhoneVerifier accepting defaultCode.
func NewPhoneVerifier(defaultCode string) *PhoneVerifier {
	return &PhoneVerifier{
		defaultCode: defaultCode,
		codes:       make(map[string]string),
	}
}

// SetCode registers the code accepted for phone.
func (m *PhoneVerifier) SetCode(phone, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[phone] = code
}

// SetSendError makes every SendCode fail with err.
func (m *PhoneVerifier) SetSendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// SetConfirmError makes every ConfirmCode fail with err.
func (m *PhoneVerifier) SetConfirmError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmErr = err
}

// SendCode records the call.
func (m *PhoneVerifier) SendCode(_ context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, VerifierCall{Method: "SendCode", Phone: phone})
	return m.sendErr
}

// ConfirmCode records the call and checks code.
func (m *PhoneVerifier) ConfirmCode(_ context.Context, phone, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, VerifierCall{Method: "ConfirmCode", Phone: phone, Code: code})
	if m.confirmErr != nil {
		return false, m.confirmErr
	}
	want, ok := m.codes[phone]
	if !ok {
		want = m.defaultCode
	}
	return code == want, nil
}

// Calls returns all recorded invocations.
func (m *PhoneVerifier) Calls() []VerifierCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]VerifierCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Sent returns the phones SendCode was called with.
func (m *PhoneVerifier) Sent() []string {
	var phones []string
	for _, c := range m.Calls() {
		if c.Method == "SendCode" {
			phones = append(phones, c.Phone)
		}
	}
	return phones
}

// Ensure PhoneVerifier implements ports.PhoneVerifier.
var _ ports.PhoneVerifier = (*PhoneVerifier)(nil)
