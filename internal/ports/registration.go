// Package ports defines interfaces for external dependencies.
package ports

import "context"

// RegistrationPayload is the body submitted when a companion registers.
// Service areas and certifications are sorted code lists.
type RegistrationPayload struct {
	Introduction   string   `json:"introduction" yaml:"introduction"`
	ServiceAreas   []string `json:"serviceAreas" yaml:"serviceAreas"`
	Certifications []string `json:"certifications" yaml:"certifications"`
}

// Registrar submits companion registrations.
type Registrar interface {
	// RegisterCompanion submits the payload. A returned error may carry a
	// user-facing message (see api.Error).
	RegisterCompanion(ctx context.Context, payload RegistrationPayload) error
}

// PhoneVerifier sends and confirms SMS verification codes.
type PhoneVerifier interface {
	// SendCode sends a verification code. It fails on an invalid phone.
	SendCode(ctx context.Context, phone string) error

	// ConfirmCode reports whether code is correct for phone.
	ConfirmCode(ctx context.Context, phone, code string) (bool, error)
}

// Navigator moves the user to another screen after the wizard completes.
type Navigator interface {
	NavigateTo(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// NavigateTo calls f(path).
func (f NavigatorFunc) NavigateTo(path string) {
	f(path)
}

// CatalogEntry is a selectable code with a display label.
type CatalogEntry struct {
	Code   string `json:"code" yaml:"code"`
	Label  string `json:"label" yaml:"label"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// CatalogSource fetches the selectable service areas and certifications.
type CatalogSource interface {
	ServiceAreas(ctx context.Context) ([]CatalogEntry, error)
	Certifications(ctx context.Context) ([]CatalogEntry, error)
}

// Session is the authenticated user the wizard registers on behalf of.
type Session struct {
	UserID      string
	DisplayName string
	AccessToken string
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// SessionStore provides the current auth session.
type SessionStore interface {
	Current() (Session, error)
}
