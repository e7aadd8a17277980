// Package tui provides the terminal user interface for companion registration.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/companion/internal/domain/catalog"
	"github.com/felixgeelhaar/companion/internal/domain/preferences"
	"github.com/felixgeelhaar/companion/internal/domain/registration"
	"github.com/felixgeelhaar/companion/internal/ports"
)

// RegistrationOptions configures the registration wizard UI.
type RegistrationOptions struct {
	Wizard   *registration.Wizard
	Verifier ports.PhoneVerifier
	Catalog  *catalog.Catalog

	// PreferredRegion lists that region's areas first.
	PreferredRegion string
	// Scale caps the content width.
	Scale preferences.Scale

	// Input and Output override the terminal, mainly for tests.
	Input  io.Reader
	Output io.Writer
}

// Validate checks that the required collaborators are set.
func (o RegistrationOptions) Validate() error {
	var errs []error
	if o.Wizard == nil {
		errs = append(errs, errors.New("wizard is required"))
	}
	if o.Verifier == nil {
		errs = append(errs, errors.New("phone verifier is required"))
	}
	if o.Catalog == nil {
		errs = append(errs, errors.New("catalog is required"))
	}
	return errors.Join(errs...)
}

// RegistrationResult is the state the wizard UI ended in.
type RegistrationResult struct {
	Outcome   registration.SubmitOutcome
	Fields    registration.Fields
	Cancelled bool
}

// Completed reports whether the registration was accepted.
func (r RegistrationResult) Completed() bool {
	return r.Outcome == registration.SubmitSucceeded
}

// RunRegistration runs the interactive registration wizard until the user
// completes or abandons it.
func RunRegistration(ctx context.Context, opts RegistrationOptions) (*RegistrationResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registration options: %w", err)
	}

	model := newRegistrationModel(ctx, opts)

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	p := tea.NewProgram(model, programOpts...)
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("registration wizard failed: %w", err)
	}

	m, ok := finalModel.(registrationModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}

	return &RegistrationResult{
		Outcome:   m.outcome,
		Fields:    m.wizard.Fields(),
		Cancelled: m.cancelled,
	}, nil
}
