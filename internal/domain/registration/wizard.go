// Package registration implements the companion registration wizard: an
// ordered sequence of data-collection steps, each validated before the
// wizard advances, submitted as one request at the end.
//
// The Wizard is safe for concurrent use. Every operation except Submit runs
// to completion under the wizard's lock; Submit releases the lock while the
// registration request is in flight and refuses to start a second one.
package registration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/companion/internal/ports"
	"github.com/felixgeelhaar/statekit"
)

// DefaultCompletionPath is where the user is sent after registering.
const DefaultCompletionPath = "/companion/dashboard"

// SubmitOutcome reports what a call to Submit did.
type SubmitOutcome int

const (
	// SubmitIgnored means nothing happened: a submission was already in
	// flight, the wizard was not on its last step, or it was already
	// submitted or discarded.
	SubmitIgnored SubmitOutcome = iota
	// SubmitRejected means the final step failed validation.
	SubmitRejected
	// SubmitFailed means the registrar returned an error.
	SubmitFailed
	// SubmitSucceeded means the registration was accepted and the navigator
	// was called.
	SubmitSucceeded
	// SubmitAbandoned means the wizard was discarded while the request was
	// in flight; its result was dropped.
	SubmitAbandoned
)

// String returns the outcome name.
func (o SubmitOutcome) String() string {
	switch o {
	case SubmitIgnored:
		return "ignored"
	case SubmitRejected:
		return "rejected"
	case SubmitFailed:
		return "failed"
	case SubmitSucceeded:
		return "succeeded"
	case SubmitAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Failure is a registration failure carrying a message meant for the user.
type Failure struct {
	Message string
}

// NewFailure creates a Failure.
func NewFailure(message string) *Failure {
	return &Failure{Message: message}
}

func (f *Failure) Error() string {
	return "registration failed: " + f.Message
}

// UserMessage returns the user-facing message.
func (f *Failure) UserMessage() string {
	return f.Message
}

// userMessenger is implemented by errors that carry a user-facing message.
type userMessenger interface {
	UserMessage() string
}

// FailureMessage derives the message to display for err, falling back to
// MsgSubmitFailed when err carries no user-facing message.
func FailureMessage(err error) string {
	return FailureMessageOr(err, MsgSubmitFailed)
}

// FailureMessageOr is FailureMessage with a caller-chosen fallback.
func FailureMessageOr(err error, fallback string) string {
	var um userMessenger
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return fallback
}

// State is a point-in-time copy of the wizard.
type State struct {
	StepIndex    int
	StepCount    int
	Step         Step
	Fields       Fields
	ErrorMessage string
	Phase        Phase
	Attempts     int
}

// IsSubmitting reports whether a submission is in flight.
func (s State) IsSubmitting() bool {
	return s.Phase == PhaseSubmitting
}

// IsLastStep reports whether the wizard is on its final step.
func (s State) IsLastStep() bool {
	return s.StepIndex == s.StepCount-1
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithLogger sets the logger (default: none).
func WithLogger(logger ports.Logger) Option {
	return func(w *Wizard) {
		w.logger = logger
	}
}

// WithCompletionPath sets the path passed to the navigator on success.
func WithCompletionPath(path string) Option {
	return func(w *Wizard) {
		w.completionPath = path
	}
}

// WithInitialFields pre-populates fields, for example a phone number that
// was verified in an earlier session.
func WithInitialFields(fields Fields) Option {
	return func(w *Wizard) {
		w.fields = fields.Clone()
	}
}

// Wizard drives a user through the registration steps.
type Wizard struct {
	mu             sync.Mutex
	steps          []Step
	index          int
	fields         Fields
	errorMessage   string
	attempts       int
	lifecycle      *statekit.Interpreter[lifecycleContext]
	registrar      ports.Registrar
	navigator      ports.Navigator
	logger         ports.Logger
	completionPath string
}

// NewWizard creates a wizard on the first step with empty fields.
func NewWizard(registrar ports.Registrar, navigator ports.Navigator, opts ...Option) (*Wizard, error) {
	if registrar == nil {
		return nil, errors.New("registrar is required")
	}
	if navigator == nil {
		return nil, errors.New("navigator is required")
	}

	w := &Wizard{
		steps:          DefaultSteps(),
		fields:         NewFields(),
		registrar:      registrar,
		navigator:      navigator,
		completionPath: DefaultCompletionPath,
	}
	for _, opt := range opts {
		opt(w)
	}

	interp, err := buildLifecycle(&w.attempts)
	if err != nil {
		return nil, fmt.Errorf("failed to build lifecycle: %w", err)
	}
	w.lifecycle = interp

	return w, nil
}

// Steps returns the step definitions.
func (w *Wizard) Steps() []Step {
	out := make([]Step, len(w.steps))
	copy(out, w.steps)
	return out
}

// StepIndex returns the current step index.
func (w *Wizard) StepIndex() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.index
}

// StepCount returns the number of steps.
func (w *Wizard) StepCount() int {
	return len(w.steps)
}

// ErrorMessage returns the last failure message, or "".
func (w *Wizard) ErrorMessage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errorMessage
}

// IsSubmitting reports whether a submission is in flight.
func (w *Wizard) IsSubmitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase() == PhaseSubmitting
}

// Fields returns a copy of the collected fields.
func (w *Wizard) Fields() Fields {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fields.Clone()
}

// Snapshot returns a consistent copy of the whole wizard state.
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		StepIndex:    w.index,
		StepCount:    len(w.steps),
		Step:         w.steps[w.index],
		Fields:       w.fields.Clone(),
		ErrorMessage: w.errorMessage,
		Phase:        w.phase(),
		Attempts:     w.attempts,
	}
}

// Progress returns the progress display model for the current step.
func (w *Wizard) Progress() []ProgressItem {
	return Progress(Labels(w.steps), w.StepIndex())
}

// UpdateField sets the named field. It never revalidates. An error is
// returned only for an unknown field or a value of the wrong type.
func (w *Wizard) UpdateField(name FieldName, value any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fields.set(name, value)
}

// ToggleArea flips selection of a service area code.
func (w *Wizard) ToggleArea(code string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fields.SelectedAreas.Toggle(code)
}

// ToggleCertification flips selection of a certification code.
func (w *Wizard) ToggleCertification(code string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fields.SelectedCertifications.Toggle(code)
}

// ReportError surfaces a failure from a step view, such as an unreachable
// phone verification service.
func (w *Wizard) ReportError(message string) {
	if message == "" {
		message = MsgSubmitFailed
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errorMessage = message
}

// ClearError clears the error message.
func (w *Wizard) ClearError() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errorMessage = ""
}

// GoNext validates the current step and advances when it passes. On the
// last step a passing validation does not advance; use Submit.
func (w *Wizard) GoNext() Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase() != PhaseEditing {
		return Valid()
	}

	step := w.steps[w.index]
	res := step.Validate(w.fields)
	if !res.OK() {
		w.errorMessage = res.Message()
		w.debug("step rejected", ports.F("step", step.ID), ports.F("reason", res.Message()))
		return res
	}

	w.errorMessage = ""
	if w.index < len(w.steps)-1 {
		w.index++
		w.debug("step advanced", ports.F("from", step.ID), ports.F("to", w.steps[w.index].ID))
	}
	return res
}

// GoBack moves to the previous step without validating. It reports whether
// the wizard moved.
func (w *Wizard) GoBack() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase() != PhaseEditing || w.index == 0 {
		return false
	}
	w.errorMessage = ""
	w.index--
	w.debug("step back", ports.F("to", w.steps[w.index].ID))
	return true
}

// Submit validates the final step and sends the registration. It blocks
// until the registrar returns. While a submission is in flight further
// calls return SubmitIgnored without contacting the registrar.
func (w *Wizard) Submit(ctx context.Context) SubmitOutcome {
	w.mu.Lock()
	if w.phase() != PhaseEditing || w.index != len(w.steps)-1 {
		w.mu.Unlock()
		return SubmitIgnored
	}

	step := w.steps[w.index]
	if res := step.Validate(w.fields); !res.OK() {
		w.errorMessage = res.Message()
		w.mu.Unlock()
		return SubmitRejected
	}

	w.errorMessage = ""
	w.lifecycle.Send(statekit.Event{Type: eventSubmit})
	payload := w.fields.Payload()
	attempt := w.attempts
	w.mu.Unlock()

	w.info(ctx, "submitting registration",
		ports.F("attempt", attempt),
		ports.F("areas", len(payload.ServiceAreas)),
		ports.F("certifications", len(payload.Certifications)),
	)

	err := w.registrar.RegisterCompanion(ctx, payload)

	w.mu.Lock()
	if w.phase() == PhaseDiscarded {
		w.mu.Unlock()
		return SubmitAbandoned
	}
	if err != nil {
		w.lifecycle.Send(statekit.Event{Type: eventSubmitFailed, Payload: err})
		w.errorMessage = FailureMessage(err)
		w.mu.Unlock()
		w.warn(ctx, "registration failed", ports.F("attempt", attempt), ports.Err(err))
		return SubmitFailed
	}
	w.lifecycle.Send(statekit.Event{Type: eventSubmitSucceeded})
	path := w.completionPath
	w.mu.Unlock()

	w.info(ctx, "registration accepted", ports.F("attempt", attempt), ports.F("navigate", path))
	w.navigator.NavigateTo(path)
	return SubmitSucceeded
}

// Discard abandons the wizard. A submission still in flight completes
// without touching state or navigating.
func (w *Wizard) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lifecycle.Send(statekit.Event{Type: eventDiscard})
}

// Phase returns the submission lifecycle phase.
func (w *Wizard) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase()
}

func (w *Wizard) phase() Phase {
	return Phase(w.lifecycle.State().Value)
}

func (w *Wizard) debug(msg string, fields ...ports.Field) {
	if w.logger != nil {
		w.logger.Debug(context.Background(), msg, fields...)
	}
}

func (w *Wizard) info(ctx context.Context, msg string, fields ...ports.Field) {
	if w.logger != nil {
		w.logger.Info(ctx, msg, fields...)
	}
}

func (w *Wizard) warn(ctx context.Context, msg string, fields ...ports.Field) {
	if w.logger != nil {
		w.logger.Warn(ctx, msg, fields...)
	}
}
