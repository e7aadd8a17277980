package registration

import (
	"github.com/felixgeelhaar/statekit"
)

// Phase is the submission lifecycle state of a wizard.
type Phase string

// Submission phases.
const (
	PhaseEditing    Phase = stateEditing
	PhaseSubmitting Phase = stateSubmitting
	PhaseSubmitted  Phase = stateSubmitted
	PhaseDiscarded  Phase = stateDiscarded
)

const (
	stateEditing    = "editing"
	stateSubmitting = "submitting"
	stateSubmitted  = "submitted"
	stateDiscarded  = "discarded"
)

// Lifecycle events.
const (
	eventSubmit          = "SUBMIT"
	eventSubmitFailed    = "SUBMIT_FAILED"
	eventSubmitSucceeded = "SUBMIT_SUCCEEDED"
	eventDiscard         = "DISCARD"
)

// lifecycleContext is the statekit context type. Counters live on the
// wizard and are updated through captured pointers.
type lifecycleContext struct{}

// buildLifecycle constructs the submission state machine:
//
//	editing --SUBMIT--> submitting --SUBMIT_SUCCEEDED--> submitted
//	             ^            |
//	             +--FAILED----+
//
// DISCARD moves any state to discarded.
func buildLifecycle(attempts *int) (*statekit.Interpreter[lifecycleContext], error) {
	machine, err := statekit.NewMachine[lifecycleContext]("companion-registration").
		WithInitial(stateEditing).
		WithContext(lifecycleContext{}).
		WithAction("countAttempt", func(_ *lifecycleContext, _ statekit.Event) {
			*attempts++
		}).
		State(stateEditing).
		On(eventSubmit).Target(stateSubmitting).
		On(eventDiscard).Target(stateDiscarded).Done().
		State(stateSubmitting).
		OnEntry("countAttempt").
		On(eventSubmitFailed).Target(stateEditing).
		On(eventSubmitSucceeded).Target(stateSubmitted).
		On(eventDiscard).Target(stateDiscarded).Done().
		State(stateSubmitted).
		On(eventDiscard).Target(stateDiscarded).Done().
		State(stateDiscarded).
		On(eventDiscard).Target(stateDiscarded).Done().
		Build()
	if err != nil {
		return nil, err
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return interp, nil
}
