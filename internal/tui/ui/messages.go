package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/companion/internal/domain/registration"
)

// CodeSentMsg reports the result of a verification code request.
type CodeSentMsg struct {
	Phone string
	Err   error
}

// CodeConfirmedMsg reports the result of checking a verification code.
type CodeConfirmedMsg struct {
	Phone    string
	Verified bool
	Err      error
}

// SubmitDoneMsg carries the outcome of a registration submission.
type SubmitDoneMsg struct {
	Outcome registration.SubmitOutcome
}

// CooldownTickMsg advances the resend countdown. Seq ties a tick to the
// countdown that scheduled it so ticks from an earlier send are dropped.
type CooldownTickMsg struct {
	Seq int
}

// CooldownTick schedules the next countdown tick.
func CooldownTick(seq int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return CooldownTickMsg{Seq: seq}
	})
}
