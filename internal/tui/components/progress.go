package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/companion/internal/domain/registration"
	"github.com/felixgeelhaar/companion/internal/tui/ui"
)

// Stepper renders the wizard progress indicator: a numbered label per step,
// styled by status, plus a percentage bar.
type Stepper struct {
	items  []registration.ProgressItem
	width  int
	styles ui.Styles
}

// NewStepper creates a stepper for items.
func NewStepper(items []registration.ProgressItem) Stepper {
	return Stepper{
		items:  items,
		width:  ui.DefaultProgressBarWidth,
		styles: ui.DefaultStyles(),
	}
}

// Items returns the rendered progress items.
func (s Stepper) Items() []registration.ProgressItem {
	return append([]registration.ProgressItem(nil), s.items...)
}

// SetItems replaces the items.
func (s Stepper) SetItems(items []registration.ProgressItem) Stepper {
	s.items = items
	return s
}

// WithWidth sets the bar width.
func (s Stepper) WithWidth(width int) Stepper {
	s.width = width
	return s
}

// WithStyles sets the styles.
func (s Stepper) WithStyles(styles ui.Styles) Stepper {
	s.styles = styles
	return s
}

// Percent returns the completed fraction, counting the active step as
// reached.
func (s Stepper) Percent() float64 {
	for _, item := range s.items {
		if item.Status == registration.StatusActive {
			return registration.Percent(len(s.items), item.Number-1)
		}
	}
	return 0
}

// View renders the labels line and the bar.
func (s Stepper) View() string {
	if len(s.items) == 0 {
		return ""
	}

	labels := make([]string, len(s.items))
	for i, item := range s.items {
		labels[i] = s.renderItem(item)
	}
	line := strings.Join(labels, s.styles.StepLine.Render(" ─ "))

	return line + "\n" + s.bar()
}

func (s Stepper) renderItem(item registration.ProgressItem) string {
	switch item.Status {
	case registration.StatusComplete:
		return s.styles.StepComplete.Render(fmt.Sprintf("✓ %s", item.Label))
	case registration.StatusActive:
		return s.styles.StepActive.Render(fmt.Sprintf("%d %s", item.Number, item.Label))
	default:
		return s.styles.StepPending.Render(fmt.Sprintf("%d %s", item.Number, item.Label))
	}
}

func (s Stepper) bar() string {
	percent := s.Percent()
	barWidth := max(2, s.width-2)
	filled := int(percent * float64(barWidth))

	bar := fmt.Sprintf("[%s%s]",
		strings.Repeat("█", filled),
		strings.Repeat("░", barWidth-filled),
	)
	return s.styles.ProgressBar.Render(bar) + fmt.Sprintf(" %3.0f%%", percent*100)
}

// Spinner displays an animated spinner with optional message.
type Spinner struct {
	spinner spinner.Model
	message string
}

// NewSpinner creates a new spinner component.
func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.DefaultStyles().Spinner

	return Spinner{spinner: s}
}

// Message returns the current message.
func (s Spinner) Message() string {
	return s.message
}

// SetMessage sets the spinner message.
func (s Spinner) SetMessage(message string) Spinner {
	s.message = message
	return s
}

// Tick starts the animation.
func (s Spinner) Tick() tea.Msg {
	return s.spinner.Tick()
}

// Update handles spinner animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner.
func (s Spinner) View() string {
	if s.message != "" {
		return fmt.Sprintf("%s %s", s.spinner.View(), s.message)
	}
	return s.spinner.View()
}
