package registration

// StepStatus is how a step is shown in the progress indicator.
type StepStatus string

// Step statuses.
const (
	StatusComplete StepStatus = "complete"
	StatusActive   StepStatus = "active"
	StatusPending  StepStatus = "pending"
)

// ProgressItem is one entry of the progress display model.
type ProgressItem struct {
	Number int // 1-based
	Label  string
	Status StepStatus
}

// Progress marks steps before current as complete, current as active and
// the rest as pending. An out-of-range current clamps to the nearest step.
func Progress(labels []string, current int) []ProgressItem {
	if len(labels) == 0 {
		return nil
	}
	current = max(0, min(current, len(labels)-1))

	items := make([]ProgressItem, len(labels))
	for i, label := range labels {
		status := StatusPending
		switch {
		case i < current:
			status = StatusComplete
		case i == current:
			status = StatusActive
		}
		items[i] = ProgressItem{Number: i + 1, Label: label, Status: status}
	}
	return items
}

// Percent returns how far through labels the current step is, from 0 to 1.
// The first step is 0 and the last step is 1.
func Percent(stepCount, current int) float64 {
	if stepCount <= 1 {
		return 1
	}
	current = max(0, min(current, stepCount-1))
	return float64(current) / float64(stepCount-1)
}
