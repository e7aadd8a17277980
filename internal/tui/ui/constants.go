// Package ui provides shared styles, key bindings, and messages for TUI components.
package ui

import "time"

// Default component dimensions.
const (
	// DefaultWidth is the content width at medium scale.
	DefaultWidth = 80

	// DefaultHeight is used until the first window size message.
	DefaultHeight = 24

	// DefaultListHeight is the number of visible rows in selection lists.
	DefaultListHeight = 10

	// DefaultProgressBarWidth is the width of the step progress bar.
	DefaultProgressBarWidth = 40

	// DefaultSearchCharLimit is the character limit for filter inputs.
	DefaultSearchCharLimit = 30
)

// Input limits for the registration steps.
const (
	PhoneCharLimit = 13 // 010-1234-5678
	CodeCharLimit  = 6
	NameCharLimit  = 30 // above the validator maximum so the user sees the message
)

// ResendCooldown is how long the phone step waits before allowing another
// verification code request.
const ResendCooldown = 60 * time.Second
