// Package render draws session state. Every string handed to a renderer is
// untrusted and is shown as literal text.
package render

import "github.com/vovakirdan/wirechat-client/internal/session"

// Renderer is the sink the dispatcher drives.
type Renderer interface {
	// Message draws a newly appended message once; n is its display number.
	Message(n int, m *session.ChatMessage)
	// Notice draws a system line in the same stream as messages.
	Notice(text string)
	// Roster replaces the displayed list of online users.
	Roster(users []string, self string)
	// Reactions redraws the badge line of message n with current counts.
	Reactions(n int, m *session.ChatMessage)
	// Status shows the connection status for the room.
	Status(room string, s session.Status)
}
