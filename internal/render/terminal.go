package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vovakirdan/wirechat-client/internal/session"
)

// Terminal renders the chat as plain text lines.
type Terminal struct {
	mu         sync.Mutex
	w          io.Writer
	timeFormat string
}

// NewTerminal returns a Terminal writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, timeFormat: "15:04"}
}

func (t *Terminal) Message(n int, m *session.ChatMessage) {
	author := Inline(m.Author)
	if m.Own {
		author += " (you)"
	}

	lines := strings.Split(Literal(m.Content), "\n")
	var b strings.Builder
	fmt.Fprintf(&b, "#%d [%s] %s: %s\n", n, m.ReceivedAt.Format(t.timeFormat), author, lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	t.write(b.String())
}

func (t *Terminal) Notice(text string) {
	t.write("* " + Inline(text) + "\n")
}

func (t *Terminal) Roster(users []string, self string) {
	names := make([]string, 0, len(users))
	for _, u := range users {
		name := Inline(u)
		if u == self {
			name += " (you)"
		}
		names = append(names, name)
	}
	t.write(fmt.Sprintf("online (%d): %s\n", len(users), strings.Join(names, ", ")))
}

func (t *Terminal) Reactions(n int, m *session.ChatMessage) {
	tallies := m.Reactions()
	if len(tallies) == 0 {
		return
	}
	badges := make([]string, 0, len(tallies))
	for _, tally := range tallies {
		badges = append(badges, fmt.Sprintf("%s %d", Inline(tally.Emoji), tally.Count))
	}
	t.write(fmt.Sprintf("    #%d reactions: %s\n", n, strings.Join(badges, "  ")))
}

func (t *Terminal) Status(room string, s session.Status) {
	var label string
	switch s {
	case session.StatusOnline:
		label = "Connected"
	case session.StatusConnecting:
		label = "Connecting..."
	default:
		label = "Disconnected"
	}
	t.write(fmt.Sprintf("[room: %s] %s\n", Inline(room), label))
}

func (t *Terminal) write(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.w, s)
}
