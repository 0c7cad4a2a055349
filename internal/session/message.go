package session

import "time"

// ChatMessage is a rendered chat line. It lives only in memory.
type ChatMessage struct {
	ID         string
	Author     string
	Content    string
	ReceivedAt time.Time
	// Own is a presentation hint: the author matches the local username.
	Own bool

	counts map[string]int
	order  []string
}

// Tally is the applied count of one emoji on a message.
type Tally struct {
	Emoji string
	Count int
}

// Reactions returns the tallies in the order each emoji was first applied.
func (m *ChatMessage) Reactions() []Tally {
	out := make([]Tally, 0, len(m.order))
	for _, emoji := range m.order {
		out = append(out, Tally{Emoji: emoji, Count: m.counts[emoji]})
	}
	return out
}

// Count returns the tally for emoji, zero when it was never applied.
func (m *ChatMessage) Count(emoji string) int {
	return m.counts[emoji]
}

func (m *ChatMessage) apply(emoji string) int {
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	if _, ok := m.counts[emoji]; !ok {
		m.order = append(m.order, emoji)
	}
	m.counts[emoji]++
	return m.counts[emoji]
}
