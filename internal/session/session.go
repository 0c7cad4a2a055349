package session

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session is one user's stay in one room, from join attempt to transport close.
//
// Status may be read from any goroutine. Roster and messages are owned by a
// single dispatch loop and must not be touched concurrently.
type Session struct {
	Room     string
	Username string

	status   atomic.Int32
	roster   []string
	messages []*ChatMessage
	byID     map[string]*ChatMessage

	newID func() string
	now   func() time.Time
	log   *zerolog.Logger
}

// Option customizes a Session.
type Option func(*Session)

// WithIDGenerator replaces the fallback message ID source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// WithClock replaces the receive timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(s *Session) { s.now = fn }
}

// WithLogger attaches a logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.log = logger
		}
	}
}

// New validates room and username and returns an idle session.
func New(room, username string, opts ...Option) (*Session, error) {
	room = strings.TrimSpace(room)
	username = strings.TrimSpace(username)
	if room == "" {
		return nil, ErrEmptyRoom
	}
	if username == "" {
		return nil, ErrEmptyUsername
	}

	nop := zerolog.Nop()
	s := &Session{
		Room:     room,
		Username: username,
		byID:     make(map[string]*ChatMessage),
		newID:    newMessageID,
		now:      time.Now,
		log:      &nop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// newMessageID returns a time-ordered UUIDv7, falling back to a random UUID.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Status returns the current status.
func (s *Session) Status() Status {
	return Status(s.status.Load())
}

// Transition moves the session to the given status.
func (s *Session) Transition(to Status) error {
	for {
		from := s.Status()
		if !canTransition(from, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		if s.status.CompareAndSwap(int32(from), int32(to)) {
			s.log.Debug().Str("from", from.String()).Str("to", to.String()).Msg("session status")
			return nil
		}
	}
}

// ReplaceRoster swaps the roster for the given snapshot.
func (s *Session) ReplaceRoster(online []string) {
	s.roster = append([]string(nil), online...)
}

// Roster returns a copy of the roster in server order.
func (s *Session) Roster() []string {
	return append([]string(nil), s.roster...)
}

// AppendMessage records a received chat message. An empty id is replaced
// by a locally generated one.
func (s *Session) AppendMessage(author, content, id string) *ChatMessage {
	if id == "" || s.byID[id] != nil {
		id = s.newID()
	}
	msg := &ChatMessage{
		ID:         id,
		Author:     author,
		Content:    content,
		ReceivedAt: s.now(),
		Own:        author == s.Username,
	}
	s.messages = append(s.messages, msg)
	s.byID[id] = msg
	return msg
}

// Messages returns the messages in append order.
func (s *Session) Messages() []*ChatMessage {
	return append([]*ChatMessage(nil), s.messages...)
}

// Len returns the number of messages.
func (s *Session) Len() int {
	return len(s.messages)
}

// Message returns the n-th message, counting from 1 as displayed.
func (s *Session) Message(n int) (*ChatMessage, error) {
	if n < 1 || n > len(s.messages) {
		return nil, fmt.Errorf("%w: #%d", ErrUnknownMessage, n)
	}
	return s.messages[n-1], nil
}

// MessageByID looks a message up by its id.
func (s *Session) MessageByID(id string) (*ChatMessage, bool) {
	msg, ok := s.byID[id]
	return msg, ok
}

// React applies emoji to the message locally and returns the new count.
// Tallies only grow.
func (s *Session) React(id, emoji string) (int, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return 0, ErrEmptyEmoji
	}
	msg, ok := s.byID[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownMessage, id)
	}
	return msg.apply(emoji), nil
}

// Unreact is the removal affordance. Removal is not implemented: the call is
// logged and state is left untouched.
func (s *Session) Unreact(id, emoji string) {
	s.log.Info().Str("message_id", id).Str("emoji", emoji).Msg("toggle reaction: removal not implemented")
}
