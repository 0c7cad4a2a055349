package proto

import "errors"

// Wire type discriminators.
const (
	TypeMessage     = "message"
	TypeAddReaction = "add_reaction"
	TypeJoin        = "join"
	TypeLeave       = "leave"
)

// ErrMalformed marks an inbound frame that cannot be read as a known event.
var ErrMalformed = errors.New("malformed event")

// Action is something the client asks the server to do.
type Action interface {
	actionType() string
}

// SendMessage posts a chat message to the room.
type SendMessage struct {
	Content string
}

// AddReaction attaches an emoji to a rendered message.
type AddReaction struct {
	Emoji     string
	MessageID string
}

func (SendMessage) actionType() string { return TypeMessage }
func (AddReaction) actionType() string { return TypeAddReaction }

// Event is a decoded server push.
type Event interface {
	eventType() string
}

// MessageEvent is a chat message broadcast to the room.
type MessageEvent struct {
	User    string
	Content string
	// ID is empty when the server did not attach one.
	ID string
}

// JoinEvent reports that User joined; Online is the full roster after the join.
type JoinEvent struct {
	User   string
	Online []string
}

// LeaveEvent reports that User left; Online is the full roster after the leave.
type LeaveEvent struct {
	User   string
	Online []string
}

func (MessageEvent) eventType() string { return TypeMessage }
func (JoinEvent) eventType() string    { return TypeJoin }
func (LeaveEvent) eventType() string   { return TypeLeave }

// TypeOf returns the wire discriminator of an action or event.
func TypeOf(v any) string {
	switch t := v.(type) {
	case Action:
		return t.actionType()
	case Event:
		return t.eventType()
	default:
		return ""
	}
}
