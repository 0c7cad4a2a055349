package proto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf16"
)

type messageFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type reactionFrame struct {
	Type      string `json:"type"`
	Emoji     string `json:"emoji"`
	MessageID string `json:"messageId"`
}

// Encode serializes an action into its JSON wire form.
// Non-ASCII runes are emitted as \u escapes.
func Encode(a Action) ([]byte, error) {
	var frame any
	switch v := a.(type) {
	case SendMessage:
		frame = messageFrame{Type: TypeMessage, Content: v.Content}
	case *SendMessage:
		frame = messageFrame{Type: TypeMessage, Content: v.Content}
	case AddReaction:
		frame = reactionFrame{Type: TypeAddReaction, Emoji: v.Emoji, MessageID: v.MessageID}
	case *AddReaction:
		frame = reactionFrame{Type: TypeAddReaction, Emoji: v.Emoji, MessageID: v.MessageID}
	default:
		return nil, fmt.Errorf("encode: unsupported action %T", a)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(frame); err != nil {
		return nil, fmt.Errorf("encode %s: %w", TypeOf(a), err)
	}
	return asciiOnly(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// asciiOnly rewrites every non-ASCII rune of valid JSON text as a \u escape.
// Non-ASCII bytes only occur inside string literals, so the result stays valid JSON.
func asciiOnly(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, r := range string(data) {
		if r < 0x80 {
			out = append(out, byte(r))
			continue
		}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			out = appendEscape(out, hi)
			out = appendEscape(out, lo)
			continue
		}
		out = appendEscape(out, r)
	}
	return out
}

func appendEscape(out []byte, r rune) []byte {
	hex := strconv.FormatInt(int64(r), 16)
	out = append(out, '\\', 'u')
	for i := len(hex); i < 4; i++ {
		out = append(out, '0')
	}
	return append(out, hex...)
}

type inboundFrame struct {
	Type      *string    `json:"type"`
	User      *string    `json:"user"`
	Content   *string    `json:"content"`
	MessageID *string    `json:"message_id"`
	Online    *[]*string `json:"online"`
}

// Decode parses a server frame. Frames with an unknown type yield a nil
// event and a nil error. Frames that are not a well-formed event fail
// with an error wrapping ErrMalformed.
func Decode(data []byte) (Event, error) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if frame.Type == nil {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}

	switch *frame.Type {
	case TypeMessage:
		if frame.User == nil || frame.Content == nil {
			return nil, fmt.Errorf("%w: message requires user and content", ErrMalformed)
		}
		ev := MessageEvent{User: *frame.User, Content: *frame.Content}
		if frame.MessageID != nil {
			ev.ID = *frame.MessageID
		}
		return ev, nil
	case TypeJoin, TypeLeave:
		if frame.User == nil || frame.Online == nil {
			return nil, fmt.Errorf("%w: %s requires user and online", ErrMalformed, *frame.Type)
		}
		online := make([]string, 0, len(*frame.Online))
		for _, name := range *frame.Online {
			if name == nil {
				return nil, fmt.Errorf("%w: %s online entry is null", ErrMalformed, *frame.Type)
			}
			online = append(online, *name)
		}
		if *frame.Type == TypeJoin {
			return JoinEvent{User: *frame.User, Online: online}, nil
		}
		return LeaveEvent{User: *frame.User, Online: online}, nil
	default:
		return nil, nil
	}
}
