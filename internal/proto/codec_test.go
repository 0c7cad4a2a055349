package proto

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestEncodeSendMessage(t *testing.T) {
	data, err := Encode(SendMessage{Content: "hi <b>all</b> & bye"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"type":"message","content":"hi <b>all</b> & bye"}`
	if string(data) != want {
		t.Fatalf("unexpected frame:\n got %s\nwant %s", data, want)
	}
}

func TestEncodeAddReactionIsASCII(t *testing.T) {
	data, err := Encode(AddReaction{Emoji: "👍", MessageID: "m-1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"type":"add_reaction","emoji":"\ud83d\udc4d","messageId":"m-1"}`
	if string(data) != want {
		t.Fatalf("unexpected frame:\n got %s\nwant %s", data, want)
	}
	for i := 0; i < len(data); i++ {
		if data[i] >= 0x80 {
			t.Fatalf("non-ASCII byte %#x at %d", data[i], i)
		}
	}

	var back struct {
		Emoji string `json:"emoji"`
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Emoji != "👍" {
		t.Fatalf("emoji did not survive escaping: %q", back.Emoji)
	}
}

func TestEncodeUnsupportedAction(t *testing.T) {
	if _, err := Encode(nil); err == nil {
		t.Fatal("expected error for nil action")
	}
}

func TestDecodeEvents(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  Event
	}{
		{
			name:  "message",
			frame: `{"type":"message","user":"alice","content":"hi"}`,
			want:  MessageEvent{User: "alice", Content: "hi"},
		},
		{
			name:  "message with server id",
			frame: `{"type":"message","user":"alice","content":"hi","message_id":"abc","timestamp":"2024-01-01T00:00:00"}`,
			want:  MessageEvent{User: "alice", Content: "hi", ID: "abc"},
		},
		{
			name:  "join",
			frame: `{"type":"join","user":"bob","online":["alice","bob"]}`,
			want:  JoinEvent{User: "bob", Online: []string{"alice", "bob"}},
		},
		{
			name:  "leave",
			frame: `{"type":"leave","user":"bob","online":["alice"]}`,
			want:  LeaveEvent{User: "bob", Online: []string{"alice"}},
		},
		{
			name:  "leave to empty room",
			frame: `{"type":"leave","user":"bob","online":[]}`,
			want:  LeaveEvent{User: "bob", Online: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.frame))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeUnknownTypeIsIgnored(t *testing.T) {
	for _, frame := range []string{
		`{"type":"ping"}`,
		`{"type":"reaction_update","message_id":"x","emoji":"👍","users":["a"]}`,
	} {
		ev, err := Decode([]byte(frame))
		if err != nil {
			t.Fatalf("decode %s: unexpected error %v", frame, err)
		}
		if ev != nil {
			t.Fatalf("decode %s: expected no event, got %#v", frame, ev)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"not json", `hello`},
		{"array", `["message"]`},
		{"null", `null`},
		{"missing type", `{"user":"alice"}`},
		{"type not string", `{"type":5}`},
		{"message without content", `{"type":"message","user":"alice"}`},
		{"message without user", `{"type":"message","content":"hi"}`},
		{"content not string", `{"type":"message","user":"alice","content":7}`},
		{"join without online", `{"type":"join","user":"bob"}`},
		{"online null", `{"type":"leave","user":"bob","online":null}`},
		{"online not strings", `{"type":"join","user":"bob","online":[1,2]}`},
		{"online null entry", `{"type":"join","user":"bob","online":["alice",null]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode([]byte(tt.frame))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			if ev != nil {
				t.Fatalf("expected no event, got %#v", ev)
			}
		})
	}
}

// An echo server turns an outgoing message into an inbound message event
// with the sender filled in; the text must come back unchanged.
func TestMessageRoundTripThroughEcho(t *testing.T) {
	content := `x <script>alert("1")</script> &amp; "quotes" 日本語 🎉`

	out, err := Encode(SendMessage{Content: content})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var frame map[string]any
	if err := json.Unmarshal(out, &frame); err != nil {
		t.Fatalf("echo unmarshal: %v", err)
	}
	frame["user"] = "alice"
	echoed, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("echo marshal: %v", err)
	}

	ev, err := Decode(echoed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	msg, ok := ev.(MessageEvent)
	if !ok {
		t.Fatalf("expected MessageEvent, got %T", ev)
	}
	if msg.Content != content || msg.User != "alice" {
		t.Fatalf("round trip changed message: %+v", msg)
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(AddReaction{}); got != TypeAddReaction {
		t.Fatalf("TypeOf(AddReaction) = %q", got)
	}
	if got := TypeOf(LeaveEvent{}); got != TypeLeave {
		t.Fatalf("TypeOf(LeaveEvent) = %q", got)
	}
	if got := TypeOf(42); got != "" {
		t.Fatalf("TypeOf(other) = %q", got)
	}
}
