// Package client runs one joined session: it applies server events to the
// session in arrival order and turns user input into protocol actions.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/proto"
	"github.com/vovakirdan/wirechat-client/internal/render"
	"github.com/vovakirdan/wirechat-client/internal/session"
)

// ClosedNotice is shown once the transport is gone.
const ClosedNotice = "Connection closed. Please rejoin to reconnect."

// ErrQuit is returned by Run when the user left the room.
var ErrQuit = errors.New("left the room")

// ErrStopped is returned by Handle once Run has returned.
var ErrStopped = errors.New("session ended")

// Conn is the connection a Client drives.
type Conn interface {
	Send(proto.Action)
	Events() <-chan proto.Event
	Close() error
}

type action struct {
	fn    func() error
	reply chan error
}

// Client owns a session and is the only code that mutates it after connect.
type Client struct {
	sess *session.Session
	conn Conn
	view render.Renderer
	log  *zerolog.Logger

	actions chan action
	done    chan struct{}
	quit    atomic.Bool
}

// New builds a Client for an already connected session.
func New(sess *session.Session, conn Conn, view render.Renderer, logger *zerolog.Logger) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("room", sess.Room).Str("user", sess.Username).Logger()
	return &Client{
		sess:    sess,
		conn:    conn,
		view:    view,
		log:     &l,
		actions: make(chan action),
		done:    make(chan struct{}),
	}
}

// Session returns the session driven by the client.
func (c *Client) Session() *session.Session {
	return c.sess
}

// Run dispatches inbound events and queued user actions one at a time until
// the event stream closes. Cancelling ctx closes the transport.
func (c *Client) Run(ctx context.Context) error {
	defer close(c.done)

	c.view.Status(c.sess.Room, c.sess.Status())

	events := c.conn.Events()
	ctxDone := ctx.Done()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				c.view.Status(c.sess.Room, c.sess.Status())
				c.view.Notice(ClosedNotice)
				if c.quit.Load() {
					return ErrQuit
				}
				return ctx.Err()
			}
			c.dispatch(ev)
		case a := <-c.actions:
			a.reply <- a.fn()
		case <-ctxDone:
			ctxDone = nil
			if err := c.conn.Close(); err != nil {
				c.log.Debug().Err(err).Msg("close on cancel")
			}
		}
	}
}

func (c *Client) dispatch(ev proto.Event) {
	switch e := ev.(type) {
	case proto.MessageEvent:
		msg := c.sess.AppendMessage(e.User, e.Content, e.ID)
		c.view.Message(c.sess.Len(), msg)
	case proto.JoinEvent:
		c.sess.ReplaceRoster(e.Online)
		c.view.Roster(c.sess.Roster(), c.sess.Username)
		c.view.Notice(fmt.Sprintf("%s joined the room", e.User))
	case proto.LeaveEvent:
		c.sess.ReplaceRoster(e.Online)
		c.view.Roster(c.sess.Roster(), c.sess.Username)
		c.view.Notice(fmt.Sprintf("%s left the room", e.User))
	default:
		c.log.Debug().Str("type", proto.TypeOf(ev)).Msg("no handler for event")
	}
}

// do runs fn on the dispatch loop and waits for its result.
func (c *Client) do(fn func() error) error {
	a := action{fn: fn, reply: make(chan error, 1)}
	select {
	case c.actions <- a:
	case <-c.done:
		return ErrStopped
	}
	select {
	case err := <-a.reply:
		return err
	case <-c.done:
		return ErrStopped
	}
}

// Handle executes one line of user input.
func (c *Client) Handle(line string) error {
	cmd, err := ParseCommand(line)
	if err != nil {
		return err
	}

	switch cmd.Kind {
	case CommandSay:
		if cmd.Text == "" {
			return nil
		}
		c.conn.Send(proto.SendMessage{Content: cmd.Text})
		return nil
	case CommandReact:
		return c.do(func() error { return c.react(cmd.Ref, cmd.Emoji) })
	case CommandUnreact:
		return c.do(func() error {
			msg, err := c.sess.Message(cmd.Ref)
			if err != nil {
				return err
			}
			c.sess.Unreact(msg.ID, cmd.Emoji)
			return nil
		})
	case CommandWho:
		return c.do(func() error {
			c.view.Roster(c.sess.Roster(), c.sess.Username)
			return nil
		})
	case CommandEmojis:
		return c.do(func() error {
			c.view.Notice(paletteLine())
			return nil
		})
	case CommandHelp:
		return c.do(func() error {
			c.view.Notice(HelpText)
			return nil
		})
	case CommandQuit:
		c.quit.Store(true)
		return c.conn.Close()
	}
	return nil
}

// react applies the reaction locally first: there is no server
// acknowledgement, so the local tally is the only record of it.
func (c *Client) react(n int, emoji string) error {
	msg, err := c.sess.Message(n)
	if err != nil {
		return err
	}
	if _, err := c.sess.React(msg.ID, emoji); err != nil {
		return err
	}
	c.view.Reactions(n, msg)
	c.conn.Send(proto.AddReaction{Emoji: emoji, MessageID: msg.ID})
	return nil
}

// Done is closed when Run returns.
func (c *Client) Done() <-chan struct{} {
	return c.done
}
