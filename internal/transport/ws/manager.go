package ws

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/proto"
	"github.com/vovakirdan/wirechat-client/internal/session"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultWriteTimeout   = 5 * time.Second

	eventBuffer = 16

	// A dial still pending this many connect timeouts later is abandoned.
	handshakeBound = 2
)

// Options configures a Manager.
type Options struct {
	// BaseURL is the page origin, e.g. https://chat.example.com.
	// An https or wss scheme selects a secure transport.
	BaseURL        string
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
	Dialer         Dialer
}

// Manager owns the transport of a single session.
type Manager struct {
	opts Options
	log  *zerolog.Logger

	mu         sync.Mutex
	used       bool
	sess       *session.Session
	conn       Conn
	cancelRead context.CancelFunc

	events chan proto.Event
}

type dialResult struct {
	conn Conn
	err  error
}

// NewManager builds a Manager. Zero options fall back to defaults.
func NewManager(opts Options, logger *zerolog.Logger) *Manager {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.Dialer == nil {
		opts.Dialer = WebSocketDialer{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		opts:   opts,
		log:    logger,
		events: make(chan proto.Event, eventBuffer),
	}
}

// Address builds the transport URL for a room and username.
func (m *Manager) Address(room, username string) (string, error) {
	return Address(m.opts.BaseURL, room, username)
}

// Address builds <ws|wss>://<host>/ws/<room>/<username> from the page origin.
// Room and username are percent-encoded as single path segments.
func Address(base, room, username string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}

	var scheme string
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		scheme = "wss"
	case "http", "ws":
		scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported server scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server url %q has no host", base)
	}

	return scheme + "://" + u.Host + "/ws/" + url.PathEscape(room) + "/" + url.PathEscape(username), nil
}

// Connect opens the transport for sess and blocks until it is open, fails,
// or the connect timeout passes. Exactly one of these settles the call; a
// transport that opens after the call settled is closed and dropped.
func (m *Manager) Connect(ctx context.Context, sess *session.Session) error {
	m.mu.Lock()
	if m.used {
		m.mu.Unlock()
		return ErrAlreadyConnected
	}
	m.used = true
	m.sess = sess
	m.mu.Unlock()

	if err := sess.Transition(session.StatusConnecting); err != nil {
		return err
	}
	logger := m.log.With().Str("room", sess.Room).Str("user", sess.Username).Logger()

	target, err := m.Address(sess.Room, sess.Username)
	if err != nil {
		m.fail(sess)
		return connectError(ErrCodeTransport, err)
	}

	// The connect timeout settles the call but leaves the dial running, so a
	// late open can still be closed. The handshake itself is bounded apart.
	dialCtx, cancelDial := context.WithTimeout(ctx, handshakeBound*m.opts.ConnectTimeout)
	results := make(chan dialResult, 1)
	go func() {
		defer cancelDial()
		conn, err := m.opts.Dialer.Dial(dialCtx, target)
		results <- dialResult{conn: conn, err: err}
	}()

	timer := time.NewTimer(m.opts.ConnectTimeout)
	defer timer.Stop()

	select {
	case res := <-results:
		if res.err != nil {
			m.fail(sess)
			logger.Warn().Err(res.err).Str("url", target).Msg("connect failed")
			return connectError(ErrCodeTransport, res.err)
		}
		return m.open(sess, res.conn, &logger)
	case <-timer.C:
		m.fail(sess)
		go m.discardLate(results)
		logger.Warn().Dur("timeout", m.opts.ConnectTimeout).Str("url", target).Msg("connect timed out")
		return connectError(ErrCodeTimeout, nil)
	case <-ctx.Done():
		m.fail(sess)
		go m.discardLate(results)
		return connectError(ErrCodeTransport, ctx.Err())
	}
}

func (m *Manager) open(sess *session.Session, conn Conn, logger *zerolog.Logger) error {
	readCtx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.conn = conn
	m.cancelRead = cancel
	m.mu.Unlock()

	if err := sess.Transition(session.StatusOnline); err != nil {
		cancel()
		_ = conn.Close()
		close(m.events)
		return connectError(ErrCodeTransport, err)
	}

	logger.Info().Msg("connected")
	go m.readLoop(readCtx, sess, conn, logger)
	return nil
}

// fail settles a connect attempt that never opened. The event stream is
// closed so consumers never wait on it.
func (m *Manager) fail(sess *session.Session) {
	_ = sess.Transition(session.StatusClosed)
	close(m.events)
}

func (m *Manager) discardLate(results <-chan dialResult) {
	res := <-results
	if res.conn == nil {
		return
	}
	m.log.Debug().Msg("discarding transport opened after connect settled")
	_ = res.conn.Close()
}

func (m *Manager) readLoop(ctx context.Context, sess *session.Session, conn Conn, logger *zerolog.Logger) {
	defer func() {
		_ = sess.Transition(session.StatusClosed)
		close(m.events)
	}()

	for {
		data, err := conn.Read(ctx)
		if err != nil {
			m.logClose(logger, err)
			_ = conn.Close()
			return
		}

		ev, err := proto.Decode(data)
		if err != nil {
			logger.Warn().Err(err).Int("bytes", len(data)).Msg("discarding inbound frame")
			continue
		}
		if ev == nil {
			logger.Debug().Msg("ignoring unknown event type")
			continue
		}

		select {
		case m.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) logClose(logger *zerolog.Logger, err error) {
	if errors.Is(err, context.Canceled) {
		logger.Info().Msg("connection closed locally")
		return
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		logger.Info().Msg("connection closed by server")
		return
	}
	logger.Warn().Err(err).Msg("connection lost")
}

// Send delivers an action when the session is online and silently drops it
// otherwise. Failures are logged, never returned.
func (m *Manager) Send(a proto.Action) {
	m.mu.Lock()
	sess, conn := m.sess, m.conn
	m.mu.Unlock()

	if sess == nil || conn == nil || sess.Status() != session.StatusOnline {
		m.log.Debug().Str("type", proto.TypeOf(a)).Msg("send suppressed: not online")
		return
	}

	data, err := proto.Encode(a)
	if err != nil {
		m.log.Warn().Err(err).Msg("encode action")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.opts.WriteTimeout)
	defer cancel()
	if err := conn.Write(ctx, data); err != nil {
		m.log.Warn().Err(err).Str("type", proto.TypeOf(a)).Msg("write action")
	}
}

// Events returns the inbound event stream. It is closed once the transport
// is gone; by then the session status is Closed.
func (m *Manager) Events() <-chan proto.Event {
	return m.events
}

// Close closes an open transport. It is safe to call at any time.
func (m *Manager) Close() error {
	m.mu.Lock()
	conn, cancel := m.conn, m.cancelRead
	m.mu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	cancel()
	return err
}
