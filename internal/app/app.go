package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-client/internal/client"
	"github.com/vovakirdan/wirechat-client/internal/config"
	"github.com/vovakirdan/wirechat-client/internal/render"
	"github.com/vovakirdan/wirechat-client/internal/session"
	"github.com/vovakirdan/wirechat-client/internal/transport/ws"
)

const (
	failedNotice  = "Failed to connect to the chat room. Please try again."
	missingNotice = "Please enter both room name and username."
)

// errInputClosed means the user closed standard input.
var errInputClosed = errors.New("input closed")

// App wires configuration, the join flow and the chat session together.
type App struct {
	cfg    config.Config
	log    *zerolog.Logger
	in     io.Reader
	out    io.Writer
	view   render.Renderer
	dialer ws.Dialer
}

// Option customizes an App.
type Option func(*App)

// WithDialer replaces the websocket dialer.
func WithDialer(d ws.Dialer) Option {
	return func(a *App) { a.dialer = d }
}

// WithRenderer replaces the terminal renderer.
func WithRenderer(r render.Renderer) Option {
	return func(a *App) { a.view = r }
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger, in io.Reader, out io.Writer, opts ...Option) *App {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	a := &App{
		cfg:  cfg,
		log:  logger,
		in:   in,
		out:  out,
		view: render.NewTerminal(out),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run drives the join flow until the user quits, input ends or ctx is cancelled.
// A failed connect or a lost connection returns to the join prompt.
func (a *App) Run(ctx context.Context) error {
	lines := readLines(a.in)

	room, user := a.cfg.Room, a.cfg.User
	prompt := room == "" || user == ""
	for {
		if prompt {
			var err error
			room, user, err = a.ask(ctx, lines, room, user)
			if err != nil {
				return quietly(err)
			}
		}
		prompt = true

		sess, err := session.New(room, user, session.WithLogger(a.log))
		if err != nil {
			a.view.Notice(missingNotice)
			continue
		}

		mgr := ws.NewManager(ws.Options{
			BaseURL:        a.cfg.Server,
			ConnectTimeout: a.cfg.ConnectTimeout,
			WriteTimeout:   a.cfg.WriteTimeout,
			Dialer:         a.dialer,
		}, a.log)

		a.view.Status(sess.Room, session.StatusConnecting)
		if err := mgr.Connect(ctx, sess); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			a.log.Debug().Err(err).Msg("join failed")
			a.view.Notice(fmt.Sprintf("%s (%v)", failedNotice, err))
			continue
		}

		err = a.chat(ctx, client.New(sess, mgr, a.view, a.log), lines)
		if errors.Is(err, client.ErrQuit) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return quietly(err)
		}
	}
}

// ask prompts for room and username, offering the previous values as defaults.
func (a *App) ask(ctx context.Context, lines <-chan string, room, user string) (string, string, error) {
	room, err := a.askOne(ctx, lines, "room", room)
	if err != nil {
		return "", "", err
	}
	user, err = a.askOne(ctx, lines, "username", user)
	if err != nil {
		return "", "", err
	}
	return room, user, nil
}

func (a *App) askOne(ctx context.Context, lines <-chan string, label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", label, render.Inline(current))
	} else {
		fmt.Fprintf(a.out, "%s: ", label)
	}

	select {
	case line, ok := <-lines:
		if !ok {
			return "", errInputClosed
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return current, nil
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// chat forwards input lines to the client until its session ends.
func (a *App) chat(ctx context.Context, c *client.Client, lines <-chan string) error {
	result := make(chan error, 1)
	go func() { result <- c.Run(ctx) }()

	for {
		select {
		case err := <-result:
			return err
		case line, ok := <-lines:
			if !ok {
				_ = c.Handle("/quit")
				<-result
				return errInputClosed
			}
			if err := c.Handle(line); err != nil && !errors.Is(err, client.ErrStopped) {
				a.view.Notice(err.Error())
			}
		}
	}
}

// readLines scans r in the background. The channel closes at EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func quietly(err error) error {
	if errors.Is(err, errInputClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
