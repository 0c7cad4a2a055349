package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CommandKind describes what the user typed.
type CommandKind int

const (
	// CommandSay sends a chat message.
	CommandSay CommandKind = iota
	// CommandReact adds an emoji to a displayed message.
	CommandReact
	// CommandUnreact asks to remove an emoji from a displayed message.
	CommandUnreact
	// CommandWho shows the roster.
	CommandWho
	// CommandEmojis lists the quick reaction palette.
	CommandEmojis
	// CommandHelp lists commands.
	CommandHelp
	// CommandQuit leaves the room.
	CommandQuit
)

// Command is one parsed input line.
type Command struct {
	Kind  CommandKind
	Text  string
	Ref   int
	Emoji string
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Palette is the quick reaction set offered by /emojis.
var Palette = []string{"🙂", "😂", "❤️", "👍", "🎉", "😮", "😢", "😡", "🤔", "👏"}

// HelpText lists the input commands.
const HelpText = "commands: /react <n> <emoji|1-10>, /unreact <n> <emoji>, /who, /emojis, /help, /quit; //text sends a line starting with /"

// ParseCommand turns an input line into a Command. Blank lines yield a
// CommandSay with empty text.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "//") {
		return Command{Kind: CommandSay, Text: line[1:]}, nil
	}
	if !strings.HasPrefix(line, "/") {
		return Command{Kind: CommandSay, Text: line}, nil
	}

	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "/react", "/unreact":
		kind := CommandReact
		if name == "/unreact" {
			kind = CommandUnreact
		}
		if len(args) != 2 {
			return Command{}, fmt.Errorf("%w: %s <n> <emoji>", ErrUsage, name)
		}
		ref, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
		if err != nil || ref < 1 {
			return Command{}, fmt.Errorf("%w: %s <n> <emoji>: bad message number %q", ErrUsage, name, args[0])
		}
		return Command{Kind: kind, Ref: ref, Emoji: resolveEmoji(args[1])}, nil
	case "/who":
		return Command{Kind: CommandWho}, nil
	case "/emojis":
		return Command{Kind: CommandEmojis}, nil
	case "/help":
		return Command{Kind: CommandHelp}, nil
	case "/quit", "/leave":
		return Command{Kind: CommandQuit}, nil
	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
}

// resolveEmoji maps a palette number to its emoji; anything else is literal.
func resolveEmoji(arg string) string {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(Palette) {
		return Palette[n-1]
	}
	return arg
}

func paletteLine() string {
	parts := make([]string, 0, len(Palette))
	for i, emoji := range Palette {
		parts = append(parts, fmt.Sprintf("%d %s", i+1, emoji))
	}
	return "quick reactions: " + strings.Join(parts, "  ")
}
