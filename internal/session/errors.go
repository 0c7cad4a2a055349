package session

import "errors"

var (
	ErrEmptyRoom         = errors.New("room name is required")
	ErrEmptyUsername     = errors.New("username is required")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownMessage    = errors.New("unknown message")
	ErrEmptyEmoji        = errors.New("emoji is required")
)
