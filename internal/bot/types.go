package bot

import (
	"context"

	"github.com/bowerhall/regen/internal/app"
)

type Bot interface {
	Start(ctx context.Context) error
	Send(chatID int64, message string) error
	SendTyping(chatID int64) error
	Platform() string
}

// Handler answers one message. An empty answer is not sent.
type Handler interface {
	Handle(ctx context.Context, req app.Request) string
}

type Config struct {
	Provider string
	Token    string
	// MaxImageBytes bounds attachment downloads; the scanner applies its own limit.
	MaxImageBytes int64
}
