// Package bot connects the app to chat platforms.
package bot

import "fmt"

const (
	Telegram = "telegram"
	Discord  = "discord"
)

func New(cfg Config, handler Handler) (Bot, error) {
	switch cfg.Provider {
	case Telegram:
		return NewTelegram(cfg.Token, handler, cfg.MaxImageBytes)
	case Discord:
		return NewDiscord(cfg.Token, handler, cfg.MaxImageBytes)
	default:
		return nil, fmt.Errorf("unknown bot provider: %s", cfg.Provider)
	}
}

func NewTelegram(token string, handler Handler, maxImageBytes int64) (Bot, error) {
	return newTelegram(token, handler, maxImageBytes)
}

func NewDiscord(token string, handler Handler, maxImageBytes int64) (Bot, error) {
	return newDiscord(token, handler, maxImageBytes)
}
