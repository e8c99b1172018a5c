package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bowerhall/regen/internal/app"
	"github.com/bowerhall/regen/internal/gateway"
	"github.com/bowerhall/regen/internal/logger"
)

// telegramMaxMessage is the Bot API limit for one text message.
const telegramMaxMessage = 4096

type telegram struct {
	api           *tgbotapi.BotAPI
	handler       Handler
	maxImageBytes int64
}

func newTelegram(token string, handler Handler, maxImageBytes int64) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("telegram bot authorized", "username", api.Self.UserName)

	return &telegram{api: api, handler: handler, maxImageBytes: maxImageBytes}, nil
}

func (t *telegram) Platform() string {
	return Telegram
}

func (t *telegram) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			go t.handleMessage(ctx, update.Message)
		}
	}
}

func (t *telegram) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	req := app.Request{Platform: Telegram, ChatID: msg.Chat.ID}

	from := ""
	if msg.From != nil {
		from = msg.From.UserName
	}

	wantImage := true
	switch {
	case len(msg.Photo) > 0:
		photo := msg.Photo[len(msg.Photo)-1]
		req.Text = msg.Caption
		req.Image = t.fetchImage(ctx, photo.FileID, "")
		logger.Info("photo received", "session", req.SessionID(), "from", from, "caption", truncate(req.Text, 50))
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		req.Text = msg.Caption
		req.Image = t.fetchImage(ctx, msg.Document.FileID, msg.Document.FileName)
		logger.Info("image document received", "session", req.SessionID(), "from", from, "name", msg.Document.FileName)
	default:
		wantImage = false
		req.Text = msg.Text
		logger.Info("message received", "session", req.SessionID(), "from", from, "text", truncate(req.Text, 50))
	}

	if wantImage && req.Image == nil {
		t.reply(msg, "Couldn't download that image. Please try again.")
		return
	}

	t.SendTyping(msg.Chat.ID)

	response := t.handler.Handle(ctx, req)
	if response == "" {
		return
	}

	t.reply(msg, response)
}

func (t *telegram) fetchImage(ctx context.Context, fileID, name string) *gateway.Image {
	data, err := t.downloadFile(ctx, fileID)
	if err != nil {
		logger.Error("failed to download photo", "error", err)
		return nil
	}
	return &gateway.Image{Name: name, Data: data}
}

func (t *telegram) reply(msg *tgbotapi.Message, response string) {
	for i, chunk := range split(response, telegramMaxMessage) {
		reply := tgbotapi.NewMessage(msg.Chat.ID, chunk)
		if i == 0 {
			reply.ReplyToMessageID = msg.MessageID
		}

		if _, err := t.api.Send(reply); err != nil {
			logger.Error("send failed", "error", err)
			return
		}
	}
	logger.Info("reply sent", "chars", len(response))
}

func (t *telegram) Send(chatID int64, message string) error {
	for _, chunk := range split(message, telegramMaxMessage) {
		if _, err := t.api.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			logger.Error("proactive send failed", "error", err, "chatID", chatID)
			return err
		}
	}
	logger.Info("proactive message sent", "chatID", chatID, "chars", len(message))
	return nil
}

func (t *telegram) SendTyping(chatID int64) error {
	_, err := t.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	if err != nil {
		logger.Debug("typing action failed", "error", err, "chatID", chatID)
	}
	return err
}

func (t *telegram) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := t.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	return download(ctx, file.Link(t.api.Token), t.maxImageBytes)
}
