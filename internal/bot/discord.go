package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/bowerhall/regen/internal/app"
	"github.com/bowerhall/regen/internal/gateway"
	"github.com/bowerhall/regen/internal/logger"
)

// discordMaxMessage is the Discord limit for one message.
const discordMaxMessage = 2000

type discord struct {
	session       *discordgo.Session
	handler       Handler
	maxImageBytes int64
	ctx           context.Context
}

func newDiscord(token string, handler Handler, maxImageBytes int64) (Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	d := &discord{
		session:       session,
		handler:       handler,
		maxImageBytes: maxImageBytes,
		ctx:           context.Background(),
	}

	session.AddHandler(d.handleMessage)

	return d, nil
}

func (d *discord) Platform() string {
	return Discord
}

func (d *discord) Start(ctx context.Context) error {
	d.ctx = ctx

	if err := d.session.Open(); err != nil {
		return err
	}

	<-ctx.Done()
	return d.session.Close()
}

func (d *discord) Send(chatID int64, message string) error {
	channelID := fmt.Sprintf("%d", chatID)
	for _, chunk := range split(message, discordMaxMessage) {
		if _, err := d.session.ChannelMessageSend(channelID, chunk); err != nil {
			logger.Error("discord send failed", "error", err, "channelID", channelID)
			return err
		}
	}
	logger.Info("discord message sent", "channelID", channelID, "chars", len(message))
	return nil
}

func (d *discord) SendTyping(chatID int64) error {
	channelID := fmt.Sprintf("%d", chatID)
	err := d.session.ChannelTyping(channelID)
	if err != nil {
		logger.Debug("discord typing failed", "error", err, "channelID", channelID)
	}
	return err
}

func (d *discord) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || (s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}

	chatID, err := strconv.ParseInt(m.ChannelID, 10, 64)
	if err != nil {
		logger.Error("unexpected discord channel id", "channelID", m.ChannelID, "error", err)
		return
	}

	req := app.Request{Platform: Discord, ChatID: chatID, Text: m.Content}

	if att := firstImage(m.Attachments); att != nil {
		data, err := download(d.ctx, att.URL, d.maxImageBytes)
		if err != nil {
			logger.Error("failed to download attachment", "error", err)
			d.reply(s, m, "Couldn't download that image. Please try again.")
			return
		}
		req.Image = &gateway.Image{Name: att.Filename, Data: data}
		logger.Info("image received", "session", req.SessionID(), "from", m.Author.Username, "name", att.Filename)
	} else {
		logger.Info("message received", "session", req.SessionID(), "from", m.Author.Username, "text", truncate(m.Content, 50))
	}

	d.SendTyping(chatID)

	response := d.handler.Handle(d.ctx, req)
	if response == "" {
		return
	}

	d.reply(s, m, response)
}

func (d *discord) reply(s *discordgo.Session, m *discordgo.MessageCreate, response string) {
	for i, chunk := range split(response, discordMaxMessage) {
		var err error
		if i == 0 {
			_, err = s.ChannelMessageSendReply(m.ChannelID, chunk, m.Reference())
		} else {
			_, err = s.ChannelMessageSend(m.ChannelID, chunk)
		}
		if err != nil {
			logger.Error("discord reply failed", "error", err)
			return
		}
	}
	logger.Info("reply sent", "chars", len(response))
}

func firstImage(attachments []*discordgo.MessageAttachment) *discordgo.MessageAttachment {
	for _, att := range attachments {
		if strings.HasPrefix(att.ContentType, "image/") {
			return att
		}
	}
	return nil
}
