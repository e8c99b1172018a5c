// Package app routes chat commands to the screens and owns the per-user sessions.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bowerhall/regen/internal/assistant"
	"github.com/bowerhall/regen/internal/catalog"
	"github.com/bowerhall/regen/internal/gateway"
	"github.com/bowerhall/regen/internal/logger"
	"github.com/bowerhall/regen/internal/rewards"
	"github.com/bowerhall/regen/internal/scan"
	"github.com/bowerhall/regen/internal/schedule"
	"github.com/bowerhall/regen/internal/session"
)

const (
	BusyMessage    = "Still working on your last request..."
	UnknownCommand = "Unknown command. Send /help to see what I can do."
)

type Alerter interface {
	Warn(component, message string, err error)
}

// Request is one incoming message from a frontend.
type Request struct {
	Platform string
	ChatID   int64
	Text     string
	Image    *gateway.Image
}

// SessionID is the key of the session a request belongs to.
func (r Request) SessionID() string {
	return fmt.Sprintf("%s:%d", r.Platform, r.ChatID)
}

type Config struct {
	Catalog    *catalog.Catalog
	Assistant  *assistant.Assistant
	Scanner    *scan.Scanner
	Schedule   *schedule.Schedule
	ScanReward int
}

type App struct {
	catalog    *catalog.Catalog
	assistant  *assistant.Assistant
	scanner    *scan.Scanner
	schedule   *schedule.Schedule
	reminders  *schedule.Reminders
	alerter    Alerter
	sessions   *session.Store
	scanReward int
	now        func() time.Time
}

func New(cfg Config) *App {
	a := &App{
		catalog:    cfg.Catalog,
		assistant:  cfg.Assistant,
		scanner:    cfg.Scanner,
		schedule:   cfg.Schedule,
		scanReward: cfg.ScanReward,
		now:        time.Now,
	}

	a.sessions = session.NewStore(a.newSession)

	return a
}

func (a *App) newSession(id string) *session.Session {
	sess := session.New(id, rewards.NewLedger(a.catalog.Rewards.OpeningBalance))
	assistant.Seed(sess)
	logger.Debug("session created", "session", id)
	return sess
}

func (a *App) SetReminders(r *schedule.Reminders) {
	a.reminders = r
}

// SetAlerter reports gateway failures from both the chat and the scanner.
func (a *App) SetAlerter(alerter Alerter) {
	a.alerter = alerter
	a.assistant.SetAlerter(alerter)
}

func (a *App) Sessions() *session.Store {
	return a.sessions
}

func (a *App) Session(id string) *session.Session {
	sess := a.sessions.Get(id)
	sess.Touch()
	return sess
}

// Handle answers one request. An empty reply means there is nothing to send.
func (a *App) Handle(ctx context.Context, req Request) string {
	sess := a.Session(req.SessionID())

	if req.Image != nil {
		return a.handleImage(ctx, sess, *req.Image, req.Text)
	}

	text := strings.TrimSpace(req.Text)
	if strings.HasPrefix(text, "/") {
		return a.handleCommand(ctx, sess, req, text)
	}

	reply, err := a.Chat(ctx, sess, text)
	switch {
	case errors.Is(err, assistant.ErrEmptyInput):
		return ""
	case errors.Is(err, assistant.ErrBusy):
		return BusyMessage
	}
	return reply
}

func (a *App) handleCommand(ctx context.Context, sess *session.Session, req Request, text string) string {
	cmd, args, _ := strings.Cut(text, " ")
	cmd = strings.ToLower(cmd)
	// Telegram appends the bot name in groups: /start@regen_bot
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	args = strings.TrimSpace(args)

	logger.Debug("command", "session", sess.ID, "command", cmd)

	switch cmd {
	case "/start", "/home", "/help":
		return a.Home()
	case "/guide":
		return a.Guide()
	case "/scan":
		return a.ScanScreen(sess)
	case "/chat":
		return ChatIntro
	case "/history":
		return a.History(sess, 10)
	case "/rewards":
		return a.Rewards(sess)
	case "/redeem":
		return a.Redeem(sess, args)
	case "/schedule":
		return a.Schedule()
	case "/remind":
		return a.Remind(schedule.Subscriber{Platform: req.Platform, ChatID: req.ChatID}, args)
	case "/market":
		return a.Market(args)
	case "/address":
		return a.Address(sess, args)
	case "/support":
		return a.Support(args)
	case "/proof":
		return ProofIntro
	default:
		return UnknownCommand
	}
}

// Chat submits text to the assistant and returns its reply.
func (a *App) Chat(ctx context.Context, sess *session.Session, text string) (string, error) {
	_, reply, err := a.assistant.Submit(ctx, sess, text)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (a *App) handleImage(ctx context.Context, sess *session.Session, img gateway.Image, caption string) string {
	if isProofCaption(caption) {
		return a.Proof(img)
	}

	st := a.ScanImage(ctx, sess, img)
	return a.renderScan(st)
}

func isProofCaption(caption string) bool {
	caption = strings.ToLower(strings.TrimSpace(caption))
	return strings.HasPrefix(caption, "/proof") || strings.HasPrefix(caption, "proof")
}

// ScanImage classifies img in sess. While one scan is outstanding another is
// refused with BusyMessage.
func (a *App) ScanImage(ctx context.Context, sess *session.Session, img gateway.Image) scan.State {
	st, _ := a.scanWith(sess, func() (scan.State, error) {
		return a.scanner.Scan(ctx, img)
	})
	return st
}

// ScanSource captures from src and classifies it. src is closed on every path,
// including when the session is busy.
func (a *App) ScanSource(ctx context.Context, sess *session.Session, src scan.Source) scan.State {
	st, ran := a.scanWith(sess, func() (scan.State, error) {
		return a.scanner.ScanSource(ctx, src)
	})
	if !ran {
		if err := src.Close(); err != nil {
			logger.Warn("capture source close failed", "error", err)
		}
	}
	return st
}

// scanWith reports false when the session was busy and run was not called.
func (a *App) scanWith(sess *session.Session, run func() (scan.State, error)) (scan.State, bool) {
	if !sess.TryAcquire() {
		return scan.State{Error: BusyMessage}, false
	}
	defer sess.Release()

	sess.SetScan(scan.State{Loading: true})

	st, err := run()
	sess.SetScan(st)

	if err != nil && !scan.IsValidation(err) && a.alerter != nil {
		a.alerter.Warn("classify", "classification endpoint request failed", err)
	}

	if st.Result != nil && st.Result.IsRecyclable && a.scanReward > 0 {
		sess.Ledger().Credit(a.scanReward)
		logger.Info("scan reward credited", "session", sess.ID, "coins", a.scanReward)
	}

	return st, true
}
