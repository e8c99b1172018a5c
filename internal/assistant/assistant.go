// Package assistant answers chat messages: greetings locally, everything else
// through the remote advice endpoint.
package assistant

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/bowerhall/regen/internal/gateway"
	"github.com/bowerhall/regen/internal/logger"
	"github.com/bowerhall/regen/internal/session"
)

const (
	Welcome       = "Hi! I'm your waste management assistant. Ask me anything about recycling, composting, or waste disposal."
	FallbackReply = "I don't have specific information about that. Could you ask something else?"
	ApologyReply  = "Sorry, I'm having trouble connecting right now. Please try again later."
)

var (
	ErrEmptyInput = errors.New("message is empty")
	ErrBusy       = errors.New("a request is already in flight")
)

type Adviser interface {
	Advise(ctx context.Context, userInput string) (string, error)
}

type Alerter interface {
	Warn(component, message string, err error)
}

type Assistant struct {
	adviser Adviser
	alerter Alerter
	pick    func(n int) int
}

func New(adviser Adviser) *Assistant {
	return &Assistant{
		adviser: adviser,
		pick:    rand.Intn,
	}
}

func (a *Assistant) SetAlerter(alerter Alerter) {
	a.alerter = alerter
}

// Reply produces the assistant's answer to text. It never fails: transport
// errors become ApologyReply and a reply without content becomes FallbackReply.
// Greetings are answered without a network call.
func (a *Assistant) Reply(ctx context.Context, text string) string {
	if IsGreeting(text) {
		return Greetings[a.pick(len(Greetings))]
	}

	reply, err := a.adviser.Advise(ctx, text)
	switch {
	case err == nil:
		return reply
	case errors.Is(err, gateway.ErrMissingField):
		logger.Warn("advice response missing field")
		return FallbackReply
	default:
		logger.Error("error getting advice", "error", err)
		if a.alerter != nil {
			a.alerter.Warn("advice", "advice endpoint request failed", err)
		}
		return ApologyReply
	}
}

// Submit records text as a user turn in sess, answers it, and records the
// answer. Empty input changes nothing. Only one submission per session may be
// outstanding; a concurrent one gets ErrBusy.
func (a *Assistant) Submit(ctx context.Context, sess *session.Session, text string) (user, bot session.Exchange, err error) {
	if strings.TrimSpace(text) == "" {
		return user, bot, ErrEmptyInput
	}

	if !sess.TryAcquire() {
		return user, bot, ErrBusy
	}
	defer sess.Release()

	user = sess.AddExchange(text, true)
	logger.Debug("chat message", "session", sess.ID, "id", user.ID, "greeting", IsGreeting(text))

	bot = sess.AddExchange(a.Reply(ctx, text), false)

	return user, bot, nil
}

// Seed adds the welcome message to a new session.
func Seed(sess *session.Session) {
	if len(sess.Exchanges()) == 0 {
		sess.AddExchange(Welcome, false)
	}
}
