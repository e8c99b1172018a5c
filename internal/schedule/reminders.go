package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bowerhall/regen/internal/logger"
)

// Subscriber is a chat on one of the bot platforms.
type Subscriber struct {
	Platform string
	ChatID   int64
}

type NotifyFunc func(sub Subscriber, message string)

// Reminders sends a heads-up to subscribed chats a fixed lead before each
// pickup. Subscriptions live in memory only.
type Reminders struct {
	mu          sync.Mutex
	subscribers map[Subscriber]bool
	cron        *cron.Cron
	notify      NotifyFunc
	lead        time.Duration
}

func NewReminders(s *Schedule, lead time.Duration, notify NotifyFunc) (*Reminders, error) {
	r := &Reminders{
		subscribers: make(map[Subscriber]bool),
		cron:        cron.New(cron.WithLocation(s.Location()), cron.WithParser(cronParser)),
		notify:      notify,
		lead:        lead,
	}

	for _, slot := range s.Slots() {
		slot := slot
		fireAt := slot.Before(lead)
		if _, err := r.cron.AddFunc(fireAt.Spec(), func() { r.fire(slot) }); err != nil {
			return nil, fmt.Errorf("schedule reminder for %s: %w", slot, err)
		}
	}

	return r, nil
}

// Subscribe reports whether sub was newly subscribed.
func (r *Reminders) Subscribe(sub Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.subscribers[sub] {
		return false
	}
	r.subscribers[sub] = true
	logger.Info("pickup reminders enabled", "platform", sub.Platform, "chatID", sub.ChatID)
	return true
}

// Unsubscribe reports whether sub was subscribed.
func (r *Reminders) Unsubscribe(sub Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.subscribers[sub] {
		return false
	}
	delete(r.subscribers, sub)
	logger.Info("pickup reminders disabled", "platform", sub.Platform, "chatID", sub.ChatID)
	return true
}

func (r *Reminders) Subscribed(sub Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subscribers[sub]
}

func (r *Reminders) Lead() time.Duration {
	return r.lead
}

// Run starts the scheduler and blocks until ctx is done.
func (r *Reminders) Run(ctx context.Context) {
	r.cron.Start()
	logger.Info("reminder runner started", "jobs", len(r.cron.Entries()), "lead", r.lead)

	<-ctx.Done()

	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	logger.Debug("reminder runner stopped")
}

func (r *Reminders) fire(slot Slot) {
	r.mu.Lock()
	subs := make([]Subscriber, 0, len(r.subscribers))
	for sub := range r.subscribers {
		subs = append(subs, sub)
	}
	r.mu.Unlock()

	if len(subs) == 0 || r.notify == nil {
		return
	}

	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Platform != subs[j].Platform {
			return subs[i].Platform < subs[j].Platform
		}
		return subs[i].ChatID < subs[j].ChatID
	})

	msg := ReminderMessage(slot, r.lead)
	for _, sub := range subs {
		r.notify(sub, msg)
	}

	logger.Debug("pickup reminder sent", "slot", slot.String(), "chats", len(subs))
}

func ReminderMessage(slot Slot, lead time.Duration) string {
	return fmt.Sprintf("🚛 Waste pickup at %s on %s (in %s). Please keep waste segregated and ready before collection time.",
		slot.Clock(), slot.Weekday, formatLead(lead))
}

func formatLead(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return "a moment"
	}
}
