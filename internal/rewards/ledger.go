// Package rewards tracks the in-session coin balance and voucher redemptions.
package rewards

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bowerhall/regen/internal/catalog"
)

const (
	RedeemedMessage     = "Redeemed Successfully"
	InsufficientMessage = "Insufficient Coins!"
	EarnHint            = "Earn more coins by segregating waste and maintaining cleanliness"
)

var ErrInsufficientCoins = errors.New("insufficient coins")

type Redemption struct {
	Card       catalog.RewardCard
	RedeemedAt time.Time
}

// Ledger is a session-scoped coin balance. Nothing is persisted and no real
// voucher is issued.
type Ledger struct {
	mu          sync.Mutex
	coins       int
	earned      int
	earnedMonth time.Time
	redemptions []Redemption
	now         func() time.Time
}

func NewLedger(opening int) *Ledger {
	if opening < 0 {
		opening = 0
	}

	return &Ledger{
		coins: opening,
		now:   time.Now,
	}
}

func (l *Ledger) Balance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.coins
}

// EarnedThisMonth returns coins credited since the start of the current month.
func (l *Ledger) EarnedThisMonth() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollMonth()
	return l.earned
}

// Credit adds coins for a good action such as a recyclable scan.
func (l *Ledger) Credit(amount int) {
	if amount <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollMonth()
	l.coins += amount
	l.earned += amount
}

// Redeem spends card.Coins when the balance covers it.
func (l *Ledger) Redeem(card catalog.RewardCard) (Redemption, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.coins < card.Coins {
		return Redemption{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientCoins, l.coins, card.Coins)
	}

	l.coins -= card.Coins
	r := Redemption{Card: card, RedeemedAt: l.now()}
	l.redemptions = append(l.redemptions, r)

	return r, nil
}

func (l *Ledger) Redemptions() []Redemption {
	l.mu.Lock()
	defer l.mu.Unlock()

	copied := make([]Redemption, len(l.redemptions))
	copy(copied, l.redemptions)
	return copied
}

func (l *Ledger) rollMonth() {
	now := l.now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if !month.Equal(l.earnedMonth) {
		l.earnedMonth = month
		l.earned = 0
	}
}
