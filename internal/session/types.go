package session

import (
	"sync"
	"time"

	"github.com/bowerhall/regen/internal/household"
	"github.com/bowerhall/regen/internal/rewards"
	"github.com/bowerhall/regen/internal/scan"
)

// Exchange is one turn of the chat transcript.
type Exchange struct {
	ID     int
	Text   string
	IsUser bool
	SentAt time.Time
}

// Session is everything one user sees. It lives only in memory.
type Session struct {
	ID string

	mu         sync.Mutex
	exchanges  []Exchange
	nextID     int
	scan       scan.State
	household  *household.Registration
	ledger     *rewards.Ledger
	lastSeen   time.Time
	processing sync.Mutex
}

type Factory func(id string) *Session

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  Factory
}
