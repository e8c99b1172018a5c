package session

import (
	"time"

	"github.com/bowerhall/regen/internal/household"
	"github.com/bowerhall/regen/internal/rewards"
	"github.com/bowerhall/regen/internal/scan"
)

func New(id string, ledger *rewards.Ledger) *Session {
	if ledger == nil {
		ledger = rewards.NewLedger(0)
	}

	return &Session{
		ID:       id,
		ledger:   ledger,
		lastSeen: time.Now(),
	}
}

// AddExchange appends a turn and assigns it the next ID.
// IDs are strictly increasing for the life of the session.
func (s *Session) AddExchange(text string, isUser bool) Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Exchange{
		ID:     s.nextID,
		Text:   text,
		IsUser: isUser,
		SentAt: time.Now(),
	}
	s.nextID++
	s.exchanges = append(s.exchanges, e)
	s.lastSeen = e.SentAt

	return e
}

func (s *Session) Exchanges() []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]Exchange, len(s.exchanges))
	copy(copied, s.exchanges)

	return copied
}

// Recent returns the last n exchanges.
func (s *Session) Recent(n int) []Exchange {
	all := s.Exchanges()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

func (s *Session) Scan() scan.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scan
}

// SetScan replaces the scan state; results are never merged.
func (s *Session) SetScan(st scan.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scan = st
	s.lastSeen = time.Now()
}

func (s *Session) Household() (household.Registration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.household == nil {
		return household.Registration{}, false
	}
	return *s.household, true
}

func (s *Session) SetHousehold(r household.Registration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.household = &r
	s.lastSeen = time.Now()
}

func (s *Session) Ledger() *rewards.Ledger {
	return s.ledger
}

func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// TryAcquire attempts to acquire the processing lock.
// Returns true if acquired, false if a request is already outstanding.
func (s *Session) TryAcquire() bool {
	return s.processing.TryLock()
}

// Release releases the processing lock.
func (s *Session) Release() {
	s.processing.Unlock()
}

func NewStore(factory Factory) *Store {
	if factory == nil {
		factory = func(id string) *Session { return New(id, nil) }
	}

	return &Store{
		sessions: make(map[string]*Session),
		factory:  factory,
	}
}

func (s *Store) Get(sessionID string) *Session {
	s.mu.RLock()

	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok = s.sessions[sessionID]; ok {
		return sess
	}

	sess = s.factory(sessionID)
	s.sessions[sessionID] = sess

	return sess
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune drops sessions idle for longer than maxIdle that are not mid-request.
func (s *Store) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, sess := range s.sessions {
		if !sess.LastSeen().Before(cutoff) {
			continue
		}
		if !sess.TryAcquire() {
			continue
		}
		sess.Release()
		delete(s.sessions, id)
		pruned++
	}

	return pruned
}
