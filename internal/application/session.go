package application

import (
	"sync"
	"time"

	"github.com/bnema/notesgit/internal/domain"
	"github.com/bnema/notesgit/internal/ports"
)

const (
	DefaultSessionIdleTimeout = 12 * time.Hour
	DefaultMaxSessions        = 1024
	maxTranscript             = 100
)

// Exchange is one input and the reply shown for it.
type Exchange struct {
	Input string
	Reply Reply
}

// Session is the per-user context passed to every ledger operation. It caches
// the resolved ledger handle, the conversation history used in prompts and the
// transcript shown by the chat widgets.
//
// Services do not lock the session themselves; surfaces call Lock/Unlock
// around a whole interaction. History and Transcript are safe to read while
// an interaction runs.
type Session struct {
	ID string

	mu     sync.Mutex
	handle domain.LedgerHandle

	logMu      sync.RWMutex
	history    []domain.Turn
	transcript []Exchange
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

func (s *Session) LedgerHandle() domain.LedgerHandle {
	return s.handle
}

func (s *Session) History() []domain.Turn {
	s.logMu.RLock()
	defer s.logMu.RUnlock()

	history := make([]domain.Turn, len(s.history))
	copy(history, s.history)
	return history
}

// Transcript returns the most recent exchanges of the session, oldest first.
func (s *Session) Transcript() []Exchange {
	s.logMu.RLock()
	defer s.logMu.RUnlock()

	transcript := make([]Exchange, len(s.transcript))
	copy(transcript, s.transcript)
	return transcript
}

func (s *Session) setHandle(handle domain.LedgerHandle) {
	s.handle = handle
}

func (s *Session) appendTurn(turn domain.Turn) {
	s.logMu.Lock()
	defer s.logMu.Unlock()

	s.history = append(s.history, turn)
}

func (s *Session) recordExchange(exchange Exchange) {
	s.logMu.Lock()
	defer s.logMu.Unlock()

	s.transcript = append(s.transcript, exchange)
	if extra := len(s.transcript) - maxTranscript; extra > 0 {
		s.transcript = append([]Exchange(nil), s.transcript[extra:]...)
	}
}

type registryEntry struct {
	session  *Session
	lastUsed time.Time
}

// SessionRegistry keeps the sessions of a long-running surface keyed by id.
// Sessions idle for longer than the idle timeout are dropped, and the least
// recently used one is dropped when the registry is full.
type SessionRegistry struct {
	mu          sync.Mutex
	sessions    map[string]*registryEntry
	newID       func() string
	clock       ports.Clock
	idleTimeout time.Duration
	maxSessions int
}

type RegistryOption func(*SessionRegistry)

// WithIdleTimeout sets how long an unused session is kept. Zero or less
// keeps sessions until the registry is full.
func WithIdleTimeout(timeout time.Duration) RegistryOption {
	return func(r *SessionRegistry) {
		r.idleTimeout = timeout
	}
}

func WithMaxSessions(limit int) RegistryOption {
	return func(r *SessionRegistry) {
		if limit > 0 {
			r.maxSessions = limit
		}
	}
}

func WithRegistryClock(clock ports.Clock) RegistryOption {
	return func(r *SessionRegistry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

func NewSessionRegistry(newID func() string, opts ...RegistryOption) *SessionRegistry {
	registry := &SessionRegistry{
		sessions:    map[string]*registryEntry{},
		newID:       newID,
		clock:       ports.SystemClock{},
		idleTimeout: DefaultSessionIdleTimeout,
		maxSessions: DefaultMaxSessions,
	}
	for _, opt := range opts {
		opt(registry)
	}

	return registry
}

// Get returns the session for id, creating one under a fresh id when id is
// empty, unknown or expired.
func (r *SessionRegistry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	r.evictIdle(now)

	if entry, ok := r.sessions[id]; ok && id != "" {
		entry.lastUsed = now
		return entry.session
	}

	if len(r.sessions) >= r.maxSessions {
		r.evictOldest()
	}

	session := NewSession(r.newID())
	r.sessions[session.ID] = &registryEntry{session: session, lastUsed: now}
	return session
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

func (r *SessionRegistry) evictIdle(now time.Time) {
	if r.idleTimeout <= 0 {
		return
	}

	for id, entry := range r.sessions {
		if now.Sub(entry.lastUsed) > r.idleTimeout {
			delete(r.sessions, id)
		}
	}
}

func (r *SessionRegistry) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, entry := range r.sessions {
		if oldestID == "" || entry.lastUsed.Before(oldest) {
			oldestID = id
			oldest = entry.lastUsed
		}
	}
	if oldestID != "" {
		delete(r.sessions, oldestID)
	}
}
