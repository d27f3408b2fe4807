package services

import (
	"sync"
	"time"

	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultSessionTTL is how long an untouched intake session survives.
const DefaultSessionTTL = 30 * time.Minute

const defaultSessionCapacity = 10000

// sessionLock serialises one conversation. It is kept outside the evictable cache.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// SessionStore keeps intake sessions in process memory, keyed by conversation id.
// Access to one conversation is serialised; different conversations never block each other
// beyond the short lock-table lookup. Idle sessions expire after the TTL.
type SessionStore struct {
	mu       sync.Mutex
	locks    map[string]*sessionLock // only conversations currently in use
	sessions *expirable.LRU[string, *domain.IntakeSession]
	ttl      time.Duration
	now      Clock
}

// NewSessionStore creates a store. ttl <= 0 selects DefaultSessionTTL.
func NewSessionStore(ttl time.Duration, clock Clock) *SessionStore {
	return newSessionStore(ttl, clock, defaultSessionCapacity)
}

func newSessionStore(ttl time.Duration, clock Clock, capacity int) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &SessionStore{
		locks:    make(map[string]*sessionLock),
		sessions: expirable.NewLRU[string, *domain.IntakeSession](capacity, nil, ttl),
		ttl:      ttl,
		now:      clock,
	}
}

// WithSession runs fn while holding the conversation's session exclusively.
// A session idle for longer than the TTL is restarted from IDLE before fn sees it.
func (st *SessionStore) WithSession(conversationID string, fn func(s *domain.IntakeSession) error) error {
	unlock := st.lock(conversationID)
	defer unlock()

	now := st.now()
	session, ok := st.sessions.Get(conversationID)
	if !ok || now.Sub(session.LastActivity) > st.ttl {
		session = domain.NewIntakeSession(conversationID, now)
	}

	err := fn(session)
	session.LastActivity = now
	// Written back even when the cache dropped the entry while fn ran.
	st.sessions.Add(conversationID, session)
	return err
}

// Snapshot returns a copy of the current session, if any.
func (st *SessionStore) Snapshot(conversationID string) (domain.IntakeSession, bool) {
	unlock := st.lock(conversationID)
	defer unlock()

	session, ok := st.sessions.Peek(conversationID)
	if !ok {
		return domain.IntakeSession{}, false
	}
	return *session, true
}

// Len is the number of live sessions.
func (st *SessionStore) Len() int {
	return st.sessions.Len()
}

// lock takes the conversation's mutex and returns its release function.
// The lock-table entry is dropped once the last holder or waiter releases it.
func (st *SessionStore) lock(conversationID string) func() {
	st.mu.Lock()
	l, ok := st.locks[conversationID]
	if !ok {
		l = &sessionLock{}
		st.locks[conversationID] = l
	}
	l.refs++
	st.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		st.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(st.locks, conversationID)
		}
		st.mu.Unlock()
	}
}
