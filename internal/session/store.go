package session

import (
	"context"
	"sync"
	"time"

	"github.com/rewardtracker/bot/internal/domain"
)

// Recommended sweep settings from the conversation lifecycle design: inactive
// conversations are evicted after 30 minutes, checked every 15.
const (
	DefaultInactivityTimeout = 30 * time.Minute
	DefaultSweepInterval     = 15 * time.Minute
)

// Store holds one Session per user identity for the lifetime of the process.
// Each session carries its own lock so events for different users never
// contend, while events for the same user (including the sweeper) are
// serialized.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*entry
	clock    func() time.Time
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*entry),
		clock:    time.Now,
	}
}

func (st *Store) lookup(userID int64) *entry {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.sessions[userID]
	if !ok {
		e = &entry{session: &Session{
			UserID:    userID,
			NavStack:  make([]string, 0, 8),
			CreatedAt: st.clock(),
		}}
		st.sessions[userID] = e
	}
	return e
}

// With runs fn against the user's session under its per-session lock,
// creating the session with defaults on first contact.
func (st *Store) With(userID int64, fn func(*Session)) {
	e := st.lookup(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
}

// Len reports how many identities have sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// SweepInactive clears conversation state (not the whole session) for every
// conversation whose last activity is older than timeout. It returns the
// number of conversations evicted. Each session is swept under its own lock,
// so a sweep never races an in-flight event for the same user.
func (st *Store) SweepInactive(timeout time.Duration) int {
	st.mu.Lock()
	ids := make([]int64, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	st.mu.Unlock()

	now := st.clock()
	evicted := 0
	for _, id := range ids {
		st.With(id, func(s *Session) {
			if s.Conversation == nil {
				return
			}
			if now.Sub(s.Conversation.LastActivity) > timeout {
				s.ResetFlows()
				evicted++
			}
		})
	}
	return evicted
}

// StartSweeper runs the periodic inactivity sweep until ctx is cancelled.
// Evicted users are not notified; their next interaction starts fresh.
func (st *Store) StartSweeper(ctx context.Context, interval, timeout time.Duration, log domain.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := st.SweepInactive(timeout); n > 0 {
					log.Info("swept inactive conversations", "count", n)
				} else {
					log.Debug("no inactive conversations to sweep")
				}
			case <-ctx.Done():
				log.Debug("conversation sweeper stopped")
				return
			}
		}
	}()
}
