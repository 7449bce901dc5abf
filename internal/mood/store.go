// Package mood records self-reported mood scores and journal notes and
// derives history and trend analytics from them.
package mood

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	MinScore = 1
	MaxScore = 10

	// MaxEntriesPerUser caps the per-user log; the oldest entries are dropped.
	MaxEntriesPerUser = 100
)

var (
	ErrUserIDRequired = errors.New("mood: user id is required")
	ErrInvalidScore   = errors.New("mood: mood_score must be between 1 and 10")
)

// Entry is one mood log record.
type Entry struct {
	UserID    string    `json:"user_id"`
	MoodScore int       `json:"mood_score"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e Entry) validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return ErrUserIDRequired
	}
	if e.MoodScore < MinScore || e.MoodScore > MaxScore {
		return ErrInvalidScore
	}
	return nil
}

// Store keeps entries newest first.
type Store interface {
	Add(ctx context.Context, e Entry) (Entry, error)
	List(ctx context.Context, userID string) ([]Entry, error)
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]Entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]Entry), now: time.Now}
}

func (s *MemoryStore) Add(_ context.Context, e Entry) (Entry, error) {
	e.UserID = strings.TrimSpace(e.UserID)
	if err := e.validate(); err != nil {
		return Entry{}, err
	}
	e.Timestamp = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.entries[e.UserID]
	updated := make([]Entry, 0, min(len(list)+1, MaxEntriesPerUser))
	updated = append(updated, e)
	for _, old := range list {
		if len(updated) == MaxEntriesPerUser {
			break
		}
		updated = append(updated, old)
	}
	s.entries[e.UserID] = updated
	return e, nil
}

// List returns a copy of the user's entries, newest first.
func (s *MemoryStore) List(_ context.Context, userID string) ([]Entry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.entries[userID]
	out := make([]Entry, len(list))
	copy(out, list)
	return out, nil
}
