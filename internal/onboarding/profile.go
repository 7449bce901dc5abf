package onboarding

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultGuardianPhone is the emergency number used when no guardian is given.
	DefaultGuardianPhone = "112"
	DefaultGuardianName  = "긴급 신고"
)

var (
	ErrUserIDRequired = errors.New("onboarding: user id is required")
	ErrNameRequired   = errors.New("onboarding: name is required")
	ErrNotFound       = errors.New("onboarding: profile not found")
)

// Profile is the contact information collected at sign-up.
type Profile struct {
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	GuardianName  string    `json:"guardianName,omitempty"`
	GuardianPhone string    `json:"guardianPhone"`
	GuardianEmail string    `json:"guardianEmail,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	UpdatedAt     time.Time `json:"timestamp"`
}

// GuardianContact returns the name and phone shown to the user, applying the
// emergency defaults.
func (p Profile) GuardianContact() (name, phone string) {
	name, phone = p.GuardianName, p.GuardianPhone
	if strings.TrimSpace(name) == "" {
		name = DefaultGuardianName
	}
	if strings.TrimSpace(phone) == "" {
		phone = DefaultGuardianPhone
	}
	return name, phone
}

func (p Profile) validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return ErrUserIDRequired
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Store keeps one profile per user.
type Store interface {
	Save(ctx context.Context, p Profile) (Profile, error)
	Get(ctx context.Context, userID string) (Profile, error)
}

// MemoryStore is a process-local Store. Saving replaces the previous profile.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]Profile), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, p Profile) (Profile, error) {
	p.UserID = strings.TrimSpace(p.UserID)
	if err := p.validate(); err != nil {
		return Profile{}, err
	}
	if strings.TrimSpace(p.GuardianPhone) == "" {
		p.GuardianPhone = DefaultGuardianPhone
	}
	p.GuardianEmail = strings.TrimSpace(p.GuardianEmail)
	p.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	s.profiles[p.UserID] = p
	s.mu.Unlock()
	return p, nil
}

func (s *MemoryStore) Get(_ context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrUserIDRequired
	}
	s.mu.RLock()
	p, ok := s.profiles[userID]
	s.mu.RUnlock()
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}
