package dangerwords

import (
	"context"
	"sync"
)

// MemoryLedger keeps counts in process memory for the lifetime of the process.
type MemoryLedger struct {
	mu    sync.RWMutex
	users map[string]*userCounts
}

type userCounts struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{users: make(map[string]*userCounts)}
}

func (l *MemoryLedger) lookup(userID string) *userCounts {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.users[userID]
}

func (l *MemoryLedger) lookupOrCreate(userID string) *userCounts {
	if uc := l.lookup(userID); uc != nil {
		return uc
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if uc, ok := l.users[userID]; ok {
		return uc
	}
	uc := &userCounts{counts: make(map[string]int)}
	l.users[userID] = uc
	return uc
}

// Ingest adds the danger words found in text to the user's counts. A user
// entry is only created once something is detected.
func (l *MemoryLedger) Ingest(ctx context.Context, userID, text string) (IngestResult, error) {
	userID, err := validUser(userID)
	if err != nil {
		return IngestResult{}, err
	}
	detected := Tally(text)
	if len(detected) == 0 {
		report, err := l.Report(ctx, userID)
		return IngestResult{Detected: detected, Report: report}, err
	}

	uc := l.lookupOrCreate(userID)
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for word, n := range detected {
		uc.counts[word] += n
	}
	return IngestResult{Detected: detected, Report: NewReport(uc.counts)}, nil
}

// Report returns the user's cumulative state without modifying it.
func (l *MemoryLedger) Report(_ context.Context, userID string) (Report, error) {
	userID, err := validUser(userID)
	if err != nil {
		return Report{}, err
	}
	uc := l.lookup(userID)
	if uc == nil {
		return NewReport(nil), nil
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return NewReport(uc.counts), nil
}

// Reset clears the user's counts.
func (l *MemoryLedger) Reset(_ context.Context, userID string) error {
	userID, err := validUser(userID)
	if err != nil {
		return err
	}
	uc := l.lookup(userID)
	if uc == nil {
		return nil
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.counts = make(map[string]int)
	return nil
}

var _ Ledger = (*MemoryLedger)(nil)
