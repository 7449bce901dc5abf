package mood

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/mindmate-ai/internal/dangerwords"
	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

// Summary is what the opening-question generator needs to know about a user.
type Summary struct {
	AverageScore float64
	Trend        Trend
	LastNote     string
	Topics       []string
	Records      int
}

// LogResult reports the stored entry and, when notes were scanned, the
// danger-word ingestion outcome.
type LogResult struct {
	Entry       Entry
	DangerWords *dangerwords.IngestResult
}

// Service stores mood entries and feeds their notes to the danger-word ledger.
type Service struct {
	store  Store
	ledger dangerwords.Ledger
	logger *logging.Logger
}

// NewService wires the mood log. ledger may be nil to skip note scanning.
func NewService(store Store, ledger dangerwords.Ledger, logger *logging.Logger) *Service {
	if store == nil {
		panic("mood: store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, ledger: ledger, logger: logger}
}

// Log stores e. A ledger failure is logged and does not fail the call.
func (s *Service) Log(ctx context.Context, e Entry) (LogResult, error) {
	saved, err := s.store.Add(ctx, e)
	if err != nil {
		return LogResult{}, err
	}
	res := LogResult{Entry: saved}
	if s.ledger == nil || strings.TrimSpace(saved.Notes) == "" {
		return res, nil
	}

	ingest, err := s.ledger.Ingest(ctx, saved.UserID, saved.Notes)
	if err != nil {
		s.logger.WithUser(saved.UserID).Error("failed to scan mood notes for danger words", "error", err)
		return res, nil
	}
	res.DangerWords = &ingest
	return res, nil
}

func (s *Service) History(ctx context.Context, userID string, limit int) ([]HistoryItem, int, error) {
	entries, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return History(entries, limit), len(entries), nil
}

func (s *Service) Analytics(ctx context.Context, userID string) (Analytics, error) {
	entries, err := s.store.List(ctx, userID)
	if err != nil {
		return Analytics{}, err
	}
	return Analyze(userID, entries), nil
}

// Summarize condenses the user's log for the opening question.
func (s *Service) Summarize(ctx context.Context, userID string) (Summary, error) {
	entries, err := s.store.List(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("mood: list entries: %w", err)
	}
	a := Analyze(userID, entries)
	sum := Summary{
		AverageScore: a.AverageScore,
		Trend:        a.Trend,
		Topics:       Topics(entries),
		Records:      a.TotalRecords,
	}
	for _, e := range entries {
		if note := strings.TrimSpace(e.Notes); note != "" {
			sum.LastNote = note
			break
		}
	}
	return sum, nil
}
