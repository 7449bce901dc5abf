// Package dangerwords keeps per-user running counts of danger words found in
// journal notes and decides when a caregiver should be alerted.
package dangerwords

import (
	"context"
	"errors"
	"strings"

	"github.com/wolfman30/mindmate-ai/internal/lexicon"
)

const (
	// RepeatThreshold is the per-word count that triggers an alert.
	RepeatThreshold = 3
	// TotalThreshold is the across-words count that triggers an alert.
	TotalThreshold = 5
)

// ErrUserIDRequired is returned when an operation is called without a user.
var ErrUserIDRequired = errors.New("dangerwords: user id required")

// Ledger stores danger-word counts per user. Implementations serialize
// updates per user; different users never contend.
type Ledger interface {
	Ingest(ctx context.Context, userID, text string) (IngestResult, error)
	Report(ctx context.Context, userID string) (Report, error)
	Reset(ctx context.Context, userID string) error
}

// Report is the cumulative state of a user's ledger.
type Report struct {
	Words         map[string]int `json:"words"`
	Total         int            `json:"total"`
	MaxRepeat     int            `json:"max_repeat"`
	ShouldAlert   bool           `json:"should_alert"`
	WeightedScore int            `json:"weighted_score"`
}

// IngestResult holds the delta found in one text plus the updated report.
type IngestResult struct {
	Detected map[string]int `json:"detected"`
	Report   Report         `json:"report"`
}

// ShouldAlert is the alert rule shared by every backend.
func ShouldAlert(total, maxRepeat int) bool {
	return maxRepeat >= RepeatThreshold || total >= TotalThreshold
}

// NewReport derives totals from counts. counts is copied.
func NewReport(counts map[string]int) Report {
	r := Report{Words: make(map[string]int, len(counts))}
	for word, n := range counts {
		if n <= 0 {
			continue
		}
		r.Words[word] = n
		r.Total += n
		if n > r.MaxRepeat {
			r.MaxRepeat = n
		}
		r.WeightedScore += n * lexicon.DangerWeight(word)
	}
	r.ShouldAlert = ShouldAlert(r.Total, r.MaxRepeat)
	return r
}

// Tally counts every occurrence of each danger word in text. Unlike the
// sentiment scorer, repeats within one text all count.
func Tally(text string) map[string]int {
	lower := strings.ToLower(text)
	found := map[string]int{}
	if strings.TrimSpace(lower) == "" {
		return found
	}
	for _, dw := range lexicon.DangerWords() {
		if n := strings.Count(lower, dw.Word); n > 0 {
			found[dw.Word] = n
		}
	}
	return found
}

func sum(counts map[string]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

func validUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrUserIDRequired
	}
	return userID, nil
}
