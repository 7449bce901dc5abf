package crisis

import (
	"strings"
	"unicode"

	"github.com/wolfman30/mindmate-ai/internal/lexicon"
)

// RiskLevel is the ordinal self-harm signal strength of a message.
type RiskLevel string

const (
	RiskUnset    RiskLevel = ""
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// IsCrisis reports whether the level routes a turn to the crisis path.
// This is the only place the crisis flag is derived.
func (l RiskLevel) IsCrisis() bool {
	return l == RiskHigh || l == RiskCritical
}

// Signaled reports whether any crisis signal was found (medium or above).
func (l RiskLevel) Signaled() bool {
	return l == RiskMedium || l.IsCrisis()
}

// Valid reports whether l is one of the four classified levels.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// ParseRiskLevel normalizes s; unknown values map to RiskLow.
func ParseRiskLevel(s string) RiskLevel {
	l := RiskLevel(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return RiskLow
	}
	return l
}

const (
	highThreshold   = 3
	mediumThreshold = 1
)

// Result is the outcome of Detect.
type Result struct {
	Level RiskLevel
	// Signaled mirrors Level.Signaled(); kept on the struct for API responses.
	Signaled        bool
	MatchedPhrase   string
	NegativeMatches int
}

// Detect classifies message. It is total: empty or malformed input yields low.
func Detect(message string) Result {
	lower := strings.ToLower(message)
	compact := stripSpace(lower)
	if compact == "" {
		return newResult(RiskLow, "", 0)
	}

	for _, phrase := range lexicon.CriticalPhrases() {
		if matches(lower, compact, phrase) {
			return newResult(RiskCritical, phrase, 0)
		}
	}

	count := 0
	for _, phrase := range lexicon.NegativeAffectPhrases() {
		if matches(lower, compact, phrase) {
			count++
		}
	}

	switch {
	case count >= highThreshold:
		return newResult(RiskHigh, "", count)
	case count >= mediumThreshold:
		return newResult(RiskMedium, "", count)
	default:
		return newResult(RiskLow, "", 0)
	}
}

func newResult(level RiskLevel, phrase string, negatives int) Result {
	return Result{
		Level:           level,
		Signaled:        level.Signaled(),
		MatchedPhrase:   phrase,
		NegativeMatches: negatives,
	}
}

// matches checks the phrase as written and with spaces removed, so that
// "죽고싶어" still hits "죽고 싶어".
func matches(lower, compact, phrase string) bool {
	if strings.Contains(lower, phrase) {
		return true
	}
	stripped := stripSpace(phrase)
	return stripped != "" && strings.Contains(compact, stripped)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
