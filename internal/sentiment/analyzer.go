package sentiment

import (
	"strings"

	"github.com/wolfman30/mindmate-ai/internal/lexicon"
)

// Label buckets a sentiment score.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

const labelThreshold = 0.3

// Score computes the lexical balance of message in [-1, 1]. Each lexicon
// entry counts at most once no matter how often it appears.
func Score(message string) float64 {
	lower := strings.ToLower(message)
	positive := countContained(lower, lexicon.PositiveSentimentWords())
	negative := countContained(lower, lexicon.NegativeSentimentWords())
	return balance(positive, negative)
}

func balance(positive, negative int) float64 {
	if positive == 0 && negative == 0 {
		return 0
	}
	score := float64(positive-negative) / float64(positive+negative)
	return clamp(score)
}

func clamp(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

// LabelFor maps a score to its label.
func LabelFor(score float64) Label {
	switch {
	case score > labelThreshold:
		return LabelPositive
	case score < -labelThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Analyze returns the score and label of message.
func Analyze(message string) (float64, Label) {
	score := Score(message)
	return score, LabelFor(score)
}

// LabelForMoodScore maps a 1-10 self-reported mood to a label.
func LabelForMoodScore(mood int) Label {
	switch {
	case mood >= 7:
		return LabelPositive
	case mood <= 4:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

func countContained(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
