package conversation

import (
	"strings"

	"github.com/wolfman30/mindmate-ai/internal/lexicon"
)

const mediaScoreThreshold = -0.3

// shouldSuggestMedia reports whether the turn earns a song/film/book block.
// It depends only on the message and its sentiment score.
func shouldSuggestMedia(message string, score float64) bool {
	lower := strings.ToLower(message)
	if containsAny(lower, lexicon.MediaRequestKeywords()) {
		return true
	}
	if score < mediaScoreThreshold {
		return true
	}
	return containsAny(lower, lexicon.NegativeEmotionKeywords())
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			return true
		}
	}
	return false
}
