package mood

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/wolfman30/mindmate-ai/internal/lexicon"
	"github.com/wolfman30/mindmate-ai/internal/sentiment"
)

// Trend compares the newest window of entries with the one before it.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

const (
	trendWindow        = 7
	trendMinPerWindow  = 2
	trendThresholdPct  = 5.0
	defaultHistorySize = 30
	maxTopics          = 3
)

// Korean renders the trend for prompts.
func (t Trend) Korean() string {
	switch t {
	case TrendImproving:
		return "상승중"
	case TrendDeclining:
		return "하락중"
	default:
		return "안정적"
	}
}

// HistoryItem is one row of the mood history view.
type HistoryItem struct {
	Date      string          `json:"date"`
	Score     int             `json:"score"`
	Sentiment sentiment.Label `json:"sentiment"`
	Notes     string          `json:"notes"`
}

// Analytics summarises all of a user's entries.
type Analytics struct {
	UserID                string                  `json:"user_id"`
	AverageScore          float64                 `json:"average_score"`
	Trend                 Trend                   `json:"trend"`
	TrendPercentage       float64                 `json:"trend_percentage"`
	TotalRecords          int                     `json:"total_records"`
	SentimentDistribution map[sentiment.Label]int `json:"sentiment_distribution"`
	Message               string                  `json:"message"`
}

// EntrySentiment labels an entry from its notes when present, else from its score.
func EntrySentiment(e Entry) sentiment.Label {
	if strings.TrimSpace(e.Notes) != "" {
		_, label := sentiment.Analyze(e.Notes)
		return label
	}
	return sentiment.LabelForMoodScore(e.MoodScore)
}

// History returns up to limit of the newest entries, oldest first.
func History(entries []Entry, limit int) []HistoryItem {
	if limit <= 0 {
		limit = defaultHistorySize
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	items := make([]HistoryItem, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		items = append(items, HistoryItem{
			Date:      e.Timestamp.Format(time.RFC3339),
			Score:     e.MoodScore,
			Sentiment: EntrySentiment(e),
			Notes:     e.Notes,
		})
	}
	return items
}

// Analyze computes analytics over entries ordered newest first.
func Analyze(userID string, entries []Entry) Analytics {
	dist := map[sentiment.Label]int{
		sentiment.LabelPositive: 0,
		sentiment.LabelNeutral:  0,
		sentiment.LabelNegative: 0,
	}
	out := Analytics{
		UserID:                userID,
		Trend:                 TrendStable,
		TotalRecords:          len(entries),
		SentimentDistribution: dist,
	}
	if len(entries) == 0 {
		out.Message = "데이터가 없습니다"
		return out
	}

	out.AverageScore = round1(average(entries))
	out.Trend, out.TrendPercentage = trend(entries)
	for _, e := range entries {
		dist[EntrySentiment(e)]++
	}
	out.Message = "분석 완료"
	return out
}

func trend(entries []Entry) (Trend, float64) {
	recent := entries[:min(trendWindow, len(entries))]
	var previous []Entry
	if len(entries) > trendWindow {
		previous = entries[trendWindow:min(2*trendWindow, len(entries))]
	}
	if len(recent) < trendMinPerWindow || len(previous) < trendMinPerWindow {
		return TrendStable, 0
	}
	prevAvg := average(previous)
	if prevAvg <= 0 {
		return TrendStable, 0
	}
	pct := (average(recent) - prevAvg) / prevAvg * 100
	switch {
	case pct > trendThresholdPct:
		return TrendImproving, round1(pct)
	case pct < -trendThresholdPct:
		return TrendDeclining, round1(pct)
	default:
		return TrendStable, round1(pct)
	}
}

// Topics returns the lexicon hits that appear in the most notes. Danger
// words and negative-emotion keywords both count; a keyword that only
// matched as part of a danger word in the same note is not counted again.
func Topics(entries []Entry) []string {
	dangers := lexicon.DangerWords()
	var keywords []string
	for _, dw := range dangers {
		keywords = append(keywords, dw.Word)
	}
	negatives := lexicon.NegativeEmotionKeywords()
	keywords = append(keywords, negatives...)

	counts := make(map[string]int)
	for _, e := range entries {
		notes := strings.ToLower(e.Notes)
		if notes == "" {
			continue
		}
		rest := notes
		for _, dw := range dangers {
			if strings.Contains(notes, dw.Word) {
				counts[dw.Word]++
				rest = strings.ReplaceAll(rest, dw.Word, " ")
			}
		}
		for _, kw := range negatives {
			if strings.Contains(rest, kw) {
				counts[kw]++
			}
		}
	}
	order := make(map[string]int, len(keywords))
	for i, kw := range keywords {
		order[kw] = i
	}
	topics := make([]string, 0, len(counts))
	for kw := range counts {
		topics = append(topics, kw)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return order[topics[i]] < order[topics[j]]
	})
	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}
	return topics
}

func average(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.MoodScore
	}
	return float64(sum) / float64(len(entries))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
