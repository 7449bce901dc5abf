package bootstrap

import (
	"context"
	"strconv"
	"strings"

	"github.com/wolfman30/mindmate-ai/internal/conversation"
	"github.com/wolfman30/mindmate-ai/internal/mood"
)

// MoodStats feeds the opening-question generator from the mood log.
func MoodStats(svc *mood.Service) conversation.StatsSourceFunc {
	if svc == nil {
		return nil
	}
	return func(ctx context.Context, userID string) (conversation.UserStats, error) {
		summary, err := svc.Summarize(ctx, userID)
		if err != nil {
			return conversation.UserStats{}, err
		}
		return statsFromSummary(summary), nil
	}
}

func statsFromSummary(s mood.Summary) conversation.UserStats {
	if s.Records == 0 {
		return conversation.UserStats{}
	}
	return conversation.UserStats{
		AverageScore: strconv.FormatFloat(s.AverageScore, 'f', 1, 64),
		Trend:        s.Trend.Korean(),
		LastMood:     s.LastNote,
		Topics:       strings.Join(s.Topics, ", "),
	}
}
