package conversation

import (
	"context"
	"strings"
)

// UserStats summarises a user's mood records for the opening question.
type UserStats struct {
	AverageScore string
	Trend        string
	LastMood     string
	Topics       string
}

func (s UserStats) withDefaults() UserStats {
	if strings.TrimSpace(s.AverageScore) == "" {
		s.AverageScore = "5.0"
	}
	if strings.TrimSpace(s.Trend) == "" {
		s.Trend = "안정적"
	}
	if strings.TrimSpace(s.LastMood) == "" {
		s.LastMood = "기록 없음"
	}
	if strings.TrimSpace(s.Topics) == "" {
		s.Topics = "일반적인 상담"
	}
	return s
}

// InitialQuestion asks the backend for a personalised opener. Any failure
// yields FallbackInitialQuestion.
func (p *Pipeline) InitialQuestion(ctx context.Context, userID string, stats UserStats) string {
	logger := p.logger.WithUser(userID)
	text, err := p.complete(ctx, "initial_question", LLMRequest{
		Model:       p.model,
		System:      []string{initialQuestionSystemPrompt},
		Messages:    []Message{{Role: RoleUser, Content: initialQuestionPrompt(stats)}},
		MaxTokens:   initialMaxTokens,
		Temperature: p.temperature,
	}, logger)
	if err != nil {
		logger.Warn("initial question fell back to default", "error", err)
		return FallbackInitialQuestion
	}
	return text
}
