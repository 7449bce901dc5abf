package conversation

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/mindmate-ai/internal/sentiment"
	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

// StatsSourceFunc loads the mood summary used for the opening question.
type StatsSourceFunc func(ctx context.Context, userID string) (UserStats, error)

// Handler serves the chatbot endpoints.
type Handler struct {
	pipeline *Pipeline
	stats    StatsSourceFunc
	logger   *logging.Logger
	now      func() time.Time
}

// NewHandler creates a chatbot handler. stats may be nil, in which case the
// opening question is generated from default stats.
func NewHandler(pipeline *Pipeline, stats StatsSourceFunc, logger *logging.Logger) *Handler {
	if pipeline == nil {
		panic("conversation: pipeline cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{pipeline: pipeline, stats: stats, logger: logger, now: time.Now}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type sendMessageRequest struct {
	Message             string        `json:"message"`
	ConversationHistory []wireMessage `json:"conversation_history"`
	UserID              string        `json:"user_id"`
}

type sendMessageResponse struct {
	Message        string    `json:"message"`
	SentimentScore *float64  `json:"sentiment_score"`
	RiskLevel      string    `json:"risk_level"`
	IsCrisis       bool      `json:"is_crisis"`
	Timestamp      time.Time `json:"timestamp"`
}

// SendMessage handles POST /api/chatbot/send-message. A blank message is a
// valid low-risk turn.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	history, err := parseHistory(req.ConversationHistory)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := h.pipeline.Run(r.Context(), Turn{
		UserID:  req.UserID,
		Message: req.Message,
		History: history,
	})

	h.writeJSON(w, http.StatusOK, sendMessageResponse{
		Message:        state.Reply,
		SentimentScore: state.SentimentScore(),
		RiskLevel:      string(state.RiskLevel()),
		IsCrisis:       state.IsCrisis(),
		Timestamp:      h.now().UTC(),
	})
}

func parseHistory(in []wireMessage) ([]Message, error) {
	out := make([]Message, 0, len(in))
	for _, m := range in {
		role, err := ParseRole(m.Role)
		if err != nil {
			return nil, err
		}
		out = append(out, Message{Role: role, Content: m.Content})
	}
	return out, nil
}

type sentimentRequest struct {
	Message string `json:"message"`
}

type sentimentResponse struct {
	SentimentScore float64         `json:"sentiment_score"`
	Label          sentiment.Label `json:"label"`
	Message        string          `json:"message"`
}

// Sentiment handles POST /api/chatbot/sentiment-analysis.
func (h *Handler) Sentiment(w http.ResponseWriter, r *http.Request) {
	var req sentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	score, label := sentiment.Analyze(req.Message)
	h.writeJSON(w, http.StatusOK, sentimentResponse{
		SentimentScore: score,
		Label:          label,
		Message:        req.Message,
	})
}

type initialQuestionResponse struct {
	Question string `json:"question"`
	UserID   string `json:"user_id"`
}

// InitialQuestion handles POST /api/chatbot/initial-question?user_id=.
func (h *Handler) InitialQuestion(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	var stats UserStats
	if h.stats != nil {
		loaded, err := h.stats(r.Context(), userID)
		if err != nil {
			h.logger.WithUser(userID).Warn("failed to load user stats", "error", err)
		} else {
			stats = loaded
		}
	}

	h.writeJSON(w, http.StatusOK, initialQuestionResponse{
		Question: h.pipeline.InitialQuestion(r.Context(), userID, stats),
		UserID:   userID,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
