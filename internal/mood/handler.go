package mood

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

// Handler serves the /api/mood endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("mood: service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type logResponse struct {
	Message string `json:"message"`
	MoodLog Entry  `json:"mood_log"`
}

type historyResponse struct {
	UserID  string        `json:"user_id"`
	History []HistoryItem `json:"history"`
	Total   int           `json:"total"`
}

// Log handles POST /api/mood/log.
func (h *Handler) Log(w http.ResponseWriter, r *http.Request) {
	var e Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.service.Log(r.Context(), e)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, logResponse{Message: "감정 로그가 저장되었습니다", MoodLog: res.Entry})
}

// History handles GET /api/mood/history?user_id=&limit=.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	limit := defaultHistorySize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	items, total, err := h.service.History(r.Context(), userID, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, historyResponse{UserID: userID, History: items, Total: total})
}

// Analytics handles GET /api/mood/analytics?user_id=.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Analytics(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserIDRequired), errors.Is(err, ErrInvalidScore):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("mood request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
