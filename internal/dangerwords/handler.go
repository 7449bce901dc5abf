package dangerwords

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

// Handler exposes the ledger over HTTP.
type Handler struct {
	ledger Ledger
	logger *logging.Logger
}

// NewHandler creates a danger-word handler.
func NewHandler(ledger Ledger, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{ledger: ledger, logger: logger}
}

type ingestRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type ingestResponse struct {
	Detected    map[string]int `json:"detected"`
	Total       int            `json:"total"`
	ShouldAlert bool           `json:"should_alert"`
}

type resetRequest struct {
	UserID string `json:"user_id"`
}

// Get handles GET /api/danger-words?user_id=.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.Report(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.writeError(w, err, "failed to load danger words")
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// Ingest handles POST /api/danger-words/ingest.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.ledger.Ingest(r.Context(), req.UserID, req.Text)
	if err != nil {
		h.writeError(w, err, "failed to ingest danger words")
		return
	}
	h.writeJSON(w, http.StatusOK, ingestResponse{
		Detected:    res.Detected,
		Total:       res.Report.Total,
		ShouldAlert: res.Report.ShouldAlert,
	})
}

// Reset handles POST /api/danger-words/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.ledger.Reset(r.Context(), req.UserID); err != nil {
		h.writeError(w, err, "failed to reset danger words")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, ErrUserIDRequired) {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	h.logger.Error(msg, "error", err)
	http.Error(w, msg, http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
