package crisis

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

// Handler serves POST /api/crisis/alert.
type Handler struct {
	logger *logging.Logger
	now    func() time.Time
}

func NewHandler(logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{logger: logger, now: time.Now}
}

type alertRequest struct {
	UserID    string     `json:"user_id"`
	Message   string     `json:"message"`
	RiskLevel string     `json:"risk_level"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type alertResponse struct {
	CrisisDetected  bool         `json:"crisis_detected"`
	RiskLevel       RiskLevel    `json:"risk_level"`
	Alert           alertRequest `json:"alert"`
	Recommendations []string     `json:"recommendations"`
}

// Alert re-classifies the reported message and returns guidance for the
// detected level. The client-reported risk level is echoed, never trusted.
func (h *Handler) Alert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if req.Timestamp == nil {
		ts := h.now().UTC()
		req.Timestamp = &ts
	}

	result := Detect(req.Message)
	level := result.Level
	if result.Signaled {
		h.logger.WithUser(req.UserID).Warn("crisis alert received",
			"risk_level", level,
			"reported_level", req.RiskLevel,
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(alertResponse{
		CrisisDetected:  result.Signaled,
		RiskLevel:       level,
		Alert:           req,
		Recommendations: Recommendations(level),
	}); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
