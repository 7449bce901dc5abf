package onboarding

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

// Handler serves /api/user/onboarding.
type Handler struct {
	store  Store
	logger *logging.Logger
}

func NewHandler(store Store, logger *logging.Logger) *Handler {
	if store == nil {
		panic("onboarding: store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

type saveResponse struct {
	Message        string  `json:"message"`
	OnboardingData Profile `json:"onboarding_data"`
}

// Save handles POST /api/user/onboarding.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var p Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	saved, err := h.store.Save(r.Context(), p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	name, phone := saved.GuardianContact()
	h.logger.WithUser(saved.UserID).Info("onboarding profile saved", "has_guardian_email", saved.GuardianEmail != "")
	h.writeJSON(w, http.StatusOK, saveResponse{
		Message:        fmt.Sprintf("온보딩 정보가 저장되었습니다. 우선 연락처: %s (%s)", name, phone),
		OnboardingData: saved,
	})
}

// Get handles GET /api/user/onboarding?user_id=.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserIDRequired), errors.Is(err, ErrNameRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "온보딩 정보가 없습니다", http.StatusNotFound)
	default:
		h.logger.Error("onboarding request failed", "error", err)
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
