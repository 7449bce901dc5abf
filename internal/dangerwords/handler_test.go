package dangerwords

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

func TestHandlerIngestAndGet(t *testing.T) {
	h := NewHandler(NewMemoryLedger(), logging.Default())

	body, _ := json.Marshal(ingestRequest{UserID: "user-1", Text: "죽고싶어 죽고싶어 죽고싶어"})
	req := httptest.NewRequest(http.MethodPost, "/api/danger-words/ingest", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Ingest(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, w.Code)
	}
	var ingest ingestResponse
	if err := json.NewDecoder(w.Body).Decode(&ingest); err != nil {
		t.Fatalf("decode ingest response: %v", err)
	}
	if ingest.Detected["죽고싶어"] != 3 || ingest.Total != 3 || !ingest.ShouldAlert {
		t.Fatalf("unexpected ingest response %#v", ingest)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/danger-words?user_id=user-1", nil)
	w = httptest.NewRecorder()
	h.Get(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, w.Code)
	}
	var report struct {
		Words       map[string]int `json:"words"`
		Total       int            `json:"total"`
		MaxRepeat   int            `json:"max_repeat"`
		ShouldAlert bool           `json:"should_alert"`
	}
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.MaxRepeat != 3 || !report.ShouldAlert || report.Words["죽고싶어"] != 3 {
		t.Fatalf("unexpected report %#v", report)
	}
}

func TestHandlerRequiresUserID(t *testing.T) {
	h := NewHandler(NewMemoryLedger(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/danger-words", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestHandlerRejectsBadJSON(t *testing.T) {
	h := NewHandler(NewMemoryLedger(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/danger-words/ingest", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	h.Ingest(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestHandlerReset(t *testing.T) {
	ledger := NewMemoryLedger()
	h := NewHandler(ledger, nil)
	if _, err := ledger.Ingest(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "u", "자살"); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/danger-words/reset", bytes.NewBufferString(`{"user_id":"u"}`))
	w := httptest.NewRecorder()
	h.Reset(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected %d, got %d", http.StatusNoContent, w.Code)
	}
	report, _ := ledger.Report(req.Context(), "u")
	if report.Total != 0 {
		t.Fatalf("expected ledger cleared, got %d", report.Total)
	}
}
