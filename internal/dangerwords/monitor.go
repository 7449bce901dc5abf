package dangerwords

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wolfman30/mindmate-ai/internal/observability/metrics"
	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

// CaregiverNotifier delivers an alert to the contact registered for a user.
type CaregiverNotifier interface {
	NotifyCaregiver(ctx context.Context, userID, subject, body string) error
}

// Monitor wraps a Ledger and notifies the caregiver when an ingestion leaves
// the user over the alert threshold. Delivery failures never fail Ingest.
type Monitor struct {
	ledger   Ledger
	notifier CaregiverNotifier
	metrics  *metrics.AlertMetrics
	logger   *logging.Logger
}

// NewMonitor creates a Monitor. notifier and m may be nil.
func NewMonitor(ledger Ledger, notifier CaregiverNotifier, m *metrics.AlertMetrics, logger *logging.Logger) *Monitor {
	if ledger == nil {
		panic("dangerwords: ledger cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Monitor{ledger: ledger, notifier: notifier, metrics: m, logger: logger}
}

// Ingest records text for userID and raises an alert when this call detected
// danger words and the cumulative report says so.
func (m *Monitor) Ingest(ctx context.Context, userID, text string) (IngestResult, error) {
	res, err := m.ledger.Ingest(ctx, userID, text)
	if err != nil {
		return IngestResult{}, err
	}
	m.metrics.ObserveDetected(sum(res.Detected))
	if len(res.Detected) > 0 && res.Report.ShouldAlert {
		m.alert(ctx, userID, res)
	}
	return res, nil
}

func (m *Monitor) Report(ctx context.Context, userID string) (Report, error) {
	return m.ledger.Report(ctx, userID)
}

func (m *Monitor) Reset(ctx context.Context, userID string) error {
	if err := m.ledger.Reset(ctx, userID); err != nil {
		return err
	}
	m.logger.WithUser(userID).Info("danger word ledger reset")
	return nil
}

func (m *Monitor) alert(ctx context.Context, userID string, res IngestResult) {
	logger := m.logger.WithUser(userID)
	logger.Warn("danger word alert threshold reached",
		"total", res.Report.Total,
		"max_repeat", res.Report.MaxRepeat,
	)
	if m.notifier == nil {
		m.metrics.ObserveAlert("skipped")
		return
	}
	subject, body := alertMessage(userID, res.Report)
	if err := m.notifier.NotifyCaregiver(ctx, userID, subject, body); err != nil {
		m.metrics.ObserveAlert("failed")
		logger.Error("caregiver alert failed", "error", err)
		return
	}
	m.metrics.ObserveAlert("sent")
}

func alertMessage(userID string, r Report) (string, string) {
	subject := "[MindMate] 위험 신호 알림"

	words := make([]string, 0, len(r.Words))
	for w := range r.Words {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if r.Words[words[i]] != r.Words[words[j]] {
			return r.Words[words[i]] > r.Words[words[j]]
		}
		return words[i] < words[j]
	})

	var b strings.Builder
	b.WriteString(fmt.Sprintf("사용자 %s 님의 기록에서 위험 단어가 반복적으로 감지되었습니다.\n\n", userID))
	for _, w := range words {
		b.WriteString(fmt.Sprintf("- %s: %d회\n", w, r.Words[w]))
	}
	b.WriteString(fmt.Sprintf("\n총 %d회 (최다 반복 %d회)\n\n", r.Total, r.MaxRepeat))
	b.WriteString("가능하다면 직접 연락해 안부를 확인해 주세요. 긴급한 경우 정신건강위기상담전화 1393 또는 119로 연락하세요.")
	return subject, b.String()
}

var _ Ledger = (*Monitor)(nil)
