package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters/histograms for conversation turns.
type PipelineMetrics struct {
	turnsTotal *prometheus.CounterVec
	llmLatency *prometheus.HistogramVec
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindmate",
			Subsystem: "pipeline",
			Name:      "turns_total",
			Help:      "Conversation turns by risk level and outcome",
		}, []string{"risk_level", "outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mindmate",
			Subsystem: "pipeline",
			Name:      "llm_latency_seconds",
			Help:      "Latency of text-completion calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"purpose", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.llmLatency)
	return m
}

// ObserveTurn counts a finished turn. outcome is "ok", "crisis" or "failed".
func (m *PipelineMetrics) ObserveTurn(riskLevel, outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(riskLevel, outcome).Inc()
}

func (m *PipelineMetrics) ObserveLLMLatency(purpose string, failed bool, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.llmLatency.WithLabelValues(purpose, status).Observe(seconds)
}

// AlertMetrics counts caregiver alerts raised from the danger-word ledger.
type AlertMetrics struct {
	alertsTotal   *prometheus.CounterVec
	ingestedWords prometheus.Counter
}

func NewAlertMetrics(reg prometheus.Registerer) *AlertMetrics {
	m := &AlertMetrics{
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindmate",
			Subsystem: "dangerwords",
			Name:      "alerts_total",
			Help:      "Caregiver alerts by delivery status",
		}, []string{"status"}),
		ingestedWords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mindmate",
			Subsystem: "dangerwords",
			Name:      "detected_total",
			Help:      "Danger-word occurrences detected in ingested notes",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.alertsTotal, m.ingestedWords)
	return m
}

func (m *AlertMetrics) ObserveAlert(status string) {
	if m == nil {
		return
	}
	m.alertsTotal.WithLabelValues(status).Inc()
}

func (m *AlertMetrics) ObserveDetected(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ingestedWords.Add(float64(n))
}
