package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the service counters. A nil *Metrics records nothing.
type Metrics struct {
	authOperations *prometheus.CounterVec
	tokensRevoked  prometheus.Counter
	tokensPurged   prometheus.Counter
	ocrFiles       *prometheus.CounterVec
	evaluations    *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		authOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evalca",
			Subsystem: "auth",
			Name:      "operations_total",
			Help:      "Authentication operations by outcome.",
		}, []string{"operation", "outcome"}),
		tokensRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "evalca",
			Subsystem: "blacklist",
			Name:      "revoked_total",
			Help:      "Tokens added to the blacklist.",
		}),
		tokensPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "evalca",
			Subsystem: "blacklist",
			Name:      "purged_total",
			Help:      "Expired blacklist entries removed.",
		}),
		ocrFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evalca",
			Subsystem: "ocr",
			Name:      "files_total",
			Help:      "Processed OCR files by kind.",
		}, []string{"kind"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evalca",
			Subsystem: "evaluation",
			Name:      "requests_total",
			Help:      "Language model requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}

	reg.MustRegister(m.authOperations, m.tokensRevoked, m.tokensPurged, m.ocrFiles, m.evaluations)

	return m
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// AuthOperation counts an authentication operation.
func (m *Metrics) AuthOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.authOperations.WithLabelValues(operation, outcome(err)).Inc()
}

// TokenRevoked counts a blacklisted token.
func (m *Metrics) TokenRevoked() {
	if m == nil {
		return
	}
	m.tokensRevoked.Inc()
}

// TokensPurged counts purged blacklist rows.
func (m *Metrics) TokensPurged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensPurged.Add(float64(n))
}

// OCRFiles counts processed OCR files.
func (m *Metrics) OCRFiles(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ocrFiles.WithLabelValues(kind).Add(float64(n))
}

// Evaluation counts a language model request.
func (m *Metrics) Evaluation(operation string, err error) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(operation, outcome(err)).Inc()
}
