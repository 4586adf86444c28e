package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	SwapCheckTransaction = "transaction"
	SwapCheckAddress     = "address"

	SwapResultOK       = "ok"
	SwapResultMismatch = "mismatch"
)

// SwapResult names the outcome of a boolean swap check.
func SwapResult(ok bool) string {
	if ok {
		return SwapResultOK
	}
	return SwapResultMismatch
}

// Metrics collects request and swap counters of one device.
type Metrics struct {
	// APDURequestsTotal counts handled frames by instruction and status word
	APDURequestsTotal *prometheus.CounterVec

	// APDURequestDuration observes handling latency including operator review
	APDURequestDuration *prometheus.HistogramVec

	// SwapChecksTotal counts swap validations by check and result
	SwapChecksTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		APDURequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apdu_requests_total",
				Help: "Total number of handled APDU frames.",
			},
			[]string{"ins", "status"},
		),
		APDURequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apdu_request_duration_seconds",
				Help:    "APDU handling latency distributions.",
				Buckets: []float64{0.001, 0.01, 0.1, 1, 10, 60},
			},
			[]string{"ins"},
		),
		SwapChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swap_checks_total",
				Help: "Total number of swap validations.",
			},
			[]string{"check", "result"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.APDURequestsTotal, m.APDURequestDuration, m.SwapChecksTotal)
	}

	return m
}

// ObserveRequest records one handled frame.
func (m *Metrics) ObserveRequest(ins string, status string, started time.Time) {
	if m == nil {
		return
	}
	m.APDURequestsTotal.WithLabelValues(ins, status).Inc()
	m.APDURequestDuration.WithLabelValues(ins).Observe(time.Since(started).Seconds())
}

// ObserveSwapCheck records one swap validation, result is "ok" or a failure code name.
func (m *Metrics) ObserveSwapCheck(check string, result string) {
	if m == nil {
		return
	}
	m.SwapChecksTotal.WithLabelValues(check, result).Inc()
}
