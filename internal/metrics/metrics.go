// Package metrics counts authentication activity. Collectors live on a
// private registry; there is no HTTP exposition, the terminal UI prints a
// gathered snapshot instead.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Outcome label values.
const (
	OutcomeSuccess          = "success"
	OutcomeNoSuchAccount    = "no_such_account"
	OutcomeWrongPassword    = "wrong_password"
	OutcomeValidationFailed = "validation_failed"
	OutcomeInternal         = "internal"
	OutcomeCancelled        = "cancelled"
)

type Metrics struct {
	reg *prometheus.Registry

	LoginAttempts     *prometheus.CounterVec
	SignupAttempts    *prometheus.CounterVec
	Logouts           prometheus.Counter
	RequestsCancelled prometheus.Counter
	RegistryUsers     prometheus.Gauge
	RequestDuration   *prometheus.HistogramVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "authfront_login_attempts_total",
			Help: "Total number of login attempts by outcome",
		}, []string{"outcome"}),
		SignupAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "authfront_signup_attempts_total",
			Help: "Total number of signup attempts by outcome",
		}, []string{"outcome"}),
		Logouts: f.NewCounter(prometheus.CounterOpts{
			Name: "authfront_logouts_total",
			Help: "Total number of logouts",
		}),
		RequestsCancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "authfront_requests_cancelled_total",
			Help: "Total number of in-flight requests cancelled before a decision",
		}),
		RegistryUsers: f.NewGauge(prometheus.GaugeOpts{
			Name: "authfront_registry_users",
			Help: "Number of registered users",
		}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authfront_request_duration_seconds",
			Help:    "Time from submission to decision, including simulated latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) RecordLogin(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordSignup(outcome string) {
	m.SignupAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordLogout() {
	m.Logouts.Inc()
}

func (m *Metrics) RecordCancelled() {
	m.RequestsCancelled.Inc()
}

func (m *Metrics) SetRegistryUsers(n int) {
	m.RegistryUsers.Set(float64(n))
}

func (m *Metrics) ObserveRequest(kind string, d time.Duration) {
	m.RequestDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// Snapshot renders counters and gauges as sorted "name{labels} value" lines.
// Histograms are reduced to their sample count.
func (m *Metrics) Snapshot() ([]string, error) {
	families, err := m.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			name := mf.GetName() + labelString(metric.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				lines = append(lines, fmt.Sprintf("%s %g", name, metric.GetCounter().GetValue()))
			case dto.MetricType_GAUGE:
				lines = append(lines, fmt.Sprintf("%s %g", name, metric.GetGauge().GetValue()))
			case dto.MetricType_HISTOGRAM:
				lines = append(lines, fmt.Sprintf("%s_count%s %d", mf.GetName(), labelString(metric.GetLabel()), metric.GetHistogram().GetSampleCount()))
			}
		}
	}
	sort.Strings(lines)
	return lines, nil
}

func labelString(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
