// Package metrics defines the Prometheus collectors exported on /metrics.
// Every method is safe to call on a nil *Metrics, so components can be built
// without instrumentation in tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeSkip  = "skipped"
)

// Metrics groups the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	llmRequests   *prometheus.CounterVec
	llmDuration   *prometheus.HistogramVec
	toolCalls     *prometheus.CounterVec
	syncJobs      *prometheus.CounterVec
	generations   *prometheus.CounterVec
	placeLookups  *prometheus.CounterVec
	repairRetries *prometheus.CounterVec
}

// New creates and registers all collectors, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_llm_requests_total",
			Help: "Completion requests by model role and outcome.",
		}, []string{"role", "outcome"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tripplanner_llm_request_duration_seconds",
			Help:    "Completion request latency by model role.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"role"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_tool_calls_total",
			Help: "Agent tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
		syncJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_information_sync_total",
			Help: "Background information sync jobs by outcome.",
		}, []string{"outcome"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_plan_generations_total",
			Help: "Itinerary generations by outcome.",
		}, []string{"outcome"}),
		placeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_place_lookups_total",
			Help: "Place enrichment lookups by outcome.",
		}, []string{"outcome"}),
		repairRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripplanner_json_repair_retries_total",
			Help: "Regenerations caused by unparseable model output, by chain.",
		}, []string{"chain"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.llmRequests, m.llmDuration, m.toolCalls, m.syncJobs,
		m.generations, m.placeLookups, m.repairRetries,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveLLM records one completion request.
func (m *Metrics) ObserveLLM(role string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(role, outcome(err)).Inc()
	m.llmDuration.WithLabelValues(role).Observe(elapsed.Seconds())
}

// ToolCall records one tool invocation.
func (m *Metrics) ToolCall(tool string, failed bool) {
	if m == nil {
		return
	}
	o := OutcomeOK
	if failed {
		o = OutcomeError
	}
	m.toolCalls.WithLabelValues(tool, o).Inc()
}

// SyncJob records the outcome of one background sync.
func (m *Metrics) SyncJob(outcome string) {
	if m == nil {
		return
	}
	m.syncJobs.WithLabelValues(outcome).Inc()
}

// Generation records the outcome of one itinerary generation.
func (m *Metrics) Generation(err error) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome(err)).Inc()
}

// PlaceLookup records one enrichment lookup.
func (m *Metrics) PlaceLookup(outcome string) {
	if m == nil {
		return
	}
	m.placeLookups.WithLabelValues(outcome).Inc()
}

// RepairRetry records one regeneration of unparseable output.
func (m *Metrics) RepairRetry(chain string) {
	if m == nil {
		return
	}
	m.repairRetries.WithLabelValues(chain).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
