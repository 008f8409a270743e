package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики worker'а.
var (
	// CyclesTotal — количество завершённых циклов.
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadflow_worker_cycles_total",
		Help: "Total fetch-dispatch-settle cycles completed by the worker",
	})

	// CycleErrorsTotal — количество циклов, упавших на fetch/aggregate.
	CycleErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadflow_worker_cycle_errors_total",
		Help: "Total cycles aborted by a fetch or aggregation error",
	})

	// OutcomesTotal — outcomes по типам.
	OutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadflow_worker_outcomes_total",
		Help: "Per-lead outcomes produced by the worker",
	}, []string{"outcome"})

	// CycleDuration — длительность цикла.
	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadflow_worker_cycle_duration_seconds",
		Help:    "Wall time of one worker cycle",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	// LeadsInFlight — количество лидов в обработке прямо сейчас.
	LeadsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "leadflow_worker_leads_in_flight",
		Help: "Leads currently being processed (bounded by MAX_CONCURRENCY)",
	})
)

// Метрики LLM-клиента.
var (
	// ScoringRequestsTotal — вызовы LLM-сервиса по статусу.
	ScoringRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadflow_llm_requests_total",
		Help: "Scoring requests to the LLM service",
	}, []string{"status"})

	// ScoringDuration — длительность вызова LLM-сервиса.
	ScoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadflow_llm_request_duration_seconds",
		Help:    "Latency of one scoring request",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
)
