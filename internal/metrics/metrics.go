package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourceFetchTotal 数据源调用结果：success / failure / panic
	SourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticktracker_source_fetch_total",
			Help: "Total number of source adapter calls by result",
		},
		[]string{"source", "result"},
	)

	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticktracker_source_fetch_duration_seconds",
			Help:    "Duration of source adapter calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	SourceEventsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticktracker_source_events_fetched_total",
			Help: "Total number of canonical events returned by each source",
		},
		[]string{"source"},
	)

	// DuplicatesDropped 合并时被判定为重复而丢弃的候选数
	DuplicatesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticktracker_merge_duplicates_dropped_total",
			Help: "Total number of candidates dropped as duplicates during merge",
		},
	)

	EstimatedPrices = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticktracker_merge_estimated_prices_total",
			Help: "Total number of merged events priced by the heuristic",
		},
	)

	// Predictions 按来源（heuristic_only / ml+heuristic）统计价格预测
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticktracker_predictions_total",
			Help: "Total number of price predictions by source",
		},
		[]string{"source"},
	)

	PredictorFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticktracker_predictor_failures_total",
			Help: "Total number of predictor calls that fell back to the heuristic",
		},
	)

	// CircuitBreakerState 0=closed 1=half-open 2=open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ticktracker_circuit_breaker_state",
			Help: "Circuit breaker state per source (0=closed, 1=half-open, 2=open)",
		},
		[]string{"source"},
	)
)
