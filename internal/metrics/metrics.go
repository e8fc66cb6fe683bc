package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	GachaDraws = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGachaDraws,
			Help: HelpTextGachaDraws,
		},
		[]string{LabelRarity},
	)

	FlowersSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameFlowersSold,
			Help: HelpTextFlowersSold,
		},
		[]string{LabelFlower},
	)

	SharesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSharesCreated,
			Help: HelpTextSharesCreated,
		},
	)

	Claims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameClaims,
			Help: HelpTextClaims,
		},
		[]string{LabelOutcome},
	)
)
