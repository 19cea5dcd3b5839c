// Package metrics expõe os contadores Prometheus do pipeline de atribuição
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attribution_events_ingested_total",
		Help: "Total de eventos aceitos pelo endpoint de track",
	})

	TouchpointsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attribution_touchpoints_created_total",
		Help: "Total de touchpoints gravados, por channel",
	}, []string{"channel"})

	IdentifiesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attribution_identifies_processed_total",
		Help: "Total de merges de identidade processados",
	})

	AttributionsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attribution_computations_total",
		Help: "Total de atribuições calculadas (inclui recomputações)",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "attribution_http_request_duration_seconds",
		Help:    "Duração das requisições HTTP por rota",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
