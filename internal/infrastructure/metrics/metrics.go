package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CountryMetrics содержит метрики обновления справочника стран
type CountryMetrics struct {
	RefreshTotal          prometheus.CounterVec
	RefreshDuration       prometheus.Histogram
	UpstreamFailuresTotal prometheus.CounterVec
	RecordsUpsertedTotal  prometheus.CounterVec
	RecordsSkippedTotal   prometheus.Counter
	SummaryRenderFailures prometheus.Counter
	EventPublishFailures  prometheus.Counter
	CountriesStored       prometheus.Gauge
}

// NewCountryMetrics registers every collector on reg.
func NewCountryMetrics(reg prometheus.Registerer) *CountryMetrics {
	factory := promauto.With(reg)

	return &CountryMetrics{
		RefreshTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "country_refresh_total",
				Help: "Number of refresh runs by result",
			},
			[]string{"result"},
		),

		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "country_refresh_duration_seconds",
				Help:    "Duration of refresh runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms, 200ms, 400ms...
			},
		),

		UpstreamFailuresTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "country_upstream_failures_total",
				Help: "Failed upstream fetches by source",
			},
			[]string{"source"},
		),

		RecordsUpsertedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "country_records_upserted_total",
				Help: "Country records written by refresh, by action",
			},
			[]string{"action"},
		),

		RecordsSkippedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "country_records_skipped_total",
				Help: "Upstream entries skipped because they had no name",
			},
		),

		SummaryRenderFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "country_summary_render_failures_total",
				Help: "Summary image renders that failed after a successful refresh",
			},
		),

		EventPublishFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "country_event_publish_failures_total",
				Help: "Refresh events that could not be published",
			},
		),

		CountriesStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "country_records_total",
				Help: "Number of country records currently stored",
			},
		),
	}
}

func (m *CountryMetrics) RecordRefreshSucceeded(durationSeconds float64, created, updated, skipped int) {
	m.RefreshTotal.WithLabelValues("succeeded").Inc()
	m.RefreshDuration.Observe(durationSeconds)
	m.RecordsUpsertedTotal.WithLabelValues("created").Add(float64(created))
	m.RecordsUpsertedTotal.WithLabelValues("updated").Add(float64(updated))
	m.RecordsSkippedTotal.Add(float64(skipped))
}

func (m *CountryMetrics) RecordRefreshFailed(durationSeconds float64, source string) {
	m.RefreshTotal.WithLabelValues("failed").Inc()
	m.RefreshDuration.Observe(durationSeconds)
	if source != "" {
		m.UpstreamFailuresTotal.WithLabelValues(source).Inc()
	}
}

func (m *CountryMetrics) RecordRenderFailure() {
	m.SummaryRenderFailures.Inc()
}

func (m *CountryMetrics) RecordPublishFailure() {
	m.EventPublishFailures.Inc()
}

func (m *CountryMetrics) SetCountriesStored(total int64) {
	m.CountriesStored.Set(float64(total))
}
