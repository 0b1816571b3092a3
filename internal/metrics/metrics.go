// Package metrics Prometheus 指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "atlasdcat"

// Metrics 映射与术语表请求指标
type Metrics struct {
	GlossaryRequests *prometheus.CounterVec
	GlossaryLatency  *prometheus.HistogramVec
	MappedDatasets   *prometheus.CounterVec
	MappingErrors    *prometheus.CounterVec
	SavedTerms       *prometheus.CounterVec
}

// New 创建指标并注册到 reg，reg 为 nil 时不注册
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GlossaryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "glossary_requests_total",
			Help:      "Requests sent to the glossary backend by operation and outcome.",
		}, []string{"operation", "outcome"}),
		GlossaryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "glossary_request_duration_seconds",
			Help:      "Latency of glossary backend requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		MappedDatasets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mapped_datasets_total",
			Help:      "Datasets mapped by direction.",
		}, []string{"direction"}),
		MappingErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mapping_errors_total",
			Help:      "Mapping failures by kind.",
		}, []string{"kind"}),
		SavedTerms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saved_terms_total",
			Help:      "Glossary terms persisted by action.",
		}, []string{"action"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.GlossaryRequests,
			m.GlossaryLatency,
			m.MappedDatasets,
			m.MappingErrors,
			m.SavedTerms,
		)
	}

	return m
}

// ObserveRequest 记录一次术语表请求
func (m *Metrics) ObserveRequest(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.GlossaryRequests.WithLabelValues(operation, outcome).Inc()
	m.GlossaryLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// AddMappedDatasets 记录映射的数据集数量
func (m *Metrics) AddMappedDatasets(direction string, n int) {
	if m == nil {
		return
	}
	m.MappedDatasets.WithLabelValues(direction).Add(float64(n))
}

// IncMappingError 记录映射失败
func (m *Metrics) IncMappingError(kind string) {
	if m == nil {
		return
	}
	m.MappingErrors.WithLabelValues(kind).Inc()
}

// IncSavedTerm 记录保存的术语
func (m *Metrics) IncSavedTerm(action string) {
	if m == nil {
		return
	}
	m.SavedTerms.WithLabelValues(action).Inc()
}
