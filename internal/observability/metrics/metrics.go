package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChartMetrics exposes counters/histograms for the charting subsystem.
type ChartMetrics struct {
	chartLoads    *prometheus.CounterVec
	recordSaves   *prometheus.CounterVec
	annotationOps *prometheus.CounterVec
	loadLatency   *prometheus.HistogramVec
}

func NewChartMetrics(reg prometheus.Registerer) *ChartMetrics {
	m := &ChartMetrics{
		chartLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental",
			Subsystem: "chart",
			Name:      "loads_total",
			Help:      "Total chart loads by outcome and source (cache or db)",
		}, []string{"status", "source"}),
		recordSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental",
			Subsystem: "chart",
			Name:      "record_saves_total",
			Help:      "Total tooth record upserts",
		}, []string{"status"}),
		annotationOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental",
			Subsystem: "chart",
			Name:      "annotation_ops_total",
			Help:      "Total annotation mutations by operation",
		}, []string{"op", "status"}),
		loadLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dental",
			Subsystem: "chart",
			Name:      "load_latency_seconds",
			Help:      "Latency of chart loads",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.chartLoads, m.recordSaves, m.annotationOps, m.loadLatency)
	return m
}

func (m *ChartMetrics) ObserveChartLoad(status, source string) {
	if m == nil {
		return
	}
	m.chartLoads.WithLabelValues(status, source).Inc()
}

func (m *ChartMetrics) ObserveRecordSave(status string) {
	if m == nil {
		return
	}
	m.recordSaves.WithLabelValues(status).Inc()
}

func (m *ChartMetrics) ObserveAnnotationOp(op, status string) {
	if m == nil {
		return
	}
	m.annotationOps.WithLabelValues(op, status).Inc()
}

func (m *ChartMetrics) ObserveLoadLatency(source string, seconds float64) {
	if m == nil {
		return
	}
	m.loadLatency.WithLabelValues(source).Observe(seconds)
}
