// Package prometheus exports catalog metrics to Prometheus.
//
//	c := prometheus.NewCollector(prom.DefaultRegisterer)
//	cat, _ := colmeta.Open(ctx, colmeta.Local(dir), colmeta.WithMetricsCollector(c))
//	http.Handle("/metrics", promhttp.Handler())
package prometheus

import (
	"time"

	"github.com/hupe1980/colmeta"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "colmeta"

// Collector implements colmeta.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency *prometheus.HistogramVec
	ops       *prometheus.CounterVec
	bytes     *prometheus.CounterVec
	skipped   prometheus.Counter
	rows      prometheus.Counter
	columns   prometheus.Histogram
}

var (
	_ colmeta.MetricsCollector = (*Collector)(nil)
	_ prometheus.Collector     = (*Collector)(nil)
)

// NewCollector creates the catalog metrics and registers them with reg.
// A nil reg leaves them unregistered; the Collector can be registered later.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of catalog operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total catalog operations",
		}, []string{"op", "status"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_bytes_total",
			Help:      "Bytes of metadata documents written and read",
		}, []string{"op"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_entries_total",
			Help:      "Metadata entries skipped on load",
		}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scanned_rows_total",
			Help:      "Rows read by table scans",
		}),
		columns: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_columns",
			Help:      "Columns per scanned table",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(c)
	}
	return c
}

func (c *Collector) metrics() []prometheus.Collector {
	return []prometheus.Collector{c.opLatency, c.ops, c.bytes, c.skipped, c.rows, c.columns}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics() {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.metrics() {
		m.Collect(ch)
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, s).Inc()
}

// RecordSave implements colmeta.MetricsCollector.
func (c *Collector) RecordSave(bytes int, d time.Duration, err error) {
	c.observe("save", d, err)
	if err == nil {
		c.bytes.WithLabelValues("save").Add(float64(bytes))
	}
}

// RecordLoad implements colmeta.MetricsCollector.
func (c *Collector) RecordLoad(bytes, skipped int, d time.Duration, err error) {
	c.observe("load", d, err)
	if err == nil {
		c.bytes.WithLabelValues("load").Add(float64(bytes))
		c.skipped.Add(float64(skipped))
	}
}

// RecordScan implements colmeta.MetricsCollector.
func (c *Collector) RecordScan(rows, columns int, d time.Duration, err error) {
	c.observe("scan", d, err)
	if err == nil {
		c.rows.Add(float64(rows))
		c.columns.Observe(float64(columns))
	}
}

// RecordMerge implements colmeta.MetricsCollector.
func (c *Collector) RecordMerge(d time.Duration, err error) {
	c.observe("merge", d, err)
}
