package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 一次执行内的查询统计，使用独立的 registry
type Metrics struct {
	Registry        *prometheus.Registry
	QueriesTotal    *prometheus.CounterVec
	QueryDuration   *prometheus.HistogramVec
	ProductsTotal   prometheus.Counter
	MemoHitsTotal   prometheus.Counter
	OutputRowsTotal prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	queries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parthunter_queries_total",
			Help: "Distributor API queries by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parthunter_query_duration_seconds",
			Help:    "Latency of distributor API queries.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	products := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parthunter_products_total",
		Help: "Normalized product records produced.",
	})
	memoHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parthunter_memo_hits_total",
		Help: "Batch lookups answered from the in-run memo.",
	})
	rows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parthunter_output_rows_total",
		Help: "Rows written to the output file.",
	})

	registry.MustRegister(queries, duration, products, memoHits, rows)

	return &Metrics{
		Registry:        registry,
		QueriesTotal:    queries,
		QueryDuration:   duration,
		ProductsTotal:   products,
		MemoHitsTotal:   memoHits,
		OutputRowsTotal: rows,
	}
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.QueriesTotal.WithLabelValues(op, outcome).Inc()
	m.QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// WriteTextfile 以 node_exporter textfile 格式落盘
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
