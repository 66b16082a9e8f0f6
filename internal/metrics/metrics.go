package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingest counts ingestion outcomes. A nil *Ingest records nothing.
type Ingest struct {
	inserted prometheus.Counter
	skipped  prometheus.Counter
	failures *prometheus.CounterVec
}

func NewIngest(reg prometheus.Registerer) *Ingest {
	m := &Ingest{
		inserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sales_ingest_inserted_total",
			Help: "Transactions inserted from the product feed.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sales_ingest_skipped_total",
			Help: "Feed records skipped because their id was already stored.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_ingest_failures_total",
			Help: "Failed ingestion runs by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.inserted, m.skipped, m.failures)
	return m
}

func (m *Ingest) Observe(inserted, skipped int) {
	if m == nil {
		return
	}
	m.inserted.Add(float64(inserted))
	m.skipped.Add(float64(skipped))
}

func (m *Ingest) Fail(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}
