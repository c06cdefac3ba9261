package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts content writes and media uploads. A nil *Metrics records nothing.
type Metrics struct {
	writes  *prometheus.CounterVec
	uploads *prometheus.CounterVec
}

// NewMetrics creates the content counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_writes_total",
				Help: "Total number of record writes by collection, operation and result.",
			},
			[]string{"collection", "op", "result"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_uploads_total",
				Help: "Total number of media uploads by folder and result.",
			},
			[]string{"folder", "result"},
		),
	}
	for _, c := range []prometheus.Collector{m.writes, m.uploads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) write(collection, op string, err error) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(collection, op, result(err)).Inc()
}

func (m *Metrics) upload(folder string, err error) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(folder, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
