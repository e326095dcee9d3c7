// Package selfmetrics exposes this library's own operational counters
// through the Prometheus client, following the promauto/safeRegister idiom
// used elsewhere in this codebase for instrumentation. This is ambient
// self-instrumentation of the library's own queues, not a feature of the
// domain it emits metrics about.
package selfmetrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "uowmetrics_queue_depth",
			Help: "Current number of root entries buffered in a background sink's queue",
		},
		[]string{"sink"},
	)

	DroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uowmetrics_dropped_total",
			Help: "Total root entries dropped by a background sink under backpressure",
		},
		[]string{"sink"},
	)

	WriteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uowmetrics_write_errors_total",
			Help: "Total write failures from a formatting or transport sink",
		},
		[]string{"sink"},
	)

	SamplerDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uowmetrics_sampler_decisions_total",
			Help: "Total sampler accept/drop decisions by sampler",
		},
		[]string{"sampler", "decision"},
	)
)

var registerOnce sync.Once

// Register idempotently registers this package's collectors against reg.
// The collectors are already registered with the default Prometheus
// registry at package init (promauto); Register adds them to reg as well,
// and an AlreadyRegisteredError from reg is ignored.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		safeRegister(reg, QueueDepth)
		safeRegister(reg, DroppedTotal)
		safeRegister(reg, WriteErrorsTotal)
		safeRegister(reg, SamplerDecisionsTotal)
	})
}

func safeRegister(reg prometheus.Registerer, c prometheus.Collector) {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			panic(err)
		}
	}
}

func SetQueueDepth(sink string, depth int) {
	QueueDepth.WithLabelValues(sink).Set(float64(depth))
}

func IncDropped(sink string) {
	DroppedTotal.WithLabelValues(sink).Inc()
}

func IncWriteError(sink string) {
	WriteErrorsTotal.WithLabelValues(sink).Inc()
}

func RecordSamplerDecision(sampler, decision string) {
	SamplerDecisionsTotal.WithLabelValues(sampler, decision).Inc()
}
