package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	verdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pacer_verdicts_total",
			Help: "Total number of verdicts produced by the frequency engine",
		},
		[]string{"kind", "severity"},
	)

	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pacer_actions_total",
			Help: "Total number of enforcement actions taken for verdicts",
		},
		[]string{"action"},
	)

	packetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pacer_packets_total",
			Help: "Total number of packets processed",
		},
		[]string{"direction"},
	)

	processingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pacer_packet_processing_duration_seconds",
			Help:    "Time spent processing a single client packet",
			Buckets: []float64{.000001, .0000025, .000005, .00001, .000025, .00005, .0001, .00025, .0005, .001},
		},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pacer_active_connections",
			Help: "Number of connected players",
		},
	)
)

// RecordVerdict records a verdict for a message of the kind passed.
func RecordVerdict(kind, severity string) {
	verdictsTotal.WithLabelValues(kind, severity).Inc()
}

// RecordAction records an enforcement action.
func RecordAction(action string) {
	actionsTotal.WithLabelValues(action).Inc()
}

// RecordPacket records a processed packet. direction is "client" or "server".
func RecordPacket(direction string) {
	packetsTotal.WithLabelValues(direction).Inc()
}

// ObserveProcessing records how long processing a client packet took.
func ObserveProcessing(d time.Duration) {
	processingDuration.Observe(d.Seconds())
}

// SetActiveConnections sets the number of connected players.
func SetActiveConnections(count int) {
	activeConnections.Set(float64(count))
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
