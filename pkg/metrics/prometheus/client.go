package prometheus

import (
	"time"

	"github.com/marmos91/nfs4wire/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// clientMetrics is the Prometheus implementation of metrics.ClientMetrics.
type clientMetrics struct {
	callsTotal       *prometheus.CounterVec
	callDuration     *prometheus.HistogramVec
	callsInFlight    *prometheus.GaugeVec
	operationsTotal  *prometheus.CounterVec
	timeoutsTotal    *prometheus.CounterVec
	unmatchedReplies prometheus.Counter
	bytesTotal       *prometheus.CounterVec
	connectionEvents *prometheus.CounterVec
}

// NewClientMetrics creates a new Prometheus-backed ClientMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewClientMetrics() metrics.ClientMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	return newClientMetrics(metrics.GetRegistry())
}

func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	return &clientMetrics{
		callsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfs4wire_client_calls_total",
				Help: "Total number of completed RPC calls by procedure and status",
			},
			[]string{"procedure", "status"},
		),
		callDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "nfs4wire_client_call_duration_milliseconds",
				Help: "Round trip time of RPC calls in milliseconds",
				Buckets: []float64{
					0.1,   // 100us - loopback NULL
					0.5,   // 500us
					1,     // 1ms - LAN
					5,     // 5ms
					10,    // 10ms
					50,    // 50ms - WAN
					100,   // 100ms
					500,   // 500ms
					1000,  // 1s
					5000,  // 5s
					30000, // 30s - default timeout
				},
			},
			[]string{"procedure"},
		),
		callsInFlight: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nfs4wire_client_calls_in_flight",
				Help: "Number of RPC calls awaiting a reply",
			},
			[]string{"procedure"},
		),
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfs4wire_client_operations_total",
				Help: "Total number of COMPOUND operation results by op and status",
			},
			[]string{"op", "status"},
		),
		timeoutsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfs4wire_client_timeouts_total",
				Help: "Total number of RPC calls that timed out",
			},
			[]string{"procedure"},
		),
		unmatchedReplies: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "nfs4wire_client_unmatched_replies_total",
				Help: "Total number of replies dropped because no call was pending for their XID",
			},
		),
		bytesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfs4wire_client_bytes_total",
				Help: "Total bytes moved over the connection by direction",
			},
			[]string{"direction"}, // "sent", "received"
		),
		connectionEvents: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfs4wire_client_connection_events_total",
				Help: "Connection state transitions",
			},
			[]string{"event"},
		),
	}
}

func (m *clientMetrics) RecordCallStart(procedure string) {
	m.callsInFlight.WithLabelValues(procedure).Inc()
}

func (m *clientMetrics) RecordCallEnd(procedure string, duration time.Duration, status string) {
	m.callsInFlight.WithLabelValues(procedure).Dec()
	m.callsTotal.WithLabelValues(procedure, status).Inc()
	m.callDuration.WithLabelValues(procedure).Observe(float64(duration.Microseconds()) / 1000.0)
}

func (m *clientMetrics) RecordOperation(op string, status string) {
	m.operationsTotal.WithLabelValues(op, status).Inc()
}

func (m *clientMetrics) RecordTimeout(procedure string) {
	m.timeoutsTotal.WithLabelValues(procedure).Inc()
}

func (m *clientMetrics) RecordUnmatchedReply() {
	m.unmatchedReplies.Inc()
}

func (m *clientMetrics) RecordBytes(direction string, bytes int) {
	if bytes <= 0 {
		return
	}
	m.bytesTotal.WithLabelValues(direction).Add(float64(bytes))
}

func (m *clientMetrics) RecordConnection(event string) {
	m.connectionEvents.WithLabelValues(event).Inc()
}
