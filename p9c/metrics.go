package p9c

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects Prometheus counters and histograms describing an
// Engine's traffic: a counter vector keyed by request message type, a
// counter vector of failures keyed by ErrorKind, a histogram of
// reply frame sizes, and a histogram of round-trip latency. Nothing
// in p9c requires Metrics; it exists for callers running a client as
// a long-lived service who want the same kind of visibility a 9P
// server gets.
type Metrics struct {
	requests  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	replySize prometheus.Histogram
	duration  prometheus.Histogram
}

// NewMetrics constructs a Metrics and registers it with reg. The
// caller passes the resulting value to an Engine via WithMetrics.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "9P requests sent, by message type code.",
		}, []string{"type"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "9P requests that failed, by error taxonomy kind.",
		}, []string{"kind"}),
		replySize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_size_bytes",
			Help:      "Size, in bytes including the 7-byte header, of each reply frame.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from issuing a request to reading its matching reply.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.requests, m.errors, m.replySize, m.duration)
	return m
}

// observe records one send call's outcome: reqType and dur are always
// known; replySize is zero when the call failed before a reply header
// was read, and err is nil on success.
func (m *Metrics) observe(reqType uint8, replySize uint32, err error, dur time.Duration) {
	m.requests.WithLabelValues(messageTypeName(reqType)).Inc()
	m.duration.Observe(dur.Seconds())
	if replySize > 0 {
		m.replySize.Observe(float64(replySize))
	}
	if perr, ok := err.(*Error); ok {
		m.errors.WithLabelValues(perr.Kind.String()).Inc()
	}
}

func messageTypeName(t uint8) string {
	switch t {
	case 100:
		return "Tversion"
	case 102:
		return "Tauth"
	case 104:
		return "Tattach"
	case 108:
		return "Tflush"
	case 110:
		return "Twalk"
	case 112:
		return "Topen"
	case 114:
		return "Tcreate"
	case 116:
		return "Tread"
	case 118:
		return "Twrite"
	case 120:
		return "Tclunk"
	case 122:
		return "Tremove"
	case 124:
		return "Tstat"
	case 126:
		return "Twstat"
	default:
		return "unknown"
	}
}
