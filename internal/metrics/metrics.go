package metrics

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var (
	outboundRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_requests_total",
			Help: "Total number of outbound HTTP requests to backend services.",
		},
		[]string{"code", "method", "service"},
	)
	outboundRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outbound_request_duration_seconds",
			Help:    "Duration of outbound HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "service"},
	)

	outboundRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "outbound_requests_in_flight",
			Help: "Current number of outbound HTTP requests awaiting a response.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

type instrumentedTransport struct {
	next    http.RoundTripper
	service string
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {

	start := time.Now()
	outboundRequestsInFlight.Inc()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)
	outboundRequestsInFlight.Dec()

	code := "error"
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}

	outboundRequestsTotal.WithLabelValues(code, req.Method, t.service).Inc()
	outboundRequestsDuration.WithLabelValues(req.Method, t.service).Observe(duration.Seconds())

	return resp, err
}

// InstrumentTransport wraps a RoundTripper so every request to the
// named backend service is counted and timed.
func InstrumentTransport(service string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &instrumentedTransport{next: next, service: service}
}

// Dump writes everything gathered so far in the Prometheus text
// exposition format. The CLI uses it instead of a /metrics endpoint.
func Dump(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))

	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return err
		}
	}

	return nil
}
