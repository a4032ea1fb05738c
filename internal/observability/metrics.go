package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ZoneCollector bundles Prometheus metrics for the zone pipeline and the
// HTTP surface, and provides helpers to wire them into handlers.
type ZoneCollector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	RingsComputed prometheus.Counter
	ZoneExports   *prometheus.CounterVec
	ZonesLoaded   prometheus.Gauge
}

// NewZoneCollector registers the pipeline metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewZoneCollector(reg prometheus.Registerer) (*ZoneCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rqz_http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by handler, method, and status code.",
	}, []string{"handler", "method", "code"})
	requests, err := registerCounterVec(reg, requests, "rqz_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rqz_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"handler", "method"})
	durations, err = registerHistogramVec(reg, durations, "rqz_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	rings, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rqz_rings_computed_total",
		Help: "Total number of point rings computed.",
	}), "rqz_rings_computed_total")
	if err != nil {
		return nil, err
	}

	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rqz_zone_exports_total",
		Help: "Total number of zone artifacts written, labeled by format.",
	}, []string{"format"})
	exports, err = registerCounterVec(reg, exports, "rqz_zone_exports_total")
	if err != nil {
		return nil, err
	}

	zones, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rqz_zones_loaded",
		Help: "Current number of zone definitions in the registry.",
	}), "rqz_zones_loaded")
	if err != nil {
		return nil, err
	}

	return &ZoneCollector{
		gatherer:      gatherer,
		HTTPRequests:  requests,
		HTTPDurations: durations,
		RingsComputed: rings,
		ZoneExports:   exports,
		ZonesLoaded:   zones,
	}, nil
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// InstrumentHandler records request counts and durations for an HTTP handler
// under the given name.
func (c *ZoneCollector) InstrumentHandler(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if c == nil {
			next.ServeHTTP(w, req)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, req)

		if c.HTTPRequests != nil {
			c.HTTPRequests.WithLabelValues(name, req.Method, strconv.Itoa(rec.code)).Inc()
		}
		if c.HTTPDurations != nil {
			c.HTTPDurations.WithLabelValues(name, req.Method).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *ZoneCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// RecordRing counts one computed ring.
func (c *ZoneCollector) RecordRing() {
	if c == nil || c.RingsComputed == nil {
		return
	}
	c.RingsComputed.Inc()
}

// RecordExport counts one written artifact of the given format ("txt", "gpx").
func (c *ZoneCollector) RecordExport(format string) {
	if c == nil || c.ZoneExports == nil {
		return
	}
	c.ZoneExports.WithLabelValues(format).Inc()
}

// SetZoneCount drives the zones-loaded gauge from the registry.
func (c *ZoneCollector) SetZoneCount(n int) {
	if c == nil || c.ZonesLoaded == nil {
		return
	}
	c.ZonesLoaded.Set(float64(n))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
