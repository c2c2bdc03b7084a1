// Package metrics exposes Prometheus metrics of the platform emulator.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the gRPC and HTTP layers report to.
type Recorder interface {
	RecordRPC(method, code string, d time.Duration)
	RecordHTTP(route string, status int)
	RecordUpload(bytes int64)
	RecordLoginThrottled()
}

// Collector is the Prometheus Recorder.
type Collector struct {
	rpcTotal       *prometheus.CounterVec
	rpcLatency     *prometheus.HistogramVec
	httpTotal      *prometheus.CounterVec
	uploadBytes    prometheus.Counter
	loginThrottled prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		rpcTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aora_rpc_requests_total",
			Help: "RPC calls by method and status code",
		}, []string{"method", "code"}),
		rpcLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aora_rpc_latency_seconds",
			Help:    "RPC handling latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aora_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"route", "status"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aora_upload_bytes_total",
			Help: "Bytes of completed uploads",
		}),
		loginThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aora_login_throttled_total",
			Help: "Login attempts rejected by the rate limiter",
		}),
	}

	reg.MustRegister(c.rpcTotal, c.rpcLatency, c.httpTotal, c.uploadBytes, c.loginThrottled)
	return c
}

func (c *Collector) RecordRPC(method, code string, d time.Duration) {
	c.rpcTotal.WithLabelValues(method, code).Inc()
	c.rpcLatency.WithLabelValues(method).Observe(d.Seconds())
}

func (c *Collector) RecordHTTP(route string, status int) {
	c.httpTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (c *Collector) RecordUpload(bytes int64) {
	c.uploadBytes.Add(float64(bytes))
}

func (c *Collector) RecordLoginThrottled() {
	c.loginThrottled.Inc()
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRPC(string, string, time.Duration) {}
func (Nop) RecordHTTP(string, int)                  {}
func (Nop) RecordUpload(int64)                      {}
func (Nop) RecordLoginThrottled()                   {}
