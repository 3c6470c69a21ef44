// Package metrics records per-run counters. A run-to-completion process has
// nothing to scrape, so the registry is written to a node_exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what the runner and notifier report into.
type Recorder interface {
	RecordFetch(tracker string, ok bool, d time.Duration)
	RecordCarsFound(tracker string, n int)
	RecordNotification(channel string, ok bool)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	registry      *prometheus.Registry
	fetches       *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec
	carsFound     *prometheus.GaugeVec
	notifications *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

// NewCollector creates a Collector on its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alerts_fetch_total",
			Help: "Entity fetches by tracker and result.",
		}, []string{"tracker", "result"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "alerts_fetch_duration_seconds",
			Help:    "Entity fetch latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tracker"}),
		carsFound: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "alerts_cars_found",
			Help: "Cars reported by the last run, per tracker.",
		}, []string{"tracker"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alerts_notification_total",
			Help: "Notification attempts by channel and result.",
		}, []string{"channel", "result"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alerts_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}
	c.registry.MustRegister(c.fetches, c.fetchLatency, c.carsFound, c.notifications, c.lastRun)
	return c
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// RecordFetch records one entity fetch.
func (c *Collector) RecordFetch(tracker string, ok bool, d time.Duration) {
	c.fetches.WithLabelValues(tracker, result(ok)).Inc()
	c.fetchLatency.WithLabelValues(tracker).Observe(d.Seconds())
}

// RecordCarsFound sets the number of cars a tracker reported.
func (c *Collector) RecordCarsFound(tracker string, n int) {
	c.carsFound.WithLabelValues(tracker).Set(float64(n))
}

// RecordNotification records a send attempt.
func (c *Collector) RecordNotification(channel string, ok bool) {
	c.notifications.WithLabelValues(channel, result(ok)).Inc()
}

// WriteTextfile stamps the run time and writes the registry atomically to path.
func (c *Collector) WriteTextfile(path string, finished time.Time) error {
	c.lastRun.Set(float64(finished.Unix()))
	return prometheus.WriteToTextfile(path, c.registry)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordFetch(string, bool, time.Duration) {}
func (Nop) RecordCarsFound(string, int)             {}
func (Nop) RecordNotification(string, bool)         {}
