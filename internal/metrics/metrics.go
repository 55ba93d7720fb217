// Package metrics records Spotify API usage and resolution outcomes.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the collectors for one CLI run. It implements
// spotify.Observer.
type Recorder struct {
	registry *prometheus.Registry

	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	ResolutionsTotal   *prometheus.CounterVec
	TracksResolved     *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracklist_api_requests_total",
				Help: "Spotify HTTP requests by endpoint and status code (0 = no response)",
			},
			[]string{"endpoint", "code"},
		),
		APIRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tracklist_api_request_duration_seconds",
				Help:    "Spotify HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracklist_resolutions_total",
				Help: "URL resolutions by kind and result",
			},
			[]string{"kind", "result"},
		),
		TracksResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracklist_tracks_resolved_total",
				Help: "Tracks returned by successful resolutions",
			},
			[]string{"kind"},
		),
	}

	r.registry.MustRegister(
		r.APIRequestsTotal,
		r.APIRequestDuration,
		r.ResolutionsTotal,
		r.TracksResolved,
	)

	return r
}

// ObserveRequest records one Spotify HTTP round trip.
func (r *Recorder) ObserveRequest(endpoint string, code int, elapsed time.Duration) {
	r.APIRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	r.APIRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveResolution records the outcome of resolving one URL.
func (r *Recorder) ObserveResolution(kind string, tracks int, err error) {
	if err != nil {
		r.ResolutionsTotal.WithLabelValues(kind, "error").Inc()
		return
	}
	r.ResolutionsTotal.WithLabelValues(kind, "success").Inc()
	r.TracksResolved.WithLabelValues(kind).Add(float64(tracks))
}

// Registry exposes the underlying registry, e.g. for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteFile writes all metrics in text exposition format, suitable for
// node_exporter's textfile collector.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
