package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_map"

// Metrics holds the Prometheus counters, histograms, and gauges for a map build.
type Metrics struct {
	// Feed metrics.
	FeedFetches       *prometheus.CounterVec   // labels: dataset={quakes,boundaries}, outcome={success,error}
	FeedFetchDuration *prometheus.HistogramVec // labels: dataset
	FeedBytes         *prometheus.CounterVec   // labels: dataset

	FeaturesLoaded   prometheus.Gauge
	MarkersRendered  prometheus.Counter
	MarkersInvisible prometheus.Counter
	MarkersByDepth   *prometheus.CounterVec // labels: bucket
	MarkersPublished prometheus.Counter
	MapRendered      prometheus.Gauge

	// Place lookup metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates all map-build metrics on a dedicated registry.
// A one-shot run has no scrape endpoint; flush them with WriteTextfile.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// WriteTextfile writes the current values in the node_exporter textfile
// format. The file is written atomically. Test metrics write nothing.
func (m *Metrics) WriteTextfile(path string) error {
	if m.registry == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func newMetrics() *Metrics {
	durationBuckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

	return &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetches_total",
			Help:      "Feed requests by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		FeedFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of a feed request including decode.",
			Buckets:   durationBuckets,
		}, []string{"dataset"}),
		FeedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_bytes_total",
			Help:      "Bytes read from each feed.",
		}, []string{"dataset"}),
		FeaturesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "features_loaded",
			Help:      "Quake features decoded from the feed.",
		}),
		MarkersRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_rendered_total",
			Help:      "Markers produced, one per feature.",
		}),
		MarkersInvisible: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_invisible_total",
			Help:      "Markers with a zero or negative radius.",
		}),
		MarkersByDepth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_by_depth_total",
			Help:      "Markers per legend depth bucket.",
		}, []string{"bucket"}),
		MarkersPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_published_total",
			Help:      "Markers written to the Kafka marker topic.",
		}),
		MapRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "map_rendered",
			Help:      "1 once the map view has been composed, 0 before.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Place lookups sent to Mapbox by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Place lookup cache results.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FeedFetches,
		m.FeedFetchDuration,
		m.FeedBytes,
		m.FeaturesLoaded,
		m.MarkersRendered,
		m.MarkersInvisible,
		m.MarkersByDepth,
		m.MarkersPublished,
		m.MapRendered,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
	}
}
