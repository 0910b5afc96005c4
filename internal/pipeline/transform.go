package pipeline

import (
	"encoding/json"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/couchcryptid/quake-map/internal/observability"
)

// Renderer turns decoded features into a composed map view.
type Renderer struct {
	loc     *time.Location
	buckets []domain.DepthBucket
	metrics *observability.Metrics
}

// NewRenderer creates a Renderer that formats popup times in loc.
// A nil loc means UTC.
func NewRenderer(loc *time.Location, metrics *observability.Metrics) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{
		loc:     loc,
		buckets: domain.DefaultBuckets(),
		metrics: metrics,
	}
}

// Markers renders one marker per quake and records per-bucket counts.
func (r *Renderer) Markers(quakes []domain.Quake) []domain.Marker {
	markers := domain.RenderMarkers(quakes, r.loc)
	for i, m := range markers {
		r.metrics.MarkersByDepth.WithLabelValues(domain.BucketLabel(quakes[i].Depth)).Inc()
		if !m.Visible() {
			r.metrics.MarkersInvisible.Inc()
		}
	}
	r.metrics.MarkersRendered.Add(float64(len(markers)))
	return markers
}

// Compose renders the markers and legend and assembles the map view.
func (r *Renderer) Compose(quakes []domain.Quake, boundaries json.RawMessage) *mapview.View {
	markers := r.Markers(quakes)
	legend := domain.BuildLegend(r.buckets)
	return mapview.Compose(markers, boundaries, legend, mapview.WithGeneratedAt(domain.Now()))
}
