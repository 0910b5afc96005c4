package pipeline_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nan() float64 { return math.NaN() }

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRenderer_Markers_RecordsMetrics(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	r := pipeline.NewRenderer(nil, metrics)

	markers := r.Markers([]domain.Quake{
		{ID: "a", Magnitude: 5, Depth: 95},
		{ID: "b", Magnitude: nan(), Depth: 95},
		{ID: "c", Magnitude: -0.5, Depth: 0},
	})

	require.Len(t, markers, 3)
	assert.Equal(t, 3.0, counterValue(t, metrics.MarkersRendered))
	assert.Equal(t, 2.0, counterValue(t, metrics.MarkersInvisible))
	assert.Equal(t, 2.0, counterValue(t, metrics.MarkersByDepth.WithLabelValues("Over 90")))
	assert.Equal(t, 1.0, counterValue(t, metrics.MarkersByDepth.WithLabelValues("-10 – 10")))
}

func TestRenderer_PopupTimezone(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	r := pipeline.NewRenderer(loc, observability.NewMetricsForTesting())

	ts := time.Date(2024, time.January, 1, 7, 10, 0, 0, time.UTC)
	markers := r.Markers([]domain.Quake{{Time: ts.UnixMilli(), Magnitude: 7.5, Depth: 10}})

	require.Len(t, markers, 1)
	assert.Equal(t, "1/1/2024, 4:10:00 PM", markers[0].Popup.Date)
}

func TestRenderer_Compose(t *testing.T) {
	r := pipeline.NewRenderer(nil, observability.NewMetricsForTesting())

	view := r.Compose([]domain.Quake{{ID: "a", Magnitude: 2, Depth: 33}}, json.RawMessage(`{"type":"FeatureCollection","features":[]}`))

	require.Len(t, view.Markers(), 1)
	assert.Equal(t, domain.ColorOver30, view.Markers()[0].FillColor)
	assert.Equal(t, domain.DefaultLegend(), view.Legend())
	assert.False(t, view.GeneratedAt().IsZero())
}
