package render

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBoundaries = `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"Name":"AF-AN"},"geometry":{"type":"LineString","coordinates":[[-0.4,-54.8],[0.1,-54.5]]}}]}`

func testView(place string) *mapview.View {
	markers := domain.RenderMarkers([]domain.Quake{
		{ID: "us1", Lat: -6.5, Lon: 123, Magnitude: 6.5, Depth: 45, Place: place},
	}, nil)
	return mapview.Compose(markers, json.RawMessage(testBoundaries), domain.DefaultLegend(),
		mapview.WithGeneratedAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testView("Test Region")))

	var doc mapview.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Markers, 1)
	assert.InDelta(t, 32.5, doc.Markers[0].Radius, 1e-9)
	assert.Equal(t, domain.ColorOver30, doc.Markers[0].FillColor)
	assert.Equal(t, "Test Region", doc.Markers[0].Popup.Place)
	assert.Len(t, doc.Legend.Entries, 6)
	assert.Equal(t, domain.LegendPosition, doc.Legend.Position)
	assert.JSONEq(t, testBoundaries, string(doc.Boundaries))
	require.NotNil(t, doc.GeneratedAt)
	assert.Equal(t, "2024-04-26T15:10:00Z", doc.GeneratedAt.Format(time.RFC3339))
	assert.Equal(t, mapview.ControlPosition, doc.LayerControl.Position)
}

func TestWriteJSON_ReflectsLayerState(t *testing.T) {
	view := testView("Test Region")
	require.NoError(t, view.SelectBaseLayer(mapview.TopoLayer))
	require.NoError(t, view.SetOverlayVisible(mapview.BoundaryOverlay, false))

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, view))

	var doc mapview.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	for _, b := range doc.LayerControl.BaseLayers {
		assert.Equal(t, b.Name == mapview.TopoLayer, b.Active, b.Name)
	}
	for _, o := range doc.LayerControl.Overlays {
		assert.Equal(t, o.Name == mapview.QuakeOverlay, o.Visible, o.Name)
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, testView("Test Region")))
	page := buf.String()

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, `<div id="map"></div>`)
	assert.Contains(t, page, "leaflet@"+LeafletVersion+"/dist/leaflet.js")
	assert.Contains(t, page, "L.circleMarker")
	assert.Contains(t, page, "L.geoJSON")
	assert.Contains(t, page, "L.control.layers")
	assert.Contains(t, page, "Test Region")
	assert.Contains(t, page, domain.ColorOver30)
	assert.Contains(t, page, "AF-AN")
}

func TestWriteHTML_LabelledPopupsAndHiddenMarkers(t *testing.T) {
	markers := domain.RenderMarkers([]domain.Quake{
		{ID: "us1", Lat: -6.5, Lon: 123, Magnitude: 6.5, Depth: 45, Place: "Test Region"},
		{ID: "ci2", Lat: 35.5, Lon: -117.7, Magnitude: math.NaN(), Depth: 8, Place: "Ridgecrest"},
	}, nil)
	view := mapview.Compose(markers, json.RawMessage(testBoundaries), domain.DefaultLegend())

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, view))
	page := buf.String()

	assert.Contains(t, page, `"Location: Test Region"`)
	assert.Contains(t, page, `"Date: 1/1/1970, 12:00:00 AM"`)
	assert.Contains(t, page, `"Magnitude: unknown"`)
	assert.Contains(t, page, `"feature_id":"ci2"`)
	assert.Contains(t, page, `"visible":false`)
	assert.Contains(t, page, "m.visible && m.in_bounds")
	assert.Contains(t, page, "m.popup_lines")
}

func TestWriteJSON_PopupLinesMatchPopup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testView("Test Region")))

	var doc mapview.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Markers, 1)
	assert.Equal(t, doc.Markers[0].Popup.Lines(), doc.Markers[0].PopupLines)
	assert.True(t, doc.Markers[0].Visible)
	assert.True(t, doc.Markers[0].InBounds)
}

func TestWriteHTML_EscapesFeatureText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, testView("</script><script>alert(1)</script>")))

	assert.NotContains(t, buf.String(), "<script>alert(1)")
	assert.Equal(t, 2, strings.Count(buf.String(), "</script>"))
}

func TestWriteHTML_EmptyView(t *testing.T) {
	view := mapview.Compose(nil, nil, domain.DefaultLegend())

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, view))
	assert.Contains(t, buf.String(), `"markers":[]`)
}

func TestWrite_Dispatch(t *testing.T) {
	tests := []struct {
		format  string
		prefix  string
		wantErr bool
	}{
		{format: config.FormatJSON, prefix: "{"},
		{format: config.FormatHTML, prefix: "<!DOCTYPE html>"},
		{format: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, tt.format, testView("Test Region"))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported output format")
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(buf.String(), tt.prefix))
		})
	}
}
