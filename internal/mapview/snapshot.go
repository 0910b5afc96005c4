package mapview

import (
	"encoding/json"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// BaseLayerState is a base layer together with its selection flag.
type BaseLayerState struct {
	TileLayer
	Active bool `json:"active"`
}

// OverlayState is an overlay name together with its visibility.
type OverlayState struct {
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
}

// LayerControl describes the layer switcher shown on the map.
type LayerControl struct {
	Position   string           `json:"position"`
	BaseLayers []BaseLayerState `json:"base_layers"`
	Overlays   []OverlayState   `json:"overlays"`
}

// MarkerState is a marker together with its labelled popup lines and its
// drawing flags. Visible is false for markers with no drawable radius;
// InBounds is false for markers outside the viewport's pan limits.
type MarkerState struct {
	domain.Marker
	PopupLines []string `json:"popup_lines"`
	Visible    bool     `json:"visible"`
	InBounds   bool     `json:"in_bounds"`
}

// Document is the serialisable form of a View handed to renderers.
type Document struct {
	GeneratedAt  *time.Time      `json:"generated_at,omitempty"`
	Viewport     Viewport        `json:"viewport"`
	LayerControl LayerControl    `json:"layer_control"`
	Markers      []MarkerState   `json:"markers"`
	Boundaries   json.RawMessage `json:"boundaries"`
	Legend       domain.Legend   `json:"legend"`
}

// Snapshot captures the view's current layer state as a Document. The base
// layer and overlay flags are read under one lock.
func (v *View) Snapshot() Document {
	v.mu.RLock()
	bases := make([]BaseLayerState, 0, len(v.baseLayers))
	for _, l := range v.baseLayers {
		bases = append(bases, BaseLayerState{TileLayer: l, Active: l.Name == v.active})
	}
	overlays := make([]OverlayState, 0, 2)
	for _, name := range []string{QuakeOverlay, BoundaryOverlay} {
		overlays = append(overlays, OverlayState{Name: name, Visible: v.overlays[name]})
	}
	v.mu.RUnlock()

	markers := make([]MarkerState, 0, len(v.markers))
	for _, m := range v.markers {
		markers = append(markers, MarkerState{
			Marker:     m,
			PopupLines: m.Popup.Lines(),
			Visible:    m.Visible(),
			InBounds:   v.viewport.MaxBounds.Contains(LatLng{Lat: m.Lat, Lng: m.Lon}),
		})
	}

	doc := Document{
		Viewport: v.viewport,
		LayerControl: LayerControl{
			Position:   ControlPosition,
			BaseLayers: bases,
			Overlays:   overlays,
		},
		Markers:    markers,
		Boundaries: v.Boundaries(),
		Legend:     v.Legend(),
	}
	if len(doc.Boundaries) == 0 {
		doc.Boundaries = json.RawMessage("null")
	}
	if !v.generatedAt.IsZero() {
		ts := v.generatedAt.UTC()
		doc.GeneratedAt = &ts
	}
	return doc
}
