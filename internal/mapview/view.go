// Package mapview composes rendered markers, the plate-boundary overlay and
// the depth legend into a map view with switchable layers.
package mapview

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// ErrUnknownLayer is returned when a layer name is not part of the view.
var ErrUnknownLayer = errors.New("unknown layer")

// View is one composed map. Base layers are mutually exclusive; overlays
// toggle independently. A View owns its state, so any number can coexist.
type View struct {
	viewport    Viewport
	baseLayers  []TileLayer
	markers     []domain.Marker
	boundaries  json.RawMessage
	legend      *domain.Legend
	generatedAt time.Time

	mu       sync.RWMutex
	active   string
	overlays map[string]bool
}

// Option customizes a View during composition.
type Option func(*View)

// WithGeneratedAt stamps the view with its composition time.
func WithGeneratedAt(t time.Time) Option {
	return func(v *View) { v.generatedAt = t }
}

// Compose builds a view showing the street base layer with both overlays
// visible. The legend is attached last, once the layers are in place.
func Compose(markers []domain.Marker, boundaries json.RawMessage, legend domain.Legend, opts ...Option) *View {
	v := &View{
		viewport:   DefaultViewport(),
		baseLayers: []TileLayer{StreetTiles, TopoTiles},
		markers:    append([]domain.Marker(nil), markers...),
		boundaries: append(json.RawMessage(nil), boundaries...),
		active:     StreetLayer,
		overlays: map[string]bool{
			QuakeOverlay:    true,
			BoundaryOverlay: true,
		},
	}
	for _, opt := range opts {
		opt(v)
	}

	v.attachLegend(legend)
	return v
}

func (v *View) attachLegend(l domain.Legend) {
	entries := append([]domain.LegendEntry(nil), l.Entries...)
	l.Entries = entries
	v.legend = &l
}

// Viewport returns the initial camera and limits.
func (v *View) Viewport() Viewport { return v.viewport }

// BaseLayers returns the selectable base layers in control order.
func (v *View) BaseLayers() []TileLayer {
	return append([]TileLayer(nil), v.baseLayers...)
}

// Markers returns a copy of the rendered quake markers.
func (v *View) Markers() []domain.Marker {
	return append([]domain.Marker(nil), v.markers...)
}

// Boundaries returns the plate-boundary GeoJSON as fetched.
func (v *View) Boundaries() json.RawMessage {
	return append(json.RawMessage(nil), v.boundaries...)
}

// Legend returns the attached legend.
func (v *View) Legend() domain.Legend {
	l := *v.legend
	l.Entries = append([]domain.LegendEntry(nil), v.legend.Entries...)
	return l
}

// GeneratedAt returns the composition timestamp, zero if none was set.
func (v *View) GeneratedAt() time.Time { return v.generatedAt }

// ActiveBaseLayer returns the name of the selected base layer.
func (v *View) ActiveBaseLayer() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.active
}

// SelectBaseLayer makes name the active base layer, deselecting the other.
func (v *View) SelectBaseLayer(name string) error {
	if !v.hasBaseLayer(name) {
		return fmt.Errorf("select base layer %q: %w", name, ErrUnknownLayer)
	}
	v.mu.Lock()
	v.active = name
	v.mu.Unlock()
	return nil
}

// OverlayVisible reports whether the named overlay is shown.
func (v *View) OverlayVisible(name string) (bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	visible, ok := v.overlays[name]
	if !ok {
		return false, fmt.Errorf("overlay %q: %w", name, ErrUnknownLayer)
	}
	return visible, nil
}

// SetOverlayVisible shows or hides one overlay without touching the others.
func (v *View) SetOverlayVisible(name string, visible bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.overlays[name]; !ok {
		return fmt.Errorf("set overlay %q: %w", name, ErrUnknownLayer)
	}
	v.overlays[name] = visible
	return nil
}

// ToggleOverlay flips the visibility of one overlay.
func (v *View) ToggleOverlay(name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	visible, ok := v.overlays[name]
	if !ok {
		return fmt.Errorf("toggle overlay %q: %w", name, ErrUnknownLayer)
	}
	v.overlays[name] = !visible
	return nil
}

func (v *View) hasBaseLayer(name string) bool {
	for _, l := range v.baseLayers {
		if l.Name == name {
			return true
		}
	}
	return false
}
