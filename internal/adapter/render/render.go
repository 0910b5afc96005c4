// Package render writes a composed map view as a JSON document or a
// self-contained Leaflet HTML page.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/mapview"
)

// Write renders view in the given output format.
func Write(w io.Writer, format string, view *mapview.View) error {
	switch format {
	case config.FormatJSON:
		return WriteJSON(w, view)
	case config.FormatHTML:
		return WriteHTML(w, view)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteJSON writes the view snapshot as indented JSON.
func WriteJSON(w io.Writer, view *mapview.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view.Snapshot()); err != nil {
		return fmt.Errorf("encode map document: %w", err)
	}
	return nil
}
