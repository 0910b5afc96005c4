package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/couchcryptid/quake-map/internal/mapview"
)

// LeafletVersion pins the Leaflet assets loaded by the page.
const LeafletVersion = "1.9.4"

//go:embed map.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("map").Parse(pageSource))

type pageData struct {
	Title   string
	Leaflet string
	Doc     mapview.Document
}

// WriteHTML writes a standalone page that draws the view with Leaflet.
// The document is embedded as a script value; the template escapes it.
func WriteHTML(w io.Writer, view *mapview.View) error {
	data := pageData{
		Title:   "Earthquakes",
		Leaflet: LeafletVersion,
		Doc:     view.Snapshot(),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render html page: %w", err)
	}
	return nil
}
