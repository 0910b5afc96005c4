package domain

import (
	"strconv"
	"strings"
	"time"
)

// PopupTimeLayout renders popup timestamps as "1/2/2006, 3:04:05 PM".
const PopupTimeLayout = "1/2/2006, 3:04:05 PM"

// unknownValue stands in for a missing magnitude or depth in popups.
const unknownValue = "unknown"

// Stroke is the outline style shared by every marker.
type Stroke struct {
	Color   string  `json:"color"`
	Weight  float64 `json:"weight"`
	Opacity float64 `json:"opacity"`
}

// DefaultStroke is a thin, half-transparent black outline.
var DefaultStroke = Stroke{Color: "#000", Weight: 1, Opacity: 0.5}

// Popup is the informational text bound to a marker, already formatted
// for display.
type Popup struct {
	Place     string `json:"place"`
	Date      string `json:"date"`
	Magnitude string `json:"magnitude"`
	Depth     string `json:"depth"`
}

// Lines returns the popup as labelled display lines.
func (p Popup) Lines() []string {
	return []string{
		"Location: " + p.Place,
		"Date: " + p.Date,
		"Magnitude: " + p.Magnitude,
		"Depth: " + p.Depth,
	}
}

func (p Popup) String() string {
	return strings.Join(p.Lines(), "\n")
}

// Marker is a styled circle marker derived from one quake.
type Marker struct {
	FeatureID   string  `json:"feature_id,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Radius      float64 `json:"radius"`
	FillColor   string  `json:"fill_color"`
	FillOpacity float64 `json:"fill_opacity"`
	Stroke      Stroke  `json:"stroke"`
	Popup       Popup   `json:"popup"`
}

// Visible reports whether the marker has a drawable radius.
func (m Marker) Visible() bool {
	return m.Radius > 0
}

// NewPopup formats a quake's place, time, magnitude and depth. Times are
// rendered in loc; a nil loc means UTC.
func NewPopup(q Quake, loc *time.Location) Popup {
	if loc == nil {
		loc = time.UTC
	}

	p := Popup{
		Place:     q.Place,
		Date:      q.OccurredAt().In(loc).Format(PopupTimeLayout),
		Magnitude: unknownValue,
		Depth:     unknownValue,
	}
	if q.HasMagnitude() {
		p.Magnitude = formatNumber(q.Magnitude)
	}
	if q.HasDepth() {
		p.Depth = strconv.FormatFloat(q.Depth, 'f', -1, 64) + "km"
	}
	return p
}

// RenderMarker builds the marker for a single quake. It never fails: bad
// magnitudes collapse to radius 0 and bad depths take the shallow color.
func RenderMarker(q Quake, loc *time.Location) Marker {
	return Marker{
		FeatureID:   q.ID,
		Lat:         q.Lat,
		Lon:         q.Lon,
		Radius:      MarkerRadius(q.Magnitude),
		FillColor:   DepthColor(q.Depth),
		FillOpacity: 1,
		Stroke:      DefaultStroke,
		Popup:       NewPopup(q, loc),
	}
}

// RenderMarkers returns exactly one marker per quake, in input order.
func RenderMarkers(quakes []Quake, loc *time.Location) []Marker {
	markers := make([]Marker, len(quakes))
	for i := range quakes {
		markers[i] = RenderMarker(quakes[i], loc)
	}
	return markers
}
