package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// rawCollection is the subset of a USGS GeoJSON FeatureCollection we read.
type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	ID         string        `json:"id"`
	Properties rawProperties `json:"properties"`
	Geometry   rawGeometry   `json:"geometry"`
}

type rawProperties struct {
	Mag   *float64 `json:"mag"`
	Place *string  `json:"place"`
	Time  int64    `json:"time"`
	URL   string   `json:"url"`
	Title string   `json:"title"`
}

type rawGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}

// Quake is a single earthquake point feature.
type Quake struct {
	ID        string
	Lat       float64
	Lon       float64
	Depth     float64 // km, NaN when the feed omits it
	Magnitude float64 // NaN when null
	Place     string
	Time      int64 // epoch milliseconds
	URL       string
	Title     string
}

// OccurredAt converts the epoch-millisecond timestamp to a time.Time in UTC.
func (q Quake) OccurredAt() time.Time {
	return time.UnixMilli(q.Time).UTC()
}

// HasMagnitude reports whether the feed carried a usable magnitude.
func (q Quake) HasMagnitude() bool {
	return isFinite(q.Magnitude)
}

// HasDepth reports whether the feed carried a depth coordinate.
func (q Quake) HasDepth() bool {
	return isFinite(q.Depth)
}

// ParseQuakes decodes a USGS GeoJSON FeatureCollection into quakes.
// Every feature yields exactly one Quake, in feed order; missing fields
// degrade to zero values or NaN rather than failing the decode.
func ParseQuakes(data []byte) ([]Quake, error) {
	var fc rawCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse quake feed: %w", err)
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("parse quake feed: unexpected GeoJSON type %q", fc.Type)
	}

	quakes := make([]Quake, 0, len(fc.Features))
	for _, f := range fc.Features {
		quakes = append(quakes, toQuake(f))
	}
	return quakes, nil
}

func toQuake(f rawFeature) Quake {
	q := Quake{
		ID:        f.ID,
		Depth:     math.NaN(),
		Magnitude: math.NaN(),
		Time:      f.Properties.Time,
		URL:       f.Properties.URL,
		Title:     f.Properties.Title,
	}

	coords := f.Geometry.Coordinates
	if len(coords) >= 2 {
		q.Lon = coords[0]
		q.Lat = coords[1]
	}
	if len(coords) >= 3 {
		q.Depth = coords[2]
	}
	if f.Properties.Mag != nil {
		q.Magnitude = *f.Properties.Mag
	}
	if f.Properties.Place != nil {
		q.Place = *f.Properties.Place
	}
	return q
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
