package mapview

// Layer names as shown in the layer control.
const (
	StreetLayer     = "Street View"
	TopoLayer       = "Topography View"
	QuakeOverlay    = "Earthquakes"
	BoundaryOverlay = "Tectonic Plates"
)

// ControlPosition is the map corner holding the layer control.
const ControlPosition = "topright"

// TileLayer is a base map sourced from an external tile provider.
type TileLayer struct {
	Name        string `json:"name"`
	URLTemplate string `json:"url_template"`
	Attribution string `json:"attribution"`
}

// StreetTiles is the OpenStreetMap standard tile layer.
var StreetTiles = TileLayer{
	Name:        StreetLayer,
	URLTemplate: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
	Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
}

// TopoTiles is the OpenTopoMap tile layer.
var TopoTiles = TileLayer{
	Name:        TopoLayer,
	URLTemplate: "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
	Attribution: `Map data: &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors, ` +
		`<a href="http://viewfinderpanoramas.org">SRTM</a> | Map style: &copy; <a href="https://opentopomap.org">OpenTopoMap</a> ` +
		`(<a href="https://creativecommons.org/licenses/by-sa/3.0/">CC-BY-SA</a>)`,
}

// LatLng is a WGS-84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a rectangular area given by its south-west and north-east corners.
type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

// Contains reports whether p lies within the bounds, edges included.
func (b Bounds) Contains(p LatLng) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
}

// Viewport holds the initial camera and the pan/zoom limits.
type Viewport struct {
	Center    LatLng  `json:"center"`
	Zoom      float64 `json:"zoom"`
	MinZoom   float64 `json:"min_zoom"`
	MaxBounds Bounds  `json:"max_bounds"`
}

// DefaultViewport centers on maritime South East Asia. MaxBounds overshoots
// the world box slightly so panning to the poles or antimeridian does not
// clip hard at the edge.
func DefaultViewport() Viewport {
	return Viewport{
		Center:  LatLng{Lat: -6.590945, Lng: 123.033573},
		Zoom:    4,
		MinZoom: 1.5,
		MaxBounds: Bounds{
			SouthWest: LatLng{Lat: -120, Lng: -210},
			NorthEast: LatLng{Lat: 120, Lng: 210},
		},
	}
}
