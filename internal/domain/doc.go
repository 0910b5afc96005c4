// Package domain models USGS earthquake features and the visual encodings
// used to draw them on a map.
//
// # Data Source
//
// Events come from the USGS real-time GeoJSON summary feeds, e.g.
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson.
// Each feature is a GeoJSON Point:
//
//	geometry.coordinates  [longitude, latitude, depth]
//	properties.mag        decimal magnitude, may be null
//	properties.place      free text such as "10 km SSW of Ridgecrest, CA", may be null
//	properties.time       epoch milliseconds (UTC)
//
// Depth is in kilometers and is negative for events located above sea level.
// Some feeds emit only two coordinates; the depth is then unknown and is
// carried as NaN. A null magnitude is also carried as NaN.
//
// # Visual Encoding
//
// Depth selects one of six colors by descending strict thresholds:
//
//	depth > 90  #320064
//	depth > 70  #5B2F76
//	depth > 50  #845E88
//	depth > 30  #AD8D9B
//	depth > 10  #D6BCAD
//	otherwise   #FFEBBF
//
// The lookup is total: NaN and any negative depth fall through to the last
// color. See [DepthColor].
//
// Magnitude scales the marker radius linearly (radius = magnitude * 5). An
// invalid magnitude yields radius 0, which draws nothing. Negative
// magnitudes (micro-quakes) yield a negative radius and are likewise treated
// as invisible by [Marker.Visible]. See [MarkerRadius].
//
// # Legend
//
// The legend lists the six depth buckets [-10,10) [10,30) [30,50) [50,70)
// [70,90) [90,+Inf) in ascending order. Swatch colors are sampled from
// [DepthColor] at each bucket's midpoint so the legend can never disagree
// with the markers.
package domain
