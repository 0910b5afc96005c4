package domain

import (
	"math"
	"sort"
	"strconv"
)

// LegendTitle heads the depth legend.
const LegendTitle = "Depth (km)"

// LegendPosition is the map corner the legend is pinned to.
const LegendPosition = "bottomright"

// unboundedSampleOffset is added to the lower bound of an open-ended bucket
// to pick a representative depth for its swatch.
const unboundedSampleOffset = 10

// DepthBucket is a half-open depth range [Min, Max) in kilometers.
// Max is +Inf for the deepest bucket.
type DepthBucket struct {
	Min float64
	Max float64
}

// Unbounded reports whether the bucket has no upper limit.
func (b DepthBucket) Unbounded() bool {
	return math.IsInf(b.Max, 1)
}

// Sample returns a depth inside the bucket used to pick its legend color.
func (b DepthBucket) Sample() float64 {
	if b.Unbounded() {
		return b.Min + unboundedSampleOffset
	}
	return (b.Min + b.Max) / 2
}

// Label renders the bucket range for display, e.g. "10 – 30" or "Over 90".
func (b DepthBucket) Label() string {
	if b.Unbounded() {
		return "Over " + formatNumber(b.Min)
	}
	return formatNumber(b.Min) + " – " + formatNumber(b.Max)
}

// DefaultBuckets returns the six fixed depth buckets in ascending order.
func DefaultBuckets() []DepthBucket {
	return []DepthBucket{
		{Min: -10, Max: 10},
		{Min: 10, Max: 30},
		{Min: 30, Max: 50},
		{Min: 50, Max: 70},
		{Min: 70, Max: 90},
		{Min: 90, Max: math.Inf(1)},
	}
}

// LegendEntry pairs a depth bucket with its label and swatch color.
type LegendEntry struct {
	Bucket DepthBucket `json:"-"`
	Label  string      `json:"label"`
	Color  string      `json:"color"`
}

// Legend is the static depth key shown alongside the markers.
type Legend struct {
	Title    string        `json:"title"`
	Position string        `json:"position"`
	Entries  []LegendEntry `json:"entries"`
}

// BuildLegend creates one entry per bucket, ordered by ascending lower bound.
// The input slice is not modified.
func BuildLegend(buckets []DepthBucket) Legend {
	sorted := make([]DepthBucket, len(buckets))
	copy(sorted, buckets)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	entries := make([]LegendEntry, 0, len(sorted))
	for _, b := range sorted {
		entries = append(entries, LegendEntry{
			Bucket: b,
			Label:  b.Label(),
			Color:  DepthColor(b.Sample()),
		})
	}

	return Legend{
		Title:    LegendTitle,
		Position: LegendPosition,
		Entries:  entries,
	}
}

// DefaultLegend builds the legend for [DefaultBuckets].
func DefaultLegend() Legend {
	return BuildLegend(DefaultBuckets())
}

// BucketLabel returns the legend label of the bucket containing depth.
// Depths below the lowest bucket, and NaN, report the lowest bucket,
// mirroring how [DepthColor] colors them.
func BucketLabel(depth float64) string {
	buckets := DefaultBuckets()
	for i := len(buckets) - 1; i > 0; i-- {
		if depth > buckets[i].Min {
			return buckets[i].Label()
		}
	}
	return buckets[0].Label()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
