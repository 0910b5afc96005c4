package domain

import (
	"context"
	"log/slog"
)

// PlaceResolver looks up a human-readable place name for a coordinate.
type PlaceResolver interface {
	// ResolvePlace returns a place name, or "" when the provider has none.
	ResolvePlace(ctx context.Context, lat, lon float64) (string, error)
}

// EnrichPlaces fills in the place of quakes the feed left blank. It returns
// a new slice and never modifies the input. With a nil resolver the quakes
// are returned unchanged. Lookup failures are logged and the place stays
// empty, so enrichment can only add information.
func EnrichPlaces(ctx context.Context, quakes []Quake, resolver PlaceResolver, logger *slog.Logger) []Quake {
	out := make([]Quake, len(quakes))
	copy(out, quakes)
	if resolver == nil {
		return out
	}

	for i := range out {
		if out[i].Place != "" {
			continue
		}
		if ctx.Err() != nil {
			return out
		}
		place, err := resolver.ResolvePlace(ctx, out[i].Lat, out[i].Lon)
		if err != nil {
			logger.Warn("place lookup failed",
				"feature_id", out[i].ID,
				"lat", out[i].Lat,
				"lon", out[i].Lon,
				"error", err,
			)
			continue
		}
		out[i].Place = place
	}
	return out
}
