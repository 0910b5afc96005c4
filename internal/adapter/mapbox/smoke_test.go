//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ResolvePlace_Land(t *testing.T) {
	c := smokeClient(t)

	// Ridgecrest, CA.
	place, err := c.ResolvePlace(context.Background(), 35.6225, -117.6709)
	require.NoError(t, err)
	assert.Contains(t, place, "California")
}

func TestSmoke_ResolvePlace_CachedTwice(t *testing.T) {
	c := NewCachedResolver(smokeClient(t), 10, observability.NewMetricsForTesting())

	first, err := c.ResolvePlace(context.Background(), 19.4069, -155.2834)
	require.NoError(t, err)
	second, err := c.ResolvePlace(context.Background(), 19.4069, -155.2834)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}
