package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	quakeBody = `{"type":"FeatureCollection","features":[` +
		`{"type":"Feature","id":"us7000m1","properties":{"mag":6.5,"place":"Test Region","time":0},"geometry":{"type":"Point","coordinates":[123.0,-6.5,45]}},` +
		`{"type":"Feature","id":"hv7411","properties":{"mag":null,"place":"Hawaii","time":0},"geometry":{"type":"Point","coordinates":[-155.3,19.4,-1.2]}}]}`
	boundaryBody = `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"Name":"AU-PA"},"geometry":{"type":"LineString","coordinates":[[150,-10],[151,-11]]}}]}`

	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(quakeURL, boundaryURL string) *Client {
	return NewClient(quakeURL, boundaryURL, 5*time.Second, discardLogger(), observability.NewMetricsForTesting())
}

func TestClient_FetchQuakes_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quakes.geojson", r.URL.Path)
		assert.Contains(t, r.Header.Get("Accept"), "geo+json")
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(quakeBody))
	}))
	defer srv.Close()

	c := testClient(srv.URL+"/quakes.geojson", srv.URL+"/plates.json")
	quakes, err := c.FetchQuakes(context.Background())
	require.NoError(t, err)
	require.Len(t, quakes, 2)

	assert.Equal(t, "us7000m1", quakes[0].ID)
	assert.Equal(t, 6.5, quakes[0].Magnitude)
	assert.Equal(t, 45.0, quakes[0].Depth)
	assert.Equal(t, -6.5, quakes[0].Lat)
	assert.False(t, quakes[1].HasMagnitude())
	assert.Equal(t, -1.2, quakes[1].Depth)
}

func TestClient_FetchBoundaries_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(boundaryBody))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	raw, err := c.FetchBoundaries(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, boundaryBody, string(raw))
}

func TestClient_FetchQuakes_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("feed offline"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, err := c.FetchQuakes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "quakes")
}

func TestClient_FetchQuakes_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, err := c.FetchQuakes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse quake feed")
}

func TestClient_FetchBoundaries_NotGeoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, err := c.FetchBoundaries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing GeoJSON type")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, 50*time.Millisecond, discardLogger(), observability.NewMetricsForTesting())
	_, err := c.FetchQuakes(context.Background())
	require.Error(t, err)
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(quakeBody))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(srv.URL, srv.URL)
	_, err := c.FetchQuakes(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
