// Package feed fetches the earthquake and plate-boundary GeoJSON datasets.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
)

// Dataset labels used in logs and metrics.
const (
	DatasetQuakes     = "quakes"
	DatasetBoundaries = "boundaries"
)

// maxFeedBytes caps a single feed body. all_month.geojson is roughly 10 MB.
const maxFeedBytes = 64 << 20

// Client retrieves both datasets over HTTP. It does not retry; a failed
// request is returned to the caller as is.
type Client struct {
	httpClient  *http.Client
	quakeURL    string
	boundaryURL string
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewClient creates a feed client. A zero timeout leaves requests unbounded
// apart from context cancellation.
func NewClient(quakeURL, boundaryURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		quakeURL:    quakeURL,
		boundaryURL: boundaryURL,
		logger:      logger,
		metrics:     metrics,
	}
}

// FetchQuakes downloads and decodes the earthquake feature collection.
func (c *Client) FetchQuakes(ctx context.Context) ([]domain.Quake, error) {
	start := domain.Now()
	body, err := c.get(ctx, c.quakeURL, DatasetQuakes)
	if err != nil {
		c.observe(DatasetQuakes, start, err)
		return nil, err
	}

	quakes, err := domain.ParseQuakes(body)
	c.observe(DatasetQuakes, start, err)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("feed fetched", "dataset", DatasetQuakes, "features", len(quakes), "bytes", len(body))
	return quakes, nil
}

// FetchBoundaries downloads the plate-boundary collection. The geometry is
// passed through untouched; only well-formedness is checked.
func (c *Client) FetchBoundaries(ctx context.Context) (json.RawMessage, error) {
	start := domain.Now()
	body, err := c.get(ctx, c.boundaryURL, DatasetBoundaries)
	if err == nil {
		err = checkGeoJSON(body)
	}
	c.observe(DatasetBoundaries, start, err)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("feed fetched", "dataset", DatasetBoundaries, "bytes", len(body))
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, url, dataset string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", dataset, err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s feed request: %w", dataset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s feed error: status %d: %s", dataset, resp.StatusCode, snippet)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s feed: %w", dataset, err)
	}
	if len(body) > maxFeedBytes {
		return nil, fmt.Errorf("%s feed exceeds %d bytes", dataset, maxFeedBytes)
	}
	c.metrics.FeedBytes.WithLabelValues(dataset).Add(float64(len(body)))
	return body, nil
}

func (c *Client) observe(dataset string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.FeedFetches.WithLabelValues(dataset, outcome).Inc()
	c.metrics.FeedFetchDuration.WithLabelValues(dataset).Observe(domain.Since(start).Seconds())
}

// checkGeoJSON verifies the body is a JSON object with a GeoJSON type.
func checkGeoJSON(body []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return fmt.Errorf("parse boundary feed: %w", err)
	}
	if head.Type == "" {
		return errors.New("parse boundary feed: missing GeoJSON type")
	}
	return nil
}
