package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/couchcryptid/quake-map/internal/observability"
)

// ErrAlreadyStarted is returned when Run is called more than once.
var ErrAlreadyStarted = errors.New("pipeline already started")

// QuakeSource loads the earthquake point features.
type QuakeSource interface {
	FetchQuakes(ctx context.Context) ([]domain.Quake, error)
}

// BoundarySource loads the plate-boundary GeoJSON.
type BoundarySource interface {
	FetchBoundaries(ctx context.Context) (json.RawMessage, error)
}

// MarkerSink receives the rendered markers once the map is composed.
type MarkerSink interface {
	PublishMarkers(ctx context.Context, markers []domain.Marker) error
}

// State is the lifecycle of a pipeline's map.
type State int32

const (
	// StateUninitialized means the map has not been composed, either because
	// Run has not finished or because a dataset failed to load.
	StateUninitialized State = iota
	// StateRendered means the map view exists. There is no way back.
	StateRendered
)

func (s State) String() string {
	if s == StateRendered {
		return "rendered"
	}
	return "uninitialized"
}

// Pipeline loads both datasets in order and composes the map view.
type Pipeline struct {
	quakes     QuakeSource
	boundaries BoundarySource
	renderer   *Renderer
	resolver   domain.PlaceResolver
	sink       MarkerSink
	logger     *slog.Logger
	metrics    *observability.Metrics

	started atomic.Bool
	state   atomic.Int32
}

// Option configures optional pipeline stages.
type Option func(*Pipeline)

// WithPlaceResolver enables place enrichment for features without a place.
func WithPlaceResolver(r domain.PlaceResolver) Option {
	return func(p *Pipeline) { p.resolver = r }
}

// WithMarkerSink publishes rendered markers after composition.
func WithMarkerSink(s MarkerSink) Option {
	return func(p *Pipeline) { p.sink = s }
}

// New creates a Pipeline with the given sources and observability.
func New(q QuakeSource, b BoundarySource, r *Renderer, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		quakes:     q,
		boundaries: b,
		renderer:   r,
		logger:     logger,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State reports whether the map has been composed.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Run fetches the quake feed, then the boundary feed, then renders and
// composes the map. The boundary request is only issued after the quake
// feed has been decoded. Failures are not retried; the pipeline then stays
// uninitialized. Run may be called once.
func (p *Pipeline) Run(ctx context.Context) (*mapview.View, error) {
	if !p.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyStarted
	}
	start := domain.Now()

	quakes, err := p.quakes.FetchQuakes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch quakes: %w", err)
	}
	p.metrics.FeaturesLoaded.Set(float64(len(quakes)))
	p.logger.Info("quake feed loaded", "features", len(quakes))

	boundaries, err := p.boundaries.FetchBoundaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch boundaries: %w", err)
	}
	p.logger.Info("boundary feed loaded", "bytes", len(boundaries))

	if p.resolver != nil {
		quakes = domain.EnrichPlaces(ctx, quakes, p.resolver, p.logger)
	}

	view := p.renderer.Compose(quakes, boundaries)
	p.state.Store(int32(StateRendered))
	p.metrics.MapRendered.Set(1)
	p.logger.Info("map composed",
		"markers", len(view.Markers()),
		"base_layer", view.ActiveBaseLayer(),
		"duration", domain.Since(start),
	)

	if p.sink != nil {
		markers := view.Markers()
		if err := p.sink.PublishMarkers(ctx, markers); err != nil {
			return view, err
		}
		p.metrics.MarkersPublished.Add(float64(len(markers)))
	}

	return view, nil
}
