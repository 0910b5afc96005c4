package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // POPUP_TIMEZONE must resolve on hosts without zoneinfo

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Default feed locations.
const (
	DefaultQuakeFeedURL    = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"
	DefaultBoundaryFeedURL = "https://raw.githubusercontent.com/fraxen/tectonicplates/master/GeoJSON/PB2002_boundaries.json"
)

// Output formats understood by the renderer.
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	QuakeFeedURL    string
	BoundaryFeedURL string
	// FeedTimeout bounds each feed request. Zero means no timeout.
	FeedTimeout time.Duration

	OutputFormat  string
	OutputPath    string
	PopupLocation *time.Location

	LogLevel        string
	LogFormat       string
	MetricsTextfile string

	// Kafka marker publishing.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaMarkerTopic string

	// Mapbox place lookup for features without a place.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// LoadDotenv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	feedTimeout, err := parseDuration("FEED_TIMEOUT", "0s", true)
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s", false)
	if err != nil {
		return nil, err
	}

	tzName := sharedcfg.EnvOrDefault("POPUP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid POPUP_TIMEZONE %q: %w", tzName, err)
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		QuakeFeedURL:    sharedcfg.EnvOrDefault("QUAKE_FEED_URL", DefaultQuakeFeedURL),
		BoundaryFeedURL: sharedcfg.EnvOrDefault("BOUNDARY_FEED_URL", DefaultBoundaryFeedURL),
		FeedTimeout:     feedTimeout,

		OutputFormat:  strings.ToLower(sharedcfg.EnvOrDefault("OUTPUT_FORMAT", FormatJSON)),
		OutputPath:    sharedcfg.EnvOrDefault("OUTPUT_PATH", "-"),
		PopupLocation: loc,

		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		KafkaEnabled:     kafkaEnabled,
		KafkaBrokers:     brokers,
		KafkaMarkerTopic: sharedcfg.EnvOrDefault("KAFKA_MARKER_TOPIC", "quake-markers"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints. Load calls it; callers that
// override fields afterwards (e.g. from CLI flags) should call it again.
func (c *Config) Validate() error {
	if c.QuakeFeedURL == "" {
		return errors.New("QUAKE_FEED_URL is required")
	}
	if c.BoundaryFeedURL == "" {
		return errors.New("BOUNDARY_FEED_URL is required")
	}
	if c.OutputFormat != FormatJSON && c.OutputFormat != FormatHTML {
		return fmt.Errorf("invalid OUTPUT_FORMAT %q: want %s or %s", c.OutputFormat, FormatJSON, FormatHTML)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if c.KafkaEnabled && c.KafkaMarkerTopic == "" {
		return errors.New("KAFKA_MARKER_TOPIC is required when Kafka is enabled")
	}
	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	return nil
}

// parseDuration reads a duration variable. Negative values are rejected;
// zero is rejected unless allowZero is set.
func parseDuration(key, fallback string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
