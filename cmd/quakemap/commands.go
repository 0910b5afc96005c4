package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/couchcryptid/quake-map/internal/adapter/feed"
	kafkaadapter "github.com/couchcryptid/quake-map/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map/internal/adapter/render"
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/pipeline"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quakemap",
		Short:         "Render recent earthquakes and plate boundaries as an interactive map",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(), newLegendCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch both feeds and write the composed map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotenv(); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("format") {
				cfg.OutputFormat = strings.ToLower(format)
			}
			if cmd.Flags().Changed("out") {
				cfg.OutputPath = out
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := observability.NewLogger(cfg)
			metrics := observability.NewMetrics()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return renderMap(ctx, cfg, cmd.OutOrStdout(), logger, metrics)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatJSON, "output format (json or html), overrides OUTPUT_FORMAT")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout, overrides OUTPUT_PATH")
	return cmd
}

func newLegendCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Print the depth legend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeLegend(cmd.OutOrStdout(), domain.DefaultLegend(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the legend as JSON")
	return cmd
}

// renderMap runs the pipeline once and writes the result. Nothing is written
// when the run fails, including a failed marker publish. Metrics are flushed
// either way.
func renderMap(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger, metrics *observability.Metrics) error {
	if cfg.MetricsTextfile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
				logger.Error("metrics textfile write failed", "path", cfg.MetricsTextfile, "error", werr)
			}
		}()
	}

	var opts []pipeline.Option

	// Place lookup is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		opts = append(opts, pipeline.WithPlaceResolver(mapbox.NewCachedResolver(client, cfg.MapboxCacheSize, metrics)))
		logger.Info("mapbox place lookup enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	}

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if cerr := writer.Close(); cerr != nil {
				logger.Error("kafka writer close error", "error", cerr)
			}
		}()
		opts = append(opts, pipeline.WithMarkerSink(writer))
		logger.Info("kafka marker publishing enabled", "topic", cfg.KafkaMarkerTopic)
	}

	source := feed.NewClient(cfg.QuakeFeedURL, cfg.BoundaryFeedURL, cfg.FeedTimeout, logger, metrics)
	renderer := pipeline.NewRenderer(cfg.PopupLocation, metrics)
	p := pipeline.New(source, source, renderer, logger, metrics, opts...)

	view, err := p.Run(ctx)
	if err != nil {
		logger.Error("map run failed", "state", p.State().String(), "error", err)
		return err
	}

	if err := writeOutput(cfg.OutputPath, stdout, cfg.OutputFormat, view); err != nil {
		return err
	}
	logger.Info("map written", "format", cfg.OutputFormat, "path", cfg.OutputPath)
	return nil
}

func writeOutput(path string, stdout io.Writer, format string, view *mapview.View) (err error) {
	if path == "" || path == "-" {
		return render.Write(stdout, format, view)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return render.Write(f, format, view)
}

func writeLegend(w io.Writer, legend domain.Legend, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(legend)
	}

	fmt.Fprintf(w, "%s (%s)\n", legend.Title, legend.Position)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range legend.Entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.Label, e.Color)
	}
	return tw.Flush()
}
