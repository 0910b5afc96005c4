package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes rendered markers to a Kafka topic.
// It implements pipeline.MarkerSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured marker topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaMarkerTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishMarkers writes all markers in a single WriteMessages call. Messages
// are keyed by feature ID so re-publishing the same quake lands on the same
// partition.
func (w *Writer) PublishMarkers(ctx context.Context, markers []domain.Marker) error {
	if len(markers) == 0 {
		return nil
	}
	renderedAt := domain.Now()
	msgs := make([]kafkago.Message, len(markers))
	for i := range markers {
		msg, err := serializeToMessage(markers[i], renderedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish markers: %w", err)
	}
	w.logger.Debug("markers published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Marker into a Kafka message.
func serializeToMessage(m domain.Marker, renderedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize marker %q: %w", m.FeatureID, err)
	}
	return kafkago.Message{
		Key:   []byte(m.FeatureID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "fill_color", Value: []byte(m.FillColor)},
			{Key: "visible", Value: []byte(strconv.FormatBool(m.Visible()))},
			{Key: "rendered_at", Value: []byte(renderedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
