package timeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Mirror publishes activity log events to a Kafka topic so an external
// collector can tail the dashboard's audit trail. Optional; disabled by
// default.
type Mirror struct {
	writer *kafka.Writer
}

// NewMirror creates a mirror writing to topic on the given brokers
// (comma-separated host:port list).
func NewMirror(brokers, topic string) *Mirror {
	return &Mirror{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(strings.Split(brokers, ",")...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

// Publish writes one event, keyed by its event id.
func (m *Mirror) Publish(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return m.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.EventID),
		Value: value,
		Time:  ev.Timestamp,
	})
}

// Close flushes and closes the underlying writer.
func (m *Mirror) Close() error {
	return m.writer.Close()
}
