// Package broker publishes resolved reports to a message broker so other
// tools can follow CI results as they are produced.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ReportsTopic carries one JSON report per resolved build, keyed by build URL.
const ReportsTopic = "cisleuth.reports"

// ErrClosed is returned by operations on a closed broker.
var ErrClosed = errors.New("broker is closed")

// Broker abstracts message publishing and consumption.
type Broker interface {
	// Publish sends a message to a topic. key selects the partition on
	// Kafka-compatible brokers and is carried as-is in memory.
	Publish(ctx context.Context, topic string, key string, value []byte) error

	// Subscribe returns a channel of messages on topic. The channel closes
	// when ctx is done or the broker is closed.
	Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error)

	Close() error
}

// Message is a consumed message.
type Message struct {
	Topic     string
	Key       string
	Value     []byte
	Offset    int64
	Partition int32
	Timestamp int64
}

// PublishJSON marshals v and publishes it under key.
func PublishJSON(ctx context.Context, b Broker, topic, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message for %s: %w", topic, err)
	}
	return b.Publish(ctx, topic, key, data)
}
