package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"

	"cisleuth/src/logger"
)

const clientID = "cisleuth"

// subscription identifies one consumer group member.
type subscription struct {
	topic string
	group string
}

// RedpandaBroker publishes and consumes reports on a Kafka-compatible cluster
// through franz-go. One client produces; every subscription gets its own
// consumer group client.
type RedpandaBroker struct {
	seeds    []string
	producer *kgo.Client
	log      logger.Logger

	mu        sync.RWMutex
	consumers map[subscription]*kgo.Client
	closed    bool
}

// NewRedpandaBroker connects a producer to the seed brokers, such as
// ["localhost:19092"].
func NewRedpandaBroker(seeds []string, log logger.Logger) (*RedpandaBroker, error) {
	if len(seeds) == 0 {
		return nil, errors.New("at least one broker address is required")
	}
	if log == nil {
		log = logger.NewSilentLogger()
	}

	b := &RedpandaBroker{
		seeds:     seeds,
		log:       log,
		consumers: make(map[subscription]*kgo.Client),
	}
	producer, err := kgo.NewClient(b.clientOpts(kgo.AllowAutoTopicCreation())...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redpanda producer: %w", err)
	}
	b.producer = producer
	return b, nil
}

func (b *RedpandaBroker) clientOpts(extra ...kgo.Opt) []kgo.Opt {
	return append([]kgo.Opt{kgo.SeedBrokers(b.seeds...), kgo.ClientID(clientID)}, extra...)
}

// Publish produces one record and waits until the cluster acknowledges it.
// Records with the same key land on the same partition.
func (b *RedpandaBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	rec := &kgo.Record{Topic: topic, Key: []byte(key), Value: value}
	if err := b.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	b.log.Debug("[broker] published %d bytes to %s/%d at offset %d", len(value), topic, rec.Partition, rec.Offset)
	return nil
}

// Subscribe joins group and streams topic from the group's committed offset,
// or from the start for a new group. The channel closes when ctx is done or
// the broker closes.
func (b *RedpandaBroker) Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	sub := subscription{topic: topic, group: groupID}
	if _, exists := b.consumers[sub]; exists {
		return nil, fmt.Errorf("already subscribed to %s as %s", topic, groupID)
	}

	consumer, err := kgo.NewClient(b.clientOpts(
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer for %s: %w", topic, err)
	}
	b.consumers[sub] = consumer

	out := make(chan Message, subscriberBuffer)
	go b.consume(ctx, sub, consumer, out)
	return out, nil
}

func (b *RedpandaBroker) consume(ctx context.Context, sub subscription, consumer *kgo.Client, out chan<- Message) {
	defer close(out)
	defer b.release(sub, consumer)

	for {
		fetches := consumer.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			b.log.Error("[broker] fetch %s/%d: %v", topic, partition, err)
		})

		for iter := fetches.RecordIter(); !iter.Done(); {
			select {
			case out <- messageFromRecord(iter.Next()):
			case <-ctx.Done():
				return
			}
		}
	}
}

// release closes a consumer whose subscription ended, unless Close already
// took it.
func (b *RedpandaBroker) release(sub subscription, consumer *kgo.Client) {
	b.mu.Lock()
	owned := b.consumers[sub] == consumer
	if owned {
		delete(b.consumers, sub)
	}
	b.mu.Unlock()

	if owned {
		consumer.Close()
	}
}

func messageFromRecord(rec *kgo.Record) Message {
	return Message{
		Topic:     rec.Topic,
		Key:       string(rec.Key),
		Value:     rec.Value,
		Offset:    rec.Offset,
		Partition: rec.Partition,
		Timestamp: rec.Timestamp.UnixMilli(),
	}
}

// Close shuts down the producer and every consumer. Their channels close.
func (b *RedpandaBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	consumers := b.consumers
	b.consumers = make(map[subscription]*kgo.Client)
	b.mu.Unlock()

	for _, consumer := range consumers {
		consumer.Close()
	}
	b.producer.Close()
	return nil
}

// Open returns a RedpandaBroker when brokers is non-empty, and a nil Broker
// otherwise.
func Open(brokers []string, log logger.Logger) (Broker, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	b, err := NewRedpandaBroker(brokers, log)
	if err != nil {
		return nil, err
	}
	return b, nil
}
