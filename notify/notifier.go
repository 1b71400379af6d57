// Package notify announces newly archived items to downstream consumers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"newsdigest/config"
	"newsdigest/logger"
	"newsdigest/types"

	"github.com/IBM/sarama"
)

// Notifier publishes the items a run added to the archive
type Notifier interface {
	Publish(ctx context.Context, runID string, items []types.NewsItem) error
	Close() error
}

// New returns a KafkaNotifier when brokers are configured, otherwise a NopNotifier.
func New(cfg config.KafkaConfig, log *logger.Logger) (Notifier, error) {
	if len(cfg.Brokers) == 0 {
		return NopNotifier{}, nil
	}
	return NewKafkaNotifier(cfg, log)
}

// NopNotifier drops every publish
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, string, []types.NewsItem) error { return nil }
func (NopNotifier) Close() error                                             { return nil }

// message is the JSON value written for each item
type message struct {
	ID    string `json:"id"`
	RunID string `json:"run_id"`
	types.NewsItem
}

// KafkaNotifier writes one record per item, keyed by link so a topic partition keeps per-article order.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaNotifier connects a synchronous producer to the configured brokers
func NewKafkaNotifier(cfg config.KafkaConfig, log *logger.Logger) (*KafkaNotifier, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return newKafkaNotifier(producer, cfg.Topic, log), nil
}

func producerConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	return saramaConfig
}

func newKafkaNotifier(producer sarama.SyncProducer, topic string, log *logger.Logger) *KafkaNotifier {
	if topic == "" {
		topic = config.DefaultKafkaTopic
	}
	if log == nil {
		log = logger.Discard()
	}
	return &KafkaNotifier{producer: producer, topic: topic, log: log}
}

// Publish sends all items as a single batch. Nothing is sent for an empty slice.
func (k *KafkaNotifier) Publish(ctx context.Context, runID string, items []types.NewsItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(items))
	for _, item := range items {
		value, err := json.Marshal(message{ID: types.GenerateID(item.Link), RunID: runID, NewsItem: item})
		if err != nil {
			return fmt.Errorf("encoding item %s: %w", item.Link, err)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: k.topic,
			Key:   sarama.StringEncoder(item.Link),
			Value: sarama.ByteEncoder(value),
			Headers: []sarama.RecordHeader{
				{Key: []byte("run_id"), Value: []byte(runID)},
			},
		})
	}

	if err := k.producer.SendMessages(msgs); err != nil {
		var perrs sarama.ProducerErrors
		if errors.As(err, &perrs) {
			return fmt.Errorf("%d of %d messages failed: %w", len(perrs), len(msgs), err)
		}
		return fmt.Errorf("publishing to %s: %w", k.topic, err)
	}

	k.log.Debug("published new items", "topic", k.topic, "count", len(msgs), "run_id", runID)
	return nil
}

func (k *KafkaNotifier) Close() error {
	return k.producer.Close()
}
