// Package notify hands committed StatusChanged events to the notification
// dispatcher: a Kafka topic in production, the log in development.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"

	"github.com/IBM/sarama"
)

// KafkaConfig configures the producer. Brokers is a comma separated list.
type KafkaConfig struct {
	Brokers  string        `mapstructure:"brokers"`
	Topic    string        `mapstructure:"topic"`
	ClientID string        `mapstructure:"client_id"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// NewSyncProducer builds an idempotent-ready producer that waits for all
// in-sync replicas, so a returned nil error means the batch is durable.
func NewSyncProducer(cfg KafkaConfig) (sarama.SyncProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.ClientID
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	if cfg.Timeout > 0 {
		saramaConfig.Net.DialTimeout = cfg.Timeout
		saramaConfig.Net.ReadTimeout = cfg.Timeout
		saramaConfig.Net.WriteTimeout = cfg.Timeout
	}

	brokers := strings.Split(cfg.Brokers, ",")
	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer for %v: %w", brokers, err)
	}
	return producer, nil
}

// KafkaPublisher writes one message per event, keyed by order id so every
// event of an order lands on the same partition in order.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

var _ ports.NotificationPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events []order.StatusChanged) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	messages := make([]*sarama.ProducerMessage, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", event.EventID, err)
		}
		messages = append(messages, &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(event.OrderID.String()),
			Value: sarama.ByteEncoder(payload),
			Headers: []sarama.RecordHeader{
				{Key: []byte("event-name"), Value: []byte(event.EventName())},
				{Key: []byte("event-id"), Value: []byte(event.EventID.String())},
			},
			Timestamp: event.Timestamp,
		})
	}

	if err := p.producer.SendMessages(messages); err != nil {
		var producerErrs sarama.ProducerErrors
		if errors.As(err, &producerErrs) && len(producerErrs) > 0 {
			return fmt.Errorf("publish %d of %d events failed: %w", len(producerErrs), len(events), producerErrs[0].Err)
		}
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
