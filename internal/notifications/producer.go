package notifications

import (
	"context"
	"fmt"
	"time"

	"venuepass/pkg/logger"

	"github.com/IBM/sarama"
)

// TicketProducer publishes ticket lifecycle events.
type TicketProducer interface {
	PublishTicketIssued(ctx context.Context, event *TicketIssuedEvent) error
	Close() error
}

// KafkaProducerConfig contains configuration for the ticket event producer.
type KafkaProducerConfig struct {
	Brokers          []string
	TicketTopic      string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultKafkaProducerConfig returns a default producer configuration.
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		TicketTopic:      "ticket-events",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

type kafkaTicketProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaTicketProducer creates a sync producer with idempotent writes so a
// booking confirmation never emits duplicate ticket events on retry.
func NewKafkaTicketProducer(config *KafkaProducerConfig) (TicketProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps one booking's events on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaTicketProducer{
		producer: producer,
		config:   config,
	}, nil
}

func (p *kafkaTicketProducer) PublishTicketIssued(ctx context.Context, event *TicketIssuedEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal ticket event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.config.TicketTopic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(event.EventID.String())},
			{Key: []byte("event_type"), Value: []byte(event.EventType)},
			{Key: []byte("booking_ref"), Value: []byte(event.BookingRef)},
			{Key: []byte("producer"), Value: []byte("venuepass-bookings")},
		},
		Timestamp: event.IssuedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send ticket event to Kafka: %w", err)
	}

	logger.GetDefault().InfoWithContext(ctx, "ticket event published", map[string]interface{}{
		"topic":       p.config.TicketTopic,
		"partition":   partition,
		"offset":      offset,
		"booking_ref": event.BookingRef,
	})

	return nil
}

func (p *kafkaTicketProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

// NoopTicketProducer is used when Kafka is disabled; events are logged and
// dropped.
type NoopTicketProducer struct{}

func (NoopTicketProducer) PublishTicketIssued(ctx context.Context, event *TicketIssuedEvent) error {
	logger.GetDefault().DebugWithContext(ctx, "ticket event dropped, Kafka disabled", map[string]interface{}{
		"booking_ref": event.BookingRef,
	})
	return nil
}

func (NoopTicketProducer) Close() error { return nil }
