package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// BookingEvent is the message published for every booking lifecycle change
type BookingEvent struct {
	Type        string    `json:"type"` // booking_confirmed, booking_cancelled, booking_completed, payment_received
	BookingID   string    `json:"booking_id"`
	BookingRef  string    `json:"booking_ref"`
	UserID      string    `json:"user_id"`
	ProductType string    `json:"product_type"`
	FlightID    string    `json:"flight_id,omitempty"`
	SeatNumbers []string  `json:"seat_numbers,omitempty"`
	TotalPrice  float64   `json:"total_price"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ProducerConfig contains configuration for the Kafka booking-event producer
type ProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig(brokers []string, topic string) *ProducerConfig {
	return &ProducerConfig{
		Brokers:          brokers,
		Topic:            topic,
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaProducer publishes booking events to Kafka, keyed by booking ID so one
// booking's events keep their order within a partition.
type KafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
}

// NewKafkaProducer creates a new Kafka booking-event producer
func NewKafkaProducer(config *ProducerConfig) (*KafkaProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		config:   config,
	}, nil
}

// PublishBookingEvent publishes a single booking event
func (p *KafkaProducer) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(event.BookingID),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.OccurredAt,
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		return fmt.Errorf("publish booking event %s: %w", event.Type, err)
	}
	return nil
}

// Close shuts down the producer
func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}
