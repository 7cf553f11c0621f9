package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/clothstore/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Header names carried on every message
const (
	HeaderEventType     = "event-type"
	HeaderAggregateType = "aggregate-type"
	HeaderEventID       = "event-id"
)

// MessageWriter is the subset of *kafka.Writer used for publishing
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes domain events as JSON, keyed by aggregate ID so
// events of one order stay on one partition in order.
type KafkaPublisher struct {
	writer       MessageWriter
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewKafkaWriter builds a writer for the configured brokers and topic
func NewKafkaWriter(cfg config.EventsConfig) *kafka.Writer {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           cfg.WriteTimeout,
	}
}

// NewKafkaPublisher creates a publisher over writer
func NewKafkaPublisher(writer MessageWriter, writeTimeout time.Duration, logger *zap.Logger) *KafkaPublisher {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{
		writer:       writer,
		writeTimeout: writeTimeout,
		logger:       logger.Named("kafka"),
	}
}

// Publish writes all events in a single batch
func (p *KafkaPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := toMessage(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	// The request context may be close to its deadline; publishing gets its own timeout.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msgs...); err != nil {
		var writeErrs kafka.WriteErrors
		if errors.As(err, &writeErrs) {
			return fmt.Errorf("kafka: %d of %d messages failed: %w", writeErrs.Count(), len(msgs), err)
		}
		return fmt.Errorf("kafka: write messages: %w", err)
	}

	p.logger.Debug("Published events", zap.Int("count", len(msgs)))
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(e shared.DomainEvent) (kafka.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s event: %w", e.EventType(), err)
	}
	return kafka.Message{
		Key:   []byte(e.AggregateID().String()),
		Value: payload,
		Time:  e.OccurredAt().UTC(),
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(e.EventType())},
			{Key: HeaderAggregateType, Value: []byte(e.AggregateType())},
			{Key: HeaderEventID, Value: []byte(e.EventID().String())},
		},
	}, nil
}

var _ shared.EventPublisher = (*KafkaPublisher)(nil)
