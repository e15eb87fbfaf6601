package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w MessageWriter
}

// NewKafkaWriter returns a writer for topic on brokers. Topics are created
// on first write when the broker allows it.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

// ProgressKey is the message key for ev; all events of a user share a key
// and therefore a partition.
func ProgressKey(userID int64) string {
	return fmt.Sprintf("progress.improved.%d", userID)
}

func (p *KafkaPublisher) PublishProgress(ctx context.Context, ev ProgressEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode progress event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(ProgressKey(ev.UserID)),
		Value: value,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
