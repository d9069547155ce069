package broker

import (
	"context"
	"encoding/json"
	"time"

	"lifora/internal/services"

	"github.com/pkg/errors"
	kgo "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kgo.Message) error
	Close() error
}

// KafkaPublisher ships comment events to a topic, keyed by comment id so all
// events of one comment land on the same partition.
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if topic == "" {
		return nil, errors.New("kafka: topic is required")
	}
	w := &kgo.Writer{
		Addr:                   kgo.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kgo.Hash{},
		RequiredAcks:           kgo.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{w: w}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, events []services.CommentEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kgo.Message, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e)
		if err != nil {
			return errors.Wrap(err, "marshal comment event")
		}
		msgs = append(msgs, kgo.Message{
			Key:   []byte(e.CommentID),
			Value: b,
			Time:  e.At,
		})
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return errors.Wrapf(err, "write %d comment events", len(msgs))
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }
