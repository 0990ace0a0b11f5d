package kafka

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Message is a keyed record destined for a topic.
type Message struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	out := make([]kafkago.Message, 0, len(msgs))
	for _, m := range msgs {
		headers := make([]kafkago.Header, 0, len(m.Headers))
		for k, v := range m.Headers {
			headers = append(headers, kafkago.Header{Key: k, Value: []byte(v)})
		}
		out = append(out, kafkago.Message{
			Key:     []byte(m.Key),
			Value:   m.Value,
			Headers: headers,
			Time:    time.Now().UTC(),
		})
	}

	if err := p.writer.WriteMessages(ctx, out...); err != nil {
		return fmt.Errorf("writing kafka messages: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
