package sink

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink 每行结果发送一条 JSON 消息，key 为 "<queue>/<node>"
type KafkaSink struct {
	writer messageWriter
}

// NewKafkaSink 创建 kafka 输出
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (s *KafkaSink) Write(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(rows))
	for _, r := range rows {
		value, err := json.Marshal(r)
		if err != nil {
			return err
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(r.Key()),
			Value: value,
		})
	}
	return s.writer.WriteMessages(ctx, messages...)
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
