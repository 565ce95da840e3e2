package feed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaConsumerConfig struct {
	Brokers []string
	GroupID string
	Topic   string
}

// KafkaTradeConsumer reads TradeMessages in a consumer group and hands
// them to a handler. A handler error leaves the offset uncommitted, so
// delivery is at-least-once across restarts.
type KafkaTradeConsumer struct {
	r   *kafka.Reader
	log *zap.Logger
}

func NewKafkaTradeConsumer(cfg KafkaConsumerConfig, log *zap.Logger) *KafkaTradeConsumer {
	if log == nil {
		log = zap.NewNop()
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.FirstOffset,
		MaxWait:     500 * time.Millisecond,
		MinBytes:    1,
		MaxBytes:    10 << 20,
	})
	return &KafkaTradeConsumer{r: r, log: log}
}

// Run fetches until ctx ends.
func (c *KafkaTradeConsumer) Run(ctx context.Context, handler func(context.Context, TradeMessage) error) error {
	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.log.Warn("kafka fetch failed", zap.Error(err))
			continue
		}

		var msg TradeMessage
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			c.log.Warn("trade message unmarshal failed",
				zap.Int64("offset", m.Offset), zap.Error(err))
			_ = c.r.CommitMessages(ctx, m)
			continue
		}

		if err := handler(ctx, msg); err != nil {
			c.log.Warn("trade handler failed, offset not committed",
				zap.Uint64("tradeID", msg.TradeID), zap.Error(err))
			continue
		}
		if err := c.r.CommitMessages(ctx, m); err != nil {
			c.log.Warn("offset commit failed", zap.Error(err))
		}
	}
}

func (c *KafkaTradeConsumer) Close() error {
	return c.r.Close()
}
