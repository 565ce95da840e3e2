package feed

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

type KafkaProducerConfig struct {
	Brokers      []string
	TradeTopic   string
	BatchSize    int
	BatchTimeout time.Duration
}

// KafkaProducer writes trades to a Kafka topic keyed by symbol, so one
// symbol's trades stay ordered within a partition.
type KafkaProducer struct {
	w     *kafka.Writer
	topic string
}

func NewKafkaProducer(cfg KafkaProducerConfig) *KafkaProducer {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
	}
	return &KafkaProducer{w: w, topic: cfg.TradeTopic}
}

// PublishTrade writes one trade. Async writer: errors surface through
// the writer's completion callback, not here.
func (p *KafkaProducer) PublishTrade(ctx context.Context, symbol string, trade orderbook.Trade) error {
	payload, err := json.Marshal(NewTradeMessage(symbol, trade))
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   hashKey(symbol),
		Value: payload,
		Time:  trade.Time,
	})
}

func (p *KafkaProducer) Close() error {
	return p.w.Close()
}

func hashKey(s string) []byte {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	sum := h.Sum64()
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(sum >> (56 - 8*i))
	}
	return b
}
