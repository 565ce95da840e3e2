package journal

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/feed"
)

// Worker drains the async feeds into postgres: order events from a
// durable JetStream pull consumer, trades from the Kafka topic.
type Worker struct {
	trades ITrade
	events IOrderEvent
	log    *zap.Logger
}

func NewWorker(repo IRepo, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		trades: repo.Trade(),
		events: repo.OrderEvent(),
		log:    log,
	}
}

// RunOrderEvents pulls order events until ctx ends. Events that fail
// to insert stay unacked and redeliver; inserts are idempotent.
func (w *Worker) RunOrderEvents(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	sub, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msgs, err := sub.Fetch(64, nats.Context(ctx))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			if errors.Is(err, nats.ErrTimeout) {
				continue
			}
			w.log.Warn("jetstream fetch failed", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var ev model.OrderEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				w.log.Warn("order event unmarshal failed", zap.Error(err))
				_ = msg.Ack()
				continue
			}
			if _, err := w.events.Create(ctx, NewOrderEventRow(&ev)); err != nil {
				w.log.Warn("order event insert failed",
					zap.String("eventID", ev.EventID), zap.Error(err))
				continue
			}
			_ = msg.Ack()
		}
	}
}

// HandleTrade is the Kafka consumer callback: one message, one insert.
func (w *Worker) HandleTrade(ctx context.Context, msg feed.TradeMessage) error {
	_, err := w.trades.Create(ctx, NewTradeRow(msg))
	return err
}
