package journal

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
)

// NatsPublisher pushes order events onto a JetStream subject for the
// journal worker to drain. Publish is fire-and-forget async; JetStream
// holds the events until the durable consumer acks them.
type NatsPublisher struct {
	js      nats.JetStreamContext
	subject string
	log     *zap.Logger
}

func NewNatsPublisher(js nats.JetStreamContext, subject string, log *zap.Logger) *NatsPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &NatsPublisher{js: js, subject: subject, log: log}
}

// EnsureStream creates the backing stream when it does not exist yet.
func (p *NatsPublisher) EnsureStream(stream string) error {
	_, err := p.js.StreamInfo(stream)
	if err == nil {
		return nil
	}
	_, err = p.js.AddStream(&nats.StreamConfig{
		Name:     stream,
		Subjects: []string{p.subject},
	})
	return err
}

// Publish sends one event.
func (p *NatsPublisher) Publish(ev *model.OrderEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("order event marshal failed", zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(p.subject, data); err != nil {
		p.log.Warn("order event publish failed",
			zap.String("eventID", ev.EventID), zap.Error(err))
	}
}
