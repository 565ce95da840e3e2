package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cenkalti/backoff"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

const redisQueueDepth = 4096

type redisEntry struct {
	stream  string
	payload []byte
}

// RedisPublisher appends trades and snapshots to per-symbol Redis
// Streams: <prefix>:trades:<symbol> and <prefix>:snapshots:<symbol>.
// Entries queue in memory; a full queue drops new entries rather than
// blocking the matching path.
type RedisPublisher struct {
	client *redis.Client
	log    *zap.Logger
	prefix string
	maxLen int64
	queue  chan redisEntry
}

func NewRedisPublisher(client *redis.Client, prefix string, maxLen int64, log *zap.Logger) *RedisPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisPublisher{
		client: client,
		log:    log,
		prefix: prefix,
		maxLen: maxLen,
		queue:  make(chan redisEntry, redisQueueDepth),
	}
}

// Run drains the queue until ctx ends. Call on its own goroutine.
func (p *RedisPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry := <-p.queue:
			p.append(ctx, entry)
		}
	}
}

func (p *RedisPublisher) append(ctx context.Context, entry redisEntry) {
	op := func() error {
		return p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: entry.stream,
			MaxLen: p.maxLen,
			Approx: true,
			Values: map[string]interface{}{"payload": entry.payload},
		}).Err()
	}
	boff := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	if err := backoff.Retry(op, boff); err != nil {
		p.log.Warn("redis stream append failed",
			zap.String("stream", entry.stream), zap.Error(err))
	}
}

func (p *RedisPublisher) enqueue(stream string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		p.log.Warn("feed payload marshal failed", zap.Error(err))
		return
	}
	select {
	case p.queue <- redisEntry{stream: stream, payload: payload}:
	default:
		p.log.Warn("redis feed queue full, dropping entry", zap.String("stream", stream))
	}
}

// PublishTrade enqueues one trade.
func (p *RedisPublisher) PublishTrade(symbol string, trade orderbook.Trade) {
	p.enqueue(fmt.Sprintf("%s:trades:%s", p.prefix, symbol), NewTradeMessage(symbol, trade))
}

// PublishSnapshot enqueues one snapshot.
func (p *RedisPublisher) PublishSnapshot(symbol string, snap orderbook.Snapshot) {
	p.enqueue(fmt.Sprintf("%s:snapshots:%s", p.prefix, symbol), NewSnapshotMessage(symbol, snap))
}
