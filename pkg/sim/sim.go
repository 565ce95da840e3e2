// Package sim generates random order flow against the exchange for
// demos, soak runs and benchmarks.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/arthur3336/orderflow-engine/pkg/exchange"
	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

type Config struct {
	Symbol   string
	Seed     int64
	Orders   int
	MinPrice orderbook.Price
	MaxPrice orderbook.Price
	MinQty   orderbook.Quantity
	MaxQty   orderbook.Quantity
	Accounts int
	Interval time.Duration
	// CSVOutput, when set, receives the snapshot history on Run exit.
	CSVOutput string
}

// Stats counts what the simulator saw come back from the exchange.
type Stats struct {
	Submitted uint64
	Accepted  uint64
	Rejected  uint64
	Expired   uint64
	Trades    uint64
	TradedQty uint64
	Cancels   uint64
}

// Simulator is an exchange.Gateway that talks to itself: it submits
// random orders and counts the execution reports that come back.
type Simulator struct {
	cfg Config
	log *zap.Logger
	rng *rand.Rand
	mgr *exchange.Manager

	accepted  atomic.Uint64
	rejected  atomic.Uint64
	expired   atomic.Uint64
	trades    atomic.Uint64
	tradedQty atomic.Uint64

	submitted uint64
	cancels   uint64

	// working holds ClOrdIDs of resting GTC orders, candidates for a
	// random cancel.
	working []string
}

func New(cfg Config, log *zap.Logger) *Simulator {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Accounts <= 0 {
		cfg.Accounts = 4
	}
	return &Simulator{
		cfg: cfg,
		log: log,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Bind attaches the manager the simulator drives. Call before Run.
func (s *Simulator) Bind(mgr *exchange.Manager) {
	s.mgr = mgr
	mgr.OnTrade(func(symbol string, trade orderbook.Trade) {
		s.trades.Add(1)
		s.tradedQty.Add(uint64(trade.Quantity))
	})
}

func (s *Simulator) Start(ctx context.Context) error { return nil }

func (s *Simulator) OnOrderReport(ctx context.Context, order model.Order) {
	switch order.Status {
	case model.OrderStatusNew:
		s.accepted.Add(1)
	case model.OrderStatusRejected:
		s.rejected.Add(1)
	case model.OrderStatusExpired:
		s.expired.Add(1)
	}
}

// Run submits the configured number of orders, then exports the
// snapshot history when CSVOutput is set.
func (s *Simulator) Run(ctx context.Context) (Stats, error) {
	if s.mgr == nil {
		return Stats{}, errors.New("sim: Bind was not called")
	}

	start := time.Now()
	for i := 0; i < s.cfg.Orders; i++ {
		select {
		case <-ctx.Done():
			return s.stats(), ctx.Err()
		default:
		}

		s.step(ctx, i)

		if s.cfg.Interval > 0 {
			time.Sleep(s.cfg.Interval)
		}
	}

	stats := s.stats()
	s.log.Info("simulation finished",
		zap.Uint64("submitted", stats.Submitted),
		zap.Uint64("accepted", stats.Accepted),
		zap.Uint64("rejected", stats.Rejected),
		zap.Uint64("trades", stats.Trades),
		zap.Uint64("tradedQty", stats.TradedQty),
		zap.Uint64("cancels", stats.Cancels),
		zap.Duration("elapsed", time.Since(start)))

	if s.cfg.CSVOutput != "" {
		history, err := s.mgr.History(s.cfg.Symbol)
		if err != nil {
			return stats, err
		}
		if err := history.ExportCSVFile(s.cfg.CSVOutput); err != nil {
			return stats, err
		}
		s.log.Info("snapshot history exported", zap.String("path", s.cfg.CSVOutput))
	}
	return stats, nil
}

func (s *Simulator) step(ctx context.Context, i int) {
	// One submission in twenty becomes a cancel of a resting order.
	if len(s.working) > 0 && s.rng.Intn(20) == 0 {
		s.cancelRandom(ctx, i)
		return
	}
	s.submitRandom(ctx, i)
}

func (s *Simulator) submitRandom(ctx context.Context, i int) {
	clOrdID := fmt.Sprintf("SIM-%08d", i)
	req := &model.NewOrderRequest{
		ClOrdID:      clOrdID,
		Account:      fmt.Sprintf("ACC-%03d", s.rng.Intn(s.cfg.Accounts)),
		Symbol:       s.cfg.Symbol,
		Side:         s.randomSide(),
		Type:         orderbook.Limit,
		TimeInForce:  s.randomTIF(),
		STPMode:      orderbook.STPCancelNewest,
		Quantity:     s.randomQty(),
		TransactTime: time.Now(),
	}

	// One order in twenty goes in at market.
	if s.rng.Intn(20) == 0 {
		req.Type = orderbook.Market
		req.TimeInForce = orderbook.IOC
	} else {
		req.Price = s.randomPrice()
		req.HasPrice = true
	}

	s.submitted++
	order, err := s.mgr.NewOrder(ctx, req)
	if err != nil {
		s.log.Warn("new order failed", zap.String("clOrdID", clOrdID), zap.Error(err))
		return
	}
	if order.CanCancel() && order.TimeInForce == orderbook.GTC {
		s.working = append(s.working, order.ClOrdID)
	}
}

func (s *Simulator) cancelRandom(ctx context.Context, i int) {
	idx := s.rng.Intn(len(s.working))
	origClOrdID := s.working[idx]
	s.working = append(s.working[:idx], s.working[idx+1:]...)

	_, err := s.mgr.CancelOrder(ctx, &model.CancelRequest{
		ClOrdID:      fmt.Sprintf("SIM-X-%08d", i),
		OrigClOrdID:  origClOrdID,
		TransactTime: time.Now(),
	})
	if err != nil {
		// The order filled or expired since it was recorded.
		return
	}
	s.cancels++
}

func (s *Simulator) randomSide() orderbook.Side {
	if s.rng.Intn(2) == 0 {
		return orderbook.Buy
	}
	return orderbook.Sell
}

func (s *Simulator) randomTIF() orderbook.TimeInForce {
	switch s.rng.Intn(10) {
	case 0:
		return orderbook.IOC
	case 1:
		return orderbook.FOK
	}
	return orderbook.GTC
}

func (s *Simulator) randomPrice() orderbook.Price {
	span := int64(s.cfg.MaxPrice - s.cfg.MinPrice)
	return s.cfg.MinPrice + orderbook.Price(s.rng.Int63n(span+1))
}

func (s *Simulator) randomQty() orderbook.Quantity {
	span := int64(s.cfg.MaxQty - s.cfg.MinQty)
	return s.cfg.MinQty + orderbook.Quantity(s.rng.Int63n(span+1))
}

func (s *Simulator) stats() Stats {
	return Stats{
		Submitted: s.submitted,
		Accepted:  s.accepted.Load(),
		Rejected:  s.rejected.Load(),
		Expired:   s.expired.Load(),
		Trades:    s.trades.Load(),
		TradedQty: s.tradedQty.Load(),
		Cancels:   s.cancels,
	}
}
