// Package exchange routes client order flow into per-symbol matching
// engines and publishes the resulting execution reports, trades and
// book snapshots.
package exchange

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/eventstore"
	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/exchange/risk"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
	"github.com/arthur3336/orderflow-engine/pkg/pricehistory"
)

// Gateway is the client-facing surface the manager reports into: a
// FIX acceptor, a simulator, or a test double.
type Gateway interface {
	Start(ctx context.Context) error
	OnOrderReport(ctx context.Context, order model.Order)
}

// TradeHandler receives every trade as it prints.
type TradeHandler func(symbol string, trade orderbook.Trade)

// SnapshotHandler receives a book snapshot after every book mutation.
type SnapshotHandler func(symbol string, snap orderbook.Snapshot)

// ReportHandler receives every execution report alongside the gateway,
// for journaling and audit fan-out.
type ReportHandler func(order model.Order)

// bookHandle pairs one symbol's engine with its serialization mutex.
// The engine itself is single-threaded; all cross-goroutine ordering
// happens here.
type bookHandle struct {
	mu      sync.Mutex
	book    *orderbook.OrderBook
	history *pricehistory.History
}

type Manager struct {
	log     *zap.Logger
	gateway Gateway

	books  sync.Map // symbol -> *bookHandle
	orders sync.Map // orderbook.OrderID -> *model.Order

	events eventstore.EventStore
	rules  []risk.Rule

	nextOrderID atomic.Uint64
	historyCap  int

	tradeHandlers    []TradeHandler
	snapshotHandlers []SnapshotHandler
	reportHandlers   []ReportHandler
}

type Option func(*Manager)

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) { m.log = log }
}

func WithRules(rules ...risk.Rule) Option {
	return func(m *Manager) { m.rules = append(m.rules, rules...) }
}

func WithEventStore(es eventstore.EventStore) Option {
	return func(m *Manager) { m.events = es }
}

func WithHistoryCapacity(n int) Option {
	return func(m *Manager) { m.historyCap = n }
}

func NewManager(gateway Gateway, opts ...Option) *Manager {
	m := &Manager{
		log:     zap.NewNop(),
		gateway: gateway,
		events:  eventstore.NewInMemoryEventStore(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Start(ctx context.Context) error {
	if m.gateway == nil {
		return nil
	}
	return m.gateway.Start(ctx)
}

// OnTrade registers a trade handler. Register before Start; handlers
// run on the submitting goroutine under no lock.
func (m *Manager) OnTrade(h TradeHandler) {
	m.tradeHandlers = append(m.tradeHandlers, h)
}

// OnSnapshot registers a snapshot handler, same rules as OnTrade.
func (m *Manager) OnSnapshot(h SnapshotHandler) {
	m.snapshotHandlers = append(m.snapshotHandlers, h)
}

// OnReport registers a report handler, same rules as OnTrade.
func (m *Manager) OnReport(h ReportHandler) {
	m.reportHandlers = append(m.reportHandlers, h)
}

// EventStore exposes the audit trail.
func (m *Manager) EventStore() eventstore.EventStore {
	return m.events
}

func (m *Manager) handle(symbol string) *bookHandle {
	if h, ok := m.books.Load(symbol); ok {
		return h.(*bookHandle)
	}
	h, _ := m.books.LoadOrStore(symbol, &bookHandle{
		book:    orderbook.New(),
		history: pricehistory.New(m.historyCap),
	})
	return h.(*bookHandle)
}

// NewOrder validates, books and reports one incoming order. Rejections
// surface as Rejected execution reports on the returned order, not as
// errors; errors are reserved for protocol misuse.
func (m *Manager) NewOrder(ctx context.Context, req *model.NewOrderRequest) (*model.Order, error) {
	if req.ClOrdID != "" {
		if _, exists := m.events.GetOrderID(req.ClOrdID); exists {
			return nil, ErrDuplicateClOrdID
		}
	}

	order := &model.Order{
		OrderID:     orderbook.OrderID(m.nextOrderID.Add(1)),
		ClOrdID:     req.ClOrdID,
		Account:     req.Account,
		Symbol:      req.Symbol,
		Side:        req.Side,
		Type:        req.Type,
		Price:       req.Price,
		HasPrice:    req.HasPrice,
		Quantity:    req.Quantity,
		TimeInForce: req.TimeInForce,
		STPMode:     req.STPMode,
		Status:      model.OrderStatusPendingNew,
	}

	for _, rule := range m.rules {
		if err := rule.Check(order); err != nil {
			order.ApplyReject(uuid.NewString(), err.Error(), time.Now())
			m.report(ctx, order)
			m.log.Info("order rejected by risk rule",
				zap.String("clOrdID", order.ClOrdID),
				zap.String("reason", order.RejectReason))
			return order, nil
		}
	}

	m.orders.Store(order.OrderID, order)

	h := m.handle(order.Symbol)
	h.mu.Lock()
	res := h.book.Add(orderbook.Order{
		ID:          order.OrderID,
		TraderID:    order.Account,
		Side:        order.Side,
		Type:        order.Type,
		Price:       order.Price,
		HasPrice:    order.HasPrice,
		Quantity:    order.Quantity,
		TimeInForce: order.TimeInForce,
		STPMode:     order.STPMode,
	})
	snap := h.book.Snapshot()
	h.history.Record(snap)
	h.mu.Unlock()

	now := time.Now()
	if !res.Accepted {
		order.ApplyReject(uuid.NewString(), res.RejectReason, now)
		m.orders.Delete(order.OrderID)
		m.report(ctx, order)
		return order, nil
	}

	order.ApplyNew(uuid.NewString(), now)
	m.report(ctx, order)

	m.processTrades(ctx, order.Symbol, res.Trades)
	m.processSTP(ctx, order, res.STP, now)

	if order.CanCancel() && res.RemainingQuantity > 0 && order.TimeInForce != orderbook.GTC {
		order.ApplyExpire(uuid.NewString(), now)
		m.orders.Delete(order.OrderID)
		m.report(ctx, order)
	}
	if order.Status == model.OrderStatusFilled {
		m.orders.Delete(order.OrderID)
	}

	m.publishSnapshot(order.Symbol, snap)
	return order, nil
}

// CancelOrder pulls a working order off the book by its latest
// ClOrdID.
func (m *Manager) CancelOrder(ctx context.Context, req *model.CancelRequest) (*model.Order, error) {
	order, err := m.resolve(req.OrigClOrdID)
	if err != nil {
		return nil, err
	}
	if !order.CanCancel() {
		return nil, ErrInvalidOrderStatus
	}

	h := m.handle(order.Symbol)
	h.mu.Lock()
	ok := h.book.Cancel(order.OrderID)
	snap := h.book.Snapshot()
	h.history.Record(snap)
	h.mu.Unlock()
	if !ok {
		return nil, ErrInvalidOrderStatus
	}

	order.ApplyCancel(uuid.NewString(), req.ClOrdID, time.Now())
	m.orders.Delete(order.OrderID)
	m.report(ctx, order)
	m.publishSnapshot(order.Symbol, snap)
	return order, nil
}

// ReplaceOrder amends price and quantity under a new ClOrdID. A
// replace the engine refuses (for example one that would cross) leaves
// the order working unchanged and returns ErrReplaceRejected.
func (m *Manager) ReplaceOrder(ctx context.Context, req *model.ReplaceRequest) (*model.Order, error) {
	order, err := m.resolve(req.OrigClOrdID)
	if err != nil {
		return nil, err
	}
	if !order.CanReplace() {
		return nil, ErrInvalidOrderStatus
	}

	h := m.handle(order.Symbol)
	h.mu.Lock()
	res := h.book.Modify(order.OrderID, req.NewPrice, req.NewQuantity)
	snap := h.book.Snapshot()
	h.history.Record(snap)
	h.mu.Unlock()

	if !res.Accepted {
		return order, fmt.Errorf("%w: %s", ErrReplaceRejected, res.RejectReason)
	}

	order.ApplyReplace(uuid.NewString(), req.ClOrdID, req.NewPrice, req.NewQuantity, time.Now())
	m.report(ctx, order)
	m.publishSnapshot(order.Symbol, snap)
	return order, nil
}

// resolve finds the working order behind a ClOrdID.
func (m *Manager) resolve(clOrdID string) (*model.Order, error) {
	id, ok := m.events.GetOrderID(clOrdID)
	if !ok {
		return nil, ErrUnknownClOrdID
	}
	v, ok := m.orders.Load(id)
	if !ok {
		return nil, ErrInvalidOrderStatus
	}
	return v.(*model.Order), nil
}

func (m *Manager) processTrades(ctx context.Context, symbol string, trades []orderbook.Trade) {
	for _, trade := range trades {
		for _, id := range []orderbook.OrderID{trade.BuyOrderID, trade.SellOrderID} {
			v, ok := m.orders.Load(id)
			if !ok {
				m.log.Warn("trade references unknown order",
					zap.Uint64("orderID", uint64(id)),
					zap.Uint64("tradeID", uint64(trade.ID)))
				continue
			}
			o := v.(*model.Order)
			o.ApplyTrade(uuid.NewString(), trade.Price, trade.Quantity, trade.Time)
			if o.Status == model.OrderStatusFilled {
				m.orders.Delete(o.OrderID)
			}
			m.report(ctx, o)
		}
		for _, handler := range m.tradeHandlers {
			handler(symbol, trade)
		}
	}
}

func (m *Manager) processSTP(ctx context.Context, taker *model.Order, stp orderbook.STPResult, now time.Time) {
	if !stp.SelfTrade {
		return
	}
	m.log.Info("self-trade prevented",
		zap.String("account", taker.Account),
		zap.String("action", stp.Action))

	for _, id := range stp.CancelledOrders {
		if id == taker.OrderID {
			taker.ApplyCancel(uuid.NewString(), "", now)
			m.orders.Delete(taker.OrderID)
			m.report(ctx, taker)
			continue
		}
		if v, ok := m.orders.Load(id); ok {
			o := v.(*model.Order)
			o.ApplyCancel(uuid.NewString(), "", now)
			m.orders.Delete(o.OrderID)
			m.report(ctx, o)
		}
	}
}

func (m *Manager) report(ctx context.Context, order *model.Order) {
	snapshot := *order
	m.events.AddEvent(model.NewOrderEvent(snapshot, snapshot.TransactTime))
	if m.gateway != nil {
		m.gateway.OnOrderReport(ctx, snapshot)
	}
	for _, handler := range m.reportHandlers {
		handler(snapshot)
	}
}

func (m *Manager) publishSnapshot(symbol string, snap orderbook.Snapshot) {
	for _, handler := range m.snapshotHandlers {
		handler(symbol, snap)
	}
}

// Snapshot returns the current top of book for a symbol.
func (m *Manager) Snapshot(symbol string) (orderbook.Snapshot, error) {
	v, ok := m.books.Load(symbol)
	if !ok {
		return orderbook.Snapshot{}, ErrUnknownSymbol
	}
	h := v.(*bookHandle)
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.book.Snapshot(), nil
}

// Depth returns aggregated levels for one side of a symbol's book.
func (m *Manager) Depth(symbol string, side orderbook.Side, max int) ([]orderbook.BookLevel, error) {
	v, ok := m.books.Load(symbol)
	if !ok {
		return nil, ErrUnknownSymbol
	}
	h := v.(*bookHandle)
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.book.Depth(side, max), nil
}

// LastTradePrice is usable as a risk.PriceBandRule reference. It
// returns 0 for unknown symbols and before the first trade.
func (m *Manager) LastTradePrice(symbol string) orderbook.Price {
	v, ok := m.books.Load(symbol)
	if !ok {
		return 0
	}
	h := v.(*bookHandle)
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.book.LastTradePrice()
}

// RenderBook returns the ASCII rendering of a symbol's book.
func (m *Manager) RenderBook(symbol string) (string, error) {
	v, ok := m.books.Load(symbol)
	if !ok {
		return "", ErrUnknownSymbol
	}
	h := v.(*bookHandle)
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.book.Render(), nil
}

// History returns a symbol's snapshot window.
func (m *Manager) History(symbol string) (*pricehistory.History, error) {
	v, ok := m.books.Load(symbol)
	if !ok {
		return nil, ErrUnknownSymbol
	}
	return v.(*bookHandle).history, nil
}
