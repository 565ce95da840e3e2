// Package fixgateway exposes the exchange over a FIX 4.4 acceptor:
// NewOrderSingle, OrderCancelRequest and OrderCancelReplaceRequest in,
// ExecutionReports and OrderCancelRejects out.
package fixgateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/fix44/ordercancelreject"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

// OrderEntry is the slice of the exchange manager the gateway drives.
type OrderEntry interface {
	NewOrder(ctx context.Context, req *model.NewOrderRequest) (*model.Order, error)
	CancelOrder(ctx context.Context, req *model.CancelRequest) (*model.Order, error)
	ReplaceOrder(ctx context.Context, req *model.ReplaceRequest) (*model.Order, error)
}

type Config struct {
	SettingsFile string
	Dispatch     DispatchMode
}

type newOrderSingle struct {
	sessionID    quickfix.SessionID
	clOrdID      string
	account      string
	symbol       string
	side         enum.Side
	ordType      enum.OrdType
	price        decimal.Decimal
	orderQty     decimal.Decimal
	timeInForce  enum.TimeInForce
	stpMode      int
	transactTime time.Time
}

type orderCancelRequest struct {
	sessionID    quickfix.SessionID
	clOrdID      string
	origClOrdID  string
	transactTime time.Time
}

type orderCancelReplaceRequest struct {
	sessionID    quickfix.SessionID
	clOrdID      string
	origClOrdID  string
	price        decimal.Decimal
	orderQty     decimal.Decimal
	transactTime time.Time
}

// Gateway is the exchange.Gateway implementation backed by quickfix.
// It tracks which session entered each ClOrdID so reports route back
// to their owner.
type Gateway struct {
	cfg      Config
	entry    OrderEntry
	log      *zap.Logger
	app      *Application
	acceptor *quickfix.Acceptor

	sessions sync.Map // clOrdID -> quickfix.SessionID
}

func NewGateway(cfg Config, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Dispatch == "" {
		cfg.Dispatch = DispatchChannel
	}
	return &Gateway{cfg: cfg, log: log}
}

// Bind attaches the order entry the gateway drives. Call before Start.
func (g *Gateway) Bind(entry OrderEntry) {
	g.entry = entry
}

// Start brings the acceptor up; it returns once listening.
func (g *Gateway) Start(ctx context.Context) error {
	if g.entry == nil {
		return errors.New("fixgateway: Bind was not called")
	}
	g.app = newApplication(g, g.cfg.Dispatch, g.log)
	acceptor, err := startAcceptor(g.cfg.SettingsFile, g.app)
	if err != nil {
		return err
	}
	g.acceptor = acceptor
	return nil
}

func (g *Gateway) Stop() {
	if g.acceptor != nil {
		g.acceptor.Stop()
	}
}

// OnOrderReport sends one execution report to the session that owns
// the order's ClOrdID.
func (g *Gateway) OnOrderReport(ctx context.Context, order model.Order) {
	v, ok := g.sessions.Load(order.ClOrdID)
	if !ok && order.OrigClOrdID != "" {
		v, ok = g.sessions.Load(order.OrigClOrdID)
	}
	if !ok {
		g.log.Warn("no session for order report", zap.String("clOrdID", order.ClOrdID))
		return
	}
	sessionID := v.(quickfix.SessionID)

	if err := sendExecutionReport(order, sessionID); err != nil {
		g.log.Warn("send execution report failed",
			zap.String("clOrdID", order.ClOrdID), zap.Error(err))
	}
}

func (g *Gateway) handleNewOrderSingle(req *newOrderSingle) {
	g.sessions.Store(req.clOrdID, req.sessionID)

	reject := func(reason string) {
		g.rejectNewOrder(req, reason)
	}

	side, err := sideFromFIX(req.side)
	if err != nil {
		reject(err.Error())
		return
	}
	ordType, err := ordTypeFromFIX(req.ordType)
	if err != nil {
		reject(err.Error())
		return
	}
	tif, err := tifFromFIX(req.timeInForce, ordType)
	if err != nil {
		reject(err.Error())
		return
	}
	stpMode, err := stpModeFromInt(req.stpMode)
	if err != nil {
		reject(err.Error())
		return
	}
	qty, err := qtyFromFIX(req.orderQty)
	if err != nil {
		reject(err.Error())
		return
	}

	var price orderbook.Price
	hasPrice := ordType == orderbook.Limit
	if hasPrice {
		price, err = priceFromFIX(req.price)
		if err != nil {
			reject(err.Error())
			return
		}
	}

	_, err = g.entry.NewOrder(context.Background(), &model.NewOrderRequest{
		ClOrdID:      req.clOrdID,
		Account:      req.account,
		Symbol:       req.symbol,
		Side:         side,
		Type:         ordType,
		Price:        price,
		HasPrice:     hasPrice,
		Quantity:     qty,
		TimeInForce:  tif,
		STPMode:      stpMode,
		TransactTime: req.transactTime,
	})
	if err != nil {
		reject(err.Error())
	}
}

func (g *Gateway) handleOrderCancelRequest(req *orderCancelRequest) {
	g.sessions.Store(req.clOrdID, req.sessionID)

	_, err := g.entry.CancelOrder(context.Background(), &model.CancelRequest{
		ClOrdID:      req.clOrdID,
		OrigClOrdID:  req.origClOrdID,
		TransactTime: req.transactTime,
	})
	if err != nil {
		g.sendCancelReject(req.sessionID, req.clOrdID, req.origClOrdID,
			enum.CxlRejResponseTo_ORDER_CANCEL_REQUEST, err.Error())
	}
}

func (g *Gateway) handleOrderCancelReplaceRequest(req *orderCancelReplaceRequest) {
	g.sessions.Store(req.clOrdID, req.sessionID)

	send := func(reason string) {
		g.sendCancelReject(req.sessionID, req.clOrdID, req.origClOrdID,
			enum.CxlRejResponseTo_ORDER_CANCEL_REPLACE_REQUEST, reason)
	}

	price, err := priceFromFIX(req.price)
	if err != nil {
		send(err.Error())
		return
	}
	qty, err := qtyFromFIX(req.orderQty)
	if err != nil {
		send(err.Error())
		return
	}

	_, err = g.entry.ReplaceOrder(context.Background(), &model.ReplaceRequest{
		ClOrdID:      req.clOrdID,
		OrigClOrdID:  req.origClOrdID,
		NewPrice:     price,
		NewQuantity:  qty,
		TransactTime: req.transactTime,
	})
	if err != nil {
		send(err.Error())
	}
}

// rejectNewOrder reports a gateway-level rejection for an order the
// exchange never saw.
func (g *Gateway) rejectNewOrder(req *newOrderSingle, reason string) {
	side, _ := sideFromFIX(req.side)
	order := model.Order{
		ClOrdID:      req.clOrdID,
		Account:      req.account,
		Symbol:       req.symbol,
		Side:         side,
		Status:       model.OrderStatusRejected,
		ExecType:     model.ExecTypeRejected,
		RejectReason: reason,
		TransactTime: time.Now(),
	}
	if err := sendExecutionReport(order, req.sessionID); err != nil {
		g.log.Warn("send reject report failed",
			zap.String("clOrdID", req.clOrdID), zap.Error(err))
	}
}

func (g *Gateway) sendCancelReject(sessionID quickfix.SessionID, clOrdID, origClOrdID string, responseTo enum.CxlRejResponseTo, reason string) {
	raw := execReportPool.Get()
	defer execReportPool.Put(raw)

	msg := ordercancelreject.FromMessage(raw)
	msg.SetMsgType(enum.MsgType_ORDER_CANCEL_REJECT)
	msg.SetOrderID("NONE")
	msg.SetClOrdID(clOrdID)
	msg.SetOrigClOrdID(origClOrdID)
	msg.SetOrdStatus(enum.OrdStatus_REJECTED)
	msg.SetCxlRejResponseTo(responseTo)
	msg.SetText(reason)

	if err := quickfix.SendToTarget(msg, sessionID); err != nil {
		g.log.Warn("send cancel reject failed",
			zap.String("clOrdID", clOrdID), zap.Error(err))
	}
}
