package model

import (
	"time"

	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

type OrderStatus string

const (
	OrderStatusPendingNew      OrderStatus = "PendingNew"
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusReplaced        OrderStatus = "Replaced"
	OrderStatusRejected        OrderStatus = "Rejected"
	OrderStatusExpired         OrderStatus = "Expired"
)

type OrderExecType string

const (
	ExecTypeNew      OrderExecType = "New"
	ExecTypeTrade    OrderExecType = "Trade"
	ExecTypeCanceled OrderExecType = "Canceled"
	ExecTypeReplaced OrderExecType = "Replaced"
	ExecTypeRejected OrderExecType = "Rejected"
	ExecTypeExpired  OrderExecType = "Expired"
)

// Order is the exchange-side view of one order: the client identifiers
// and the lifecycle fields that execution reports carry. The matching
// state itself lives in the engine; this record tracks what has been
// reported about it.
type Order struct {
	OrderID orderbook.OrderID

	// client identifiers
	ClOrdID     string
	OrigClOrdID string
	Account     string

	// instruction
	Symbol      string
	Side        orderbook.Side
	Type        orderbook.OrderType
	Price       orderbook.Price
	HasPrice    bool
	Quantity    orderbook.Quantity
	TimeInForce orderbook.TimeInForce
	STPMode     orderbook.STPMode

	// lifecycle
	ExecID         string
	Status         OrderStatus
	ExecType       OrderExecType
	RejectReason   string
	CumQuantity    orderbook.Quantity
	CumNotional    int64
	LeavesQuantity orderbook.Quantity
	LastQuantity   orderbook.Quantity
	LastPrice      orderbook.Price
	TransactTime   time.Time
}

// CanCancel reports whether the order is still working on the book.
func (o *Order) CanCancel() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled, OrderStatusReplaced:
		return true
	}
	return false
}

// CanReplace mirrors CanCancel; a done order cannot be amended.
func (o *Order) CanReplace() bool {
	return o.CanCancel()
}

// ApplyNew marks acceptance onto the book.
func (o *Order) ApplyNew(execID string, ts time.Time) {
	o.ExecID = execID
	o.Status = OrderStatusNew
	o.ExecType = ExecTypeNew
	o.LeavesQuantity = o.Quantity
	o.TransactTime = ts
}

// ApplyTrade folds one fill into the cumulative state.
func (o *Order) ApplyTrade(execID string, price orderbook.Price, qty orderbook.Quantity, ts time.Time) {
	o.ExecID = execID
	o.ExecType = ExecTypeTrade
	o.CumQuantity += qty
	o.CumNotional += int64(price) * int64(qty)
	o.LeavesQuantity = o.Quantity - o.CumQuantity
	o.LastQuantity = qty
	o.LastPrice = price
	o.TransactTime = ts
	if o.LeavesQuantity <= 0 {
		o.Status = OrderStatusFilled
	} else {
		o.Status = OrderStatusPartiallyFilled
	}
}

// ApplyCancel terminates the order with nothing left working.
func (o *Order) ApplyCancel(execID, clOrdID string, ts time.Time) {
	o.ExecID = execID
	if clOrdID != "" {
		o.OrigClOrdID = o.ClOrdID
		o.ClOrdID = clOrdID
	}
	o.Status = OrderStatusCanceled
	o.ExecType = ExecTypeCanceled
	o.LeavesQuantity = 0
	o.TransactTime = ts
}

// ApplyExpire terminates an unfilled IOC/FOK remainder.
func (o *Order) ApplyExpire(execID string, ts time.Time) {
	o.ExecID = execID
	o.Status = OrderStatusExpired
	o.ExecType = ExecTypeExpired
	o.LeavesQuantity = 0
	o.TransactTime = ts
}

// ApplyReplace records an accepted cancel/replace under a new ClOrdID.
func (o *Order) ApplyReplace(execID, clOrdID string, price orderbook.Price, qty orderbook.Quantity, ts time.Time) {
	o.ExecID = execID
	o.OrigClOrdID = o.ClOrdID
	o.ClOrdID = clOrdID
	o.Price = price
	o.Quantity = qty
	o.Status = OrderStatusReplaced
	o.ExecType = ExecTypeReplaced
	o.LeavesQuantity = qty - o.CumQuantity
	o.TransactTime = ts
}

// ApplyReject terminates the order before it reaches the book.
func (o *Order) ApplyReject(execID, reason string, ts time.Time) {
	o.ExecID = execID
	o.Status = OrderStatusRejected
	o.ExecType = ExecTypeRejected
	o.RejectReason = reason
	o.LeavesQuantity = 0
	o.TransactTime = ts
}
