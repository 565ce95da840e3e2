package model

import (
	"fmt"
	"time"

	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

// OrderEvent is one immutable entry in an order's audit trail.
type OrderEvent struct {
	EventID     string
	OrderID     orderbook.OrderID
	ClOrdID     string
	OrigClOrdID string
	ExecType    OrderExecType
	Status      OrderStatus
	Price       orderbook.Price
	Quantity    orderbook.Quantity
	Timestamp   time.Time
}

// NewOrderEvent snapshots an order's current lifecycle state.
func NewOrderEvent(o Order, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:     NewEventID(o.OrderID, o.ExecID),
		OrderID:     o.OrderID,
		ClOrdID:     o.ClOrdID,
		OrigClOrdID: o.OrigClOrdID,
		ExecType:    o.ExecType,
		Status:      o.Status,
		Price:       o.LastPrice,
		Quantity:    o.LastQuantity,
		Timestamp:   ts,
	}
}

func NewEventID(orderID orderbook.OrderID, execID string) string {
	return fmt.Sprintf("%d-%s", orderID, execID)
}
