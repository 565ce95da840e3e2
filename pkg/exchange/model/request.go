package model

import (
	"time"

	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

// NewOrderRequest is a client's instruction to work a new order.
// Price is meaningful only when HasPrice is set.
type NewOrderRequest struct {
	ClOrdID      string
	Account      string
	Symbol       string
	Side         orderbook.Side
	Type         orderbook.OrderType
	Price        orderbook.Price
	HasPrice     bool
	Quantity     orderbook.Quantity
	TimeInForce  orderbook.TimeInForce
	STPMode      orderbook.STPMode
	TransactTime time.Time
}

// CancelRequest refers to the working order by its latest ClOrdID.
type CancelRequest struct {
	ClOrdID      string
	OrigClOrdID  string
	TransactTime time.Time
}

// ReplaceRequest amends price and quantity under a new ClOrdID.
type ReplaceRequest struct {
	ClOrdID      string
	OrigClOrdID  string
	NewPrice     orderbook.Price
	NewQuantity  orderbook.Quantity
	TransactTime time.Time
}
