package orderbook

import (
	"container/list"
	"time"
)

// Order is a request to trade. Price is meaningful only when HasPrice
// is set; market orders carry no price.
type Order struct {
	ID          OrderID
	TraderID    string // used only by self-trade prevention; may be empty
	Side        Side
	Type        OrderType
	Price       Price
	HasPrice    bool
	Quantity    Quantity
	TimeInForce TimeInForce
	STPMode     STPMode
	Timestamp   time.Time // set at admission
}

// NewLimitOrder builds a GTC limit order. Adjust TimeInForce or
// STPMode on the returned value before submitting if needed.
func NewLimitOrder(id OrderID, traderID string, side Side, price Price, qty Quantity) Order {
	return Order{
		ID:          id,
		TraderID:    traderID,
		Side:        side,
		Type:        Limit,
		Price:       price,
		HasPrice:    true,
		Quantity:    qty,
		TimeInForce: GTC,
	}
}

// NewMarketOrder builds a market order. Market orders default to IOC;
// GTC is rejected at admission.
func NewMarketOrder(id OrderID, traderID string, side Side, qty Quantity) Order {
	return Order{
		ID:          id,
		TraderID:    traderID,
		Side:        side,
		Type:        Market,
		Quantity:    qty,
		TimeInForce: IOC,
	}
}

// orderLocation is the index entry for a resting order: which side and
// price level it sits on, and its slot in the level's FIFO queue. The
// queue owns the order record; the location is a non-owning handle
// valid until the queue removes the order.
type orderLocation struct {
	side  Side
	price Price
	elem  *list.Element
}
