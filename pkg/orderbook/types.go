package orderbook

import "time"

// OrderID identifies an order for its whole lifetime. Uniqueness is
// the caller's responsibility; the book rejects duplicates of ids it
// still holds.
type OrderID uint64

// TradeID is assigned by the book, starting at 1 and strictly
// increasing across every trade it emits.
type TradeID uint64

// Price is a fixed-point amount in hundredths of the quote currency:
// Price(10050) is 100.50. All arithmetic stays in integers.
type Price int64

// PriceScale is the number of Price units per whole currency unit.
const PriceScale Price = 100

// Quantity is a whole number of units.
type Quantity int64

// Side of the book an order works.
type Side uint8

const (
	Buy  Side = 0
	Sell Side = 1
)

// Opposite returns the side an order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return "UNKNOWN"
}

// OrderType distinguishes priced orders from orders that take whatever
// the opposite side offers.
type OrderType uint8

const (
	Limit  OrderType = 0
	Market OrderType = 1
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "LIMIT"
	case Market:
		return "MARKET"
	}
	return "UNKNOWN"
}

// TimeInForce controls what happens to the unfilled part of an order.
type TimeInForce uint8

const (
	// GTC rests the remainder on the book.
	GTC TimeInForce = 0
	// IOC fills what it can immediately and discards the rest.
	IOC TimeInForce = 1
	// FOK fills completely and immediately or not at all.
	FOK TimeInForce = 2
)

func (t TimeInForce) String() string {
	switch t {
	case GTC:
		return "GTC"
	case IOC:
		return "IOC"
	case FOK:
		return "FOK"
	}
	return "UNKNOWN"
}

// STPMode selects the self-trade prevention policy carried by an
// incoming order. The policy fires when the order would match one of
// the same trader's resting orders.
type STPMode uint8

const (
	// STPAllow lets a trader's orders match each other.
	STPAllow STPMode = 0
	// STPCancelNewest cancels the unfilled remainder of the incoming
	// order and halts.
	STPCancelNewest STPMode = 1
	// STPCancelOldest cancels the resting order and keeps matching.
	STPCancelOldest STPMode = 2
	// STPCancelBoth cancels the resting order and the incoming
	// remainder, then halts.
	STPCancelBoth STPMode = 3
	// STPDecrementAndCancel steps over the resting order untouched and
	// keeps matching past it. A remainder that would rest crossed
	// against the skipped order is cancelled instead of rested.
	STPDecrementAndCancel STPMode = 4
)

func (m STPMode) String() string {
	switch m {
	case STPAllow:
		return "ALLOW"
	case STPCancelNewest:
		return "CANCEL_NEWEST"
	case STPCancelOldest:
		return "CANCEL_OLDEST"
	case STPCancelBoth:
		return "CANCEL_BOTH"
	case STPDecrementAndCancel:
		return "DECREMENT_AND_CANCEL"
	}
	return "UNKNOWN"
}

// Trade is one execution. Price is always the resting order's price.
type Trade struct {
	ID          TradeID
	BuyOrderID  OrderID
	SellOrderID OrderID
	Price       Price
	Quantity    Quantity
	Time        time.Time
}
