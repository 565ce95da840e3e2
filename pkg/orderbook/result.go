package orderbook

import "time"

// Reject reasons surfaced on OrderResult / ModifyResult. Rejections
// never mutate book state, never consume a TradeID and never emit
// trades.
const (
	reasonDuplicateID     = "Duplicate order ID"
	reasonInvalidQuantity = "Invalid quantity: must be positive"
	reasonMissingPrice    = "Limit order requires price"
	reasonInvalidPrice    = "Invalid price: must be positive"
	reasonMarketGTC       = "Market order cannot be GTC"
	reasonFOKLiquidity    = "Insufficient liquidity for full fill"
	reasonNoAskLiquidity  = "No liquidity: ask side empty"
	reasonNoBidLiquidity  = "No liquidity: bid side empty"
	reasonNotFound        = "Order not found"
	reasonWouldCross      = "Would cross spread"
)

// STPResult reports self-trade prevention activity during one Add.
// Orders cancelled by STP are listed here; STP never emits a Trade.
type STPResult struct {
	SelfTrade       bool
	CancelledOrders []OrderID
	Action          string
}

// OrderResult is the outcome of Add.
type OrderResult struct {
	Accepted          bool
	RejectReason      string
	Trades            []Trade
	RemainingQuantity Quantity
	STP               STPResult
}

// ModifyResult is the outcome of Modify.
type ModifyResult struct {
	Accepted     bool
	RejectReason string
	OldPrice     Price
	NewPrice     Price
	OldQuantity  Quantity
	NewQuantity  Quantity
}

// Snapshot is a timestamped bundle of top-of-book and last-trade
// state. Prices are 0 where the corresponding side is empty.
type Snapshot struct {
	Time           time.Time
	BidPrice       Price
	AskPrice       Price
	MidPrice       Price
	Spread         Price
	LastTradePrice Price
	LastTradeQty   Quantity
}

// BookLevel is one aggregated price level in a depth view.
type BookLevel struct {
	Price    Price
	Quantity Quantity
}
