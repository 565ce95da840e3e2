// Package orderbook implements a single-symbol continuous limit-order
// book matching under strict price-time priority, with time-in-force
// handling, self-trade prevention, cancellation and cancel/replace.
//
// A book is single-threaded: every operation runs to completion over
// in-memory structures and callers must serialize access externally.
// Instances are independent; any number may coexist in a process.
package orderbook

import "time"

// OrderBook is one symbol's book. The zero value is not usable; call
// New.
type OrderBook struct {
	bids *bookSide
	asks *bookSide

	// orderIndex covers every resting order. The FIFO queues own the
	// order records; the index holds back-references only.
	orderIndex map[OrderID]orderLocation

	// Last-trade registers are sticky: they keep their values through
	// quiet periods and cancellations.
	lastTradePrice Price
	lastTradeQty   Quantity

	nextTradeID TradeID

	now func() time.Time
}

// New creates an empty book.
func New() *OrderBook {
	ob := &OrderBook{now: time.Now}
	ob.init()
	return ob
}

func (ob *OrderBook) init() {
	ob.bids = newBookSide(Buy)
	ob.asks = newBookSide(Sell)
	ob.orderIndex = make(map[OrderID]orderLocation)
	ob.lastTradePrice = 0
	ob.lastTradeQty = 0
	ob.nextTradeID = 0
}

// Reset releases all book state, returning the instance to its
// just-created condition.
func (ob *OrderBook) Reset() {
	ob.init()
}

// Add validates an incoming order, matches it against the opposite
// side, and rests any GTC limit remainder. The checks run in a fixed
// order and the first failure is reported with no state change.
func (ob *OrderBook) Add(order Order) OrderResult {
	result := OrderResult{RemainingQuantity: order.Quantity}

	if _, exists := ob.orderIndex[order.ID]; exists {
		result.RejectReason = reasonDuplicateID
		return result
	}
	if order.Quantity <= 0 {
		result.RejectReason = reasonInvalidQuantity
		return result
	}
	if order.Type == Limit && !order.HasPrice {
		result.RejectReason = reasonMissingPrice
		return result
	}
	if order.HasPrice && order.Price <= 0 {
		result.RejectReason = reasonInvalidPrice
		return result
	}
	if order.Type == Market && order.TimeInForce == GTC {
		result.RejectReason = reasonMarketGTC
		return result
	}
	if order.TimeInForce == FOK {
		if ob.fillableQuantity(&order) < order.Quantity {
			result.RejectReason = reasonFOKLiquidity
			return result
		}
	}

	order.Timestamp = ob.now()

	if order.Type == Market {
		if ob.opposite(order.Side).empty() {
			if order.Side == Buy {
				result.RejectReason = reasonNoAskLiquidity
			} else {
				result.RejectReason = reasonNoBidLiquidity
			}
			return result
		}
		result.Accepted = true
		ob.match(&order, &result)
		// Market remainders are never rested.
		result.RemainingQuantity = order.Quantity
		return result
	}

	result.Accepted = true
	ob.match(&order, &result)
	result.RemainingQuantity = order.Quantity

	if order.Quantity > 0 && order.TimeInForce == GTC {
		// A remainder left crossed against skipped same-trader
		// liquidity must not rest; the book is never crossed at rest.
		if result.STP.SelfTrade && ob.crossesAtRest(&order) {
			result.STP.CancelledOrders = append(result.STP.CancelledOrders, order.ID)
			result.STP.Action = "self-trade prevented: cancelled crossing remainder"
			result.RemainingQuantity = 0
			return result
		}
		ob.rest(order)
	}
	return result
}

// crossesAtRest reports whether resting this remainder would leave it
// at or through the opposite best price.
func (ob *OrderBook) crossesAtRest(o *Order) bool {
	level, ok := ob.opposite(o.Side).best()
	if !ok {
		return false
	}
	return !violatesLimit(o, level.price)
}

// rest places a limit remainder on its own side of the book.
func (ob *OrderBook) rest(order Order) {
	o := &order
	level := ob.sideOf(o.Side).getOrCreate(o.Price)
	elem := level.push(o)
	ob.orderIndex[o.ID] = orderLocation{side: o.Side, price: o.Price, elem: elem}
}

// Cancel removes a resting order. It reports false when the id is not
// resting.
func (ob *OrderBook) Cancel(id OrderID) bool {
	loc, ok := ob.orderIndex[id]
	if !ok {
		return false
	}
	side := ob.sideOf(loc.side)
	level, ok := side.get(loc.price)
	if !ok {
		panic("orderbook: index entry points to a missing price level")
	}
	level.remove(loc.elem)
	if level.empty() {
		side.delete(loc.price)
	}
	delete(ob.orderIndex, id)
	return true
}

// Modify adjusts a resting order. Same-price quantity decreases keep
// the order's queue position; any price change or quantity increase
// is a cancel/replace that loses time priority. A replace that would
// cross the opposite book is rejected to keep matching out of the
// modify path.
func (ob *OrderBook) Modify(id OrderID, newPrice Price, newQuantity Quantity) ModifyResult {
	result := ModifyResult{NewPrice: newPrice, NewQuantity: newQuantity}

	loc, ok := ob.orderIndex[id]
	if !ok {
		result.RejectReason = reasonNotFound
		return result
	}
	o := loc.elem.Value.(*Order)
	result.OldPrice = o.Price
	result.OldQuantity = o.Quantity

	if newQuantity <= 0 {
		result.RejectReason = reasonInvalidQuantity
		return result
	}
	if newPrice <= 0 {
		result.RejectReason = reasonInvalidPrice
		return result
	}

	if newPrice == o.Price && newQuantity <= o.Quantity {
		// In-place decrease; a no-op modify is an accept.
		level, ok := ob.sideOf(loc.side).get(loc.price)
		if !ok {
			panic("orderbook: index entry points to a missing price level")
		}
		level.totalQuantity -= o.Quantity - newQuantity
		o.Quantity = newQuantity
		result.Accepted = true
		return result
	}

	if o.Side == Buy {
		if ask := ob.BestAsk(); ask != 0 && newPrice >= ask {
			result.RejectReason = reasonWouldCross
			return result
		}
	} else {
		if bid := ob.BestBid(); bid != 0 && newPrice <= bid {
			result.RejectReason = reasonWouldCross
			return result
		}
	}

	replacement := *o
	replacement.Price = newPrice
	replacement.Quantity = newQuantity
	replacement.Timestamp = ob.now()
	ob.Cancel(id)
	ob.rest(replacement)

	result.Accepted = true
	return result
}

// BestBid returns the highest resting bid price, 0 when the side is
// empty.
func (ob *OrderBook) BestBid() Price {
	if level, ok := ob.bids.best(); ok {
		return level.price
	}
	return 0
}

// BestAsk returns the lowest resting ask price, 0 when the side is
// empty.
func (ob *OrderBook) BestAsk() Price {
	if level, ok := ob.asks.best(); ok {
		return level.price
	}
	return 0
}

// Spread returns bestAsk - bestBid, 0 when either side is empty.
func (ob *OrderBook) Spread() Price {
	bid, ask := ob.BestBid(), ob.BestAsk()
	if bid == 0 || ask == 0 {
		return 0
	}
	return ask - bid
}

// MidPrice returns (bestBid + bestAsk) / 2 with integer division, 0
// when either side is empty.
func (ob *OrderBook) MidPrice() Price {
	bid, ask := ob.BestBid(), ob.BestAsk()
	if bid == 0 || ask == 0 {
		return 0
	}
	return (bid + ask) / 2
}

// LastTradePrice returns the most recent trade's price, 0 before any
// trade.
func (ob *OrderBook) LastTradePrice() Price {
	return ob.lastTradePrice
}

// LastTradeQty returns the most recent trade's size, 0 before any
// trade.
func (ob *OrderBook) LastTradeQty() Quantity {
	return ob.lastTradeQty
}

// Snapshot bundles the market-data accessors under one timestamp.
func (ob *OrderBook) Snapshot() Snapshot {
	return Snapshot{
		Time:           ob.now(),
		BidPrice:       ob.BestBid(),
		AskPrice:       ob.BestAsk(),
		MidPrice:       ob.MidPrice(),
		Spread:         ob.Spread(),
		LastTradePrice: ob.lastTradePrice,
		LastTradeQty:   ob.lastTradeQty,
	}
}

// Depth returns up to max aggregated levels best-first for one side.
// max <= 0 means all levels.
func (ob *OrderBook) Depth(side Side, max int) []BookLevel {
	var out []BookLevel
	ob.sideOf(side).ascend(func(level *priceLevel) bool {
		if max > 0 && len(out) >= max {
			return false
		}
		out = append(out, BookLevel{Price: level.price, Quantity: level.totalQuantity})
		return true
	})
	return out
}

// OpenOrders returns the number of resting orders.
func (ob *OrderBook) OpenOrders() int {
	return len(ob.orderIndex)
}

func (ob *OrderBook) sideOf(s Side) *bookSide {
	if s == Buy {
		return ob.bids
	}
	return ob.asks
}

func (ob *OrderBook) opposite(s Side) *bookSide {
	if s == Buy {
		return ob.asks
	}
	return ob.bids
}
