package orderbook

import "container/list"

// match walks the opposite side best-price-first and each touched
// level head-to-tail, so trades come out in taker-consumed order.
// Limit orders stop at the first level beyond their price; market
// orders never stop on price.
func (ob *OrderBook) match(incoming *Order, result *OrderResult) {
	opposite := ob.opposite(incoming.Side)

	// Levels skipped over by DECREMENT_AND_CANCEL may stay non-empty,
	// so the walk advances through levels rather than re-reading the
	// best. Emptied levels are collected and deleted after the walk;
	// the tree must not shrink mid-iteration.
	var emptied []Price
	opposite.ascend(func(level *priceLevel) bool {
		if incoming.Quantity <= 0 {
			return false
		}
		if incoming.Type == Limit && violatesLimit(incoming, level.price) {
			return false
		}

		halted := ob.fillAtLevel(incoming, level, result)

		if level.empty() {
			emptied = append(emptied, level.price)
		}
		return !halted
	})

	for _, price := range emptied {
		opposite.delete(price)
	}
}

// fillAtLevel consumes the FIFO queue at one price level. It reports
// true when an STP action halted the whole match.
func (ob *OrderBook) fillAtLevel(incoming *Order, level *priceLevel, result *OrderResult) bool {
	el := level.orders.Front()
	for incoming.Quantity > 0 && el != nil {
		resting := el.Value.(*Order)

		if isSelfTrade(incoming, resting) {
			next := el.Next()
			if halted := ob.applySTP(incoming, resting, level, el, result); halted {
				return true
			}
			el = next
			continue
		}

		fillQty := min(incoming.Quantity, resting.Quantity)
		ob.nextTradeID++
		trade := Trade{
			ID:       ob.nextTradeID,
			Price:    resting.Price,
			Quantity: fillQty,
			Time:     ob.now(),
		}
		if incoming.Side == Buy {
			trade.BuyOrderID = incoming.ID
			trade.SellOrderID = resting.ID
		} else {
			trade.BuyOrderID = resting.ID
			trade.SellOrderID = incoming.ID
		}
		result.Trades = append(result.Trades, trade)

		incoming.Quantity -= fillQty
		resting.Quantity -= fillQty
		level.totalQuantity -= fillQty
		ob.lastTradePrice = trade.Price
		ob.lastTradeQty = fillQty

		if resting.Quantity == 0 {
			next := el.Next()
			delete(ob.orderIndex, resting.ID)
			level.orders.Remove(el)
			el = next
		}
	}
	return false
}

// isSelfTrade reports whether matching incoming against resting would
// cross one trader's own orders under an active STP mode.
func isSelfTrade(incoming, resting *Order) bool {
	return incoming.STPMode != STPAllow &&
		incoming.TraderID != "" &&
		incoming.TraderID == resting.TraderID
}

// applySTP resolves one would-be self-trade per the incoming order's
// policy. No Trade record is ever emitted for a self-trade. The
// return value tells fillAtLevel whether to halt the match.
func (ob *OrderBook) applySTP(incoming, resting *Order, level *priceLevel, el *list.Element, result *OrderResult) bool {
	result.STP.SelfTrade = true

	switch incoming.STPMode {
	case STPCancelNewest:
		incoming.Quantity = 0
		result.STP.CancelledOrders = append(result.STP.CancelledOrders, incoming.ID)
		result.STP.Action = "self-trade prevented: cancelled incoming order"
		return true

	case STPCancelOldest:
		level.remove(el)
		delete(ob.orderIndex, resting.ID)
		result.STP.CancelledOrders = append(result.STP.CancelledOrders, resting.ID)
		result.STP.Action = "self-trade prevented: cancelled resting order"
		return false

	case STPCancelBoth:
		level.remove(el)
		delete(ob.orderIndex, resting.ID)
		incoming.Quantity = 0
		result.STP.CancelledOrders = append(result.STP.CancelledOrders, resting.ID, incoming.ID)
		result.STP.Action = "self-trade prevented: cancelled both orders"
		return true

	case STPDecrementAndCancel:
		// Skip this pair and keep matching past it; the resting order
		// stays untouched.
		result.STP.Action = "self-trade prevented: skipped resting order"
		return false
	}
	return false
}

// fillableQuantity is the FOK liquidity probe: the opposite-side
// quantity this order could actually consume, walking levels and
// queues in match order. Under CANCEL_NEWEST / CANCEL_BOTH a
// same-trader order aborts the match when reached, so nothing beyond
// it counts; under CANCEL_OLDEST / DECREMENT_AND_CANCEL same-trader
// quantity is stepped over and never fills the taker.
func (ob *OrderBook) fillableQuantity(order *Order) Quantity {
	var available Quantity
	ob.opposite(order.Side).ascend(func(level *priceLevel) bool {
		if order.Type == Limit && violatesLimit(order, level.price) {
			return false
		}
		for el := level.orders.Front(); el != nil; el = el.Next() {
			resting := el.Value.(*Order)
			if isSelfTrade(order, resting) {
				if order.STPMode == STPCancelNewest || order.STPMode == STPCancelBoth {
					return false
				}
				continue
			}
			available += resting.Quantity
			if available >= order.Quantity {
				return false
			}
		}
		return true
	})
	return available
}
