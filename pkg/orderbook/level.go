package orderbook

import "container/list"

// priceLevel is the FIFO queue of resting orders at one price plus a
// cached aggregate. list elements give each order a position-stable
// slot, so orderLocation handles stay valid across unrelated
// insertions and removals. A level is never kept in the book empty.
type priceLevel struct {
	price         Price
	totalQuantity Quantity
	orders        *list.List // of *Order
}

func newPriceLevel(price Price) *priceLevel {
	return &priceLevel{
		price:  price,
		orders: list.New(),
	}
}

// push appends an order at the queue tail and returns its slot.
func (l *priceLevel) push(o *Order) *list.Element {
	l.totalQuantity += o.Quantity
	return l.orders.PushBack(o)
}

// remove erases one slot, counting its remaining quantity out of the
// aggregate.
func (l *priceLevel) remove(el *list.Element) *Order {
	o := el.Value.(*Order)
	l.totalQuantity -= o.Quantity
	l.orders.Remove(el)
	return o
}

func (l *priceLevel) empty() bool {
	return l.orders.Len() == 0
}
