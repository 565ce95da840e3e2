package orderbook

import (
	"fmt"
	"strings"
)

// Render draws the book as text: asks top-down from the worst price,
// the spread line, then bids from the best price.
func (ob *OrderBook) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s ORDER BOOK %s\n", strings.Repeat("=", 10), strings.Repeat("=", 10))
	b.WriteString("ASKS:\n")
	ob.asks.descend(func(level *priceLevel) bool {
		fmt.Fprintf(&b, "  $%s | %d\n", FormatPrice(level.price), level.totalQuantity)
		return true
	})

	fmt.Fprintf(&b, "%s SPREAD: %s %s\n", strings.Repeat("-", 10), FormatPrice(ob.Spread()), strings.Repeat("-", 10))

	b.WriteString("BIDS:\n")
	ob.bids.ascend(func(level *priceLevel) bool {
		fmt.Fprintf(&b, "  $%s | %d\n", FormatPrice(level.price), level.totalQuantity)
		return true
	})
	b.WriteString(strings.Repeat("=", 32) + "\n")

	return b.String()
}
