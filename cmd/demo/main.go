// Command demo walks one book through a scripted session: resting
// orders, a cross, a market sweep, self-trade prevention and a modify,
// printing the trades and the book after each step.
package main

import (
	"fmt"

	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

func submit(book *orderbook.OrderBook, label string, order orderbook.Order) {
	fmt.Printf("== %s\n", label)
	res := book.Add(order)
	if !res.Accepted {
		fmt.Printf("   rejected: %s\n", res.RejectReason)
		return
	}
	for _, trade := range res.Trades {
		fmt.Printf("   trade #%d: buy %d x sell %d @ %s qty %d\n",
			trade.ID, trade.BuyOrderID, trade.SellOrderID,
			orderbook.FormatPrice(trade.Price), trade.Quantity)
	}
	if res.STP.SelfTrade {
		fmt.Printf("   %s\n", res.STP.Action)
	}
	if res.RemainingQuantity > 0 {
		fmt.Printf("   remaining qty %d\n", res.RemainingQuantity)
	}
}

func main() {
	book := orderbook.New()

	submit(book, "buy 100 @ 99.00 rests", orderbook.NewLimitOrder(1, "alice", orderbook.Buy, 9900, 100))
	submit(book, "buy 50 @ 99.50 rests", orderbook.NewLimitOrder(2, "alice", orderbook.Buy, 9950, 50))
	submit(book, "sell 80 @ 101.00 rests", orderbook.NewLimitOrder(3, "bob", orderbook.Sell, 10100, 80))

	fmt.Println(book.Render())

	submit(book, "sell 70 @ 99.25 crosses the best bid", orderbook.NewLimitOrder(4, "carol", orderbook.Sell, 9925, 70))
	submit(book, "market buy 60 sweeps the ask", orderbook.NewMarketOrder(5, "dave", orderbook.Buy, 60))

	stp := orderbook.NewLimitOrder(6, "bob", orderbook.Buy, 10100, 30)
	stp.STPMode = orderbook.STPCancelNewest
	submit(book, "bob lifts his own offer, STP cancels the incoming order", stp)

	fmt.Println("== modify order 1 down to 40 keeps its queue position")
	mod := book.Modify(1, 9900, 40)
	if mod.Accepted {
		fmt.Printf("   qty %d -> %d @ %s\n", mod.OldQuantity, mod.NewQuantity, orderbook.FormatPrice(mod.NewPrice))
	} else {
		fmt.Printf("   rejected: %s\n", mod.RejectReason)
	}

	fmt.Println(book.Render())

	snap := book.Snapshot()
	fmt.Printf("best bid %s, best ask %s, mid %s, spread %s, last trade %s x %d\n",
		orderbook.FormatPrice(snap.BidPrice),
		orderbook.FormatPrice(snap.AskPrice),
		orderbook.FormatPrice(snap.MidPrice),
		orderbook.FormatPrice(snap.Spread),
		orderbook.FormatPrice(snap.LastTradePrice),
		snap.LastTradeQty)
}
