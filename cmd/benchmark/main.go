package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

const (
	minPrice = orderbook.Price(9800)
	maxPrice = orderbook.Price(10200)
	minQty   = orderbook.Quantity(1)
	maxQty   = orderbook.Quantity(100)
)

func randomOrder(rng *rand.Rand, id uint64) orderbook.Order {
	side := orderbook.Buy
	if rng.Intn(2) == 0 {
		side = orderbook.Sell
	}
	price := minPrice + orderbook.Price(rng.Int63n(int64(maxPrice-minPrice)+1))
	qty := minQty + orderbook.Quantity(rng.Int63n(int64(maxQty-minQty)+1))

	return orderbook.NewLimitOrder(orderbook.OrderID(id), fmt.Sprintf("ACC-%03d", rng.Intn(16)), side, price, qty)
}

func main() {
	var (
		numOrders = flag.Int("orders", 1_000_000, "number of orders to submit")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	book := orderbook.New()

	totalTrades := 0
	totalQty := orderbook.Quantity(0)
	rejected := 0

	start := time.Now()
	for i := 0; i < *numOrders; i++ {
		res := book.Add(randomOrder(rng, uint64(i+1)))
		if !res.Accepted {
			rejected++
			continue
		}
		for _, trade := range res.Trades {
			totalTrades++
			totalQty += trade.Quantity
			if totalTrades <= 5 {
				fmt.Printf("trade #%d: buy %d x sell %d @ %s qty %d\n",
					trade.ID, trade.BuyOrderID, trade.SellOrderID,
					orderbook.FormatPrice(trade.Price), trade.Quantity)
			}
		}
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("orders      : %d\n", *numOrders)
	fmt.Printf("rejected    : %d\n", rejected)
	fmt.Printf("trades      : %d\n", totalTrades)
	fmt.Printf("matched qty : %d\n", totalQty)
	fmt.Printf("open orders : %d\n", book.OpenOrders())
	fmt.Printf("elapsed     : %s\n", elapsed)
	fmt.Printf("throughput  : %.0f orders/s\n", float64(*numOrders)/elapsed.Seconds())
}
