// Package feed publishes trades and book snapshots to downstream
// consumers over Redis Streams and Kafka. Publishing is asynchronous:
// handlers enqueue and return, so the matching path never waits on a
// broker.
package feed

import (
	"time"

	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

// TradeMessage is the wire form of one execution.
type TradeMessage struct {
	Symbol      string    `json:"symbol"`
	TradeID     uint64    `json:"trade_id"`
	BuyOrderID  uint64    `json:"buy_order_id"`
	SellOrderID uint64    `json:"sell_order_id"`
	Price       int64     `json:"price"`
	PriceStr    string    `json:"price_str"`
	Quantity    int64     `json:"quantity"`
	Time        time.Time `json:"time"`
}

// NewTradeMessage converts an engine trade for publication.
func NewTradeMessage(symbol string, t orderbook.Trade) TradeMessage {
	return TradeMessage{
		Symbol:      symbol,
		TradeID:     uint64(t.ID),
		BuyOrderID:  uint64(t.BuyOrderID),
		SellOrderID: uint64(t.SellOrderID),
		Price:       int64(t.Price),
		PriceStr:    orderbook.FormatPrice(t.Price),
		Quantity:    int64(t.Quantity),
		Time:        t.Time,
	}
}

// SnapshotMessage is the wire form of a top-of-book snapshot.
type SnapshotMessage struct {
	Symbol         string    `json:"symbol"`
	BidPrice       int64     `json:"bid"`
	AskPrice       int64     `json:"ask"`
	MidPrice       int64     `json:"mid"`
	Spread         int64     `json:"spread"`
	LastTradePrice int64     `json:"last_price"`
	LastTradeQty   int64     `json:"last_qty"`
	Time           time.Time `json:"time"`
}

// NewSnapshotMessage converts an engine snapshot for publication.
func NewSnapshotMessage(symbol string, s orderbook.Snapshot) SnapshotMessage {
	return SnapshotMessage{
		Symbol:         symbol,
		BidPrice:       int64(s.BidPrice),
		AskPrice:       int64(s.AskPrice),
		MidPrice:       int64(s.MidPrice),
		Spread:         int64(s.Spread),
		LastTradePrice: int64(s.LastTradePrice),
		LastTradeQty:   int64(s.LastTradeQty),
		Time:           s.Time,
	}
}
