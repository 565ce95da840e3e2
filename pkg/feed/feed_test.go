package feed

import (
	"testing"
	"time"

	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

func TestNewTradeMessage(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	msg := NewTradeMessage("BTCUSD", orderbook.Trade{
		ID:          7,
		BuyOrderID:  1,
		SellOrderID: 2,
		Price:       10050,
		Quantity:    30,
		Time:        ts,
	})

	if msg.Symbol != "BTCUSD" || msg.TradeID != 7 {
		t.Errorf("unexpected identity: %+v", msg)
	}
	if msg.Price != 10050 || msg.PriceStr != "100.50" {
		t.Errorf("price = %d %q, want 10050 \"100.50\"", msg.Price, msg.PriceStr)
	}
	if msg.Quantity != 30 || !msg.Time.Equal(ts) {
		t.Errorf("unexpected fill fields: %+v", msg)
	}
}

func TestNewSnapshotMessage(t *testing.T) {
	msg := NewSnapshotMessage("BTCUSD", orderbook.Snapshot{
		BidPrice:       9900,
		AskPrice:       10100,
		MidPrice:       10000,
		Spread:         200,
		LastTradePrice: 9950,
		LastTradeQty:   10,
	})

	if msg.BidPrice != 9900 || msg.AskPrice != 10100 {
		t.Errorf("top of book: %+v", msg)
	}
	if msg.MidPrice != 10000 || msg.Spread != 200 {
		t.Errorf("derived fields: %+v", msg)
	}
	if msg.LastTradePrice != 9950 || msg.LastTradeQty != 10 {
		t.Errorf("last trade fields: %+v", msg)
	}
}
