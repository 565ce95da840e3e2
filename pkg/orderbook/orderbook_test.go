package orderbook

import (
	"strings"
	"testing"
)

func TestAddIntoEmptyBookRests(t *testing.T) {
	ob := New()

	res := ob.Add(NewLimitOrder(1, "alice", Buy, 10000, 100))
	if !res.Accepted {
		t.Fatalf("expected accept, got reject: %s", res.RejectReason)
	}
	if len(res.Trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(res.Trades))
	}
	if res.RemainingQuantity != 100 {
		t.Errorf("expected remaining 100, got %d", res.RemainingQuantity)
	}
	if ob.BestBid() != 10000 {
		t.Errorf("expected best bid 10000, got %d", ob.BestBid())
	}
	if ob.BestAsk() != 0 {
		t.Errorf("expected best ask 0, got %d", ob.BestAsk())
	}
	checkInvariants(t, ob)
}

func TestCleanMatch(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "s", Sell, 10050, 50))
	res := ob.Add(NewLimitOrder(2, "b", Buy, 10050, 30))

	if !res.Accepted {
		t.Fatalf("unexpected reject: %s", res.RejectReason)
	}
	if len(res.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(res.Trades))
	}
	trade := res.Trades[0]
	if trade.BuyOrderID != 2 || trade.SellOrderID != 1 {
		t.Errorf("wrong attribution: %+v", trade)
	}
	if trade.Price != 10050 || trade.Quantity != 30 {
		t.Errorf("wrong price/qty: %+v", trade)
	}
	if res.RemainingQuantity != 0 {
		t.Errorf("expected remaining 0, got %d", res.RemainingQuantity)
	}
	if ob.BestAsk() != 10050 {
		t.Errorf("expected best ask 10050, got %d", ob.BestAsk())
	}
	if depth := ob.Depth(Sell, 1); len(depth) != 1 || depth[0].Quantity != 20 {
		t.Errorf("expected ask level qty 20, got %+v", depth)
	}
	if ob.BestBid() != 0 {
		t.Errorf("expected best bid 0, got %d", ob.BestBid())
	}
	if ob.LastTradePrice() != 10050 || ob.LastTradeQty() != 30 {
		t.Errorf("wrong last trade: %d/%d", ob.LastTradePrice(), ob.LastTradeQty())
	}
	checkInvariants(t, ob)
}

func TestWalkMultipleLevels(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "s1", Sell, 10000, 20))
	ob.Add(NewLimitOrder(2, "s2", Sell, 10010, 30))
	ob.Add(NewLimitOrder(3, "s3", Sell, 10020, 50))

	res := ob.Add(NewLimitOrder(4, "b", Buy, 10020, 60))
	if len(res.Trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(res.Trades))
	}
	want := []Trade{
		{BuyOrderID: 4, SellOrderID: 1, Price: 10000, Quantity: 20},
		{BuyOrderID: 4, SellOrderID: 2, Price: 10010, Quantity: 30},
		{BuyOrderID: 4, SellOrderID: 3, Price: 10020, Quantity: 10},
	}
	for i, w := range want {
		got := res.Trades[i]
		if got.BuyOrderID != w.BuyOrderID || got.SellOrderID != w.SellOrderID ||
			got.Price != w.Price || got.Quantity != w.Quantity {
			t.Errorf("trade %d: want %+v, got %+v", i, w, got)
		}
	}
	if res.RemainingQuantity != 0 {
		t.Errorf("expected remaining 0, got %d", res.RemainingQuantity)
	}
	depth := ob.Depth(Sell, 0)
	if len(depth) != 1 || depth[0].Price != 10020 || depth[0].Quantity != 40 {
		t.Errorf("expected single ask level 10020/40, got %+v", depth)
	}
	if ob.LastTradePrice() != 10020 || ob.LastTradeQty() != 10 {
		t.Errorf("wrong last trade: %d/%d", ob.LastTradePrice(), ob.LastTradeQty())
	}
	checkInvariants(t, ob)
}

func TestExactFillLeavesNothingResting(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "s1", Sell, 10000, 30))
	ob.Add(NewLimitOrder(2, "s2", Sell, 10000, 70))

	res := ob.Add(NewLimitOrder(3, "b", Buy, 10000, 100))
	if res.RemainingQuantity != 0 {
		t.Fatalf("expected exact fill, remaining %d", res.RemainingQuantity)
	}
	if len(res.Trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(res.Trades))
	}
	if ob.BestAsk() != 0 || ob.BestBid() != 0 {
		t.Errorf("expected empty book, got bid %d ask %d", ob.BestBid(), ob.BestAsk())
	}
	if ob.OpenOrders() != 0 {
		t.Errorf("expected no resting orders, got %d", ob.OpenOrders())
	}
	checkInvariants(t, ob)
}

func TestFIFOWithinLevel(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "s1", Sell, 10000, 5))
	ob.Add(NewLimitOrder(2, "s2", Sell, 10000, 5))

	res := ob.Add(NewLimitOrder(3, "b", Buy, 10000, 10))
	if len(res.Trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(res.Trades))
	}
	if res.Trades[0].SellOrderID != 1 || res.Trades[1].SellOrderID != 2 {
		t.Errorf("expected FIFO order, got %+v", res.Trades)
	}
}

func TestMakerPriceExecution(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "s", Sell, 10000, 50))
	res := ob.Add(NewLimitOrder(2, "b", Buy, 10100, 50))
	if len(res.Trades) != 1 || res.Trades[0].Price != 10000 {
		t.Fatalf("expected print at maker price 10000, got %+v", res.Trades)
	}
}

func TestMarketOrder(t *testing.T) {
	ob := New()

	if res := ob.Add(NewMarketOrder(1, "b", Buy, 10)); res.Accepted {
		t.Fatal("market order against empty book should be rejected")
	} else if res.RejectReason != reasonNoAskLiquidity {
		t.Errorf("wrong reason: %s", res.RejectReason)
	}

	ob.Add(NewLimitOrder(2, "s", Sell, 10000, 50))
	res := ob.Add(NewMarketOrder(3, "b", Buy, 80))
	if !res.Accepted {
		t.Fatalf("unexpected reject: %s", res.RejectReason)
	}
	if len(res.Trades) != 1 || res.Trades[0].Quantity != 50 {
		t.Fatalf("expected single 50-unit trade, got %+v", res.Trades)
	}
	if res.RemainingQuantity != 30 {
		t.Errorf("expected remaining 30, got %d", res.RemainingQuantity)
	}
	// Market remainders are discarded, never rested.
	if ob.BestBid() != 0 {
		t.Errorf("market residue rested at %d", ob.BestBid())
	}
	checkInvariants(t, ob)
}

func TestMarketSellAgainstBids(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "b1", Buy, 10000, 40))
	ob.Add(NewLimitOrder(2, "b2", Buy, 9990, 40))

	res := ob.Add(NewMarketOrder(3, "s", Sell, 60))
	if len(res.Trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(res.Trades))
	}
	if res.Trades[0].Price != 10000 || res.Trades[1].Price != 9990 {
		t.Errorf("expected best-first walk, got %+v", res.Trades)
	}
	if res.Trades[1].BuyOrderID != 2 || res.Trades[1].SellOrderID != 3 {
		t.Errorf("wrong attribution: %+v", res.Trades[1])
	}
	checkInvariants(t, ob)
}

func TestAdmissionRejections(t *testing.T) {
	ob := New()
	ob.Add(NewLimitOrder(1, "a", Buy, 9000, 10))

	marketGTC := NewMarketOrder(7, "b", Buy, 10)
	marketGTC.TimeInForce = GTC

	cases := []struct {
		name   string
		order  Order
		reason string
	}{
		{"duplicate id", NewLimitOrder(1, "b", Sell, 9500, 10), reasonDuplicateID},
		{"zero quantity", NewLimitOrder(2, "b", Buy, 9500, 0), reasonInvalidQuantity},
		{"negative quantity", NewLimitOrder(3, "b", Buy, 9500, -5), reasonInvalidQuantity},
		{"missing price", Order{ID: 4, Side: Buy, Type: Limit, Quantity: 10}, reasonMissingPrice},
		{"zero price", NewLimitOrder(5, "b", Buy, 0, 10), reasonInvalidPrice},
		{"negative price", NewLimitOrder(6, "b", Buy, -100, 10), reasonInvalidPrice},
		{"market GTC", marketGTC, reasonMarketGTC},
	}
	for _, tc := range cases {
		res := ob.Add(tc.order)
		if res.Accepted {
			t.Errorf("%s: expected reject", tc.name)
			continue
		}
		if res.RejectReason != tc.reason {
			t.Errorf("%s: want %q, got %q", tc.name, tc.reason, res.RejectReason)
		}
		if len(res.Trades) != 0 {
			t.Errorf("%s: rejection emitted trades", tc.name)
		}
	}

	// Rejections leave the book untouched.
	if ob.OpenOrders() != 1 || ob.BestBid() != 9000 {
		t.Errorf("book mutated by rejections: %d orders, bid %d", ob.OpenOrders(), ob.BestBid())
	}
	checkInvariants(t, ob)
}

func TestCancel(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "a", Buy, 10000, 50))
	ob.Add(NewLimitOrder(2, "a", Buy, 10000, 50))

	if !ob.Cancel(1) {
		t.Fatal("cancel of resting order failed")
	}
	if ob.Cancel(1) {
		t.Error("second cancel of same id should report false")
	}
	if ob.Cancel(99) {
		t.Error("cancel of unknown id should report false")
	}
	if depth := ob.Depth(Buy, 0); len(depth) != 1 || depth[0].Quantity != 50 {
		t.Errorf("expected single 50-unit level, got %+v", depth)
	}

	if !ob.Cancel(2) {
		t.Fatal("cancel of last order at level failed")
	}
	if ob.BestBid() != 0 {
		t.Errorf("expected empty bid side, got %d", ob.BestBid())
	}
	checkInvariants(t, ob)
}

func TestSpreadMidAndSnapshot(t *testing.T) {
	ob := New()

	if ob.Spread() != 0 || ob.MidPrice() != 0 {
		t.Fatal("empty book should report zero spread and mid")
	}

	ob.Add(NewLimitOrder(1, "b", Buy, 9900, 10))
	if ob.Spread() != 0 || ob.MidPrice() != 0 {
		t.Fatal("one-sided book should report zero spread and mid")
	}

	ob.Add(NewLimitOrder(2, "s", Sell, 10100, 10))
	if ob.Spread() != 200 {
		t.Errorf("expected spread 200, got %d", ob.Spread())
	}
	if ob.MidPrice() != 10000 {
		t.Errorf("expected mid 10000, got %d", ob.MidPrice())
	}

	snap := ob.Snapshot()
	if snap.BidPrice != 9900 || snap.AskPrice != 10100 || snap.MidPrice != 10000 || snap.Spread != 200 {
		t.Errorf("wrong snapshot: %+v", snap)
	}
	if snap.LastTradePrice != 0 || snap.LastTradeQty != 0 {
		t.Errorf("expected no last trade, got %+v", snap)
	}
}

func TestLastTradeSticky(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "s", Sell, 10000, 10))
	ob.Add(NewLimitOrder(2, "b", Buy, 10000, 10))
	if ob.LastTradePrice() != 10000 || ob.LastTradeQty() != 10 {
		t.Fatalf("wrong last trade: %d/%d", ob.LastTradePrice(), ob.LastTradeQty())
	}

	ob.Add(NewLimitOrder(3, "b", Buy, 9900, 5))
	ob.Cancel(3)
	if ob.LastTradePrice() != 10000 || ob.LastTradeQty() != 10 {
		t.Errorf("last trade lost through quiet activity: %d/%d", ob.LastTradePrice(), ob.LastTradeQty())
	}
}

func TestReset(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "s", Sell, 10000, 10))
	ob.Add(NewLimitOrder(2, "b", Buy, 10000, 10))
	ob.Add(NewLimitOrder(3, "b", Buy, 9900, 5))

	ob.Reset()
	if ob.OpenOrders() != 0 || ob.BestBid() != 0 || ob.BestAsk() != 0 {
		t.Fatal("reset left book state behind")
	}
	if ob.LastTradePrice() != 0 || ob.LastTradeQty() != 0 {
		t.Error("reset left last-trade registers behind")
	}

	// Ids are reusable after a reset.
	res := ob.Add(NewLimitOrder(1, "s", Sell, 10000, 10))
	if !res.Accepted {
		t.Fatalf("id reuse after reset rejected: %s", res.RejectReason)
	}
	checkInvariants(t, ob)
}

func TestRender(t *testing.T) {
	ob := New()
	ob.Add(NewLimitOrder(1, "b", Buy, 9900, 10))
	ob.Add(NewLimitOrder(2, "s", Sell, 10100, 20))

	out := ob.Render()
	for _, want := range []string{"ASKS:", "BIDS:", "$99.00 | 10", "$101.00 | 20", "SPREAD: 2.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}
