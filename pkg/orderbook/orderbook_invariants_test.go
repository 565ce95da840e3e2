package orderbook

import (
	"testing"
	"time"
)

// checkInvariants walks the whole book and fails the test on any
// structural inconsistency: stale index entries, level quantity sums
// out of step with their queues, retained empty levels, non-positive
// resting quantities, or a crossed book at rest.
func checkInvariants(t *testing.T, ob *OrderBook) {
	t.Helper()

	indexed := 0
	for _, side := range []*bookSide{ob.bids, ob.asks} {
		side.ascend(func(level *priceLevel) bool {
			if level.empty() {
				t.Fatalf("empty level retained at %d", level.price)
			}
			var sum Quantity
			for el := level.orders.Front(); el != nil; el = el.Next() {
				o := el.Value.(*Order)
				if o.Quantity <= 0 {
					t.Fatalf("order %d resting with quantity %d", o.ID, o.Quantity)
				}
				if o.Price != level.price {
					t.Fatalf("order %d at price %d on level %d", o.ID, o.Price, level.price)
				}
				sum += o.Quantity
				loc, ok := ob.orderIndex[o.ID]
				if !ok {
					t.Fatalf("order %d resting but unindexed", o.ID)
				}
				if loc.side != side.side || loc.price != level.price || loc.elem != el {
					t.Fatalf("index entry for order %d does not resolve to its slot", o.ID)
				}
				indexed++
			}
			if sum != level.totalQuantity {
				t.Fatalf("level %d total %d, queue sum %d", level.price, level.totalQuantity, sum)
			}
			return true
		})
	}
	if indexed != len(ob.orderIndex) {
		t.Fatalf("index holds %d entries, book holds %d orders", len(ob.orderIndex), indexed)
	}

	if bid, ask := ob.BestBid(), ob.BestAsk(); bid != 0 && ask != 0 && bid >= ask {
		t.Fatalf("crossed book at rest: bid %d, ask %d", bid, ask)
	}
}

func TestTradeIDsMonotonic(t *testing.T) {
	ob := New()

	var last TradeID
	for i := 0; i < 10; i++ {
		ob.Add(NewLimitOrder(OrderID(i*2+1), "s", Sell, 10000, 10))
		res := ob.Add(NewLimitOrder(OrderID(i*2+2), "b", Buy, 10000, 10))
		if len(res.Trades) != 1 {
			t.Fatalf("round %d: expected 1 trade, got %d", i, len(res.Trades))
		}
		id := res.Trades[0].ID
		if id <= last {
			t.Fatalf("trade id %d not greater than previous %d", id, last)
		}
		last = id
	}
}

func TestRejectionConsumesNoTradeID(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "s", Sell, 10000, 10))

	// FOK reject between two trades must not leave a gap.
	fok := NewLimitOrder(2, "b", Buy, 10000, 100)
	fok.TimeInForce = FOK
	if res := ob.Add(fok); res.Accepted {
		t.Fatal("expected FOK reject")
	}

	res := ob.Add(NewLimitOrder(3, "b", Buy, 10000, 10))
	if len(res.Trades) != 1 || res.Trades[0].ID != 1 {
		t.Fatalf("expected first trade id 1, got %+v", res.Trades)
	}
}

func TestAddCancelRoundTrip(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "b", Buy, 9900, 40))
	ob.Add(NewLimitOrder(2, "s", Sell, 10100, 40))

	before := ob.Snapshot()
	bidsBefore := ob.Depth(Buy, 0)
	asksBefore := ob.Depth(Sell, 0)

	ob.Add(NewLimitOrder(3, "b", Buy, 9950, 25))
	if !ob.Cancel(3) {
		t.Fatal("cancel failed")
	}

	after := ob.Snapshot()
	if before.BidPrice != after.BidPrice || before.AskPrice != after.AskPrice ||
		before.Spread != after.Spread || before.MidPrice != after.MidPrice {
		t.Errorf("top of book changed: before %+v, after %+v", before, after)
	}
	if got := ob.Depth(Buy, 0); len(got) != len(bidsBefore) || got[0] != bidsBefore[0] {
		t.Errorf("bid depth changed: %+v vs %+v", got, bidsBefore)
	}
	if got := ob.Depth(Sell, 0); len(got) != len(asksBefore) || got[0] != asksBefore[0] {
		t.Errorf("ask depth changed: %+v vs %+v", got, asksBefore)
	}
	checkInvariants(t, ob)
}

func TestDeterministicReplay(t *testing.T) {
	run := func() (*OrderBook, []Trade) {
		ob := New()
		ob.now = func() time.Time { return time.Unix(1700000000, 0) }

		var trades []Trade
		ops := []Order{
			NewLimitOrder(1, "a", Buy, 9900, 100),
			NewLimitOrder(2, "b", Sell, 10100, 80),
			NewLimitOrder(3, "c", Buy, 10000, 50),
			NewLimitOrder(4, "d", Sell, 9950, 120),
			NewMarketOrder(5, "e", Buy, 30),
			NewLimitOrder(6, "a", Sell, 9900, 40),
		}
		for _, op := range ops {
			trades = append(trades, ob.Add(op).Trades...)
		}
		ob.Cancel(2)
		ob.Modify(1, 9910, 60)
		return ob, trades
	}

	ob1, trades1 := run()
	ob2, trades2 := run()

	if len(trades1) != len(trades2) {
		t.Fatalf("trade counts differ: %d vs %d", len(trades1), len(trades2))
	}
	for i := range trades1 {
		if trades1[i] != trades2[i] {
			t.Errorf("trade %d differs: %+v vs %+v", i, trades1[i], trades2[i])
		}
	}
	if ob1.Render() != ob2.Render() {
		t.Errorf("final books differ:\n%s\nvs\n%s", ob1.Render(), ob2.Render())
	}
	checkInvariants(t, ob1)
	checkInvariants(t, ob2)
}

func TestDepthAggregation(t *testing.T) {
	ob := New()

	ob.Add(NewLimitOrder(1, "a", Buy, 9900, 10))
	ob.Add(NewLimitOrder(2, "b", Buy, 9900, 15))
	ob.Add(NewLimitOrder(3, "c", Buy, 9800, 20))
	ob.Add(NewLimitOrder(4, "d", Buy, 9950, 5))

	depth := ob.Depth(Buy, 0)
	want := []BookLevel{{9950, 5}, {9900, 25}, {9800, 20}}
	if len(depth) != len(want) {
		t.Fatalf("expected %d levels, got %d", len(want), len(depth))
	}
	for i := range want {
		if depth[i] != want[i] {
			t.Errorf("level %d: want %+v, got %+v", i, want[i], depth[i])
		}
	}

	if top := ob.Depth(Buy, 2); len(top) != 2 || top[0].Price != 9950 || top[1].Price != 9900 {
		t.Errorf("truncated depth wrong: %+v", top)
	}
}
