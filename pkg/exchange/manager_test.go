package exchange

import (
	"context"
	"errors"
	"testing"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/exchange/risk"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

type captureGateway struct {
	reports []model.Order
}

func (g *captureGateway) Start(ctx context.Context) error { return nil }

func (g *captureGateway) OnOrderReport(ctx context.Context, order model.Order) {
	g.reports = append(g.reports, order)
}

func (g *captureGateway) lastFor(clOrdID string) (model.Order, bool) {
	for i := len(g.reports) - 1; i >= 0; i-- {
		if g.reports[i].ClOrdID == clOrdID {
			return g.reports[i], true
		}
	}
	return model.Order{}, false
}

func limitReq(clOrdID, account string, side orderbook.Side, price orderbook.Price, qty orderbook.Quantity) *model.NewOrderRequest {
	return &model.NewOrderRequest{
		ClOrdID:     clOrdID,
		Account:     account,
		Symbol:      "BTCUSD",
		Side:        side,
		Type:        orderbook.Limit,
		Price:       price,
		HasPrice:    true,
		Quantity:    qty,
		TimeInForce: orderbook.GTC,
	}
}

func TestNewOrderReportsAndMatches(t *testing.T) {
	gw := &captureGateway{}
	m := NewManager(gw)
	ctx := context.Background()

	var trades []orderbook.Trade
	m.OnTrade(func(symbol string, trade orderbook.Trade) {
		trades = append(trades, trade)
	})

	sell, err := m.NewOrder(ctx, limitReq("C1", "maker", orderbook.Sell, 10000, 50))
	if err != nil {
		t.Fatal(err)
	}
	if sell.Status != model.OrderStatusNew {
		t.Fatalf("maker status = %s, want New", sell.Status)
	}

	buy, err := m.NewOrder(ctx, limitReq("C2", "taker", orderbook.Buy, 10000, 30))
	if err != nil {
		t.Fatal(err)
	}
	if buy.Status != model.OrderStatusFilled {
		t.Errorf("taker status = %s, want Filled", buy.Status)
	}
	if buy.CumQuantity != 30 || buy.LastPrice != 10000 {
		t.Errorf("taker fill state wrong: %+v", buy)
	}

	if len(trades) != 1 || trades[0].Quantity != 30 {
		t.Fatalf("expected one 30-unit trade, got %+v", trades)
	}

	makerReport, ok := gw.lastFor("C1")
	if !ok {
		t.Fatal("no report for maker")
	}
	if makerReport.Status != model.OrderStatusPartiallyFilled || makerReport.LeavesQuantity != 20 {
		t.Errorf("maker report wrong: %+v", makerReport)
	}

	snap, err := m.Snapshot("BTCUSD")
	if err != nil {
		t.Fatal(err)
	}
	if snap.AskPrice != 10000 || snap.LastTradePrice != 10000 {
		t.Errorf("snapshot wrong: %+v", snap)
	}
}

func TestDuplicateClOrdID(t *testing.T) {
	m := NewManager(&captureGateway{})
	ctx := context.Background()

	if _, err := m.NewOrder(ctx, limitReq("C1", "a", orderbook.Buy, 9900, 10)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.NewOrder(ctx, limitReq("C1", "a", orderbook.Buy, 9900, 10)); !errors.Is(err, ErrDuplicateClOrdID) {
		t.Fatalf("expected ErrDuplicateClOrdID, got %v", err)
	}
}

func TestEngineRejectionBecomesReport(t *testing.T) {
	gw := &captureGateway{}
	m := NewManager(gw)

	req := limitReq("C1", "a", orderbook.Buy, 9900, 10)
	req.Quantity = 0
	order, err := m.NewOrder(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != model.OrderStatusRejected {
		t.Fatalf("status = %s, want Rejected", order.Status)
	}
	if order.RejectReason == "" {
		t.Error("reject reason missing")
	}
}

func TestRiskRuleRejects(t *testing.T) {
	gw := &captureGateway{}
	m := NewManager(gw, WithRules(&risk.SizeLimitRule{Min: 1, Max: 100}))

	order, err := m.NewOrder(context.Background(), limitReq("C1", "a", orderbook.Buy, 9900, 500))
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != model.OrderStatusRejected {
		t.Fatalf("status = %s, want Rejected", order.Status)
	}
	// Rule rejections never reach the book.
	if _, err := m.Snapshot("BTCUSD"); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("book created for rejected order: %v", err)
	}
}

func TestCancelByClOrdID(t *testing.T) {
	gw := &captureGateway{}
	m := NewManager(gw)
	ctx := context.Background()

	m.NewOrder(ctx, limitReq("C1", "a", orderbook.Buy, 9900, 10))

	order, err := m.CancelOrder(ctx, &model.CancelRequest{ClOrdID: "C2", OrigClOrdID: "C1"})
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != model.OrderStatusCanceled {
		t.Errorf("status = %s, want Canceled", order.Status)
	}
	if order.ClOrdID != "C2" || order.OrigClOrdID != "C1" {
		t.Errorf("ClOrdID chain wrong: %+v", order)
	}

	if _, err := m.CancelOrder(ctx, &model.CancelRequest{ClOrdID: "C3", OrigClOrdID: "C2"}); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Errorf("second cancel: %v", err)
	}
	if _, err := m.CancelOrder(ctx, &model.CancelRequest{ClOrdID: "C4", OrigClOrdID: "NOPE"}); !errors.Is(err, ErrUnknownClOrdID) {
		t.Errorf("unknown ClOrdID: %v", err)
	}
}

func TestReplaceOrder(t *testing.T) {
	gw := &captureGateway{}
	m := NewManager(gw)
	ctx := context.Background()

	m.NewOrder(ctx, limitReq("C1", "a", orderbook.Buy, 9900, 100))

	order, err := m.ReplaceOrder(ctx, &model.ReplaceRequest{
		ClOrdID: "C2", OrigClOrdID: "C1", NewPrice: 9950, NewQuantity: 60,
	})
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != model.OrderStatusReplaced || order.Price != 9950 || order.Quantity != 60 {
		t.Errorf("replace state wrong: %+v", order)
	}

	// The chain now resolves through the new ClOrdID.
	if _, err := m.CancelOrder(ctx, &model.CancelRequest{ClOrdID: "C3", OrigClOrdID: "C2"}); err != nil {
		t.Errorf("cancel after replace: %v", err)
	}
}

func TestReplaceCrossingRejected(t *testing.T) {
	m := NewManager(&captureGateway{})
	ctx := context.Background()

	m.NewOrder(ctx, &model.NewOrderRequest{
		ClOrdID: "S1", Account: "m", Symbol: "BTCUSD",
		Side: orderbook.Sell, Type: orderbook.Limit,
		Price: 10300, HasPrice: true, Quantity: 80, TimeInForce: orderbook.GTC,
	})
	m.NewOrder(ctx, limitReq("B1", "a", orderbook.Buy, 9900, 100))

	_, err := m.ReplaceOrder(ctx, &model.ReplaceRequest{
		ClOrdID: "B2", OrigClOrdID: "B1", NewPrice: 10500, NewQuantity: 60,
	})
	if !errors.Is(err, ErrReplaceRejected) {
		t.Fatalf("expected ErrReplaceRejected, got %v", err)
	}

	// The order is still working under its original ClOrdID.
	if _, err := m.CancelOrder(ctx, &model.CancelRequest{ClOrdID: "B3", OrigClOrdID: "B1"}); err != nil {
		t.Errorf("cancel after failed replace: %v", err)
	}
}

func TestIOCRemainderExpires(t *testing.T) {
	gw := &captureGateway{}
	m := NewManager(gw)
	ctx := context.Background()

	m.NewOrder(ctx, limitReq("S1", "m", orderbook.Sell, 10000, 30))

	req := limitReq("B1", "a", orderbook.Buy, 10000, 50)
	req.TimeInForce = orderbook.IOC
	order, err := m.NewOrder(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != model.OrderStatusExpired {
		t.Errorf("status = %s, want Expired", order.Status)
	}
	if order.CumQuantity != 30 {
		t.Errorf("expected partial fill 30, got %d", order.CumQuantity)
	}
}

func TestSTPCancelReports(t *testing.T) {
	gw := &captureGateway{}
	m := NewManager(gw)
	ctx := context.Background()

	m.NewOrder(ctx, limitReq("S1", "T", orderbook.Sell, 10000, 50))

	req := limitReq("B1", "T", orderbook.Buy, 10000, 30)
	req.STPMode = orderbook.STPCancelNewest
	order, err := m.NewOrder(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != model.OrderStatusCanceled {
		t.Errorf("incoming status = %s, want Canceled", order.Status)
	}

	maker, ok := gw.lastFor("S1")
	if !ok || maker.Status != model.OrderStatusNew {
		t.Errorf("maker should be untouched, got %+v", maker)
	}
}

func TestPriceBandAgainstLastTrade(t *testing.T) {
	gw := &captureGateway{}
	var m *Manager
	m = NewManager(gw, WithRules(&risk.PriceBandRule{
		BandPercent: 10,
		Reference: func(symbol string) orderbook.Price {
			return m.LastTradePrice(symbol)
		},
	}))
	ctx := context.Background()

	// No trades yet, the band is inactive.
	m.NewOrder(ctx, limitReq("S1", "m", orderbook.Sell, 10000, 50))
	m.NewOrder(ctx, limitReq("B1", "a", orderbook.Buy, 10000, 50))

	order, err := m.NewOrder(ctx, limitReq("B2", "a", orderbook.Buy, 20000, 10))
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != model.OrderStatusRejected {
		t.Errorf("out-of-band order accepted: %+v", order)
	}
}

func TestReportHandlerSeesEveryReport(t *testing.T) {
	gw := &captureGateway{}
	m := NewManager(gw)
	ctx := context.Background()

	var got []model.Order
	m.OnReport(func(order model.Order) {
		got = append(got, order)
	})

	m.NewOrder(ctx, limitReq("S1", "m", orderbook.Sell, 10000, 50))
	m.NewOrder(ctx, limitReq("B1", "a", orderbook.Buy, 10000, 50))

	if len(got) != len(gw.reports) {
		t.Fatalf("handler saw %d reports, gateway saw %d", len(got), len(gw.reports))
	}
	last := got[len(got)-1]
	if last.Status != model.OrderStatusFilled {
		t.Errorf("last report status = %s, want Filled", last.Status)
	}
}
