package fixgateway

import (
	"strconv"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

// messagePool recycles quickfix messages across execution reports;
// report volume tracks trade volume, so this is the hot allocation.
type messagePool struct {
	pool sync.Pool
}

func newMessagePool() *messagePool {
	return &messagePool{
		pool: sync.Pool{
			New: func() interface{} {
				m := quickfix.NewMessage()
				resetMessage(m)
				return m
			},
		},
	}
}

func (mp *messagePool) Get() *quickfix.Message {
	m := mp.pool.Get().(*quickfix.Message)
	resetMessage(m)
	return m
}

func (mp *messagePool) Put(m *quickfix.Message) {
	resetMessage(m)
	mp.pool.Put(m)
}

func resetMessage(m *quickfix.Message) {
	m.Header.Init()
	m.Body.Init()
	m.Trailer.Init()
	m.Header.Clear()
	m.Body.Clear()
	m.Trailer.Clear()
}

var execReportPool = newMessagePool()

// sendExecutionReport renders one order state as an ExecutionReport
// and sends it to the session that owns the order.
func sendExecutionReport(order model.Order, sessionID quickfix.SessionID) error {
	raw := execReportPool.Get()
	defer execReportPool.Put(raw)

	msg := buildExecutionReport(raw, order)
	return quickfix.SendToTarget(msg, sessionID)
}

func buildExecutionReport(raw *quickfix.Message, order model.Order) executionreport.ExecutionReport {
	msg := executionreport.FromMessage(raw)
	msg.SetMsgType(enum.MsgType_EXECUTION_REPORT)
	msg.SetOrderID(orderIDString(order.OrderID))
	msg.SetExecID(order.ExecID)
	msg.SetExecType(execTypeMapping[order.ExecType])
	msg.SetOrdStatus(orderStatusMapping[order.Status])
	msg.SetClOrdID(order.ClOrdID)
	if order.OrigClOrdID != "" {
		msg.SetOrigClOrdID(order.OrigClOrdID)
	}
	msg.SetAccount(order.Account)
	msg.SetSymbol(order.Symbol)
	msg.SetSide(sideMapping[order.Side])
	msg.SetOrderQty(decimal.NewFromInt(int64(order.Quantity)), 0)
	if order.HasPrice {
		msg.SetPrice(orderbook.PriceToDecimal(order.Price), 2)
	}
	if tif, ok := timeInForceMapping[order.TimeInForce]; ok {
		msg.SetTimeInForce(tif)
	}
	msg.SetLeavesQty(decimal.NewFromInt(int64(order.LeavesQuantity)), 0)
	msg.SetCumQty(decimal.NewFromInt(int64(order.CumQuantity)), 0)
	if order.LastQuantity > 0 {
		msg.SetLastQty(decimal.NewFromInt(int64(order.LastQuantity)), 0)
		msg.SetLastPx(orderbook.PriceToDecimal(order.LastPrice), 2)
	}
	msg.SetAvgPx(avgPx(order), 2)
	if order.RejectReason != "" {
		msg.SetText(order.RejectReason)
	}
	if !order.TransactTime.IsZero() {
		msg.SetTransactTime(order.TransactTime)
	}

	return msg
}

func orderIDString(id orderbook.OrderID) string {
	return strconv.FormatUint(uint64(id), 10)
}

func avgPx(order model.Order) decimal.Decimal {
	if order.CumQuantity == 0 {
		return decimal.Zero
	}
	return decimal.New(order.CumNotional, -2).
		Div(decimal.NewFromInt(int64(order.CumQuantity)))
}
