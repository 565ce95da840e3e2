package fixgateway

import (
	"fmt"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

// tagSelfTradePrevention is the custom tag carrying the STP policy on
// inbound orders: 0=ALLOW .. 4=DECREMENT_AND_CANCEL. Absent means
// ALLOW.
const tagSelfTradePrevention quickfix.Tag = 8000

var orderStatusMapping = map[model.OrderStatus]enum.OrdStatus{
	model.OrderStatusPendingNew:      enum.OrdStatus_PENDING_NEW,
	model.OrderStatusNew:             enum.OrdStatus_NEW,
	model.OrderStatusPartiallyFilled: enum.OrdStatus_PARTIALLY_FILLED,
	model.OrderStatusFilled:          enum.OrdStatus_FILLED,
	model.OrderStatusCanceled:        enum.OrdStatus_CANCELED,
	model.OrderStatusReplaced:        enum.OrdStatus_REPLACED,
	model.OrderStatusRejected:        enum.OrdStatus_REJECTED,
	model.OrderStatusExpired:         enum.OrdStatus_EXPIRED,
}

var execTypeMapping = map[model.OrderExecType]enum.ExecType{
	model.ExecTypeNew:      enum.ExecType_NEW,
	model.ExecTypeTrade:    enum.ExecType_TRADE,
	model.ExecTypeCanceled: enum.ExecType_CANCELED,
	model.ExecTypeReplaced: enum.ExecType_REPLACED,
	model.ExecTypeRejected: enum.ExecType_REJECTED,
	model.ExecTypeExpired:  enum.ExecType_EXPIRED,
}

var sideMapping = map[orderbook.Side]enum.Side{
	orderbook.Buy:  enum.Side_BUY,
	orderbook.Sell: enum.Side_SELL,
}

var timeInForceMapping = map[orderbook.TimeInForce]enum.TimeInForce{
	orderbook.GTC: enum.TimeInForce_GOOD_TILL_CANCEL,
	orderbook.IOC: enum.TimeInForce_IMMEDIATE_OR_CANCEL,
	orderbook.FOK: enum.TimeInForce_FILL_OR_KILL,
}

func sideFromFIX(s enum.Side) (orderbook.Side, error) {
	switch s {
	case enum.Side_BUY:
		return orderbook.Buy, nil
	case enum.Side_SELL:
		return orderbook.Sell, nil
	}
	return 0, fmt.Errorf("unsupported side %q", s)
}

func ordTypeFromFIX(t enum.OrdType) (orderbook.OrderType, error) {
	switch t {
	case enum.OrdType_LIMIT:
		return orderbook.Limit, nil
	case enum.OrdType_MARKET:
		return orderbook.Market, nil
	}
	return 0, fmt.Errorf("unsupported order type %q", t)
}

// tifFromFIX maps FIX time in force. DAY trades like GTC here: the
// engine has no session close to expire it at. Absent defaults by
// order type: limit GTC, market IOC.
func tifFromFIX(t enum.TimeInForce, ordType orderbook.OrderType) (orderbook.TimeInForce, error) {
	switch t {
	case enum.TimeInForce_GOOD_TILL_CANCEL, enum.TimeInForce_DAY:
		return orderbook.GTC, nil
	case enum.TimeInForce_IMMEDIATE_OR_CANCEL:
		return orderbook.IOC, nil
	case enum.TimeInForce_FILL_OR_KILL:
		return orderbook.FOK, nil
	case "":
		if ordType == orderbook.Market {
			return orderbook.IOC, nil
		}
		return orderbook.GTC, nil
	}
	return 0, fmt.Errorf("unsupported time in force %q", t)
}

func stpModeFromInt(v int) (orderbook.STPMode, error) {
	if v < 0 || v > int(orderbook.STPDecrementAndCancel) {
		return 0, fmt.Errorf("unsupported STP mode %d", v)
	}
	return orderbook.STPMode(v), nil
}

// priceFromFIX converts a FIX decimal price to fixed point, rejecting
// sub-tick values.
func priceFromFIX(d decimal.Decimal) (orderbook.Price, error) {
	return orderbook.DecimalToPrice(d)
}

// qtyFromFIX converts a FIX decimal quantity, rejecting fractions.
func qtyFromFIX(d decimal.Decimal) (orderbook.Quantity, error) {
	if !d.IsInteger() {
		return 0, fmt.Errorf("fractional quantity %s", d)
	}
	return orderbook.Quantity(d.IntPart()), nil
}
