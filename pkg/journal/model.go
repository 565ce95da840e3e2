// Package journal persists trades and order events to postgres, fed
// asynchronously over Kafka and NATS JetStream.
package journal

import (
	"time"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/feed"
)

// TradeRow is the trades table record.
type TradeRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Symbol      string `gorm:"uniqueIndex:idx_trades_symbol_trade_id,priority:1"`
	TradeID     uint64 `gorm:"uniqueIndex:idx_trades_symbol_trade_id,priority:2"`
	BuyOrderID  uint64
	SellOrderID uint64
	Price       int64
	Quantity    int64
	ExecutedAt  time.Time
	CreatedAt   time.Time
}

func (TradeRow) TableName() string { return "trades" }

// NewTradeRow converts a feed message for insertion.
func NewTradeRow(msg feed.TradeMessage) *TradeRow {
	return &TradeRow{
		Symbol:      msg.Symbol,
		TradeID:     msg.TradeID,
		BuyOrderID:  msg.BuyOrderID,
		SellOrderID: msg.SellOrderID,
		Price:       msg.Price,
		Quantity:    msg.Quantity,
		ExecutedAt:  msg.Time,
	}
}

// OrderEventRow is the order_events table record.
type OrderEventRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	EventID     string `gorm:"uniqueIndex"`
	OrderID     uint64 `gorm:"index"`
	ClOrdID     string `gorm:"index"`
	OrigClOrdID string
	ExecType    string
	Status      string
	Price       int64
	Quantity    int64
	EventAt     time.Time
	CreatedAt   time.Time
}

func (OrderEventRow) TableName() string { return "order_events" }

// NewOrderEventRow converts an exchange event for insertion.
func NewOrderEventRow(ev *model.OrderEvent) *OrderEventRow {
	return &OrderEventRow{
		EventID:     ev.EventID,
		OrderID:     uint64(ev.OrderID),
		ClOrdID:     ev.ClOrdID,
		OrigClOrdID: ev.OrigClOrdID,
		ExecType:    string(ev.ExecType),
		Status:      string(ev.Status),
		Price:       int64(ev.Price),
		Quantity:    int64(ev.Quantity),
		EventAt:     ev.Timestamp,
	}
}
