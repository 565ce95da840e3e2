package journal

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ITrade interface {
	Create(ctx context.Context, record *TradeRow) (*TradeRow, error)
	BulkCreate(ctx context.Context, records []*TradeRow) ([]*TradeRow, error)
}

type IOrderEvent interface {
	Create(ctx context.Context, record *OrderEventRow) (*OrderEventRow, error)
	BulkCreate(ctx context.Context, records []*OrderEventRow) ([]*OrderEventRow, error)
}

type IRepo interface {
	Trade() ITrade
	OrderEvent() IOrderEvent
}

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) IRepo {
	return &Repo{db: db}
}

func (r *Repo) Trade() ITrade {
	return &TradeSQLRepo{db: r.db}
}

func (r *Repo) OrderEvent() IOrderEvent {
	return &OrderEventSQLRepo{db: r.db}
}

// TradeSQLRepo inserts are idempotent on (symbol, trade_id); redelivery
// from the feed is expected.
type TradeSQLRepo struct {
	db *gorm.DB
}

func NewTradeSQLRepo(db *gorm.DB) *TradeSQLRepo {
	return &TradeSQLRepo{db: db}
}

func (r *TradeSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *TradeSQLRepo) Create(ctx context.Context, record *TradeRow) (*TradeRow, error) {
	return record, r.dbWithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record).Error
}

func (r *TradeSQLRepo) BulkCreate(ctx context.Context, records []*TradeRow) ([]*TradeRow, error) {
	return records, r.dbWithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(records).Error
}

// OrderEventSQLRepo inserts are idempotent on event_id.
type OrderEventSQLRepo struct {
	db *gorm.DB
}

func NewOrderEventSQLRepo(db *gorm.DB) *OrderEventSQLRepo {
	return &OrderEventSQLRepo{db: db}
}

func (r *OrderEventSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *OrderEventSQLRepo) Create(ctx context.Context, record *OrderEventRow) (*OrderEventRow, error) {
	return record, r.dbWithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record).Error
}

func (r *OrderEventSQLRepo) BulkCreate(ctx context.Context, records []*OrderEventRow) ([]*OrderEventRow, error) {
	return records, r.dbWithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(records).Error
}
