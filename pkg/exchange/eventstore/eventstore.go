// Package eventstore records order lifecycle events and the client
// order id chains that cancel/replace rewrites build up.
package eventstore

import (
	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

type EventStore interface {
	AddEvent(ev *model.OrderEvent)
	Events(orderID orderbook.OrderID) []*model.OrderEvent
	TrackClOrdChain(orderID orderbook.OrderID, clOrdID, origClOrdID string)
	GetLatestClOrdID(orderID orderbook.OrderID) string
	GetOrigClOrdID(clOrdID string) string
	GetOrderID(clOrdID string) (orderbook.OrderID, bool)
	ReconstructChain(clOrdID string) []string
}
