// Package risk holds pre-trade checks run before an order reaches the
// matching engine. A failed check rejects the order without touching
// book state.
package risk

import "github.com/arthur3336/orderflow-engine/pkg/exchange/model"

type Rule interface {
	Check(order *model.Order) error
}
