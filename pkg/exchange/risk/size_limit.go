package risk

import (
	"fmt"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

// SizeLimitRule bounds order quantity. Max == 0 means unbounded above.
type SizeLimitRule struct {
	Min orderbook.Quantity
	Max orderbook.Quantity
}

func (r *SizeLimitRule) Check(order *model.Order) error {
	if order.Quantity < r.Min {
		return fmt.Errorf("quantity %d below minimum %d", order.Quantity, r.Min)
	}
	if r.Max > 0 && order.Quantity > r.Max {
		return fmt.Errorf("quantity %d above maximum %d", order.Quantity, r.Max)
	}
	return nil
}
