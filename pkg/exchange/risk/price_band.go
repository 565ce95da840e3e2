package risk

import (
	"fmt"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
	"github.com/arthur3336/orderflow-engine/pkg/orderbook"
)

// PriceBandRule rejects limit prices further than BandPercent from a
// per-symbol reference price. Symbols without a reference, and orders
// without a price, pass.
type PriceBandRule struct {
	BandPercent int64
	Reference   func(symbol string) orderbook.Price
}

func (r *PriceBandRule) Check(order *model.Order) error {
	if !order.HasPrice || r.Reference == nil {
		return nil
	}
	ref := r.Reference(order.Symbol)
	if ref <= 0 {
		return nil
	}

	band := orderbook.Price(int64(ref) * r.BandPercent / 100)
	if order.Price > ref+band || order.Price < ref-band {
		return fmt.Errorf("price %s outside %d%% band around %s",
			orderbook.FormatPrice(order.Price), r.BandPercent, orderbook.FormatPrice(ref))
	}
	return nil
}
