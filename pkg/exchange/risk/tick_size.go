package risk

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arthur3336/orderflow-engine/pkg/exchange/model"
)

type tickSizeBand struct {
	MaxPrice int64 `json:"maxPrice"` // 0 = no upper bound
	Step     int64 `json:"step"`
}

// TickSizeRule validates that limit prices land on the configured step
// for their symbol and price band. Symbols without config pass.
type TickSizeRule struct {
	Config map[string][]tickSizeBand
}

func NewTickSizeRuleFromFile(path string) (*TickSizeRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg map[string][]tickSizeBand
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &TickSizeRule{Config: cfg}, nil
}

func (r *TickSizeRule) Check(order *model.Order) error {
	if !order.HasPrice {
		return nil
	}
	bands, ok := r.Config[order.Symbol]
	if !ok {
		return nil
	}

	price := int64(order.Price)
	for _, band := range bands {
		if band.MaxPrice == 0 || price <= band.MaxPrice {
			if band.Step > 0 && price%band.Step != 0 {
				return fmt.Errorf("price %d off tick step %d", price, band.Step)
			}
			return nil
		}
	}
	return nil
}
