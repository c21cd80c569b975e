package portfolio

import "github.com/stockdraft/api-server/internals/valuation"

// Position is one priced holding in the API response.
type Position struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	AvgEntry float64 `json:"avg_entry"`
	CurPrice float64 `json:"cur_price"`
	Value    float64 `json:"value"`
	Gain     float64 `json:"gain"`
}

type DetailedPortfolio struct {
	Positions []Position          `json:"positions"`
	Balance   float64             `json:"balance"`
	Stats     valuation.UserStats `json:"stats"`
}
