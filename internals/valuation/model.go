package valuation

import "time"

const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// DraftPick is the slice of a pick row the valuator cares about.
type DraftPick struct {
	UserID     int     `json:"user_id"`
	Symbol     string  `json:"symbol"`
	EntryPrice float64 `json:"entry_price"`
	Quantity   int     `json:"quantity"`
}

// Trade is one immutable buy or sell from the ledger.
type Trade struct {
	UserID    int       `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Action    string    `json:"action"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// Holding is a derived position, recomputed from scratch on demand and
// never persisted.
type Holding struct {
	Symbol    string  `json:"symbol"`
	Quantity  float64 `json:"quantity"`
	TotalCost float64 `json:"total_cost"`
	AvgEntry  float64 `json:"avg_entry"`
}

type UserStats struct {
	UserID  int     `json:"user_id"`
	Spent   float64 `json:"spent"`
	Value   float64 `json:"value"`
	Gain    float64 `json:"gain"`
	GainPct float64 `json:"gain_pct"`
}

type Standing struct {
	UserStats
	Rank int `json:"rank"`
}
