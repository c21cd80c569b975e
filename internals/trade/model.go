package trade

import "time"

// Trade is one row of the append-only trade ledger. Rows are never
// updated or individually deleted.
type Trade struct {
	TradeID    string    `json:"trade_id" gorm:"primaryKey"`
	LeagueID   string    `json:"league_id" gorm:"not null"`
	UserID     int       `json:"user_id" gorm:"not null"`
	Symbol     string    `json:"symbol" gorm:"not null"`
	Action     string    `json:"action" gorm:"not null"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	Price      float64   `json:"price" gorm:"not null"`
	TotalValue float64   `json:"total_value" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

type TransactionRequestBody struct {
	Symbol   string `json:"symbol"`
	Quantity int    `json:"quantity"`
}
