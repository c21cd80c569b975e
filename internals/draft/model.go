package draft

import "time"

// DraftPick is one row of the append-only draft ledger.
type DraftPick struct {
	PickID     string    `json:"pick_id" gorm:"primaryKey"`
	LeagueID   string    `json:"league_id" gorm:"not null"`
	UserID     int       `json:"user_id" gorm:"not null"`
	Symbol     string    `json:"symbol" gorm:"not null"`
	EntryPrice float64   `json:"entry_price" gorm:"not null"`
	Quantity   int       `json:"quantity" gorm:"default:1;not null"`
	Round      int       `json:"round" gorm:"not null"`
	PickNumber int       `json:"pick_number" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

type MakePickRequestBody struct {
	Symbol   string `json:"symbol"`
	Quantity int    `json:"quantity"`
}

// DraftStatus is the API view of where a draft stands.
type DraftStatus struct {
	TurnState
	DraftCap  int         `json:"draft_cap"`
	PicksMade int         `json:"picks_made"`
	Order     []int       `json:"order"`
	Picks     []DraftPick `json:"picks"`
}
