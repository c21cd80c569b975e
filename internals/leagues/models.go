package leagues

import "time"

// League lifecycle: open (registration) -> drafting -> active (trading)
// -> closed.
const (
	StatusOpen     = "open"
	StatusDrafting = "drafting"
	StatusActive   = "active"
	StatusClosed   = "closed"
)

const (
	BudgetModeBudget   = "budget"
	BudgetModeNoBudget = "no-budget"
)

// Leagues is the table structure.
type Leagues struct {
	LeagueID        string    `json:"league_id" gorm:"primaryKey;not null"`
	LeagueName      string    `json:"league_name" gorm:"not null"`
	NumParticipants int       `json:"num_participants" gorm:"not null"`
	NumRounds       int       `json:"num_rounds" gorm:"not null"`
	BudgetMode      string    `json:"budget_mode" gorm:"default:'no-budget';not null"`
	BudgetAmount    float64   `json:"budget_amount" gorm:"default:0;not null"`
	Registered      int       `json:"registered" gorm:"default:0;not null"`
	UsersRegistered string    `json:"users_registered" gorm:"default:'';not null"`
	LeagueStatus    string    `json:"league_status" gorm:"default:'open';not null"`
	CreatedBy       int       `json:"created_by" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
}

// League is the API view of a league row.
type League struct {
	LeagueID        string  `json:"league_id"`
	LeagueName      string  `json:"league_name"`
	NumParticipants int     `json:"num_participants"`
	NumRounds       int     `json:"num_rounds"`
	BudgetMode      string  `json:"budget_mode"`
	BudgetAmount    float64 `json:"budget_amount"`
	Registered      int     `json:"registered"`
	UsersRegistered string  `json:"users_registered"`
	LeagueStatus    string  `json:"league_status"`
	CreatedBy       int     `json:"created_by"`
	IsRegistered    bool    `json:"is_registered"`
}

// Config is the slice of a league the draft engine needs.
type Config struct {
	NumParticipants int
	NumRounds       int
	BudgetMode      string
	BudgetAmount    float64
	LeagueStatus    string
}

type CreateLeagueRequestBody struct {
	LeagueName      string  `json:"league_name"`
	NumParticipants int     `json:"num_participants"`
	NumRounds       int     `json:"num_rounds"`
	BudgetMode      string  `json:"budget_mode"`
	BudgetAmount    float64 `json:"budget_amount"`
}
