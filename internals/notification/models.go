package notification

import "time"

const (
	StatusUnseen = "unseen"
	StatusSeen   = "seen"
)

type Notification struct {
	ID          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      int       `json:"user_id" gorm:"not null"`
	LeagueID    string    `json:"league_id" gorm:"not null"`
	Kind        string    `json:"kind" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	Status      string    `json:"status" gorm:"default:'unseen';not null"`
	CreatedAt   time.Time `json:"created_at"`
}
