package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stockdraft/api-server/internals/events"
	"github.com/stockdraft/api-server/pkg/kvstore"
)

type NotificationService struct {
	KV  kvstore.KVStore
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

func New(kv kvstore.KVStore, db *gorm.DB, log *zap.SugaredLogger) *NotificationService {
	return &NotificationService{
		KV:  kv,
		DB:  db,
		Log: log,
	}
}

func (ns *NotificationService) insert(userID int, leagueID, kind, description string) {
	err := ns.DB.Exec("INSERT INTO notifications (user_id, league_id, kind, description, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		userID, leagueID, kind, description, StatusUnseen, time.Now()).Error
	if err != nil && ns.Log != nil {
		ns.Log.Warnw("failed to insert notification", "user_id", userID, "err", err)
	}
}

// HandleEvent turns league events into per-user notifications. It is
// subscribed to the bus at startup.
func (ns *NotificationService) HandleEvent(event events.Event) {
	switch event.Topic {
	case events.TopicDraftPick:
		var pick struct {
			UserID     int     `json:"user_id"`
			Symbol     string  `json:"symbol"`
			EntryPrice float64 `json:"entry_price"`
			Quantity   int     `json:"quantity"`
		}
		if err := json.Unmarshal(event.Payload, &pick); err != nil {
			return
		}
		ns.insert(pick.UserID, event.LeagueID, "pick",
			fmt.Sprintf("You drafted %d x %s at %.2f", pick.Quantity, pick.Symbol, pick.EntryPrice))
	case events.TopicTradeExecuted:
		var trade struct {
			UserID   int     `json:"user_id"`
			Symbol   string  `json:"symbol"`
			Action   string  `json:"action"`
			Quantity int     `json:"quantity"`
			Price    float64 `json:"price"`
		}
		if err := json.Unmarshal(event.Payload, &trade); err != nil {
			return
		}
		ns.insert(trade.UserID, event.LeagueID, "trade",
			fmt.Sprintf("Your order to %s %d x %s at %.2f executed successfully", trade.Action, trade.Quantity, trade.Symbol, trade.Price))
	}
}

func (ns *NotificationService) GetNotifications(userID int) ([]Notification, error) {
	notifications := make([]Notification, 0)
	err := ns.DB.Raw("SELECT id, user_id, league_id, kind, description, status, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC LIMIT 50", userID).Scan(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (ns *NotificationService) MarkAllSeen(userID int) error {
	err := ns.DB.Exec("UPDATE notifications SET status = ? WHERE user_id = ?", StatusSeen, userID).Error
	if err != nil {
		return fmt.Errorf("not able to update notification status: %v", err)
	}
	return nil
}
