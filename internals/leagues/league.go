package leagues

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/rand"
	"gorm.io/gorm"

	"github.com/stockdraft/api-server/pkg/kvstore"
)

type LeagueService struct {
	KV kvstore.KVStore
	DB *gorm.DB

	// Seed balance for no-budget leagues; budget leagues seed the
	// league's budget amount instead.
	DefaultBankroll float64
}

func New(kv kvstore.KVStore, db *gorm.DB, defaultBankroll float64) *LeagueService {
	return &LeagueService{
		KV:              kv,
		DB:              db,
		DefaultBankroll: defaultBankroll,
	}
}

func generateLeagueID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	rand.Seed(uint64(time.Now().UnixNano()))
	b := make([]byte, 8)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// ParseParticipants turns the comma-separated users_registered column
// into user IDs in registration order. Registration order doubles as
// draft order and as the standings tie-break.
func ParseParticipants(usersRegistered string) []int {
	if usersRegistered == "" {
		return nil
	}
	parts := strings.Split(usersRegistered, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (l *LeagueService) CreateLeague(userID int, league CreateLeagueRequestBody) (string, error) {
	if league.LeagueName == "" {
		return "", fmt.Errorf("league_name is required")
	}
	if league.NumParticipants < 2 {
		return "", fmt.Errorf("league needs at least 2 participants")
	}
	if league.NumRounds < 1 {
		return "", fmt.Errorf("league needs at least 1 round")
	}

	switch league.BudgetMode {
	case "":
		league.BudgetMode = BudgetModeNoBudget
	case BudgetModeNoBudget:
	case BudgetModeBudget:
		if league.BudgetAmount <= 0 {
			return "", fmt.Errorf("budget_amount is required for a budget league")
		}
	default:
		return "", fmt.Errorf("unknown budget_mode %q", league.BudgetMode)
	}

	leagueID := generateLeagueID()

	err := l.DB.Table("leagues").Create(&Leagues{
		LeagueID:        leagueID,
		LeagueName:      league.LeagueName,
		NumParticipants: league.NumParticipants,
		NumRounds:       league.NumRounds,
		BudgetMode:      league.BudgetMode,
		BudgetAmount:    league.BudgetAmount,
		CreatedBy:       userID,
		CreatedAt:       time.Now(),
	}).Error
	if err != nil {
		return "", fmt.Errorf("error inserting league: %v", err)
	}

	return leagueID, nil
}

func (l *LeagueService) GetLeagues(userID int) ([]League, error) {
	var leagues []League
	err := l.DB.Table("leagues").Find(&leagues).Error
	if err != nil {
		return nil, err
	}

	for i, league := range leagues {
		leagues[i].IsRegistered = false
		for _, id := range ParseParticipants(league.UsersRegistered) {
			if id == userID {
				leagues[i].IsRegistered = true
				break
			}
		}
	}

	return leagues, nil
}

func (l *LeagueService) GetMyLeagues(userID int) ([]League, error) {
	all, err := l.GetLeagues(userID)
	if err != nil {
		return nil, err
	}

	mine := make([]League, 0)
	for _, league := range all {
		if league.IsRegistered || league.CreatedBy == userID {
			mine = append(mine, league)
		}
	}
	return mine, nil
}

func (l *LeagueService) GetConfig(leagueID string) (Config, error) {
	var config Config
	err := l.DB.Raw("SELECT num_participants, num_rounds, budget_mode, budget_amount, league_status FROM leagues WHERE league_id = ?", leagueID).Scan(&config).Error
	if err != nil {
		return config, err
	}
	if config.NumParticipants == 0 {
		return config, fmt.Errorf("league %s not found", leagueID)
	}
	return config, nil
}

// Participants returns the registered users in draft order.
func (l *LeagueService) Participants(leagueID string) ([]int, error) {
	var usersRegistered string
	err := l.DB.Raw("SELECT users_registered FROM leagues WHERE league_id = ?", leagueID).Scan(&usersRegistered).Error
	if err != nil {
		return nil, err
	}
	return ParseParticipants(usersRegistered), nil
}

func (l *LeagueService) seedAmount(league Leagues) float64 {
	if league.BudgetMode == BudgetModeBudget {
		return league.BudgetAmount
	}
	return l.DefaultBankroll
}

func (l *LeagueService) RegisterToLeague(userID int, leagueID string) error {
	var league Leagues
	err := l.DB.Table("leagues").Where("league_id = ?", leagueID).Scan(&league).Error
	if err != nil {
		return err
	}
	if league.LeagueID == "" {
		return fmt.Errorf("league %s not found", leagueID)
	}

	if league.LeagueStatus != StatusOpen {
		return fmt.Errorf("registration is closed for this league")
	}
	if league.Registered == league.NumParticipants {
		return fmt.Errorf("league is full")
	}
	for _, id := range ParseParticipants(league.UsersRegistered) {
		if id == userID {
			return fmt.Errorf("already registered")
		}
	}

	newRegisteredUsers := strings.TrimPrefix(league.UsersRegistered+fmt.Sprintf(",%d", userID), ",")
	league.Registered = league.Registered + 1

	err = l.DB.Table("leagues").Where("league_id = ?", leagueID).Updates(map[string]interface{}{"registered": league.Registered, "users_registered": newRegisteredUsers}).Error
	if err != nil {
		return fmt.Errorf("error updating league: %v", err)
	}

	err = l.DB.Table("purse").Create(map[string]interface{}{"user_id": userID, "league_id": leagueID, "balance": l.seedAmount(league)}).Error
	if err != nil {
		return fmt.Errorf("error seeding purse: %v", err)
	}

	return nil
}

// StartDraft moves an open league into drafting. Only the creator can
// start it, and at least two users must be registered for the snake
// order to mean anything.
func (l *LeagueService) StartDraft(userID int, leagueID string) error {
	var league Leagues
	err := l.DB.Table("leagues").Where("league_id = ?", leagueID).Scan(&league).Error
	if err != nil {
		return err
	}
	if league.LeagueID == "" {
		return fmt.Errorf("league %s not found", leagueID)
	}

	if league.CreatedBy != userID {
		return fmt.Errorf("only the league creator can start the draft")
	}
	if league.LeagueStatus != StatusOpen {
		return fmt.Errorf("league is not open")
	}
	if league.Registered < 2 {
		return fmt.Errorf("draft needs at least 2 registered users")
	}

	// The draft order is fixed at start time: registered users, in
	// registration order. Capacity shrinks to whoever showed up.
	return l.DB.Table("leagues").Where("league_id = ?", leagueID).Updates(map[string]interface{}{
		"league_status":    StatusDrafting,
		"num_participants": league.Registered,
	}).Error
}

// ResetDraft wipes the league's picks and trades and reseeds every
// registered user's purse. This is the only path that deletes ledger
// rows.
func (l *LeagueService) ResetDraft(userID int, leagueID string) error {
	var league Leagues
	err := l.DB.Table("leagues").Where("league_id = ?", leagueID).Scan(&league).Error
	if err != nil {
		return err
	}
	if league.LeagueID == "" {
		return fmt.Errorf("league %s not found", leagueID)
	}
	if league.CreatedBy != userID {
		return fmt.Errorf("only the league creator can reset the draft")
	}

	if err := l.DB.Exec("DELETE FROM draft_picks WHERE league_id = ?", leagueID).Error; err != nil {
		return err
	}
	if err := l.DB.Exec("DELETE FROM trades WHERE league_id = ?", leagueID).Error; err != nil {
		return err
	}
	if err := l.DB.Exec("UPDATE purse SET balance = ? WHERE league_id = ?", l.seedAmount(league), leagueID).Error; err != nil {
		return err
	}

	// Drop the cached purse balances so the next read reloads.
	for _, id := range ParseParticipants(league.UsersRegistered) {
		_ = l.KV.Delete("purse_" + strconv.Itoa(id) + "_" + leagueID)
	}

	status := StatusDrafting
	if league.LeagueStatus == StatusOpen {
		status = StatusOpen
	}
	return l.DB.Exec("UPDATE leagues SET league_status = ? WHERE league_id = ?", status, leagueID).Error
}

func (l *LeagueService) DeleteLeague(userID int, leagueID string) error {
	var league Leagues
	err := l.DB.Table("leagues").Where("league_id = ?", leagueID).Scan(&league).Error
	if err != nil {
		return err
	}
	if league.LeagueID == "" {
		return fmt.Errorf("league %s not found", leagueID)
	}
	if league.CreatedBy != userID {
		return fmt.Errorf("only the league creator can delete the league")
	}

	for _, table := range []string{"draft_picks", "trades", "purse"} {
		if err := l.DB.Exec("DELETE FROM "+table+" WHERE league_id = ?", leagueID).Error; err != nil {
			return err
		}
	}
	return l.DB.Exec("DELETE FROM leagues WHERE league_id = ?", leagueID).Error
}
