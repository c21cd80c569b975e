package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stockdraft/api-server/internals/events"
	"github.com/stockdraft/api-server/internals/leagues"
	"github.com/stockdraft/api-server/internals/metrics"
	"github.com/stockdraft/api-server/internals/portfolio"
	"github.com/stockdraft/api-server/internals/quotes"
	"github.com/stockdraft/api-server/internals/valuation"
	"github.com/stockdraft/api-server/pkg/kvstore"
)

// DraftService wraps the pure turn engine with league state, validation
// and persistence.
type DraftService struct {
	KV     kvstore.KVStore
	DB     *gorm.DB
	Bus    *events.Bus
	Quotes *quotes.QuoteService
	Log    *zap.SugaredLogger

	ls *leagues.LeagueService
	ps *portfolio.PortfolioService
}

func NewService(kv kvstore.KVStore, db *gorm.DB, bus *events.Bus, qs *quotes.QuoteService, log *zap.SugaredLogger, ls *leagues.LeagueService, ps *portfolio.PortfolioService) *DraftService {
	return &DraftService{
		KV:     kv,
		DB:     db,
		Bus:    bus,
		Quotes: qs,
		Log:    log,
		ls:     ls,
		ps:     ps,
	}
}

func (ds *DraftService) countPicks(leagueID string) (int, error) {
	var count int
	err := ds.DB.Raw("SELECT COUNT(*) FROM draft_picks WHERE league_id = ?", leagueID).Scan(&count).Error
	return count, err
}

// GetStatus reports the draft order, the picks so far and whose turn is
// next.
func (ds *DraftService) GetStatus(leagueID string) (DraftStatus, error) {
	var status DraftStatus

	config, err := ds.ls.GetConfig(leagueID)
	if err != nil {
		return status, err
	}

	order, err := ds.ls.Participants(leagueID)
	if err != nil {
		return status, err
	}

	var picks []DraftPick
	err = ds.DB.Raw("SELECT pick_id, league_id, user_id, symbol, entry_price, quantity, round, pick_number, created_at FROM draft_picks WHERE league_id = ? ORDER BY pick_number ASC", leagueID).Scan(&picks).Error
	if err != nil {
		return status, err
	}

	state, err := ComputeTurnState(len(picks), order, config.NumRounds)
	if err != nil {
		return status, err
	}

	status.TurnState = state
	status.DraftCap = len(order) * config.NumRounds
	status.PicksMade = len(picks)
	status.Order = order
	status.Picks = picks
	return status, nil
}

// PicksUntil reports how many picks away the user's next turn is.
func (ds *DraftService) PicksUntil(leagueID string, userID int) (int, bool, error) {
	config, err := ds.ls.GetConfig(leagueID)
	if err != nil {
		return 0, false, err
	}

	order, err := ds.ls.Participants(leagueID)
	if err != nil {
		return 0, false, err
	}

	picksMade, err := ds.countPicks(leagueID)
	if err != nil {
		return 0, false, err
	}

	k, ok := PicksUntilTurn(picksMade, order, config.NumRounds, userID)
	return k, ok, nil
}

// MakePick validates and records one draft pick: the league must be
// drafting, it must be the user's turn, the symbol must be unclaimed in
// this league, and the cost must fit the user's purse. The entry price
// is snapshotted from the live quote, never taken from the client.
func (ds *DraftService) MakePick(ctx context.Context, userID int, leagueID string, body MakePickRequestBody) (DraftPick, error) {
	var pick DraftPick

	symbol := valuation.NormalizeSymbol(body.Symbol)
	if symbol == "" {
		return pick, fmt.Errorf("symbol is required")
	}
	quantity := body.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return pick, fmt.Errorf("quantity must be at least 1")
	}

	config, err := ds.ls.GetConfig(leagueID)
	if err != nil {
		return pick, err
	}
	if config.LeagueStatus != leagues.StatusDrafting {
		return pick, fmt.Errorf("league is not drafting")
	}

	order, err := ds.ls.Participants(leagueID)
	if err != nil {
		return pick, err
	}

	picksMade, err := ds.countPicks(leagueID)
	if err != nil {
		return pick, err
	}

	state, err := ComputeTurnState(picksMade, order, config.NumRounds)
	if err != nil {
		return pick, err
	}
	if state.Complete {
		return pick, fmt.Errorf("draft is already complete")
	}
	if *state.Picker != userID {
		return pick, fmt.Errorf("not your turn")
	}

	var claimed int
	err = ds.DB.Raw("SELECT COUNT(*) FROM draft_picks WHERE league_id = ? AND symbol = ?", leagueID, symbol).Scan(&claimed).Error
	if err != nil {
		return pick, err
	}
	if claimed > 0 {
		return pick, fmt.Errorf("%s is already drafted in this league", symbol)
	}

	prices := ds.Quotes.GetQuotes(ctx, []string{symbol})
	price, ok := prices[symbol]
	if !ok {
		return pick, fmt.Errorf("no quote available for %s", symbol)
	}

	cost := price * float64(quantity)
	balance, err := ds.ps.GetPurse(userID, leagueID)
	if err != nil {
		return pick, err
	}
	if balance < cost {
		return pick, fmt.Errorf("insufficient balance")
	}

	pick = DraftPick{
		PickID:     uuid.NewString(),
		LeagueID:   leagueID,
		UserID:     userID,
		Symbol:     symbol,
		EntryPrice: price,
		Quantity:   quantity,
		Round:      state.Round,
		PickNumber: state.PickNumber,
		CreatedAt:  time.Now(),
	}

	err = ds.DB.Exec("INSERT INTO draft_picks (pick_id, league_id, user_id, symbol, entry_price, quantity, round, pick_number, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		pick.PickID, pick.LeagueID, pick.UserID, pick.Symbol, pick.EntryPrice, pick.Quantity, pick.Round, pick.PickNumber, pick.CreatedAt).Error
	if err != nil {
		return pick, err
	}

	if err := ds.ps.SetPurse(userID, leagueID, balance-cost); err != nil {
		return pick, err
	}

	metrics.DraftPicksTotal.Inc()

	payload, _ := json.Marshal(pick)
	ds.Bus.Publish(events.Event{Topic: events.TopicDraftPick, LeagueID: leagueID, Payload: payload})

	// Last pick of the draft opens trading.
	if pick.PickNumber == len(order)*config.NumRounds {
		err = ds.DB.Exec("UPDATE leagues SET league_status = ? WHERE league_id = ?", leagues.StatusActive, leagueID).Error
		if err != nil {
			return pick, err
		}
		ds.Bus.Publish(events.Event{Topic: events.TopicDraftComplete, LeagueID: leagueID})
		if ds.Log != nil {
			ds.Log.Infow("draft complete, trading open", "league_id", leagueID)
		}
	}

	return pick, nil
}
