package trade

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

type TradeService struct {
	KV     kvstore.KVStore
	DB     *gorm.DB
	Bus    *events.Bus
	Quotes *quotes.QuoteService
	Log    *zap.SugaredLogger

	ls *leagues.LeagueService
	ps *portfolio.PortfolioService
}

func New(kv kvstore.KVStore, db *gorm.DB, bus *events.Bus, qs *quotes.QuoteService, log *zap.SugaredLogger, ls *leagues.LeagueService, ps *portfolio.PortfolioService) *TradeService {
	return &TradeService{
		KV:     kv,
		DB:     db,
		Bus:    bus,
		Quotes: qs,
		Log:    log,
		ls:     ls,
		ps:     ps,
	}
}

// Transaction executes one buy or sell. The price is always the live
// quote, never the client's number. Sells are validated against the
// quantity actually held, recomputed from the ledger.
func (ts *TradeService) Transaction(ctx context.Context, action, leagueID string, userID int, body TransactionRequestBody) (Trade, error) {
	var executed Trade

	if action != valuation.ActionBuy && action != valuation.ActionSell {
		return executed, fmt.Errorf("unknown transaction_type %q", action)
	}
	symbol := valuation.NormalizeSymbol(body.Symbol)
	if symbol == "" {
		return executed, fmt.Errorf("symbol is required")
	}
	if body.Quantity < 1 {
		return executed, fmt.Errorf("quantity must be at least 1")
	}

	config, err := ts.ls.GetConfig(leagueID)
	if err != nil {
		return executed, err
	}
	if config.LeagueStatus != leagues.StatusActive {
		return executed, fmt.Errorf("trading is not open for this league")
	}

	prices := ts.Quotes.GetQuotes(ctx, []string{symbol})
	price, ok := prices[symbol]
	if !ok {
		return executed, fmt.Errorf("no quote available for %s", symbol)
	}

	totalValue := price * float64(body.Quantity)

	balance, err := ts.ps.GetPurse(userID, leagueID)
	if err != nil {
		return executed, err
	}

	switch action {
	case valuation.ActionBuy:
		if balance < totalValue {
			return executed, fmt.Errorf("insufficient balance")
		}
		balance -= totalValue
	case valuation.ActionSell:
		holdings, err := ts.ps.Holdings(leagueID, userID)
		if err != nil {
			return executed, err
		}
		held := holdings[symbol].Quantity
		if held < float64(body.Quantity) {
			return executed, fmt.Errorf("insufficient shares")
		}
		balance += totalValue
	}

	executed = Trade{
		TradeID:    uuid.NewString(),
		LeagueID:   leagueID,
		UserID:     userID,
		Symbol:     symbol,
		Action:     action,
		Quantity:   body.Quantity,
		Price:      price,
		TotalValue: totalValue,
		CreatedAt:  time.Now(),
	}

	err = ts.DB.Exec("INSERT INTO trades (trade_id, league_id, user_id, symbol, action, quantity, price, total_value, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		executed.TradeID, executed.LeagueID, executed.UserID, executed.Symbol, executed.Action, executed.Quantity, executed.Price, executed.TotalValue, executed.CreatedAt).Error
	if err != nil {
		return executed, err
	}

	if err := ts.ps.SetPurse(userID, leagueID, balance); err != nil {
		return executed, err
	}

	metrics.TradesTotal.WithLabelValues(action).Inc()

	payload, _ := json.Marshal(executed)
	ts.Bus.Publish(events.Event{Topic: events.TopicTradeExecuted, LeagueID: leagueID, Payload: payload})

	return executed, nil
}

// GetHistory returns the user's trades in the league, newest first.
func (ts *TradeService) GetHistory(leagueID string, userID int) ([]Trade, error) {
	trades := make([]Trade, 0)
	err := ts.DB.Raw("SELECT trade_id, league_id, user_id, symbol, action, quantity, price, total_value, created_at FROM trades WHERE league_id = ? AND user_id = ? ORDER BY created_at DESC", leagueID, userID).Scan(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}
