package portfolio

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stockdraft/api-server/internals/cache"
	"github.com/stockdraft/api-server/internals/quotes"
	"github.com/stockdraft/api-server/internals/valuation"
	"github.com/stockdraft/api-server/pkg/kvstore"
)

type PortfolioService struct {
	KV     kvstore.KVStore
	DB     *gorm.DB
	Quotes *quotes.QuoteService
	Log    *zap.SugaredLogger
}

func New(kv kvstore.KVStore, db *gorm.DB, qs *quotes.QuoteService, log *zap.SugaredLogger) *PortfolioService {
	return &PortfolioService{
		KV:     kv,
		DB:     db,
		Quotes: qs,
		Log:    log,
	}
}

// Ledger loads the league's full pick and trade history in the order the
// valuator expects: picks by pick_number, trades by created_at.
func (ps *PortfolioService) Ledger(leagueID string) ([]valuation.DraftPick, []valuation.Trade, error) {
	var picks []valuation.DraftPick
	err := ps.DB.Raw("SELECT user_id, symbol, entry_price, quantity FROM draft_picks WHERE league_id = ? ORDER BY pick_number ASC", leagueID).Scan(&picks).Error
	if err != nil {
		return nil, nil, err
	}

	var trades []valuation.Trade
	err = ps.DB.Raw("SELECT user_id, symbol, action, quantity, price, created_at FROM trades WHERE league_id = ? ORDER BY created_at ASC", leagueID).Scan(&trades).Error
	if err != nil {
		return nil, nil, err
	}

	return picks, trades, nil
}

// Holdings recomputes one user's positions from the ledger. Oversold
// symbols are clamped by the valuator; we log them because they mean a
// caller-side validation slipped.
func (ps *PortfolioService) Holdings(leagueID string, userID int) (map[string]valuation.Holding, error) {
	picks, trades, err := ps.Ledger(leagueID)
	if err != nil {
		return nil, err
	}

	holdings := valuation.ComputeHoldings(userID, picks, trades, func(symbol string) {
		if ps.Log != nil {
			ps.Log.Warnw("sell exceeded held quantity, clamped to zero",
				"league_id", leagueID, "user_id", userID, "symbol", symbol)
		}
	})
	return holdings, nil
}

// GetPurse reads the cached balance, backfilling from the purse table on
// a miss.
func (ps *PortfolioService) GetPurse(userID int, leagueID string) (float64, error) {
	raw, err := ps.KV.Get("purse_" + strconv.Itoa(userID) + "_" + leagueID)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return cache.New(ps.DB, ps.KV).LoadUserPurse(leagueID, userID)
		}
		return 0, err
	}

	balance, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// SetPurse writes the new balance to the purse table and the cache.
func (ps *PortfolioService) SetPurse(userID int, leagueID string, balance float64) error {
	err := ps.DB.Exec("UPDATE purse SET balance = ? WHERE user_id = ? AND league_id = ?", balance, userID, leagueID).Error
	if err != nil {
		return err
	}
	return ps.KV.Set("purse_"+strconv.Itoa(userID)+"_"+leagueID, strconv.FormatFloat(balance, 'f', 2, 64))
}

// GetDetailedPortfolio prices the user's holdings with live quotes and
// attaches the purse balance. Missing quotes degrade to cost basis.
func (ps *PortfolioService) GetDetailedPortfolio(ctx context.Context, userID int, leagueID string) (DetailedPortfolio, error) {
	var detailed DetailedPortfolio

	picks, trades, err := ps.Ledger(leagueID)
	if err != nil {
		return detailed, err
	}

	holdings := valuation.ComputeHoldings(userID, picks, trades, nil)

	symbols := make([]string, 0, len(holdings))
	for symbol := range holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	prices := ps.Quotes.GetQuotes(ctx, symbols)

	positions := make([]Position, 0, len(symbols))
	for _, symbol := range symbols {
		holding := holdings[symbol]
		cur := holding.AvgEntry
		if live, ok := prices[symbol]; ok {
			cur = live
		}
		positions = append(positions, Position{
			Symbol:   symbol,
			Quantity: holding.Quantity,
			AvgEntry: holding.AvgEntry,
			CurPrice: cur,
			Value:    cur * holding.Quantity,
			Gain:     (cur - holding.AvgEntry) * holding.Quantity,
		})
	}

	balance, err := ps.GetPurse(userID, leagueID)
	if err != nil {
		return detailed, err
	}

	detailed.Positions = positions
	detailed.Balance = balance
	detailed.Stats = valuation.ComputeUserStats(userID, picks, trades, prices)
	return detailed, nil
}
