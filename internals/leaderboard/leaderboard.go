package leaderboard

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stockdraft/api-server/internals/leagues"
	"github.com/stockdraft/api-server/internals/portfolio"
	"github.com/stockdraft/api-server/internals/quotes"
	"github.com/stockdraft/api-server/internals/valuation"
	"github.com/stockdraft/api-server/pkg/kvstore"
)

// Entry is one leaderboard row. Ranking is by dollar gain, not percent:
// percent rewards tiny portfolios disproportionately.
type Entry struct {
	valuation.Standing
	UserName string `json:"user_name"`
}

type Leaderboard struct {
	KVStore kvstore.KVStore
	DB      *gorm.DB
	Quotes  *quotes.QuoteService
	Log     *zap.SugaredLogger

	ls *leagues.LeagueService
	ps *portfolio.PortfolioService
}

func New(kv kvstore.KVStore, db *gorm.DB, qs *quotes.QuoteService, log *zap.SugaredLogger, ls *leagues.LeagueService, ps *portfolio.PortfolioService) *Leaderboard {
	return &Leaderboard{
		KVStore: kv,
		DB:      db,
		Quotes:  qs,
		Log:     log,
		ls:      ls,
		ps:      ps,
	}
}

func cacheKey(leagueID string) string {
	return "leaderboard_" + leagueID
}

// Invalidate drops the cached board. Wired to pick/trade events so the
// next read recomputes.
func (l *Leaderboard) Invalidate(leagueID string) {
	_ = l.KVStore.Delete(cacheKey(leagueID))
}

// GetLeaderboard computes the standings for every registered user in
// registration order, which also serves as the tie-break for equal
// gains. The computed board is cached until the next pick or trade in
// the league.
func (l *Leaderboard) GetLeaderboard(ctx context.Context, leagueID string) ([]Entry, error) {
	if raw, err := l.KVStore.Get(cacheKey(leagueID)); err == nil {
		var cached []Entry
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	}

	userIDs, err := l.ls.Participants(leagueID)
	if err != nil {
		return nil, err
	}

	picks, trades, err := l.ps.Ledger(leagueID)
	if err != nil {
		return nil, err
	}

	// One quote fan-out for every symbol in the league.
	symbolSet := make(map[string]bool)
	for _, pick := range picks {
		symbolSet[valuation.NormalizeSymbol(pick.Symbol)] = true
	}
	for _, trade := range trades {
		symbolSet[valuation.NormalizeSymbol(trade.Symbol)] = true
	}
	symbols := make([]string, 0, len(symbolSet))
	for symbol := range symbolSet {
		symbols = append(symbols, symbol)
	}
	prices := l.Quotes.GetQuotes(ctx, symbols)

	standings := valuation.RankStandings(userIDs, func(userID int) valuation.UserStats {
		return valuation.ComputeUserStats(userID, picks, trades, prices)
	})

	entries := make([]Entry, 0, len(standings))
	for _, standing := range standings {
		entry := Entry{Standing: standing}
		l.DB.Raw("SELECT user_name FROM users WHERE user_id = ?", standing.UserID).Scan(&entry.UserName)
		entries = append(entries, entry)
	}

	if raw, err := json.Marshal(entries); err == nil {
		if err := l.KVStore.Set(cacheKey(leagueID), string(raw)); err != nil && l.Log != nil {
			l.Log.Warnw("failed to cache leaderboard", "league_id", leagueID, "err", err)
		}
	}

	return entries, nil
}
