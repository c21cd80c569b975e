// Package valuation reconstructs share positions and cost basis from the
// append-only pick and trade history. Everything here is a pure function
// over already-fetched rows: no I/O, no shared state, safe to re-run on
// every price refresh.
package valuation

import (
	"math"
	"sort"
	"strings"
)

// NormalizeSymbol is the single place tickers get case-folded. Every map
// keyed by symbol in this package goes through it.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ComputeHoldings folds userID's picks and trades into net positions.
// Picks commute so their order does not matter; trades are applied in
// CreatedAt order because average-cost accounting is order sensitive.
// Sells use the pre-sale average cost, then decrement quantity. A sell
// that would push quantity negative is clamped to a flat position and
// reported through warn (which may be nil).
func ComputeHoldings(userID int, picks []DraftPick, trades []Trade, warn func(symbol string)) map[string]Holding {
	type position struct {
		quantity  float64
		totalCost float64
	}
	positions := make(map[string]*position)

	at := func(symbol string) *position {
		key := NormalizeSymbol(symbol)
		p, ok := positions[key]
		if !ok {
			p = &position{}
			positions[key] = p
		}
		return p
	}

	for _, pick := range picks {
		if pick.UserID != userID {
			continue
		}
		qty := float64(pick.Quantity)
		if qty < 1 {
			qty = 1
		}
		p := at(pick.Symbol)
		p.quantity += qty
		p.totalCost += finiteOrZero(pick.EntryPrice) * qty
	}

	ordered := make([]Trade, 0, len(trades))
	for _, trade := range trades {
		if trade.UserID == userID {
			ordered = append(ordered, trade)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	for _, trade := range ordered {
		p := at(trade.Symbol)
		qty := float64(trade.Quantity)
		price := finiteOrZero(trade.Price)

		switch trade.Action {
		case ActionBuy:
			p.quantity += qty
			p.totalCost += price * qty
		case ActionSell:
			avgCost := price
			if p.quantity > 0 {
				avgCost = p.totalCost / p.quantity
			}
			if qty > p.quantity {
				if warn != nil {
					warn(NormalizeSymbol(trade.Symbol))
				}
				qty = p.quantity
			}
			p.quantity -= qty
			p.totalCost -= avgCost * qty
		}
	}

	holdings := make(map[string]Holding)
	for symbol, p := range positions {
		if p.quantity <= 0 {
			continue
		}
		holdings[symbol] = Holding{
			Symbol:    symbol,
			Quantity:  p.quantity,
			TotalCost: p.totalCost,
			AvgEntry:  p.totalCost / p.quantity,
		}
	}
	return holdings
}

// ComputeUserStats prices the user's holdings. A symbol missing from
// livePrices (or priced at something non-finite) falls back to its own
// average entry, so a rate-limited quote feed degrades to zero gain for
// that position instead of NaN.
func ComputeUserStats(userID int, picks []DraftPick, trades []Trade, livePrices map[string]float64) UserStats {
	holdings := ComputeHoldings(userID, picks, trades, nil)

	stats := UserStats{UserID: userID}
	for symbol, holding := range holdings {
		last := holding.AvgEntry
		if live, ok := livePrices[symbol]; ok && !math.IsNaN(live) && !math.IsInf(live, 0) && live > 0 {
			last = live
		}
		stats.Spent += holding.AvgEntry * holding.Quantity
		stats.Value += last * holding.Quantity
	}
	stats.Gain = stats.Value - stats.Spent
	if stats.Spent > 0 {
		stats.GainPct = stats.Gain / stats.Spent * 100
	}
	return stats
}

// RankStandings orders users by absolute dollar gain, descending. Ties
// keep the input order, which callers supply as league registration
// order, so the result is deterministic for a given league.
func RankStandings(userIDs []int, statsFn func(userID int) UserStats) []Standing {
	standings := make([]Standing, 0, len(userIDs))
	for _, id := range userIDs {
		standings = append(standings, Standing{UserStats: statsFn(id)})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Gain > standings[j].Gain
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
