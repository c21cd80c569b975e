package valuation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradeAt(sec int, userID int, symbol, action string, qty int, price float64) Trade {
	return Trade{
		UserID:    userID,
		Symbol:    symbol,
		Action:    action,
		Quantity:  qty,
		Price:     price,
		CreatedAt: time.Date(2025, 6, 1, 10, 0, sec, 0, time.UTC),
	}
}

func TestComputeHoldings_PickThenBuy(t *testing.T) {
	picks := []DraftPick{{UserID: 7, Symbol: "AAPL", EntryPrice: 150, Quantity: 1}}
	trades := []Trade{tradeAt(1, 7, "AAPL", ActionBuy, 1, 170)}

	holdings := ComputeHoldings(7, picks, trades, nil)
	require.Len(t, holdings, 1)

	aapl := holdings["AAPL"]
	assert.Equal(t, 2.0, aapl.Quantity)
	assert.Equal(t, 320.0, aapl.TotalCost)
	assert.Equal(t, 160.0, aapl.AvgEntry)
}

func TestComputeHoldings_SellUsesPreSaleAverage(t *testing.T) {
	picks := []DraftPick{{UserID: 7, Symbol: "AAPL", EntryPrice: 150, Quantity: 1}}
	trades := []Trade{
		tradeAt(1, 7, "AAPL", ActionBuy, 1, 170),
		tradeAt(2, 7, "AAPL", ActionSell, 1, 200),
	}

	holdings := ComputeHoldings(7, picks, trades, nil)
	require.Len(t, holdings, 1)

	aapl := holdings["AAPL"]
	assert.Equal(t, 1.0, aapl.Quantity)
	assert.InDelta(t, 160.0, aapl.TotalCost, 1e-9)
	assert.InDelta(t, 160.0, aapl.AvgEntry, 1e-9)
}

func TestComputeHoldings_ClosedPositionDropped(t *testing.T) {
	picks := []DraftPick{{UserID: 3, Symbol: "MSFT", EntryPrice: 100, Quantity: 1}}
	trades := []Trade{tradeAt(1, 3, "MSFT", ActionSell, 1, 110)}

	holdings := ComputeHoldings(3, picks, trades, nil)
	assert.NotContains(t, holdings, "MSFT")
	assert.Empty(t, holdings)
}

func TestComputeHoldings_PickOrderDoesNotMatter(t *testing.T) {
	a := []DraftPick{
		{UserID: 1, Symbol: "NVDA", EntryPrice: 400, Quantity: 2},
		{UserID: 1, Symbol: "NVDA", EntryPrice: 500, Quantity: 1},
	}
	b := []DraftPick{a[1], a[0]}

	assert.Equal(t, ComputeHoldings(1, a, nil, nil), ComputeHoldings(1, b, nil, nil))
}

func TestComputeHoldings_TradeOrderMatters(t *testing.T) {
	picks := []DraftPick{{UserID: 1, Symbol: "TSLA", EntryPrice: 200, Quantity: 2}}

	sellFirst := []Trade{
		tradeAt(1, 1, "TSLA", ActionSell, 1, 300),
		tradeAt(2, 1, "TSLA", ActionBuy, 1, 300),
	}
	buyFirst := []Trade{
		tradeAt(1, 1, "TSLA", ActionBuy, 1, 300),
		tradeAt(2, 1, "TSLA", ActionSell, 1, 300),
	}

	sellFirstBasis := ComputeHoldings(1, picks, sellFirst, nil)["TSLA"].TotalCost
	buyFirstBasis := ComputeHoldings(1, picks, buyFirst, nil)["TSLA"].TotalCost
	assert.NotEqual(t, sellFirstBasis, buyFirstBasis)
}

func TestComputeHoldings_TradesAppliedChronologically(t *testing.T) {
	picks := []DraftPick{{UserID: 1, Symbol: "TSLA", EntryPrice: 200, Quantity: 2}}
	// Slice order is reversed relative to timestamps; CreatedAt must win.
	trades := []Trade{
		tradeAt(2, 1, "TSLA", ActionSell, 1, 300),
		tradeAt(1, 1, "TSLA", ActionBuy, 2, 100),
	}

	holdings := ComputeHoldings(1, picks, trades, nil)
	tsla := holdings["TSLA"]
	// Buy first: 4 shares at 600 total, then sell one at avg 150.
	assert.Equal(t, 3.0, tsla.Quantity)
	assert.InDelta(t, 450.0, tsla.TotalCost, 1e-9)
}

func TestComputeHoldings_OversellClampsAndWarns(t *testing.T) {
	picks := []DraftPick{{UserID: 5, Symbol: "AMD", EntryPrice: 100, Quantity: 1}}
	trades := []Trade{tradeAt(1, 5, "AMD", ActionSell, 3, 120)}

	var warned []string
	holdings := ComputeHoldings(5, picks, trades, func(symbol string) {
		warned = append(warned, symbol)
	})

	assert.Empty(t, holdings)
	assert.Equal(t, []string{"AMD"}, warned)
}

func TestComputeHoldings_SellWithNoPriorHolding(t *testing.T) {
	trades := []Trade{tradeAt(1, 5, "INTC", ActionSell, 1, 40)}

	var warned []string
	holdings := ComputeHoldings(5, nil, trades, func(symbol string) {
		warned = append(warned, symbol)
	})

	assert.Empty(t, holdings)
	assert.Equal(t, []string{"INTC"}, warned)
}

func TestComputeHoldings_NormalizesSymbols(t *testing.T) {
	picks := []DraftPick{{UserID: 2, Symbol: "aapl", EntryPrice: 100, Quantity: 1}}
	trades := []Trade{tradeAt(1, 2, " AAPL ", ActionBuy, 1, 100)}

	holdings := ComputeHoldings(2, picks, trades, nil)
	require.Contains(t, holdings, "AAPL")
	assert.Equal(t, 2.0, holdings["AAPL"].Quantity)
}

func TestComputeHoldings_IgnoresOtherUsers(t *testing.T) {
	picks := []DraftPick{
		{UserID: 1, Symbol: "AAPL", EntryPrice: 100, Quantity: 1},
		{UserID: 2, Symbol: "GOOG", EntryPrice: 100, Quantity: 1},
	}

	holdings := ComputeHoldings(1, picks, nil, nil)
	assert.Contains(t, holdings, "AAPL")
	assert.NotContains(t, holdings, "GOOG")
}

func TestComputeHoldings_DefaultsPickQuantityToOne(t *testing.T) {
	picks := []DraftPick{{UserID: 1, Symbol: "AAPL", EntryPrice: 100}}

	holdings := ComputeHoldings(1, picks, nil, nil)
	assert.Equal(t, 1.0, holdings["AAPL"].Quantity)
	assert.Equal(t, 100.0, holdings["AAPL"].TotalCost)
}

func TestComputeUserStats_LiveAndFallbackPrices(t *testing.T) {
	picks := []DraftPick{
		{UserID: 9, Symbol: "AAPL", EntryPrice: 100, Quantity: 2},
		{UserID: 9, Symbol: "GOOG", EntryPrice: 50, Quantity: 1},
	}
	// GOOG has no live quote; its value falls back to cost basis.
	prices := map[string]float64{"AAPL": 120}

	stats := ComputeUserStats(9, picks, nil, prices)
	assert.InDelta(t, 250.0, stats.Spent, 1e-9)
	assert.InDelta(t, 290.0, stats.Value, 1e-9)
	assert.InDelta(t, 40.0, stats.Gain, 1e-9)
	assert.InDelta(t, 16.0, stats.GainPct, 1e-9)
}

func TestComputeUserStats_NonFiniteQuoteIgnored(t *testing.T) {
	picks := []DraftPick{{UserID: 9, Symbol: "AAPL", EntryPrice: 100, Quantity: 1}}

	stats := ComputeUserStats(9, picks, nil, map[string]float64{"AAPL": math.NaN()})
	assert.Equal(t, 100.0, stats.Value)
	assert.Equal(t, 0.0, stats.Gain)
}

func TestComputeUserStats_Empty(t *testing.T) {
	stats := ComputeUserStats(1, nil, nil, nil)
	assert.Equal(t, UserStats{UserID: 1}, stats)
}

func TestRankStandings_DollarGainDescStableTies(t *testing.T) {
	gains := map[int]float64{1: 50, 2: -10, 3: 50}
	statsFn := func(userID int) UserStats {
		return UserStats{UserID: userID, Gain: gains[userID]}
	}

	standings := RankStandings([]int{1, 2, 3}, statsFn)
	require.Len(t, standings, 3)

	assert.Equal(t, 1, standings[0].UserID)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, 3, standings[1].UserID)
	assert.Equal(t, 2, standings[1].Rank)
	assert.Equal(t, 2, standings[2].UserID)
	assert.Equal(t, 3, standings[2].Rank)
}
