package quotes

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdraft/api-server/pkg/kvstore"
)

type fakeProvider struct {
	mu       sync.Mutex
	prices   map[string]float64
	calls    map[string]int
	inFlight int
	maxSeen  int
	delay    time.Duration
}

func newFakeProvider(prices map[string]float64) *fakeProvider {
	return &fakeProvider{prices: prices, calls: make(map[string]int)}
}

func (f *fakeProvider) FetchQuote(_ context.Context, symbol string) (float64, error) {
	f.mu.Lock()
	f.calls[symbol]++
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	price, ok := f.prices[symbol]
	f.mu.Unlock()

	if !ok {
		return 0, fmt.Errorf("unknown symbol %s", symbol)
	}
	return price, nil
}

func newTestService(provider Provider, maxConcurrent int) *QuoteService {
	return New(kvstore.NewMemory(), provider, nil, maxConcurrent, 0, time.Minute)
}

func TestGetQuotes_NormalizesAndDeduplicates(t *testing.T) {
	provider := newFakeProvider(map[string]float64{"AAPL": 180.5})
	qs := newTestService(provider, 3)

	prices := qs.GetQuotes(context.Background(), []string{"aapl", "AAPL", " aapl "})

	require.Len(t, prices, 1)
	assert.Equal(t, 180.5, prices["AAPL"])
	assert.Equal(t, 1, provider.calls["AAPL"])
}

func TestGetQuotes_PartialResultsTolerated(t *testing.T) {
	provider := newFakeProvider(map[string]float64{"AAPL": 180.5})
	qs := newTestService(provider, 3)

	prices := qs.GetQuotes(context.Background(), []string{"AAPL", "NOPE"})

	assert.Equal(t, 180.5, prices["AAPL"])
	assert.NotContains(t, prices, "NOPE")
}

func TestGetQuotes_ServesFreshCacheWithoutProvider(t *testing.T) {
	provider := newFakeProvider(map[string]float64{"AAPL": 180.5})
	qs := newTestService(provider, 3)

	first := qs.GetQuotes(context.Background(), []string{"AAPL"})
	second := qs.GetQuotes(context.Background(), []string{"AAPL"})

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls["AAPL"], "second lookup must hit the cache")
}

func TestGetQuotes_StaleCacheRefetched(t *testing.T) {
	provider := newFakeProvider(map[string]float64{"AAPL": 180.5})
	qs := newTestService(provider, 3)
	qs.Freshness = time.Minute

	current := time.Now()
	qs.now = func() time.Time { return current }

	qs.GetQuotes(context.Background(), []string{"AAPL"})

	current = current.Add(2 * time.Minute)
	qs.GetQuotes(context.Background(), []string{"AAPL"})

	assert.Equal(t, 2, provider.calls["AAPL"])
}

func TestGetQuotes_ConcurrencyCapped(t *testing.T) {
	prices := make(map[string]float64)
	var symbols []string
	for i := 0; i < 8; i++ {
		symbol := fmt.Sprintf("SYM%d", i)
		prices[symbol] = float64(10 + i)
		symbols = append(symbols, symbol)
	}

	provider := newFakeProvider(prices)
	provider.delay = 20 * time.Millisecond
	qs := newTestService(provider, 2)

	got := qs.GetQuotes(context.Background(), symbols)

	assert.Len(t, got, len(symbols))
	assert.LessOrEqual(t, provider.maxSeen, 2, "provider fan-out exceeded the cap")
}

func TestGetQuotes_CancelledContextStopsDispatch(t *testing.T) {
	provider := newFakeProvider(map[string]float64{"AAPL": 180.5, "GOOG": 140})
	qs := newTestService(provider, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prices := qs.GetQuotes(ctx, []string{"AAPL", "GOOG"})
	assert.Empty(t, prices)
}
