// Package quotes serves live prices with a redis-backed cache in front
// of a metered provider. Fan-out to the provider is capped and paced so
// a burst of portfolio refreshes cannot trip upstream rate limits.
package quotes

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stockdraft/api-server/internals/metrics"
	"github.com/stockdraft/api-server/internals/valuation"
	"github.com/stockdraft/api-server/pkg/kvstore"
)

type QuoteService struct {
	KV       kvstore.KVStore
	Provider Provider
	Log      *zap.SugaredLogger

	MaxConcurrent int
	DispatchDelay time.Duration
	Freshness     time.Duration

	now func() time.Time
}

func New(kv kvstore.KVStore, provider Provider, log *zap.SugaredLogger, maxConcurrent int, dispatchDelay, freshness time.Duration) *QuoteService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &QuoteService{
		KV:            kv,
		Provider:      provider,
		Log:           log,
		MaxConcurrent: maxConcurrent,
		DispatchDelay: dispatchDelay,
		Freshness:     freshness,
		now:           time.Now,
	}
}

// Cached quotes use the "<unix ts>,<price>" value layout under
// quote_{SYMBOL} keys.
func quoteKey(symbol string) string {
	return "quote_" + symbol
}

func (qs *QuoteService) cachedQuote(symbol string) (float64, bool) {
	raw, err := qs.KV.Get(quoteKey(symbol))
	if err != nil {
		return 0, false
	}

	tsAndPrice := strings.Split(raw, ",")
	if len(tsAndPrice) != 2 {
		return 0, false
	}

	ts, err := strconv.ParseInt(tsAndPrice[0], 10, 64)
	if err != nil {
		return 0, false
	}
	if qs.now().Sub(time.Unix(ts, 0)) > qs.Freshness {
		return 0, false
	}

	price, err := strconv.ParseFloat(tsAndPrice[1], 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, false
	}
	return price, true
}

func (qs *QuoteService) cacheQuote(symbol string, price float64) {
	value := fmt.Sprintf("%d,%s", qs.now().Unix(), strconv.FormatFloat(price, 'f', -1, 64))
	if err := qs.KV.Set(quoteKey(symbol), value); err != nil && qs.Log != nil {
		qs.Log.Warnw("failed to cache quote", "symbol", symbol, "err", err)
	}
}

// GetQuotes returns prices for as many of the requested symbols as it
// can. Symbols are normalized and deduplicated; cache hits are served
// directly and only misses go to the provider, at most MaxConcurrent in
// flight with DispatchDelay between launches. Symbols the provider
// cannot price are simply absent from the result; callers fall back to
// cost basis.
func (qs *QuoteService) GetQuotes(ctx context.Context, symbols []string) map[string]float64 {
	prices := make(map[string]float64)
	var misses []string
	seen := make(map[string]bool)

	for _, symbol := range symbols {
		normalized := valuation.NormalizeSymbol(symbol)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		if price, ok := qs.cachedQuote(normalized); ok {
			prices[normalized] = price
			continue
		}
		misses = append(misses, normalized)
	}

	if len(misses) == 0 {
		return prices
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, qs.MaxConcurrent)
	)

	for i, symbol := range misses {
		if ctx.Err() != nil {
			break
		}
		if i > 0 && qs.DispatchDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(qs.DispatchDelay):
			}
			if ctx.Err() != nil {
				break
			}
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			price, err := qs.Provider.FetchQuote(ctx, symbol)
			if err != nil {
				metrics.QuoteFetches.WithLabelValues("error").Inc()
				if qs.Log != nil {
					qs.Log.Warnw("quote fetch failed", "symbol", symbol, "err", err)
				}
				return
			}
			metrics.QuoteFetches.WithLabelValues("ok").Inc()

			qs.cacheQuote(symbol, price)
			mu.Lock()
			prices[symbol] = price
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()
	return prices
}
