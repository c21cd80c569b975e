package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Provider fetches one live quote. Implementations are expected to be
// metered upstream, which is why Service rations calls to them.
type Provider interface {
	FetchQuote(ctx context.Context, symbol string) (float64, error)
}

// FinnhubProvider talks to the Finnhub /quote endpoint.
type FinnhubProvider struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewFinnhubProvider(baseURL, token string) *FinnhubProvider {
	return &FinnhubProvider{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type finnhubQuote struct {
	Current float64 `json:"c"`
}

func (p *FinnhubProvider) FetchQuote(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s", p.BaseURL, url.QueryEscape(symbol), url.QueryEscape(p.Token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("quote provider returned status %d for %s", resp.StatusCode, symbol)
	}

	var quote finnhubQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return 0, err
	}

	// Finnhub reports 0 for unknown tickers.
	if quote.Current <= 0 {
		return 0, fmt.Errorf("no quote available for %s", symbol)
	}
	return quote.Current, nil
}
