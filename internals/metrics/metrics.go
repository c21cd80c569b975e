// Package metrics provides Prometheus instrumentation for the api-server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DraftPicksTotal counts accepted draft picks.
	DraftPicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockdraft_draft_picks_total",
		Help: "Total number of draft picks accepted",
	})

	// TradesTotal counts executed trades, partitioned by action.
	TradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockdraft_trades_total",
		Help: "Total number of trades executed",
	}, []string{"action"})

	// QuoteFetches counts provider round trips by outcome.
	QuoteFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockdraft_quote_fetches_total",
		Help: "Total quote provider fetches",
	}, []string{"outcome"})

	// WebSocketClients tracks connected websocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stockdraft_websocket_clients",
		Help: "Number of connected websocket clients",
	})
)

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
