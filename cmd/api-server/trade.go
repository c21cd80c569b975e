package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/stockdraft/api-server/internals/events"
	"github.com/stockdraft/api-server/internals/metrics"
	"github.com/stockdraft/api-server/internals/trade"
)

func (app *App) TransactShares(w http.ResponseWriter, r *http.Request) {
	transactionType := r.URL.Query().Get("transaction_type")
	leagueID := r.URL.Query().Get("league_id")
	userID := r.Context().Value("user_id").(int)

	if transactionType == "" || leagueID == "" {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "league_id and transaction_type are required"})
		return
	}

	var body trade.TransactionRequestBody
	err := getBody(r, &body)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "Invalid request body"})
		return
	}

	executed, err := app.Trade.Transaction(r.Context(), transactionType, leagueID, userID, body)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: executed})
}

func (app *App) GetTradeHistory(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")
	if leagueID == "" {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "league_id is required"})
		return
	}
	userID := r.Context().Value("user_id").(int)

	history, err := app.Trade.GetHistory(leagueID, userID)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusInternalServerError, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: history})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSDetails struct {
	LeagueID string
}

// handleWebSocket registers a client for a league's live feed. Picks and
// trades in that league are pushed as they land.
func (app *App) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")
	if leagueID == "" {
		http.Error(w, "league_id is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Could not open websocket connection", http.StatusBadRequest)
		return
	}

	defer func() {
		conn.Close()
		app.ClientsM.Lock()
		delete(app.WS, conn)
		app.ClientsM.Unlock()
		metrics.WebSocketClients.Dec()
	}()

	app.ClientsM.Lock()
	app.WS[conn] = WSDetails{LeagueID: leagueID}
	app.ClientsM.Unlock()
	metrics.WebSocketClients.Inc()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

// broadcastToWS pushes a league event to every client watching that
// league.
func (app *App) broadcastToWS(event events.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		return
	}

	app.ClientsM.Lock()
	defer app.ClientsM.Unlock()
	for conn, details := range app.WS {
		if details.LeagueID != event.LeagueID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
			conn.Close()
			delete(app.WS, conn)
			metrics.WebSocketClients.Dec()
		}
	}
}
