package main

import (
	"net/http"
	"strings"
)

// GetQuotes returns live prices for a comma-separated symbols list.
// Symbols the provider cannot price are absent from the response.
func (app *App) GetQuotes(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "symbols is required"})
		return
	}

	symbols := strings.Split(raw, ",")
	prices := app.Quotes.GetQuotes(r.Context(), symbols)

	sendResponse(w, httpResp{Status: http.StatusOK, Data: prices})
}
