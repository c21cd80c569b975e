package main

import (
	"net/http"
)

func (app *App) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")
	if leagueID == "" {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "league_id is required"})
		return
	}
	userID := r.Context().Value("user_id").(int)

	detailed, err := app.Portfolio.GetDetailedPortfolio(r.Context(), userID, leagueID)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusInternalServerError, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: detailed})
}
