package main

import (
	"net/http"

	"github.com/stockdraft/api-server/internals/leagues"
)

func (app *App) CreateLeague(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int)

	var league leagues.CreateLeagueRequestBody
	err := getBody(r, &league)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "Invalid request body"})
		return
	}

	leagueID, err := app.Leagues.CreateLeague(userID, league)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusCreated, Data: map[string]interface{}{"league_id": leagueID}})
}

func (app *App) GetLeagues(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int)

	all, err := app.Leagues.GetLeagues(userID)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusInternalServerError, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: all})
}

func (app *App) RegisterLeague(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")
	if leagueID == "" {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "league_id is required"})
		return
	}
	userID := r.Context().Value("user_id").(int)

	err := app.Leagues.RegisterToLeague(userID, leagueID)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"message": "Registered successfully"}})
}

func (app *App) StartDraft(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")
	if leagueID == "" {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "league_id is required"})
		return
	}
	userID := r.Context().Value("user_id").(int)

	err := app.Leagues.StartDraft(userID, leagueID)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"message": "Draft started"}})
}

func (app *App) ResetDraft(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")
	if leagueID == "" {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "league_id is required"})
		return
	}
	userID := r.Context().Value("user_id").(int)

	err := app.Leagues.ResetDraft(userID, leagueID)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: err.Error()})
		return
	}

	app.Board.Invalidate(leagueID)

	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"message": "Draft reset"}})
}

func (app *App) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")
	if leagueID == "" {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "league_id is required"})
		return
	}
	userID := r.Context().Value("user_id").(int)

	err := app.Leagues.DeleteLeague(userID, leagueID)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"message": "League deleted successfully"}})
}
