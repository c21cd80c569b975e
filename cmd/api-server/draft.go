package main

import (
	"net/http"

	"github.com/stockdraft/api-server/internals/draft"
)

func (app *App) GetDraftState(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")
	if leagueID == "" {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "league_id is required"})
		return
	}

	status, err := app.Draft.GetStatus(leagueID)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: status})
}

func (app *App) MakePick(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")
	if leagueID == "" {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "league_id is required"})
		return
	}
	userID := r.Context().Value("user_id").(int)

	var body draft.MakePickRequestBody
	err := getBody(r, &body)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "Invalid request body"})
		return
	}

	pick, err := app.Draft.MakePick(r.Context(), userID, leagueID, body)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusCreated, Data: pick})
}

// GetPicksUntilTurn tells the user how far away their next pick is. "?"
// means no remaining turn can be found within one snake cycle.
func (app *App) GetPicksUntilTurn(w http.ResponseWriter, r *http.Request) {
	leagueID := r.URL.Query().Get("league_id")
	if leagueID == "" {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "league_id is required"})
		return
	}
	userID := r.Context().Value("user_id").(int)

	k, ok, err := app.Draft.PicksUntil(leagueID, userID)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: err.Error()})
		return
	}

	if !ok {
		sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"picks_until_turn": "?"}})
		return
	}
	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"picks_until_turn": k}})
}
