package main

import (
	"net/http"

	"github.com/stockdraft/api-server/internals/auth"
)

func (app *App) Login(w http.ResponseWriter, r *http.Request) {
	var loginDetails auth.LoginRequestBody
	err := getBody(r, &loginDetails)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "Invalid request body"})
		return
	}

	token, err := app.Auth.Login(loginDetails)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusUnauthorized, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"token": token}})
}

func (app *App) SignUp(w http.ResponseWriter, r *http.Request) {
	var signUpDetails auth.SignUpRequestBody
	err := getBody(r, &signUpDetails)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: "Invalid request body"})
		return
	}

	err = app.Auth.SignUp(signUpDetails)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusBadRequest, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusCreated, Data: map[string]interface{}{"message": "User created successfully"}})
}

func (app *App) Logout(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int)
	token := r.Context().Value("token").(string)

	err := app.Auth.Logout(userID, token)
	if err != nil {
		sendResponse(w, httpResp{Status: http.StatusInternalServerError, IsError: true, Error: err.Error()})
		return
	}

	sendResponse(w, httpResp{Status: http.StatusOK, Data: map[string]interface{}{"message": "Logged out successfully"}})
}
