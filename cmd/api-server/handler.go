package main

import (
	"net/http"

	"github.com/stockdraft/api-server/internals/metrics"
)

func (app *App) initHandlers() {
	app.R.Get("/ws", app.handleWebSocket)

	app.R.Post("/auth/signup", app.SignUp)
	app.R.Post("/auth/login", app.Login)
	app.R.Post("/auth/logout", app.Middleware(http.HandlerFunc(app.Logout)))

	app.R.Post("/leagues/create", app.Middleware(http.HandlerFunc(app.CreateLeague)))
	app.R.Get("/leagues", app.Middleware(http.HandlerFunc(app.GetLeagues)))
	app.R.Post("/leagues/register", app.Middleware(http.HandlerFunc(app.RegisterLeague)))
	app.R.Get("/leagues/start", app.Middleware(http.HandlerFunc(app.StartDraft)))
	app.R.Get("/leagues/reset", app.Middleware(http.HandlerFunc(app.ResetDraft)))
	app.R.Get("/leagues/delete", app.Middleware(http.HandlerFunc(app.DeleteLeague)))

	app.R.Get("/draft/state", app.Middleware(http.HandlerFunc(app.GetDraftState)))
	app.R.Post("/draft/pick", app.Middleware(http.HandlerFunc(app.MakePick)))
	app.R.Get("/draft/waits", app.Middleware(http.HandlerFunc(app.GetPicksUntilTurn)))

	app.R.Post("/trade/transaction", app.Middleware(http.HandlerFunc(app.TransactShares)))
	app.R.Get("/trade/history", app.Middleware(http.HandlerFunc(app.GetTradeHistory)))

	app.R.Get("/portfolio", app.Middleware(http.HandlerFunc(app.GetPortfolio)))
	app.R.Get("/leaderboard", app.Middleware(http.HandlerFunc(app.GetLeaderboard)))
	app.R.Get("/profile", app.Middleware(http.HandlerFunc(app.GetProfile)))
	app.R.Get("/quotes", app.Middleware(http.HandlerFunc(app.GetQuotes)))

	app.R.Get("/notifications", app.Middleware(http.HandlerFunc(app.GetNotifications)))
	app.R.Post("/notifications/seen", app.Middleware(http.HandlerFunc(app.MarkNotificationsSeen)))

	app.R.Handle("/metrics", metrics.Handler())
	app.R.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("I am Healthy"))
	})
}
