package main

import (
	"log"

	"gorm.io/gorm"

	"github.com/stockdraft/api-server/db"
	"github.com/stockdraft/api-server/internals/auth"
	"github.com/stockdraft/api-server/internals/draft"
	"github.com/stockdraft/api-server/internals/leaderboard"
	"github.com/stockdraft/api-server/internals/leagues"
	"github.com/stockdraft/api-server/internals/notification"
	"github.com/stockdraft/api-server/internals/portfolio"
	"github.com/stockdraft/api-server/internals/profile"
	"github.com/stockdraft/api-server/internals/quotes"
	"github.com/stockdraft/api-server/internals/trade"
	"github.com/stockdraft/api-server/pkg/kvstore"
)

func failOnError(err error, msg string) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}

func (app *App) initDB() (*gorm.DB, error) {
	return db.Setup(app.Cfg.DBDsn)
}

func (app *App) initKVStore() {
	app.KVStore = kvstore.NewRedis(app.Cfg.RedisAddr, app.Cfg.RedisPassword, app.Cfg.RedisDB)
}

func (app *App) initServices() {
	provider := quotes.NewFinnhubProvider(app.Cfg.QuoteBaseURL, app.Cfg.QuoteAPIToken)

	app.Quotes = quotes.New(app.KVStore, provider, app.Log, app.Cfg.QuoteMaxConcurrent, app.Cfg.QuoteDispatchDelay, app.Cfg.QuoteFreshness)
	app.Auth = auth.New(app.KVStore, app.DB, app.Cfg.JWTSecret)
	app.Leagues = leagues.New(app.KVStore, app.DB, app.Cfg.DefaultBankroll)
	app.Portfolio = portfolio.New(app.KVStore, app.DB, app.Quotes, app.Log)
	app.Draft = draft.NewService(app.KVStore, app.DB, app.Bus, app.Quotes, app.Log, app.Leagues, app.Portfolio)
	app.Trade = trade.New(app.KVStore, app.DB, app.Bus, app.Quotes, app.Log, app.Leagues, app.Portfolio)
	app.Board = leaderboard.New(app.KVStore, app.DB, app.Quotes, app.Log, app.Leagues, app.Portfolio)
	app.Profile = profile.New(app.KVStore, app.DB, app.Leagues)
	app.Notifications = notification.New(app.KVStore, app.DB, app.Log)
}
