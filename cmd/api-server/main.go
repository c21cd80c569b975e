package main

import (
	"encoding/json"
	"net/http"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stockdraft/api-server/internals/auth"
	"github.com/stockdraft/api-server/internals/draft"
	"github.com/stockdraft/api-server/internals/events"
	"github.com/stockdraft/api-server/internals/leaderboard"
	"github.com/stockdraft/api-server/internals/leagues"
	"github.com/stockdraft/api-server/internals/notification"
	"github.com/stockdraft/api-server/internals/portfolio"
	"github.com/stockdraft/api-server/internals/profile"
	"github.com/stockdraft/api-server/internals/quotes"
	"github.com/stockdraft/api-server/internals/trade"
	"github.com/stockdraft/api-server/pkg/conf"
	"github.com/stockdraft/api-server/pkg/kvstore"
	"github.com/stockdraft/api-server/pkg/logger"
)

const leagueEventsExchange = "league-events"

type App struct {
	Cfg      conf.Config
	DB       *gorm.DB
	R        *chi.Mux
	KVStore  kvstore.KVStore
	Bus      *events.Bus
	Ch       *amqp.Channel
	Log      *zap.SugaredLogger
	WS       map[*websocket.Conn]WSDetails
	ClientsM sync.Mutex

	Auth          *auth.AuthService
	Leagues       *leagues.LeagueService
	Draft         *draft.DraftService
	Trade         *trade.TradeService
	Portfolio     *portfolio.PortfolioService
	Board         *leaderboard.Leaderboard
	Quotes        *quotes.QuoteService
	Profile       *profile.ProfileService
	Notifications *notification.NotificationService
}

// forwardToMQ pushes a bus event onto the fanout exchange so every
// api-server instance (and any other consumer) sees league activity.
func (app *App) forwardToMQ(event events.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		return
	}
	err = app.Ch.Publish(
		leagueEventsExchange, // exchange
		"",                   // routing key
		false,                // mandatory
		false,                // immediate
		amqp.Publishing{ContentType: "application/json", Body: body},
	)
	if err != nil {
		app.Log.Warnw("failed to publish league event", "topic", event.Topic, "err", err)
	}
}

// handleLeagueEvent is the consumer side: websocket fanout, notification
// rows, leaderboard cache invalidation.
func (app *App) handleLeagueEvent(body []byte) {
	var event events.Event
	if err := json.Unmarshal(body, &event); err != nil {
		app.Log.Warnw("dropping malformed league event", "err", err)
		return
	}

	app.broadcastToWS(event)
	app.Notifications.HandleEvent(event)
	app.Board.Invalidate(event.LeagueID)
}

func main() {
	log := logger.New()
	defer log.Sync()

	cfg := conf.Load(".")

	conn, err := amqp.Dial(cfg.AmqpURL)
	failOnError(err, "Failed to connect to RabbitMQ")
	defer conn.Close()

	ch, err := conn.Channel()
	failOnError(err, "Failed to open a channel")
	defer ch.Close()

	app := &App{
		Cfg: cfg,
		WS:  make(map[*websocket.Conn]WSDetails),
		Bus: events.NewBus(),
		Ch:  ch,
		Log: log,
	}

	db, err := app.initDB()
	failOnError(err, "Failed to connect to postgres")

	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	app.DB = db
	app.R = r

	app.initKVStore()
	app.initServices()
	app.initHandlers()

	// Local mutations go out through the exchange and come back through
	// the queue below, so all instances handle them the same way.
	for _, topic := range []string{events.TopicDraftPick, events.TopicDraftComplete, events.TopicTradeExecuted} {
		app.Bus.Subscribe(topic, app.forwardToMQ)
	}

	err = ch.ExchangeDeclare(
		leagueEventsExchange, // name
		"fanout",             // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	)
	failOnError(err, "Failed to declare an exchange")

	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	failOnError(err, "Failed to declare a queue")

	err = ch.QueueBind(
		q.Name,               // queue name
		"",                   // routing key
		leagueEventsExchange, // exchange
		false,
		nil,
	)
	failOnError(err, "Failed to bind a queue")

	msgs, err := ch.Consume(
		q.Name, // queue
		"",     // consumer
		true,   // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	failOnError(err, "Failed to register a consumer")

	go func() {
		for d := range msgs {
			app.handleLeagueEvent(d.Body)
		}
	}()

	log.Infow("api-server listening", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.Fatalw("server exited", "err", err)
	}
}
