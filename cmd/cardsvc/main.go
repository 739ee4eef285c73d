package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"
	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/card-services/configs"
	"github.com/avvvet/card-services/internal/apperr"
	"github.com/avvvet/card-services/internal/cardsvc/broker"
	"github.com/avvvet/card-services/internal/cardsvc/command"
	cardconfig "github.com/avvvet/card-services/internal/cardsvc/config"
	pg "github.com/avvvet/card-services/internal/cardsvc/db"
	"github.com/avvvet/card-services/internal/cardsvc/deploy"
	"github.com/avvvet/card-services/internal/cardsvc/handlers"
	"github.com/avvvet/card-services/internal/cardsvc/service"
	"github.com/avvvet/card-services/internal/cardsvc/store"
	"github.com/avvvet/card-services/internal/comm"
	"github.com/avvvet/card-services/internal/db"
	natscli "github.com/avvvet/card-services/internal/nats"
)

const SERVICE_NAME = "card"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

// fatal logs a bootstrap failure as "<Kind>: <msg>" and exits.
func fatal(err error) {
	log.Fatal(apperr.From(err).Error())
}

func main() {
	cfg, err := cardconfig.Load()
	if err != nil {
		fatal(err)
	}

	cardStore, closeStore, err := openStore(cfg)
	if err != nil {
		fatal(err)
	}
	defer closeStore()
	log.Infof("%s card store ready", cfg.StoreDriver)

	cardService := service.NewCardService(cardStore, cfg.Location())
	cardCommands := command.NewCardCommands(cardService)
	registry := command.NewRegistry(append([]command.Command{command.Ping}, cardCommands.Commands()...)...)

	// Connect to NATS, the bot's login to the chat gateway
	n, err := natscli.Connect(cfg.NatsURL, cfg.NatsToken, SERVICE_NAME+"_service_"+instanceId)
	if err != nil {
		fatal(apperr.New(apperr.BotLogin, "Bot Login Fail: %s", err))
	}
	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	if err := deploy.DeployCommands(n.Conn, registry.Definitions(), cfg.DeployTimeout); err != nil {
		fatal(err)
	}

	b := broker.NewBroker(n.Conn, registry, cfg.CommandTimeout)
	sub, err := b.QueueSubscribeCommands(comm.SubjectCommands, SERVICE_NAME)
	if err != nil {
		fatal(apperr.New(apperr.BotLogin, "Bot Login Fail: %s", err))
	}
	log.Info("Deploy commands and login successfully!")

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	h := handlers.NewHandler(cfg.Port, registry.Definitions)
	h.InitAuth(cfg.JWTSecret)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	sub.Drain()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}

// openStore builds the card store selected by STORE_DRIVER.
func openStore(cfg cardconfig.Config) (store.CardStore, func(), error) {
	switch cfg.StoreDriver {
	case store.DriverPostgres:
		pool, err := pg.Connect(cfg.PostgresURL)
		if err != nil {
			return nil, nil, apperr.New(apperr.MongoConnect, "connect to db error: %s", err)
		}
		s := store.NewPgCardStore(pool)
		if err := s.EnsureSchema(context.Background()); err != nil {
			pool.Close()
			return nil, nil, apperr.New(apperr.MongoConnect, "connect to db error: %s", err)
		}
		return s, pool.Close, nil
	case store.DriverMemory:
		return store.NewMemoryCardStore(), func() {}, nil
	default:
		database, err := db.ConnectToDB(cfg.MongoURI)
		if err != nil {
			return nil, nil, apperr.New(apperr.MongoConnect, "connect to db error: %s", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.CreateUniqueIndexForCollection(ctx, database, store.CardCollection, "name"); err != nil {
			db.Disconnect(database)
			return nil, nil, apperr.New(apperr.MongoConnect, "connect to db error: %s", err)
		}
		return store.NewMongoCardStore(database), func() { db.Disconnect(database) }, nil
	}
}
