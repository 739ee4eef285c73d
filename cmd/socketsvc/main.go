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
	"github.com/avvvet/card-services/internal/comm"
	"github.com/avvvet/card-services/internal/nats"
	"github.com/avvvet/card-services/internal/socketsvc/broker"
	"github.com/avvvet/card-services/internal/socketsvc/catalog"
	socketconfig "github.com/avvvet/card-services/internal/socketsvc/config"
	"github.com/avvvet/card-services/internal/socketsvc/handlers"
	"github.com/avvvet/card-services/internal/socketsvc/routes"
	"github.com/avvvet/card-services/internal/socketsvc/ws"
)

const SERVICE_NAME = "socket"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg, err := socketconfig.Load()
	if err != nil {
		// "<Kind>: <msg>", same as the card service
		log.Fatal(err.Error())
	}

	// Connect to NATS
	n, err := nats.Connect(cfg.NatsURL, cfg.NatsToken, SERVICE_NAME+"_service_"+instanceId)
	if err != nil {
		log.Fatalf("Error: unable to connect to NATS server %v", err)
	}
	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	cat := catalog.New()
	s := ws.NewWs(cat)

	// Initialize broker, s.GetConnection injected for reply routing
	b := broker.NewBroker(n.Conn, s.GetConnection, cat)
	s.Broker = b

	h := handlers.NewHandler(s, cat, cfg.Port)
	routes.SetRoutes(r, h, routes.InitAuth(cfg.JWTSecret))

	// registration must be answered before the bot comes up
	subRegister, err := b.SubscribeRegistrations(comm.SubjectRegister)
	if err != nil {
		log.Fatalf("Error: unable to subscribe to %s %v", comm.SubjectRegister, err)
	}

	subReplies, err := b.Subscribe(comm.SubjectReplies)
	if err != nil {
		log.Fatalf("Error: unable to subscribe to %s %v", comm.SubjectReplies, err)
	}

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

	subRegister.Unsubscribe()
	subReplies.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
