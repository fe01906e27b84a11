package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ticketqr/internal/config"
	"ticketqr/internal/db"
	"ticketqr/internal/handlers"
	"ticketqr/internal/router"
	"ticketqr/internal/session"
	"ticketqr/internal/ticket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Assuming environment variables are set in the environment.")
	}

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store session.Store
	if cfg.RedisURL != "" {
		client, err := db.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Close()
		store = session.NewRedisStore(client, cfg.SessionTTL)
	} else {
		log.Println("REDIS_URL not set, keeping sessions in memory")
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	enc, err := ticket.NewQREncoder(cfg.QRLevel, cfg.QRSize)
	if err != nil {
		log.Fatal(err)
	}

	svc := session.NewService(store, enc, cfg.TicketBaseURL)
	h := handlers.New(svc, cfg.QRFilename, cfg.MaxUploadBytes)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.RegisterRouter(h, router.Options{
			SessionSecret:  []byte(cfg.SessionSecret),
			SessionTTL:     cfg.SessionTTL,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Println("shutdown:", err)
		}
	}()

	log.Printf("ticket server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
