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

	"tableorder/config"
	httpapi "tableorder/order-client/internal/api/http"
	"tableorder/order-client/internal/backend"
	"tableorder/order-client/internal/notify"
	"tableorder/order-client/internal/service"
	"tableorder/order-client/internal/storage"

	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := service.NewStore(service.NewReducer(cfg.DefaultShopID))
	settings := service.NewSettingsStore()

	redisClient := config.MustInitRedis(cfg)
	defer redisClient.Close()

	persistor := service.NewPersistor(storage.NewRedisKV(redisClient, 0))
	if err := persistor.Load(ctx, store, settings); err != nil {
		log.Printf("WARNING: starting without persisted state: %v", err)
	}
	persistor.Attach(store, settings)

	persistCtx, stopPersist := context.WithCancel(context.Background())
	persisted := make(chan struct{})
	go func() {
		persistor.Run(persistCtx)
		close(persisted)
	}()

	var archive service.SessionArchive
	if cfg.ArchiveEnabled() {
		db := config.MustInitPostgres(cfg)
		defer db.Close()

		pgArchive := storage.NewPostgresArchive(db)
		if err := pgArchive.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to prepare session archive:", err)
		}
		archive = pgArchive
	}

	var publisher service.OrderPublisher
	if cfg.EventsEnabled() {
		writer := config.NewKafkaWriter(cfg, config.OrdersTopic)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	}

	client := backend.NewClient(cfg.APIBaseURL, &http.Client{Timeout: 15 * time.Second})
	notifications := notify.NewQueue(notify.DefaultCapacity)

	fetcher := service.NewFetcher(store, client, notifications)
	if err := fetcher.Refresh(ctx); err != nil {
		log.Printf("WARNING: initial refresh failed: %v", err)
	}

	handler := httpapi.NewHandler(
		store,
		fetcher,
		service.NewOrderService(store, client, notifications, publisher),
		service.NewSessionService(store, archive),
		settings,
		notifications,
		service.DefaultTableQRGenerator{BaseURL: cfg.QRBaseURL},
		client.BaseURL(),
	)

	server := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewRouter(handler))
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down order client")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARNING: server shutdown: %v", err)
	}
	stopPersist()
	<-persisted
}
