package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mediamod/internal/classifier"
	"mediamod/internal/config"
	"mediamod/internal/jobs"
	"mediamod/internal/metrics"
	"mediamod/internal/moderation"
	"mediamod/internal/notify"
	"mediamod/internal/server"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := moderation.NewStore()
	metrics.Init(store)

	var sink notify.Sink
	if cfg.NotifyWebhookURL != "" {
		sink = notify.NewWebhookSink(cfg.NotifyWebhookURL)
		log.Printf("Notifications delivered via webhook: %s", cfg.NotifyWebhookURL)
	} else {
		sink = notify.NewLogSink()
		log.Println("No notification webhook configured, notifications are logged")
	}

	clf := classifier.New(cfg.ClassifierURL, cfg.ClassifierAPIKey)
	if cfg.ClassifierURL == "" {
		log.Println("CLASSIFIER_URL not set, AI classification will fail until configured")
	}

	svc := moderation.NewService(store, clf, notify.NewDispatcher(sink))

	// Out-of-band intake merge loop
	if cfg.IntakeURL != "" {
		poller := jobs.NewIntakePoller(svc, jobs.NewHTTPIntakeSource(cfg.IntakeURL), cfg.PollInterval)
		go poller.Start(ctx)
	} else {
		log.Println("INTAKE_URL not set, intake polling disabled")
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(svc)

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
