package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/internal/metrics"
	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer"
	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/api"
	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/config"
	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/retention"
	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/trigger"
)

func main() {
	// Load .env in development; ignore absence in production
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sourceStore, err := cfg.BuildSourceStore()
	if err != nil {
		log.Fatalf("Failed to build source store: %v", err)
	}

	destinationStore, err := cfg.BuildDestinationStore()
	if err != nil {
		log.Fatalf("Failed to build destination store: %v", err)
	}

	notifier, err := cfg.BuildNotifier()
	if err != nil {
		log.Fatalf("Failed to build notifier: %v", err)
	}

	options := []thumbnailer.Option{
		thumbnailer.WithSourceStore(sourceStore),
		thumbnailer.WithDestinationStore(cfg.DestinationStoreID, destinationStore),
		thumbnailer.WithKeyPrefix(cfg.KeyPrefix),
		thumbnailer.WithThumbnailSize(cfg.ThumbnailMaxWidth, cfg.ThumbnailMaxHeight),
		thumbnailer.WithMaxSourceBytes(cfg.MaxSourceBytes),
	}
	if notifier != nil {
		options = append(options,
			thumbnailer.WithNotifier(notifier),
			thumbnailer.WithNotificationsEnabled(cfg.SendNotifications),
		)
	}

	svc, err := thumbnailer.New(options...)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	router := trigger.NewRouter(svc, trigger.WithSuffixes(cfg.KeySuffixes))
	server := api.NewServer(router, nil)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: server.Routes(),
	}

	// Schedule the retention sweeper independently of the processing path
	var scheduler *cron.Cron
	if cfg.RetentionEnabled() {
		sweeper, err := retention.NewSweeper(destinationStore, cfg.RetentionRule())
		if err != nil {
			log.Fatalf("Failed to build retention sweeper: %v", err)
		}

		scheduler = cron.New()
		_, err = scheduler.AddFunc(cfg.RetentionSchedule, func() {
			deleted, err := sweeper.SweepOnce(context.Background())
			if err != nil {
				log.Printf("Retention sweep error: %v", err)
			}
			metrics.ObserveSweep(deleted)
			log.Printf("Retention sweep removed %d objects", deleted)
		})
		if err != nil {
			log.Fatalf("Invalid retention schedule %q: %v", cfg.RetentionSchedule, err)
		}
		scheduler.Start()
	}

	go func() {
		log.Printf("Image pipeline server starting on port %s (env: %s)", cfg.Port, cfg.Environment)
		log.Printf("Destination store: %s, notifications enabled: %t", cfg.DestinationStoreID, cfg.SendNotifications)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
