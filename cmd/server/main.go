package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Yash-97136/Pulse/internal/config"
	"github.com/Yash-97136/Pulse/internal/db"
	"github.com/Yash-97136/Pulse/internal/detect"
	"github.com/Yash-97136/Pulse/internal/notify"
	"github.com/Yash-97136/Pulse/internal/server"
	"github.com/Yash-97136/Pulse/internal/store"
	"github.com/Yash-97136/Pulse/internal/stream"
	"github.com/Yash-97136/Pulse/internal/text"
	"github.com/Yash-97136/Pulse/internal/trends"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize Redis
	redisStore, err := store.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisStore.Close()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Stopword extras are operator-managed in Redis and loaded once at boot.
	extras, err := redisStore.SMembers(ctx, trends.StopwordsKey)
	if err != nil {
		log.Printf("Warning: failed to load stopword extras: %v", err)
	}
	stopwords := text.LoadStopwords(extras)
	log.Printf("Loaded %d stopwords", stopwords.Len())

	tokenizer := text.NewTokenizer(stopwords, cfg.TokenMinLen, cfg.TokenMaxLen)

	// Ingest side
	ingestor := trends.NewIngestor(redisStore, tokenizer, cfg.DFTTL, cfg.DFMaxRatio)
	maintainer := trends.NewMaintainer(redisStore, cfg.MaintenanceInterval, cfg.ActivityRetention, cfg.MaxTokens)
	consumer := stream.NewConsumer(redisStore.Client(), ingestor, cfg.IntakeStream, cfg.IntakeGroup, cfg.IntakeConsumer)

	// Detection side
	recorder := detect.NewRecorder(redisStore, cfg.RecorderInterval, cfg.ActivityHorizon, cfg.HistoryWindow, cfg.HistoryTTL)
	publisher := notify.NewStreamPublisher(redisStore, cfg.AnomalyStream)
	emitter := detect.NewEmitter(database, publisher)
	detector := detect.NewDetector(redisStore, emitter, detect.Options{
		ZThreshold:        cfg.ZThreshold,
		MinSamples:        cfg.MinSamples,
		BaselineVolumeMin: cfg.BaselineVolumeMin,
		MinZStep:          cfg.MinZStep,
		LastZTTL:          cfg.LastZTTL,
		HistoryWindow:     cfg.HistoryWindow,
		SampleInterval:    cfg.SampleInterval,
		ActivityHorizon:   cfg.ActivityHorizon,
		ActivityRetention: cfg.DetectorActivityRetention,
	})
	scheduler := detect.NewScheduler(redisStore, detector, cfg.LeaseKey, cfg.LeaseTTL, cfg.DetectorInterval)

	go consumer.Start(ctx)
	go maintainer.Start(ctx)
	go recorder.Start(ctx)
	go scheduler.Start(ctx)

	// Query side
	reader := trends.NewReader(redisStore, cfg.ActivityHorizon)
	feed := notify.NewSubscriber(redisStore.Client(), cfg.AnomalyStream)

	srv := server.New(cfg)
	srv.RegisterRoutes(redisStore, database, reader, feed)

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

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
