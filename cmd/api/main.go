package main

import (
	"context"
	"time"

	reservationhandler "staysdash/internal/reservations/handler"
	reservationrepo "staysdash/internal/reservations/repository"
	reservationservice "staysdash/internal/reservations/service"
	"staysdash/internal/stays"
	webhookhandler "staysdash/internal/webhooks/handler"
	webhookrepo "staysdash/internal/webhooks/repository"
	webhookservice "staysdash/internal/webhooks/service"
	"staysdash/pkg/app"
	"staysdash/pkg/cache"
	"staysdash/pkg/config"
	"staysdash/pkg/kafka"

	mongoMigration "staysdash/internal/migrations/mongo"
)

const ServiceName = "api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting API service")

	migrateMongo(cfg)

	readCache := cache.New(cfg.CacheSize, cfg.CacheTTL)
	notifier := initNotifier(cfg)

	reservationSvc := initReservationService(cfg, readCache)
	webhookSvc := initWebhookService(cfg, readCache, notifier)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		reservationhandler.NewReservationHandler(reservationSvc, cfg),
		webhookhandler.NewWebhookHandler(webhookSvc, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		if notifier != nil {
			if err := notifier.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}
		cfg.GracefulShutdown()
	})
	serverApp.Run()
}

func migrateMongo(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Mongo migration completed", "database", cfg.MongoDatabaseName)
}

func initNotifier(cfg *config.Config) *kafka.Producer {
	if !cfg.KafkaEnabled() {
		cfg.Log.Info("Kafka notifications disabled; no brokers configured")
		return nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	cfg.Log.Info("Kafka notifications enabled", "topic", cfg.KafkaEventsTopic)
	return producer
}

func initReservationService(cfg *config.Config, readCache *cache.ReadCache) reservationservice.ReservationService {
	repo := reservationrepo.NewMongoReservationRepository(cfg)

	var upstream reservationservice.UpstreamClient
	if cfg.StaysConfigured() {
		upstream = stays.NewClient(cfg.StaysURL, cfg.StaysLogin, cfg.StaysPassword, cfg.StaysTimeout)
		cfg.Log.Info("Upstream refresh enabled", "url", cfg.StaysURL)
	} else {
		cfg.Log.Info("Upstream refresh disabled; serving stored data only")
	}

	svc := reservationservice.NewReservationService(repo, readCache, upstream, cfg)
	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return svc
}

func initWebhookService(cfg *config.Config, readCache *cache.ReadCache, producer *kafka.Producer) webhookservice.WebhookService {
	events := webhookrepo.NewMongoEventRepository(cfg)
	store := reservationrepo.NewMongoReservationRepository(cfg)

	var notifier webhookservice.EventNotifier
	if producer != nil {
		notifier = producer
	}

	svc := webhookservice.NewWebhookService(events, store, readCache, notifier, cfg)
	cfg.Log.Info("Webhook service initialized", "database", cfg.MongoDatabaseName)
	return svc
}
