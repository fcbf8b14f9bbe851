package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"rentcam/internal/app/commands"
	listingapp "rentcam/internal/app/handlers/listings"
	messagingapp "rentcam/internal/app/handlers/messaging"
	notificationapp "rentcam/internal/app/handlers/notifications"
	profileapp "rentcam/internal/app/handlers/profiles"
	reviewapp "rentcam/internal/app/handlers/reviews"
	"rentcam/internal/app/middleware"
	appoutbox "rentcam/internal/app/outbox"
	"rentcam/internal/app/policies"
	"rentcam/internal/app/queries"
	domainlistings "rentcam/internal/domain/listings"
	domainmessaging "rentcam/internal/domain/messaging"
	domainnotifications "rentcam/internal/domain/notifications"
	domainreviews "rentcam/internal/domain/reviews"
	"rentcam/internal/infra/broker/kafka"
	rediscache "rentcam/internal/infra/cache/redis"
	"rentcam/internal/infra/config"
	mongodb "rentcam/internal/infra/db/mongo"
	"rentcam/internal/infra/db/scylla"
	"rentcam/internal/infra/fixtures"
	ginserver "rentcam/internal/infra/http/gin"
	"rentcam/internal/infra/inbox"
	"rentcam/internal/infra/obs"
	infraoutbox "rentcam/internal/infra/outbox"
	"rentcam/internal/infra/storage/memory"
	s3storage "rentcam/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootLogger := obs.NewLogger(os.Getenv("APP_ENV"))
	if err := config.LoadDotEnv(); err != nil {
		bootLogger.Warn("dotenv load failed", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		bootLogger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)
	metrics := obs.NewMetrics()

	app, err := buildApplication(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	set, err := fixtures.Load(cfg.FixturesPath)
	if err != nil {
		logger.Warn("fixtures load failed", "error", err, "path", cfg.FixturesPath)
	} else if _, err := fixtures.Import(ctx, set, app.seedTargets); err != nil {
		logger.Warn("fixtures import failed", "error", err)
	}

	go func() {
		if err := app.relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox relay stopped", "error", err)
		}
	}()
	if app.consumer != nil {
		go func() {
			topics := []string{
				cfg.KafkaTopicPrefix + "listing.events.v1",
				cfg.KafkaTopicPrefix + "review.events.v1",
			}
			if err := app.consumer.Run(ctx, topics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("kafka consumer stopped", "error", err)
			}
		}()
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger, Metrics: metrics}, obs.HealthHandlers{
		Checks:  app.checks,
		Timeout: 2 * time.Second,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "mock_mode", cfg.MockMode())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers    ginserver.Handlers
	seedTargets fixtures.Targets
	relay       *infraoutbox.Worker
	consumer    *kafka.Consumer
	checks      map[string]obs.Check
	closers     []func(context.Context) error
}

func (a *application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("shutdown step failed", "error", err)
		}
	}
}

// backends holds the storage selected for each concern. Every field starts as
// the in-memory implementation and is replaced when its backend is configured.
type backends struct {
	listings      domainlistings.Repository
	threads       domainmessaging.Repository
	reviews       domainreviews.Repository
	box           appoutbox.Outbox
	queue         appoutbox.Queue
	cache         policies.SearchCache
	uploader      policies.PhotoUploader
	photos        *memory.PhotoStore
	ledger        inbox.Ledger
	notifications *memory.NotificationRepository
	profiles      *memory.ProfileRepository
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *obs.Metrics) (*application, error) {
	app := &application{checks: map[string]obs.Check{}}
	memBox := memory.NewOutbox()
	memPhotos := memory.NewPhotoStore(ginserver.PhotoPrefix)
	b := backends{
		listings:      memory.NewListingRepository(),
		threads:       memory.NewThreadRepository(),
		reviews:       memory.NewReviewRepository(),
		box:           memBox,
		queue:         memBox,
		uploader:      memPhotos,
		photos:        memPhotos,
		ledger:        inbox.NewMemory(),
		notifications: memory.NewNotificationRepository(),
		profiles:      memory.NewProfileRepository(),
	}
	if err := app.connectBackends(ctx, cfg, logger, &b); err != nil {
		app.close(logger)
		return nil, err
	}

	notificationStore := domainnotifications.Store{
		Repo:  b.notifications,
		NewID: func() domainnotifications.ID { return domainnotifications.ID(uuid.NewString()) },
	}
	notifier := &notificationapp.ListingEventNotifier{
		Store:    notificationStore,
		Profiles: b.profiles,
		Logger:   logger.With("component", "notifier"),
	}
	listingEvents := inbox.Deduplicator{Ledger: b.ledger, Next: notifier, Logger: logger}

	var producer infraoutbox.Producer = infraoutbox.LocalPublisher{
		Handlers: []infraoutbox.EventHandler{listingEvents},
		Logger:   logger,
	}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			app.close(logger)
			return nil, err
		}
		app.closers = append(app.closers, func(context.Context) error { return kp.Close() })
		producer = kp

		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, kafka.EventDispatcher{
			Handlers: []kafka.EventHandler{listingEvents},
		}, logger.With("component", "kafka-consumer"))
		if err != nil {
			app.close(logger)
			return nil, err
		}
		app.closers = append(app.closers, func(context.Context) error { return consumer.Close() })
		app.consumer = consumer
	}
	app.relay = &infraoutbox.Worker{
		Queue:       b.queue,
		Producer:    producer,
		Observer:    metrics,
		Logger:      logger.With("component", "outbox-relay"),
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}

	encoder := appoutbox.JSONEventEncoder{IDGenerator: uuid.NewString}
	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()
	listingapp.Register(commandBus, queryBus, listingapp.Deps{
		Effects:  listingapp.Effects{Outbox: b.box, Encoder: encoder, Cache: b.cache},
		Repo:     b.listings,
		Uploader: b.uploader,
		CacheTTL: cfg.SearchCacheTTL,
		Logger:   logger,
	})
	messagingapp.Register(commandBus, queryBus, messagingapp.Deps{
		Store: domainmessaging.Store{
			Repo:         b.threads,
			NewThreadID:  func() domainmessaging.ThreadID { return domainmessaging.ThreadID(uuid.NewString()) },
			NewMessageID: func() domainmessaging.MessageID { return domainmessaging.MessageID(uuid.NewString()) },
		},
		Listings: b.listings,
		Outbox:   b.box,
		Encoder:  encoder,
		Logger:   logger,
	})
	notificationapp.Register(commandBus, queryBus, notificationStore)
	profileapp.Register(commandBus, queryBus, b.profiles, logger)
	reviewapp.Register(commandBus, queryBus, reviewapp.Deps{
		Repo:     b.reviews,
		Listings: b.listings,
		Profiles: b.profiles,
		Outbox:   b.box,
		Encoder:  encoder,
		Logger:   logger,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.CommandLogging(logger, metrics),
		middleware.RequireActor(),
		middleware.CompactOutbox(b.box, logger),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger, metrics),
		middleware.RequireQueryActor(),
	)

	app.handlers = ginserver.Handlers{
		Listing:        ginserver.ListingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
		Thread:         ginserver.ThreadHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
		Notification:   ginserver.NotificationHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
		Review:         ginserver.ReviewHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
		Me:             ginserver.MeHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Profiles: b.profiles, Logger: logger}.Handle,
		Metrics:        metrics.Handler(),
	}
	if b.photos != nil {
		app.handlers.Photos = b.photos
	}
	app.seedTargets = fixtures.Targets{
		Listings:      b.listings,
		Threads:       b.threads,
		Notifications: b.notifications,
		Profiles:      b.profiles,
		Reviews:       b.reviews,
		Logger:        logger,
	}
	return app, nil
}

// connectBackends swaps in every configured external store and registers its
// readiness check.
func (a *application) connectBackends(ctx context.Context, cfg config.Config, logger *slog.Logger, b *backends) error {
	if cfg.MongoURI != "" {
		client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Close)
		a.checks["mongo"] = client.Ping

		listings, err := mongodb.NewListingRepository(ctx, client.DB)
		if err != nil {
			return err
		}
		reviews, err := mongodb.NewReviewRepository(ctx, client.DB)
		if err != nil {
			return err
		}
		box, err := infraoutbox.NewStore(ctx, client.DB)
		if err != nil {
			return err
		}
		ledger, err := inbox.NewStore(ctx, client.DB, cfg.KafkaGroupID)
		if err != nil {
			return err
		}
		b.listings = listings
		b.reviews = reviews
		b.box = box
		b.queue = box
		b.ledger = ledger
		logger.Info("mongo backend connected", "database", cfg.MongoDB)
	}

	if len(cfg.ScyllaHosts) > 0 {
		session, err := scylla.NewSession(ctx, scylla.Config{
			Hosts:    cfg.ScyllaHosts,
			Keyspace: cfg.ScyllaKeyspace,
			Timeout:  cfg.ScyllaTimeout,
		}, logger)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(context.Context) error {
			session.Close()
			return nil
		})
		threads := scylla.NewThreadRepository(session, logger)
		a.checks["scylla"] = threads.Ping
		b.threads = threads
		logger.Info("threads stored in scylla", "keyspace", cfg.ScyllaKeyspace)
	}

	if cfg.RedisAddr != "" {
		client := rediscache.NewClient(rediscache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		cache := rediscache.NewSearchCache(client, logger)
		a.checks["redis"] = cache.Ping
		b.cache = cache
	}

	if cfg.S3Endpoint != "" {
		photos, err := s3storage.NewPhotoStore(s3storage.Config{
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			Bucket:         cfg.S3Bucket,
			UseSSL:         cfg.S3UseSSL,
		}, logger)
		if err != nil {
			return err
		}
		a.checks["s3"] = photos.Ping
		b.uploader = photos
		b.photos = nil
	}
	return nil
}
