package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"roomly/internal/app/commands"
	"roomly/internal/app/handlers/listingapp"
	"roomly/internal/app/handlers/reservationapp"
	"roomly/internal/app/middleware"
	appoutbox "roomly/internal/app/outbox"
	"roomly/internal/app/queries"
	domainfavorite "roomly/internal/domain/favorite"
	domainlisting "roomly/internal/domain/listing"
	domainreservation "roomly/internal/domain/reservation"
	domainreview "roomly/internal/domain/review"
	"roomly/internal/infra/broker/kafka"
	redisc "roomly/internal/infra/cache/redis"
	"roomly/internal/infra/config"
	mongodb "roomly/internal/infra/db/mongo"
	ginserver "roomly/internal/infra/http/gin"
	"roomly/internal/infra/obs"
	infraoutbox "roomly/internal/infra/outbox"
	"roomly/internal/infra/storage/memory"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: app.ready}, app.handlers)

	if cfg.StorageMode == config.StorageMemory {
		if err := app.loadListingFixtures(ctx, fixturesPath(cfg), logger); err != nil {
			logger.Warn("listing fixtures load failed", "error", err)
		}
	}

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *infraoutbox.Worker
	ready    func() error
	closers  []func() error

	listings domainlisting.Repository
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

type persistence struct {
	listings     domainlisting.Repository
	reservations domainreservation.Repository
	ratings      domainreview.RatingAggregator
	favorites    domainfavorite.Checker
	outbox       appoutbox.Outbox
	idempotency  middleware.IdempotencyStore
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{ready: func() error { return nil }}

	var stores persistence
	switch cfg.StorageMode {
	case config.StorageMongo:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		store := infraoutbox.NewStore(client.DB)
		stores = persistence{
			listings:     mongodb.NewListingRepository(client.DB),
			reservations: mongodb.NewReservationRepository(client.DB),
			ratings:      mongodb.NewReviewRepository(client.DB),
			favorites:    mongodb.NewFavoriteRepository(client.DB),
			outbox:       store,
			idempotency:  mongodb.NewIdempotencyStore(client.DB),
		}
		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return nil, fmt.Errorf("kafka producer: %w", err)
			}
			app.closers = append(app.closers, producer.Close)
			app.worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Logger:      logger,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Source:      "app://roomly",
				Backoff:     cfg.RetryBackoff,
			}
		} else {
			logger.Warn("no kafka brokers configured, outbox records will accumulate unsent")
		}
	case config.StorageMemory:
		stores = persistence{
			listings:     memory.NewListingRepository(),
			reservations: memory.NewReservationRepository(),
			ratings:      memory.NewReviewRepository(),
			favorites:    memory.NewFavoriteRepository(),
			outbox:       memory.NewOutbox(),
			idempotency:  memory.NewIdempotencyStore(),
		}
	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.StorageMode)
	}

	if cfg.RedisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		app.closers = append(app.closers, redisClient.Close)
		stores.ratings = redisc.NewRatingCache(redisClient, stores.ratings, cfg.RatingCacheTTL, logger)
	}
	app.listings = stores.listings

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, reservationapp.CreateReservationCommand{}.Key(), &reservationapp.CreateReservationHandler{
		Reservations: stores.reservations,
		Listings:     stores.listings,
		Outbox:       stores.outbox,
		Encoder:      encoder,
	})
	commands.RegisterHandler(commandBus, reservationapp.TransitionReservationCommand{}.Key(), &reservationapp.TransitionReservationHandler{
		Reservations: stores.reservations,
		Listings:     stores.listings,
		Outbox:       stores.outbox,
		Encoder:      encoder,
	})
	commands.RegisterHandler(commandBus, listingapp.CreateListingCommand{}.Key(), &listingapp.CreateListingHandler{
		Listings: stores.listings,
		Outbox:   stores.outbox,
		Encoder:  encoder,
	})
	commands.RegisterHandler(commandBus, listingapp.UpdateListingCommand{}.Key(), &listingapp.UpdateListingHandler{
		Listings: stores.listings,
		Outbox:   stores.outbox,
		Encoder:  encoder,
	})
	commands.RegisterHandler(commandBus, listingapp.DeleteListingCommand{}.Key(), &listingapp.DeleteListingHandler{
		Listings: stores.listings,
		Outbox:   stores.outbox,
		Encoder:  encoder,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, listingapp.SearchListingsQuery{}.Key(), &listingapp.SearchListingsHandler{
		Listings:  stores.listings,
		Ratings:   stores.ratings,
		Favorites: stores.favorites,
	})
	queries.RegisterHandler(queryBus, listingapp.GetListingQuery{}.Key(), &listingapp.GetListingHandler{
		Listings:  stores.listings,
		Ratings:   stores.ratings,
		Favorites: stores.favorites,
	})
	reservationList := &reservationapp.ListReservationsHandler{
		Reservations: stores.reservations,
		Listings:     stores.listings,
		Logger:       logger,
	}
	queries.RegisterHandler(queryBus, reservationapp.ListRequesterReservationsQuery{}.Key(), reservationapp.RequesterQueryHandler{Inner: reservationList})
	queries.RegisterHandler(queryBus, reservationapp.ListOwnerReservationsQuery{}.Key(), reservationapp.OwnerQueryHandler{Inner: reservationList})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(stores.idempotency, nil),
		middleware.OutboxFlush(stores.outbox),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	auth := ginserver.PrincipalMiddleware{Secret: []byte(cfg.AuthSecret), Logger: logger}
	app.handlers = ginserver.Handlers{
		Reservation: ginserver.ReservationHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Listing: ginserver.ListingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		AuthMiddleware: auth.Handle,
	}
	return app, nil
}

type listingFixture struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Status      string `json:"status"`
}

func (a *application) loadListingFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("listing fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for _, fx := range fixtures {
		status := domainlisting.Status("")
		if fx.Status != "" {
			status, err = domainlisting.ParseStatus(fx.Status)
			if err != nil {
				logger.Error("fixture has invalid status", "listing_id", fx.ID, "status", fx.Status)
				continue
			}
		}
		l, err := domainlisting.New(domainlisting.CreateParams{
			ID:          domainlisting.ID(fx.ID),
			Owner:       domainlisting.OwnerID(fx.Owner),
			Name:        fx.Name,
			Address:     fx.Address,
			Description: fx.Description,
			PriceCents:  fx.PriceCents,
			Status:      status,
			Now:         now,
		})
		if err != nil {
			logger.Error("fixture invalid", "listing_id", fx.ID, "error", err)
			continue
		}
		if err := a.listings.Save(ctx, l); err != nil {
			logger.Error("cannot store fixture listing", "listing_id", fx.ID, "error", err)
			continue
		}
		logger.Info("listing fixture imported", "listing_id", l.ID)
	}
	return nil
}

func fixturesPath(cfg config.Config) string {
	if cfg.ListingFixtures != "" {
		return cfg.ListingFixtures
	}
	return filepath.Join("data", "listings.json")
}
