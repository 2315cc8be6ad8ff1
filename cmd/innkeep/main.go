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

	"innkeep/internal/app/idempotency"
	appoutbox "innkeep/internal/app/outbox"
	authsvc "innkeep/internal/app/services/auth"
	billingsvc "innkeep/internal/app/services/billing"
	hotelsvc "innkeep/internal/app/services/hotels"
	notificationsvc "innkeep/internal/app/services/notifications"
	ratesvc "innkeep/internal/app/services/rates"
	reservationsvc "innkeep/internal/app/services/reservations"
	roomsvc "innkeep/internal/app/services/rooms"
	"innkeep/internal/app/services/support"
	usersvc "innkeep/internal/app/services/users"
	"innkeep/internal/app/uow"
	domainauth "innkeep/internal/domain/auth"
	domainhotel "innkeep/internal/domain/hotel"
	domainrate "innkeep/internal/domain/rate"
	domainroom "innkeep/internal/domain/room"
	"innkeep/internal/domain/shared/money"
	domainuser "innkeep/internal/domain/user"
	"innkeep/internal/infra/broker/kafka"
	"innkeep/internal/infra/config"
	mongodb "innkeep/internal/infra/db/mongo"
	ginserver "innkeep/internal/infra/http/gin"
	"innkeep/internal/infra/obs"
	infraoutbox "innkeep/internal/infra/outbox"
	"innkeep/internal/infra/security"
	"innkeep/internal/infra/storage/memory"
	redisstore "innkeep/internal/infra/storage/redis"
	"innkeep/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger := obs.NewLogger("dev")
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if cfg.Store == "memory" {
		fixturesPath := getenv("HOTEL_FIXTURES", defaultHotelFixturesPath())
		if err := loadHotelFixtures(ctx, app.uowFactory, fixturesPath, logger); err != nil {
			logger.Warn("hotel fixtures load failed", "error", err, "path", fixturesPath)
		}
	}

	go app.sweeper.Run(ctx)
	go func() {
		if err := app.relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox relay stopped", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		app.close(logger)
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.Store)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers   ginserver.Handlers
	uowFactory uow.UoWFactory
	sweeper    *notificationsvc.Sweeper
	relay      *infraoutbox.Worker
	ready      func() error
	closers    []func() error
}

func buildApplication(cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{}
	var readiness []func() error

	var (
		usersRepo   domainuser.Repository
		outboxStore appoutbox.Outbox
		eventSource infraoutbox.EventSource
	)
	switch cfg.Store {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		factory := mongodb.NewFactory(client.DB)
		store := infraoutbox.NewStore(client.DB)
		app.uowFactory = factory
		usersRepo = factory.UsersRepo
		outboxStore, eventSource = store, store
		readiness = append(readiness, func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		})
	default:
		factory := memory.NewFactory()
		ob := memory.NewOutbox()
		app.uowFactory = factory
		usersRepo = factory.UsersRepo
		outboxStore, eventSource = ob, ob
	}

	var (
		sessions domainauth.SessionStore = memory.NewSessionStore()
		idemp    idempotency.Store       = memory.NewIdempotencyStore()
	)
	if cfg.RedisAddr != "" {
		rclient := redisstore.NewClient(cfg.RedisAddr, cfg.RedisPassword)
		sessions = redisstore.NewSessionStore(rclient)
		idemp = redisstore.NewIdempotencyStore(rclient, cfg.IdempotencyTTL)
		app.closers = append(app.closers, rclient.Close)
		readiness = append(readiness, func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisstore.Ping(pingCtx, rclient)
		})
	}

	var uploader s3.Uploader = s3.NoopUploader{}
	if cfg.S3Endpoint != "" {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Warn("s3 uploader unavailable, photo uploads disabled", "error", err)
		} else {
			uploader = client
		}
	}

	var producer infraoutbox.Producer = logProducer{logger: logger}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		producer = kp
		app.closers = append(app.closers, kp.Close)
	}
	hostname, _ := os.Hostname()
	app.relay = &infraoutbox.Worker{
		Store:       eventSource,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		ID:          hostname,
		Backoff:     cfg.RetryBackoff,
	}

	authService := &authsvc.Service{
		Users:      usersRepo,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	reservationService := &reservationsvc.Service{
		UoWFactory:  app.uowFactory,
		Outbox:      outboxStore,
		Encoder:     appoutbox.JSONEventEncoder{},
		Idempotency: idemp,
		Logger:      logger,
	}
	hotelService := &hotelsvc.Service{UoWFactory: app.uowFactory, Logger: logger}
	roomService := &roomsvc.Service{UoWFactory: app.uowFactory, Uploader: uploader, Logger: logger}
	rateService := &ratesvc.Service{UoWFactory: app.uowFactory, Logger: logger}
	billingService := &billingsvc.Service{UoWFactory: app.uowFactory, Logger: logger}
	notificationService := &notificationsvc.Service{UoWFactory: app.uowFactory, Logger: logger}
	userService := &usersvc.Service{UoWFactory: app.uowFactory, Sessions: sessions, Logger: logger}

	app.sweeper = &notificationsvc.Sweeper{
		UoWFactory: app.uowFactory,
		Interval:   cfg.SweepInterval,
		Logger:     logger,
	}

	app.handlers = ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		Hotels:         ginserver.HotelHandler{Service: hotelService, Logger: logger},
		Rooms:          ginserver.RoomHandler{Service: roomService, Logger: logger},
		Rates:          ginserver.RateHandler{Service: rateService, Logger: logger},
		Reservations:   ginserver.ReservationHandler{Service: reservationService, Logger: logger},
		Billing:        ginserver.BillingHandler{Service: billingService, Logger: logger},
		Notifications:  ginserver.NotificationHandler{Service: notificationService, Logger: logger},
		Users:          ginserver.UserHandler{Service: userService, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}
	app.ready = func() error {
		for _, check := range readiness {
			if err := check(); err != nil {
				return err
			}
		}
		return nil
	}
	return app, nil
}

func (a *application) close(logger *slog.Logger) {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}

// logProducer stands in for Kafka when no brokers are configured. Events are
// still drained from the outbox so the relay path stays exercised.
type logProducer struct {
	logger *slog.Logger
}

func (p logProducer) Publish(_ context.Context, topic string, key string, payload []byte, _ map[string]string) error {
	if p.logger != nil {
		p.logger.Debug("event published", "topic", topic, "key", key, "bytes", len(payload))
	}
	return nil
}

func loadHotelFixtures(ctx context.Context, factory uow.UoWFactory, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("hotel fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []hotelFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return nil
	}

	now := time.Now()
	return support.RunInUnit(ctx, factory, func(ctx context.Context, unit uow.UnitOfWork) error {
		for _, fx := range fixtures {
			h, err := domainhotel.New(domainhotel.CreateParams{
				ID:        domainhotel.ID(fx.ID),
				Name:      fx.Name,
				Address:   fx.Address,
				City:      fx.City,
				Phone:     fx.Phone,
				Email:     fx.Email,
				CreatedAt: now,
			})
			if err != nil {
				logger.Error("hotel fixture invalid", "hotel_id", fx.ID, "error", err)
				continue
			}
			if err := unit.Hotels().Save(ctx, h); err != nil {
				return err
			}
			for _, rf := range fx.Rooms {
				roomType, err := domainroom.ParseType(rf.Type)
				if err != nil {
					logger.Error("room fixture invalid", "room_id", rf.ID, "error", err)
					continue
				}
				price, err := money.New(rf.BaseCents, rf.Currency)
				if err != nil {
					logger.Error("room fixture invalid", "room_id", rf.ID, "error", err)
					continue
				}
				rm, err := domainroom.New(domainroom.CreateParams{
					ID:        domainroom.ID(rf.ID),
					HotelID:   h.ID,
					Number:    rf.Number,
					Type:      roomType,
					BasePrice: price,
					Capacity:  rf.Capacity,
					CreatedAt: now,
				})
				if err != nil {
					logger.Error("room fixture invalid", "room_id", rf.ID, "error", err)
					continue
				}
				if err := unit.Rooms().Save(ctx, rm); err != nil {
					return err
				}
			}
			for _, sf := range fx.Rates {
				start, errStart := time.Parse("2006-01-02", sf.StartDate)
				end, errEnd := time.Parse("2006-01-02", sf.EndDate)
				mult, errMult := money.ParseFactor(sf.Multiplier)
				if errStart != nil || errEnd != nil || errMult != nil {
					logger.Error("rate fixture invalid", "rate_id", sf.ID)
					continue
				}
				sr, err := domainrate.New(domainrate.CreateParams{
					ID:         domainrate.ID(sf.ID),
					HotelID:    h.ID,
					Name:       sf.Name,
					Start:      start,
					End:        end,
					Multiplier: mult,
					CreatedAt:  now,
				})
				if err != nil {
					logger.Error("rate fixture invalid", "rate_id", sf.ID, "error", err)
					continue
				}
				if err := unit.Rates().Save(ctx, sr); err != nil {
					return err
				}
			}
			logger.Info("hotel fixture imported", "hotel_id", h.ID, "rooms", len(fx.Rooms), "rates", len(fx.Rates))
		}
		return nil
	})
}

type hotelFixture struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Address string        `json:"address"`
	City    string        `json:"city"`
	Phone   string        `json:"phone"`
	Email   string        `json:"email"`
	Rooms   []roomFixture `json:"rooms"`
	Rates   []rateFixture `json:"rates"`
}

type roomFixture struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Type      string `json:"type"`
	BaseCents int64  `json:"base_cents"`
	Currency  string `json:"currency"`
	Capacity  int    `json:"capacity"`
}

type rateFixture struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Multiplier string `json:"multiplier"`
}

func defaultHotelFixturesPath() string {
	return filepath.Join("data", "hotels.json")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
