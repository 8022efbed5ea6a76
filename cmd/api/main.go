package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"achihouse/internal/api"
	"achihouse/internal/config"
	"achihouse/internal/database"
	"achihouse/internal/domain"
	"achihouse/internal/events"
	"achihouse/internal/google"
	"achihouse/internal/logging"
	"achihouse/internal/metrics"
	"achihouse/internal/models"
	"achihouse/internal/notify"
	"achihouse/internal/repository"
	"achihouse/internal/service"
	"achihouse/internal/uploads"
	"achihouse/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	yamlv2 "gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	if err := seedContent(db, &logger); err != nil {
		return err
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	state := initStateRepository(redisClient, &logger)
	bus := events.NewEventBus()
	subscribeEventLogging(bus, &logger)

	notifier := initTelegram(cfg, &logger)
	mailer := initMailer(cfg, &logger)
	sheets := initGoogleSheets(cfg, &logger)

	notifyWorker := worker.NewNotifyWorker(db, notifier, mailer, sheets, redisClient, worker.RetryPolicy{}, &logger)

	uploadProvider, err := initUploadProvider(cfg, &logger)
	if err != nil {
		return err
	}

	reservations := service.NewReservationService(db, state, bus, notifyWorker, cfg.Restaurant.OpeningHours, &logger)
	content := service.NewContentService(db, uploadProvider, cfg.Uploads.Limits.MaxBytes, &logger)

	httpServer := api.NewHTTPServer(cfg.API, reservations, content, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go notifyWorker.Start(ctx)
	startMetrics(ctx, cfg, &logger)

	return serveHTTP(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// seedContent loads optional starter testimonials for a fresh install.
// Rows whose slug already exists are left untouched.
func seedContent(db *database.DB, logger *zerolog.Logger) error {
	seedPath := os.Getenv("SEED_CONTENT_PATH")
	if seedPath == "" {
		seedPath = "configs/seed_content.yaml"
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("read seed content")
		return err
	}

	type seedTestimonial struct {
		Slug           string                 `yaml:"slug"`
		Quote          models.LocalizedString `yaml:"quote"`
		Rating         int                    `yaml:"rating"`
		AuthorName     string                 `yaml:"author_name"`
		AuthorRole     models.LocalizedString `yaml:"author_role"`
		AvatarInitials string                 `yaml:"avatar_initials"`
		IsFeatured     bool                   `yaml:"is_featured"`
		SortOrder      int64                  `yaml:"sort_order"`
	}
	var seed struct {
		Testimonials []seedTestimonial `yaml:"testimonials"`
	}
	if err := yamlv2.Unmarshal(data, &seed); err != nil {
		logger.Error().Err(err).Str("seed_path", seedPath).Msg("parse seed content")
		return err
	}

	ctx := context.Background()
	inserted := 0
	for _, row := range seed.Testimonials {
		t := models.Testimonial{
			Slug:           row.Slug,
			Quote:          row.Quote,
			Rating:         row.Rating,
			AuthorName:     row.AuthorName,
			AuthorRole:     row.AuthorRole,
			AvatarInitials: row.AvatarInitials,
			IsFeatured:     row.IsFeatured,
			IsActive:       true,
			SortOrder:      row.SortOrder,
			Source:         "seed",
		}
		if err := db.CreateTestimonial(ctx, &t); err != nil {
			if errors.Is(err, database.ErrDuplicateSlug) {
				continue
			}
			return fmt.Errorf("seed testimonial %q: %w", t.Slug, err)
		}
		inserted++
	}
	if inserted > 0 {
		logger.Info().Int("count", inserted).Msg("seeded testimonials")
	}
	return nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initStateRepository(redisClient *redis.Client, logger *zerolog.Logger) domain.StateRepository {
	memory := repository.NewMemoryStateRepository()
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverStateRepository(
		repository.NewRedisStateRepository(redisClient),
		memory,
		logger,
	)
}

func subscribeEventLogging(bus *events.EventBus, logger *zerolog.Logger) {
	eventLogger := logger.With().Str("component", "events").Logger()
	for _, eventType := range []string{
		events.EventReservationCreated,
		events.EventReservationConfirmed,
		events.EventReservationCancelled,
		events.EventReservationCompleted,
	} {
		bus.Subscribe(eventType, func(event *events.Event) error {
			eventLogger.Info().Str("type", event.Type).RawJSON("payload", event.Payload).Msg("event")
			return nil
		})
	}
}

func initTelegram(cfg *config.Config, logger *zerolog.Logger) domain.ManagerNotifier {
	tg := cfg.Notifications.Telegram
	if tg.BotToken == "" || tg.ChatID == 0 {
		return nil
	}

	notifier, err := notify.NewTelegramNotifier(tg, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without telegram")
		return nil
	}

	logger.Info().Int64("chat_id", tg.ChatID).Msg("telegram notifier connected")
	return notifier
}

func initMailer(cfg *config.Config, logger *zerolog.Logger) domain.ConfirmationMailer {
	email := cfg.Notifications.Email
	if email.APIKey == "" || email.SecretKey == "" || email.FromEmail == "" {
		return nil
	}

	logger.Info().Str("from", email.FromEmail).Msg("confirmation mailer configured")
	return notify.NewMailer(email, cfg.Restaurant.Name, logger)
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) domain.SheetsWriter {
	g := cfg.Notifications.Google
	if g.CredentialsFile == "" || g.ReservationsSpreadsheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(g.CredentialsFile, g.ReservationsSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func initUploadProvider(cfg *config.Config, logger *zerolog.Logger) (domain.UploadProvider, error) {
	switch cfg.Uploads.Provider {
	case "cloudinary":
		return uploads.NewCloudinaryProvider(cfg.Uploads.Cloudinary, logger)
	default:
		return uploads.NewLocalProvider(cfg.Uploads.Local, logger)
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func serveHTTP(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
