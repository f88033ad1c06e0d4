package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/metrics"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

func main() {
	fx.New(appOptions()...).Run()
}

// appOptions wires every component of the service.
func appOptions() []fx.Option {
	return []fx.Option{
		fx.Provide(
			config.Load,
			newLogger,
			newMetrics,
			newStore,
			newPublisher,
			newProductService,
			newApp,
		),
		fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: l.With("component", "fx")}
		}),
		fx.Invoke(startServer),
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return logger
}

func newMetrics() (*metrics.Metrics, prometheus.Gatherer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New(reg), reg
}

// newStore selects the product repository from DATABASE_DRIVER and ties the
// underlying connection to the app lifecycle.
func newStore(lc fx.Lifecycle, cfg *config.Config) (repositories.ProductRepository, handlers.PingFunc, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		slog.Warn("using in-memory product store, data is lost on restart")
		return repositories.NewMemoryProductRepository(), nil, nil

	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, 10*time.Second)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error { return client.Disconnect(ctx) },
		})
		repo, err := repositories.NewMongoProductRepository(ctx, client.Database(cfg.MongoDB.Database).Collection("products"))
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to mongodb", "database", cfg.MongoDB.Database)
		return repo, func(ctx context.Context) error { return client.Ping(ctx, nil) }, nil

	default:
		db, err := database.OpenGORM(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return database.CloseGORM(db) },
		})
		slog.Info("connected to database", "driver", cfg.Database.Driver)
		return repositories.NewGORMProductRepository(db), gormPing(db), nil
	}
}

func gormPing(db *gorm.DB) handlers.PingFunc {
	return func(ctx context.Context) error { return database.PingGORM(ctx, db) }
}

// newPublisher returns a nil publisher when RABBITMQ_URL is empty.
func newPublisher(lc fx.Lifecycle, cfg *config.Config) (services.EventPublisher, error) {
	if cfg.RabbitMQ.URL == "" {
		slog.Info("RABBITMQ_URL not set, product events disabled")
		return nil, nil
	}
	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return client.Close() },
	})
	return client, nil
}

func newProductService(repo repositories.ProductRepository, publisher services.EventPublisher, m *metrics.Metrics) *services.ProductService {
	return services.NewProductService(repo, publisher, m)
}

func newApp(cfg *config.Config, svc *services.ProductService, ping handlers.PingFunc, m *metrics.Metrics, gatherer prometheus.Gatherer) *fiber.App {
	return handlers.NewApp(handlers.AppOptions{
		Products:  handlers.NewProductHandler(svc, cfg.DefaultPageSize),
		Health:    handlers.NewHealthHandler(ping),
		Metrics:   m,
		Gatherer:  gatherer,
		AccessLog: true,
	})
}

func startServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			slog.Info("starting server", "addr", cfg.AppPort)
			go func() {
				if err := app.Listen(cfg.AppPort); err != nil {
					slog.Error("server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			slog.Info("shutting down server")
			return app.ShutdownWithContext(ctx)
		},
	})
}
