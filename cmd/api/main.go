package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/shop-backend/internal/domain/repository"
	"github.com/wichananm65/shop-backend/internal/infrastructure/config"
	"github.com/wichananm65/shop-backend/internal/infrastructure/database/inmemory"
	"github.com/wichananm65/shop-backend/internal/infrastructure/database/postgres"
	"github.com/wichananm65/shop-backend/internal/infrastructure/idempotency"
	"github.com/wichananm65/shop-backend/internal/infrastructure/logging"
	"github.com/wichananm65/shop-backend/internal/infrastructure/metrics"
	"github.com/wichananm65/shop-backend/internal/infrastructure/notify"
	"github.com/wichananm65/shop-backend/internal/interface/http/handler"
	"github.com/wichananm65/shop-backend/internal/interface/http/router"
	"github.com/wichananm65/shop-backend/internal/interface/presenter"
	"github.com/wichananm65/shop-backend/internal/usecase"
)

type stores struct {
	tx       repository.TxManager
	products repository.ProductRepository
	carts    repository.CartRepository
	orders   repository.OrderLedger
	close    func() error
}

// main wires dependencies and serves until SIGINT or SIGTERM.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	publisher, closeSink := newPublisher(cfg, log)
	defer func() { _ = closeSink() }()

	idem := newIdempotencyStore(cfg, log)

	orderSvc := usecase.NewOrderService(st.tx, st.orders, log,
		usecase.WithEventPublisher(publisher),
		usecase.WithOrderMetrics(metrics.NewOrderMetrics(reg)),
	)
	cartSvc := usecase.NewCartService(st.carts, st.products, log)
	productSvc := usecase.NewProductService(st.products, log)

	catalog := presenter.NewCatalogPresenter()
	app := router.New(router.Deps{
		JWTSecret: cfg.JWTSecret,
		Log:       log,
		Gatherer:  reg,
		Metrics:   metrics.NewServerMetrics(reg, "api"),
		Products:  handler.NewProductHandler(productSvc, catalog, log),
		Carts:     handler.NewCartHandler(cartSvc, catalog, log),
		Orders:    handler.NewOrderHandler(orderSvc, presenter.NewOrderPresenter(), idem, log),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr)
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warn("http shutdown", "err", err)
		}
		if err := publisher.Close(shutdownCtx); err != nil {
			log.Warn("event publisher shutdown", "err", err, "dropped", publisher.Dropped())
		}
		return nil
	})

	err = g.Wait()
	log.Info("server shutdown")
	return err
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, error) {
	if cfg.DatabaseURL == "" {
		store := inmemory.NewStore()
		products, carts, orders := store.Repositories()
		if cfg.SeedProducts {
			if _, err := usecase.SeedCatalog(ctx, products, usecase.SampleProducts()); err != nil {
				return stores{}, err
			}
		}
		log.Info("using in-memory store")
		return stores{
			tx:       inmemory.NewTxManager(store),
			products: products,
			carts:    carts,
			orders:   orders,
			close:    func() error { return nil },
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, err
	}
	if err := prepareDB(ctx, db, cfg, log); err != nil {
		_ = db.Close()
		return stores{}, err
	}
	return stores{
		tx:       postgres.NewTxManager(db),
		products: postgres.NewProductRepository(db),
		carts:    postgres.NewCartRepository(db),
		orders:   postgres.NewOrderRepository(db),
		close:    db.Close,
	}, nil
}

func prepareDB(ctx context.Context, db *sql.DB, cfg config.Config, log *slog.Logger) error {
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}
	if !cfg.SeedProducts {
		return nil
	}
	n, err := postgres.SeedProducts(ctx, db, usecase.SampleProducts())
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("seeded catalog", "products", n)
	}
	return nil
}

func newPublisher(cfg config.Config, log *slog.Logger) (*notify.AsyncPublisher, func() error) {
	if len(cfg.KafkaBrokers) == 0 {
		return notify.NewAsyncPublisher(notify.NewLogSink(log), cfg.NotifyQueueSize, log), func() error { return nil }
	}
	w := notify.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
	log.Info("publishing order events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return notify.NewAsyncPublisher(notify.NewKafkaSink(w), cfg.NotifyQueueSize, log), w.Close
}

func newIdempotencyStore(cfg config.Config, log *slog.Logger) idempotency.Store {
	if cfg.RedisAddr == "" {
		return idempotency.NewMemoryStore(cfg.IdempotencyTTL)
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	log.Info("idempotency keys in redis", "addr", cfg.RedisAddr)
	return idempotency.NewRedisStore(rdb, cfg.IdempotencyTTL)
}

