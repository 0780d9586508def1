// Package cli wires orderbot components from configuration for the orderbot command.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/posterman/orderbot"
	"github.com/posterman/orderbot/internal/config"
	chathttp "github.com/posterman/orderbot/pkg/adapters/http"
	loamAdapter "github.com/posterman/orderbot/pkg/adapters/loam"
	"github.com/posterman/orderbot/pkg/adapters/memory"
	redisAdapter "github.com/posterman/orderbot/pkg/adapters/redis"
	"github.com/posterman/orderbot/pkg/observability"
	"github.com/posterman/orderbot/pkg/persistence/middleware"
	"github.com/posterman/orderbot/pkg/ports"
)

// lockPrefix namespaces distributed lock keys next to session keys.
const lockPrefix = "orderbot:lock:"

// App holds everything a command needs after wiring.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Bot     *orderbot.Bot
	Catalog ports.Catalog
	Metrics *observability.Metrics

	closers []func() error
}

// Close releases external connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Build creates the store, catalog, order sink, remote client and metrics
// described by cfg and assembles them into a Bot.
func Build(cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger, Metrics: observability.NewMetrics()}

	store, locker, err := app.buildStore()
	if err != nil {
		app.Close()
		return nil, err
	}

	catalog, err := buildCatalog(cfg.Catalog)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Catalog = catalog

	sink, recorded, err := buildSink(cfg.Orders)
	if err != nil {
		app.Close()
		return nil, err
	}

	opts := []orderbot.Option{
		orderbot.WithStore(store),
		orderbot.WithCatalog(catalog),
		orderbot.WithOrderSink(sink),
		orderbot.WithReplyDelay(cfg.ReplyDelay),
		orderbot.WithHandoffLink(cfg.Dialogue.HandoffLink),
		orderbot.WithClearDraftOnConfirm(cfg.Dialogue.ClearDraftOnConfirm),
		orderbot.WithLifecycleHooks(app.Metrics.Hooks()),
		orderbot.WithLifecycleHooks(observability.LoggingHooks(logger)),
		orderbot.WithLogger(logger),
	}
	if cfg.Dialogue.Tracker == config.TrackerOrders {
		opts = append(opts, orderbot.WithTracker(recorded))
		logger.Debug("tracking against recorded orders")
	}
	if locker != nil {
		opts = append(opts, orderbot.WithLocker(locker, cfg.Store.LockTTL))
	}
	if cfg.Remote.URL != "" {
		opts = append(opts, orderbot.WithRemote(chathttp.NewClient(cfg.Remote.URL, chathttp.WithTimeout(cfg.Remote.Timeout))))
		logger.Info("remote dialogue enabled", "url", cfg.Remote.URL)
	}

	app.Bot = orderbot.New(opts...)
	return app, nil
}

func (a *App) buildStore() (ports.ConversationStore, ports.DistributedLocker, error) {
	var (
		store  ports.ConversationStore
		locker ports.DistributedLocker
	)

	switch a.Config.Store.Backend {
	case config.BackendRedis:
		rc := a.Config.Store.Redis
		rs := redisAdapter.New(rc.Addr, rc.Password, rc.DB,
			redisAdapter.WithPrefix(rc.Prefix),
			redisAdapter.WithTTL(a.Config.Store.SessionTTL),
		)
		a.closers = append(a.closers, rs.Client().Close)
		store = rs
		locker = redisAdapter.NewLocker(rs.Client(), lockPrefix)
		a.Logger.Info("using redis store", "addr", rc.Addr, "prefix", rs.Prefix())
	default:
		store = memory.NewStore()
	}

	key, err := a.Config.EncryptionKeyBytes()
	if err != nil {
		return nil, nil, err
	}
	if key != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, nil, err
		}
		store = middleware.Chain(store, enc)
		a.Logger.Debug("at-rest encryption enabled")
	}
	return store, locker, nil
}

func buildCatalog(cfg config.CatalogConfig) (ports.Catalog, error) {
	if cfg.Dir == "" {
		return memory.NewCatalog(), nil
	}
	catalog, err := loamAdapter.OpenCatalog(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", cfg.Dir, err)
	}
	return catalog, nil
}

// orderJournal records confirmed orders and answers status lookups for them.
type orderJournal interface {
	ports.OrderSink
	ports.OrderTracker
}

// buildSink returns the order sink handed to the dialogue and the unmasked
// journal behind it, which can serve as the order tracker.
func buildSink(cfg config.OrdersConfig) (ports.OrderSink, ports.OrderTracker, error) {
	var journal orderJournal = memory.NewOrderBook()
	if cfg.Dir != "" {
		ledger, err := loamAdapter.OpenLedger(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("orders %s: %w", cfg.Dir, err)
		}
		journal = ledger
	}
	var sink ports.OrderSink = journal
	if cfg.MaskPII {
		sink = middleware.NewPIISink(sink)
	}
	return sink, journal, nil
}
