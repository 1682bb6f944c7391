package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpin "orderengine/internal/adapters/in/http"
	"orderengine/internal/adapters/out/catalog"
	"orderengine/internal/adapters/out/memory"
	"orderengine/internal/adapters/out/notify"
	"orderengine/internal/adapters/out/ordernumber"
	"orderengine/internal/adapters/out/postgres"
	"orderengine/internal/adapters/out/postgres/menurepo"
	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/model/menu"
	"orderengine/internal/core/ports"
	"orderengine/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot owns the process-wide adapters and builds handlers on top
// of them.
type CompositionRoot struct {
	cfg       Config
	logger    *slog.Logger
	gormDB    *gorm.DB
	uows      ports.UnitOfWorkFactory
	menus     ports.MenuCatalog
	catalog   catalog.Config
	providers catalog.Providers
	publisher ports.NotificationPublisher
	closers   []func() error
}

func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{cfg: cfg, logger: logger}

	catalogCfg, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	c.catalog = catalogCfg
	if c.providers, err = catalog.NewProviders(catalogCfg); err != nil {
		return nil, fmt.Errorf("build catalog providers: %w", err)
	}

	switch cfg.Store {
	case StorePostgres:
		if c.gormDB, err = postgres.Open(ctx, cfg.DatabaseDSN); err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() error {
			sqlDB, err := c.gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		c.uows = postgres.NewGormUnitOfWorkFactory(c.gormDB)
		c.menus = menurepo.NewGormMenuCatalog(c.gormDB)
	default:
		items, err := catalogCfg.MenuItems()
		if err != nil {
			return nil, err
		}
		c.uows = memory.NewUnitOfWorkFactory(memory.NewStore())
		c.menus = memory.NewMenuCatalog(items...)
	}

	if err = c.initPublisher(); err != nil {
		_ = c.Close()
		return nil, err
	}

	logger.Info("Composition root ready", "store", cfg.Store, "notifier", cfg.Notifier)
	return c, nil
}

func (c *CompositionRoot) initPublisher() error {
	if c.cfg.Notifier != NotifierKafka {
		c.publisher = notify.NewLogPublisher(c.logger)
		return nil
	}

	producer, err := notify.NewSyncProducer(c.cfg.Kafka)
	if err != nil {
		return err
	}
	publisher := notify.NewKafkaPublisher(producer, c.cfg.Kafka.Topic)
	c.closers = append(c.closers, publisher.Close)
	c.publisher = publisher
	return nil
}

// Close releases the database and the Kafka producer.
func (c *CompositionRoot) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i]())
	}
	c.closers = nil
	return err
}

// Migrate creates the schema. It is a no-op for the in-memory store.
func (c *CompositionRoot) Migrate() error {
	if c.gormDB == nil {
		return nil
	}
	return postgres.Migrate(c.gormDB)
}

// SeedMenu upserts the catalog's menu section into the database and returns
// the number of items written.
func (c *CompositionRoot) SeedMenu(ctx context.Context) (int, error) {
	items, err := c.catalog.MenuItems()
	if err != nil {
		return 0, err
	}
	saver, ok := c.menus.(interface {
		Save(ctx context.Context, item menu.Item) error
	})
	if !ok {
		return 0, nil
	}
	for _, item := range items {
		if err = saver.Save(ctx, item); err != nil {
			return 0, fmt.Errorf("seed menu item %s: %w", item.ID, err)
		}
	}
	return len(items), nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uows.Create()
	})
}

func (c *CompositionRoot) outboxUoWFactory() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uows.Create()
	})
}

// reader reads outside of any transaction.
func (c *CompositionRoot) reader() queries.OrderReader {
	return c.uows.Create().OrderRepository()
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(),
		c.menus,
		c.providers.Tariffs,
		c.providers.Promotions,
		ordernumber.NewGenerator(c.cfg.OrderNumberPrefix),
		c.cfg.Placement,
	)
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.orderUoWFactory(), c.cfg.Retry)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(
		c.orderUoWFactory(), c.providers.Tariffs, c.providers.Incentives, c.cfg.Retry)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(c.orderUoWFactory(), c.cfg.Retry)
}

func (c *CompositionRoot) CreateAddTrackingPingCommandHandler() commands.AddTrackingPingCommandHandler {
	return commands.NewAddTrackingPingCommandHandler(c.orderUoWFactory(), c.cfg.Retry)
}

func (c *CompositionRoot) CreateSetTipCommandHandler() commands.SetTipCommandHandler {
	return commands.NewSetTipCommandHandler(c.orderUoWFactory(), c.cfg.Retry)
}

func (c *CompositionRoot) CreateSubmitReviewCommandHandler() commands.SubmitReviewCommandHandler {
	return commands.NewSubmitReviewCommandHandler(c.orderUoWFactory(), c.cfg.Retry)
}

func (c *CompositionRoot) CreateExpireUnpaidOrdersCommandHandler() commands.ExpireUnpaidOrdersCommandHandler {
	return commands.NewExpireUnpaidOrdersCommandHandler(c.orderUoWFactory(), c.cfg.Retry, c.logger)
}

func (c *CompositionRoot) CreateRelayNotificationsCommandHandler() commands.RelayNotificationsCommandHandler {
	return commands.NewRelayNotificationsCommandHandler(c.outboxUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.reader())
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.reader())
}

func (c *CompositionRoot) CreateGetTrackingQueryHandler() queries.GetTrackingQueryHandler {
	return queries.NewGetTrackingQueryHandler(c.reader())
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.cfg.Jobs,
		c.CreateRelayNotificationsCommandHandler(),
		c.CreateExpireUnpaidOrdersCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:     c.CreateCreateOrderCommandHandler(),
		RecordPayment:   c.CreateRecordPaymentCommandHandler(),
		TransitionOrder: c.CreateTransitionOrderCommandHandler(),
		AssignDriver:    c.CreateAssignDriverCommandHandler(),
		AddTrackingPing: c.CreateAddTrackingPingCommandHandler(),
		SetTip:          c.CreateSetTipCommandHandler(),
		SubmitReview:    c.CreateSubmitReviewCommandHandler(),
		GetOrder:        c.CreateGetOrderQueryHandler(),
		GetActiveOrders: c.CreateGetActiveOrdersQueryHandler(),
		GetTracking:     c.CreateGetTrackingQueryHandler(),
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
