package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/digibank/internal/identity/application/audit"
	"github.com/felixgeelhaar/digibank/internal/identity/application/commands"
	"github.com/felixgeelhaar/digibank/internal/identity/application/queries"
	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	identityPersistence "github.com/felixgeelhaar/digibank/internal/identity/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/digibank/internal/shared/application"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/digibank/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/digibank/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/digibank/internal/validation"
	"github.com/felixgeelhaar/digibank/pkg/config"
	"github.com/felixgeelhaar/digibank/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Observability
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Health   *observability.HealthRegistry

	// Database
	DBConn database.Connection

	// Redis (nil in local mode)
	RedisClient *redis.Client

	// Repositories
	UserRepo   domain.UserRepository
	OutboxRepo outbox.Repository
	UnitOfWork sharedApplication.UnitOfWork

	// Event delivery. InProcessBus is only set in local mode, where it is
	// also the publisher behind EventPublisher.
	EventPublisher   eventbus.Publisher
	BreakerPublisher *eventbus.BreakerPublisher
	InProcessBus     *eventbus.InProcessBus
	OutboxProcessor  *outbox.Processor
	AuditHandler     *audit.Handler

	// Stateless validation
	Validation *validation.Service

	// User Command Handlers
	RegisterUserHandler     *commands.RegisterUserHandler
	UpdateUserHandler       *commands.UpdateUserHandler
	ChangeEmailHandler      *commands.ChangeEmailHandler
	ChangePhoneHandler      *commands.ChangePhoneHandler
	ChangeNationalIDHandler *commands.ChangeNationalIDHandler
	ChangeBirthDateHandler  *commands.ChangeBirthDateHandler
	ChangePasswordHandler   *commands.ChangePasswordHandler
	ActivateUserHandler     *commands.ActivateUserHandler
	DeactivateUserHandler   *commands.DeactivateUserHandler
	RecordLoginHandler      *commands.RecordLoginHandler
	DeleteUserHandler       *commands.DeleteUserHandler

	// User Query Handlers
	GetUserHandler   *queries.GetUserHandler
	ListUsersHandler *queries.ListUsersHandler
}

// NewContainer wires the dependencies named by cfg. Local mode delegates to
// NewLocalContainer.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if cfg.LocalMode {
		return NewLocalContainer(ctx, cfg, logger)
	}

	c := newContainer(cfg, logger)

	driver, err := database.ParseDriver(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	conn, err := database.Open(ctx, database.Config{
		Driver:     driver,
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	logger.Info("connected to database", "driver", conn.Driver())

	if err := migrations.Up(ctx, conn, cfg.DatabaseURL, logger); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Redis backs the user cache; without it each process keeps its own.
	var cache identityPersistence.UserCache
	if cfg.RedisURL != "" {
		client, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				c.Close()
				return nil, err
			}
			logger.Warn("Redis not available, using in-memory user cache", "error", err)
		} else {
			c.RedisClient = client
			cache = identityPersistence.NewRedisUserCache(client, cfg.UserCacheTTL)
			logger.Info("connected to Redis")
		}
	}
	if cache == nil {
		cache = identityPersistence.NewMemoryUserCache(cfg.UserCacheTTL)
	}

	var publisher eventbus.Publisher
	if cfg.RabbitMQURL != "" {
		rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				c.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		} else {
			c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(rabbit.Healthy))
			publisher = rabbit
		}
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}

	c.wire(NewRepositoryFactory(conn, cache, logger), publisher)
	return c, nil
}

// NewLocalContainer creates a container for local mode with SQLite, an
// in-process event bus and an in-memory user cache.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := newContainer(cfg, logger)

	conn, err := database.Open(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
	}
	c.DBConn = conn

	if err := migrations.Up(ctx, conn, "", logger); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	c.InProcessBus = eventbus.NewInProcessBus(logger)
	c.InProcessBus.Subscribe(c.AuditHandler)

	cache := identityPersistence.NewMemoryUserCache(cfg.UserCacheTTL)
	c.wire(NewRepositoryFactory(conn, cache, logger), c.InProcessBus)

	logger.Debug("local mode initialized", "sqlite_path", cfg.SQLitePath)
	return c, nil
}

func newContainer(cfg *config.Config, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Container{
		Config:       cfg,
		Logger:       logger,
		Registry:     reg,
		Metrics:      observability.NewMetrics(reg),
		Health:       observability.NewHealthRegistry(),
		AuditHandler: audit.NewHandler(logger),
		Validation:   validation.NewService(validation.NewMetrics(reg), logger),
	}
}

// wire builds everything that only depends on the repositories and the
// publisher, so both modes share it.
func (c *Container) wire(factory *RepositoryFactory, publisher eventbus.Publisher) {
	cfg := c.Config

	c.UserRepo = factory.UserRepository()
	c.OutboxRepo = factory.OutboxRepository()
	c.UnitOfWork = factory.UnitOfWork()

	c.Health.Register("database", observability.DatabaseHealthChecker(c.DBConn.Ping))
	if c.RedisClient != nil {
		client := c.RedisClient
		c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
	}

	breakerCfg := eventbus.DefaultBreakerConfig()
	if cfg.PublisherBreakerThreshold > 0 {
		breakerCfg.FailureThreshold = uint32(cfg.PublisherBreakerThreshold)
	}
	if cfg.PublisherBreakerTimeout > 0 {
		breakerCfg.Timeout = cfg.PublisherBreakerTimeout
	}
	if cfg.PublisherBreakerMaxRequests > 0 {
		breakerCfg.MaxRequests = uint32(cfg.PublisherBreakerMaxRequests)
	}
	breakerCfg.OnStateChange = c.Metrics.ObserveBreakerState
	c.BreakerPublisher = eventbus.NewBreakerPublisher(publisher, breakerCfg, c.Logger)
	c.EventPublisher = c.BreakerPublisher

	processorCfg := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		processorCfg.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		processorCfg.BatchSize = cfg.OutboxBatchSize
	}
	processorCfg.MaxRetries = cfg.OutboxMaxRetries
	if cfg.OutboxRetryBackoff > 0 {
		processorCfg.RetryBackoffBase = cfg.OutboxRetryBackoff
	}
	if cfg.OutboxRetryBackoffMax > 0 {
		processorCfg.RetryBackoffMax = cfg.OutboxRetryBackoffMax
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, c.Logger).
		WithObserver(c.Metrics)

	userRepo, outboxRepo, uow := c.UserRepo, c.OutboxRepo, c.UnitOfWork

	// Create user command handlers
	c.RegisterUserHandler = commands.NewRegisterUserHandler(userRepo, outboxRepo, uow)
	c.UpdateUserHandler = commands.NewUpdateUserHandler(userRepo, outboxRepo, uow)
	c.ChangeEmailHandler = commands.NewChangeEmailHandler(userRepo, outboxRepo, uow)
	c.ChangePhoneHandler = commands.NewChangePhoneHandler(userRepo, outboxRepo, uow)
	c.ChangeNationalIDHandler = commands.NewChangeNationalIDHandler(userRepo, outboxRepo, uow)
	c.ChangeBirthDateHandler = commands.NewChangeBirthDateHandler(userRepo, outboxRepo, uow)
	c.ChangePasswordHandler = commands.NewChangePasswordHandler(userRepo, outboxRepo, uow)
	c.ActivateUserHandler = commands.NewActivateUserHandler(userRepo, outboxRepo, uow)
	c.DeactivateUserHandler = commands.NewDeactivateUserHandler(userRepo, outboxRepo, uow)
	c.RecordLoginHandler = commands.NewRecordLoginHandler(userRepo, outboxRepo, uow)
	c.DeleteUserHandler = commands.NewDeleteUserHandler(userRepo, outboxRepo, uow)

	// Create user query handlers
	c.GetUserHandler = queries.NewGetUserHandler(userRepo)
	c.ListUsersHandler = queries.NewListUsersHandler(userRepo)
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewConsumer returns the consumer the worker dispatches bus events through,
// with the audit handler subscribed: RabbitMQ when a broker is configured,
// otherwise the in-process bus.
func (c *Container) NewConsumer(queue string) (eventbus.Consumer, error) {
	if c.InProcessBus != nil {
		return c.InProcessBus, nil
	}
	if c.Config.RabbitMQURL == "" {
		return nil, errors.New("RABBITMQ_URL is required to consume events outside local mode")
	}
	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:       c.Config.RabbitMQURL,
		QueueName: queue,
		Logger:    c.Logger,
	})
	if err != nil {
		return nil, err
	}
	consumer.Subscribe(c.AuditHandler)
	return consumer, nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Debug("database connection closed", "driver", c.DBConn.Driver())
		}
	}
}
