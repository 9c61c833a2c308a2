package app

import (
	"context"
	"fmt"
	"log/slog"

	activityApp "github.com/felixgeelhaar/pulse/internal/activity/application"
	activitySubs "github.com/felixgeelhaar/pulse/internal/activity/application/subscribers"
	activityDomain "github.com/felixgeelhaar/pulse/internal/activity/domain"
	"github.com/felixgeelhaar/pulse/internal/activity/infrastructure/cache"
	activityPersistence "github.com/felixgeelhaar/pulse/internal/activity/infrastructure/persistence"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/commands"
	"github.com/felixgeelhaar/pulse/internal/productivity/application/queries"
	"github.com/felixgeelhaar/pulse/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/pulse/internal/shared/application"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/pulse/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/pulse/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/pulse/pkg/config"
	"github.com/felixgeelhaar/pulse/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// maxDrainRounds bounds DrainOutbox when publishes keep failing.
const maxDrainRounds = 20

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories
	TaskRepo     task.Repository
	ActivityRepo activityDomain.ActivityRepository
	TaskSource   *activityPersistence.TaskSource
	OutboxRepo   outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Events
	EventPublisher      eventbus.Publisher
	InProcessEventBus   *eventbus.InProcessBus
	TaskEventSubscriber *activitySubs.TaskEventSubscriber
	OutboxProcessor     *outbox.Processor

	// Task Command Handlers
	CreateTaskHandler   *commands.CreateTaskHandler
	UpdateTaskHandler   *commands.UpdateTaskHandler
	StartTaskHandler    *commands.StartTaskHandler
	CompleteTaskHandler *commands.CompleteTaskHandler
	CancelTaskHandler   *commands.CancelTaskHandler
	DeleteTaskHandler   *commands.DeleteTaskHandler

	// Task Query Handlers
	ListTasksHandler *queries.ListTasksHandler
	GetTaskHandler   *queries.GetTaskHandler

	// Activity
	SummaryCache    activityDomain.SummaryCache
	ActivityService *activityApp.Service
}

// NewContainer connects to the configured database, cache and broker and
// wires every handler. Local mode (SQLite) dispatches events in process.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	logger.Info("connected to database", "driver", c.DBDriver)

	if err := migrations.Run(ctx, conn); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := c.connectRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.wire(); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.connectPublisher(); err != nil {
		c.Close()
		return nil, err
	}

	processorConfig := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		processorConfig.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		processorConfig.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		processorConfig.MaxRetries = cfg.OutboxMaxRetries
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig, logger, c.Metrics)

	return c, nil
}

// NewLocalContainer creates a container for local mode with SQLite. Redis
// and RabbitMQ are never contacted.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	local := *cfg
	local.LocalMode = true
	local.DatabaseDriver = string(database.DriverSQLite)
	local.RedisURL = ""
	local.RabbitMQURL = ""
	return NewContainer(ctx, &local, logger)
}

func (c *Container) connectRedis(ctx context.Context) error {
	cfg := c.Config
	if cfg.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, summaries will use the in-memory cache", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, summaries will use the in-memory cache", "error", err)
		return nil
	}

	c.RedisClient = client
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) wire() error {
	cfg := c.Config
	loc := cfg.Location()
	factory := NewRepositoryFactory(c.DBConn)

	taskRepo, err := factory.TaskRepository()
	if err != nil {
		return fmt.Errorf("failed to create task repository: %w", err)
	}
	c.TaskRepo = taskRepo

	activityRepo, err := factory.ActivityRepository(loc)
	if err != nil {
		return fmt.Errorf("failed to create activity repository: %w", err)
	}
	c.ActivityRepo = activityRepo

	outboxRepo, err := factory.OutboxRepository()
	if err != nil {
		return fmt.Errorf("failed to create outbox repository: %w", err)
	}
	c.OutboxRepo = outboxRepo
	c.UnitOfWork = factory.UnitOfWork()

	// Create task command handlers
	c.CreateTaskHandler = commands.NewCreateTaskHandler(taskRepo, outboxRepo, c.UnitOfWork)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(taskRepo, outboxRepo, c.UnitOfWork)
	c.StartTaskHandler = commands.NewStartTaskHandler(taskRepo, outboxRepo, c.UnitOfWork)
	c.CompleteTaskHandler = commands.NewCompleteTaskHandler(taskRepo, outboxRepo, c.UnitOfWork)
	c.CancelTaskHandler = commands.NewCancelTaskHandler(taskRepo, outboxRepo, c.UnitOfWork)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(taskRepo, outboxRepo, c.UnitOfWork)

	// Create task query handlers
	c.ListTasksHandler = queries.NewListTasksHandler(taskRepo)
	c.GetTaskHandler = queries.NewGetTaskHandler(taskRepo)

	// Create summary cache
	if c.RedisClient != nil {
		maxFailures := cfg.CacheBreakerMaxFailures
		if maxFailures < 1 {
			maxFailures = 1
		}
		ttl := cfg.SummaryCacheTTL
		if ttl <= 0 {
			ttl = cache.DefaultTTL
		}
		c.SummaryCache = cache.NewBreakerSummaryCache(
			cache.NewRedisSummaryCache(c.RedisClient, ttl),
			cache.BreakerConfig{
				Name:        "summary-cache",
				MaxFailures: uint32(maxFailures),
				Timeout:     cfg.CacheBreakerTimeout,
			},
			c.Logger,
		)
	} else {
		c.SummaryCache = cache.NewMemorySummaryCache(cfg.SummaryCacheTTL)
	}

	// Create activity service
	c.TaskSource = activityPersistence.NewTaskSource(taskRepo)
	c.ActivityService = activityApp.NewService(activityRepo, c.TaskSource, c.SummaryCache, activityApp.ServiceConfig{
		Location: loc,
		Logger:   c.Logger,
		Metrics:  c.Metrics,
	})

	c.TaskEventSubscriber = activitySubs.NewTaskEventSubscriber(
		c.ActivityService.RecomputeHandler(),
		loc,
		c.Logger,
		c.Metrics,
	)
	return nil
}

func (c *Container) connectPublisher() error {
	cfg := c.Config
	if cfg.IsLocalMode() || cfg.RabbitMQURL == "" {
		c.useInProcessBus()
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, dispatching events in process", "error", err)
		c.useInProcessBus()
		return nil
	}

	c.EventPublisher = publisher
	c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Ping))
	return nil
}

func (c *Container) useInProcessBus() {
	c.InProcessEventBus = eventbus.NewInProcessBus(c.Logger)
	c.InProcessEventBus.RegisterConsumer(c.TaskEventSubscriber)
	c.EventPublisher = c.InProcessEventBus
}

// DrainOutbox publishes pending outbox messages until none are left. In
// local mode this brings activity rollups up to date before returning.
func (c *Container) DrainOutbox(ctx context.Context) error {
	for range maxDrainRounds {
		n, err := c.OutboxProcessor.ProcessOnce(ctx)
		if err != nil {
			return fmt.Errorf("drain outbox: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
	c.Logger.Warn("outbox not drained", "rounds", maxDrainRounds)
	return nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
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
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}
