package di

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"coffee-store/internal/coffee"
	"coffee-store/internal/coffee/adapter/persistence"
	"coffee-store/internal/coffee/adapter/persistence/mongodb"
	"coffee-store/internal/coffee/config"
	"coffee-store/internal/coffee/domain/repository"
	"coffee-store/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	redisPingTimeout = 5 * time.Second
	closeTimeout     = 30 * time.Second
)

// Container owns the process-wide connections and the coffee module, and shuts them
// down in reverse order of initialization.
type Container struct {
	mu sync.RWMutex
	// Module instances
	CoffeeModule *coffee.CoffeeModule
	// Connections
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	ChangeLog   *persistence.RedisChangeLog
	// Configuration
	Config *config.Config
	// Logger
	Logger logger.Logger
}

// NewContainer creates an empty container
func NewContainer(cfg *config.Config, log logger.Logger) *Container {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{
		Config: cfg,
		Logger: log,
	}
}

// InitializeCoffee builds the persistence gateway on mongoClient, the optional Redis
// change log and the coffee module. The container takes ownership of mongoClient.
func (c *Container) InitializeCoffee(ctx context.Context, mongoClient *mongo.Client) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mongoClient == nil {
		return errors.New("MongoDB must be connected before the coffee module")
	}
	if c.CoffeeModule != nil {
		return errors.New("coffee module already initialized")
	}

	c.MongoClient = mongoClient
	c.MongoDB = mongoClient.Database(c.Config.DatabaseName)

	gateway, err := mongodb.NewMongoGateway(c.MongoDB, c.Config.CoffeeCollection, c.Config.UsersCollection, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create persistence gateway: %w", err)
	}

	var changeLog repository.ChangeLog
	if c.Config.Redis.Enabled {
		if err := c.initializeRedis(ctx); err != nil {
			return err
		}
		changeLog = c.ChangeLog
	}

	module, err := coffee.NewCoffeeModule(gateway, changeLog, c.Config, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create coffee module: %w", err)
	}
	c.CoffeeModule = module
	return nil
}

func (c *Container) initializeRedis(ctx context.Context) error {
	client := config.NewRedisClient(&c.Config.Redis)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis at %s: %w", c.Config.Redis.GetAddr(), err)
	}

	c.RedisClient = client
	c.ChangeLog = persistence.NewRedisChangeLog(client, c.Config.Redis.StreamPrefix, c.Config.Redis.StreamMaxLength, c.Logger)
	c.Logger.Infof("Redis change log connected at %s", c.Config.Redis.GetAddr())
	return nil
}

// GetCoffeeModule returns the coffee module instance
func (c *Container) GetCoffeeModule() *coffee.CoffeeModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.CoffeeModule
}

// HealthCheck reports the first unhealthy dependency.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.CoffeeModule == nil {
		return errors.New("coffee module not initialized")
	}
	return c.CoffeeModule.HealthCheck(ctx)
}

// Cleanup stops the module, then closes Redis and disconnects MongoDB.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.CoffeeModule != nil {
		if err := c.CoffeeModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop coffee module: %w", err))
		}
		c.CoffeeModule = nil
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
		c.RedisClient = nil
		c.ChangeLog = nil
	}

	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
		c.MongoClient = nil
		c.MongoDB = nil
	}

	return errors.Join(errs...)
}

// Close runs Cleanup with a timeout
func (c *Container) Close() error {
	c.Logger.Info("Closing DI container resources...")

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warnf("Cleanup errors occurred: %v", err)
		return err
	}

	c.Logger.Info("DI container resources closed.")
	return nil
}
