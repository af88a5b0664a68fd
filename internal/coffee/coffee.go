package coffee

import (
	"context"
	"errors"
	"fmt"

	httpadapter "coffee-store/internal/coffee/adapter/http"
	"coffee-store/internal/coffee/config"
	"coffee-store/internal/coffee/domain/repository"
	"coffee-store/internal/coffee/usecase"
	"coffee-store/internal/shared/eventbus"
	"coffee-store/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// CoffeeModule wires the coffee and users routes to the persistence gateway and the
// change feed.
type CoffeeModule struct {
	Config      *config.Config
	Gateway     repository.Gateway
	ChangeLog   repository.ChangeLog // nil when the Redis change log is disabled
	EventBus    eventbus.EventBusInterface
	CoffeeUC    usecase.CoffeeUsecase
	UserUC      usecase.UserUsecase
	ChangeFeed  usecase.ChangeFeed
	HTTPHandler *httpadapter.DocumentHTTPHandler
	FeedHandler *httpadapter.ChangeFeedHandler
	Logger      logger.Logger
}

// NewCoffeeModule creates the module on an already connected gateway. changeLog may
// be nil.
func NewCoffeeModule(gateway repository.Gateway, changeLog repository.ChangeLog, cfg *config.Config, log logger.Logger) (*CoffeeModule, error) {
	if gateway == nil {
		return nil, errors.New("persistence gateway cannot be nil")
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
		log.Info("No configuration provided, using defaults.")
	}
	log.Info("Initializing Coffee Module...")

	bus := eventbus.NewEventBus(log.WithComponent("eventbus"))
	publisher := usecase.NewBusChangePublisher(bus)

	if changeLog != nil {
		usecase.RegisterChangeLog(bus, changeLog, log)
		log.Info("Change log recorder registered.")
	}
	feed := usecase.NewChangeFeed(bus, log)

	coffeeUC := usecase.NewCoffeeUsecase(gateway.Coffee(), publisher, log)
	userUC := usecase.NewUserUsecase(gateway.Users(), publisher, log)

	return &CoffeeModule{
		Config:      cfg,
		Gateway:     gateway,
		ChangeLog:   changeLog,
		EventBus:    bus,
		CoffeeUC:    coffeeUC,
		UserUC:      userUC,
		ChangeFeed:  feed,
		HTTPHandler: httpadapter.NewDocumentHTTPHandler(coffeeUC, userUC, log),
		FeedHandler: httpadapter.NewChangeFeedHandler(feed, changeLog, cfg.Realtime, log),
		Logger:      log,
	}, nil
}

// RegisterRoutes registers the change feed endpoint and the document routes.
func (m *CoffeeModule) RegisterRoutes(router fiber.Router) {
	m.FeedHandler.RegisterRoutes(router)
	m.HTTPHandler.RegisterRoutes(router)
	m.Logger.Infof("Coffee routes and change feed at %s registered.", m.Config.Realtime.WebSocketPath)
}

// HealthCheck pings the document store and, when enabled, the change log.
func (m *CoffeeModule) HealthCheck(ctx context.Context) error {
	if err := m.Gateway.Ping(ctx); err != nil {
		return fmt.Errorf("MongoDB health check failed: %w", err)
	}
	if m.ChangeLog != nil {
		if err := m.ChangeLog.Ping(ctx); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}
	return nil
}

// Stop delivers the pending change events and disconnects every change feed subscriber.
func (m *CoffeeModule) Stop() error {
	m.Logger.Info("Stopping Coffee Module...")
	m.EventBus.Close()
	m.ChangeFeed.Close()
	m.Logger.Info("Coffee Module stopped.")
	return nil
}
