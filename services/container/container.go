package container

import (
	"context"
	"log"
	"sync"
	"time"

	"brims-http-service/config"
	"brims-http-service/services"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer manages dependency injection for every service
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// base services
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// change propagation
	eventService        services.InterfaceEventService
	notificationService services.InterfaceNotificationService

	// business services
	activityService services.InterfaceActivityService
	residentService services.InterfaceResidentService
	requestService  services.InterfaceRequestService
	reportService   services.InterfaceReportService
	userService     services.InterfaceUserService
	exportService   services.InterfaceExportService
	documentService services.InterfaceDocumentService

	mu sync.RWMutex
}

// NewServiceContainer creates a new service container
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}

	if cfg == nil {
		panic("configuration is nil")
	}

	// probe the Redis connection; reporting falls back to plain DB
	// reads when the cache is unreachable
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis ping failed: %v, report caching disabled", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices initializes every service
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// base services
	c.jwtService = services.NewJWTService(c.config)
	if c.redis != nil {
		c.redisService = services.NewRedisService(c.config)
	}

	// change propagation
	c.eventService = services.NewEventService()
	if c.config.MQTTBrokerURL != "" {
		c.notificationService = services.NewNotificationService(c.config)
	}

	// business services
	c.activityService = services.NewActivityService(c.db, c.config)
	c.residentService = services.NewResidentService(c.db, c.config)
	c.requestService = services.NewRequestService(c.db, c.config)
	c.reportService = services.NewReportService(c.db, c.config, c.redisService)
	c.userService = services.NewUserService(c.db, c.config)
	c.exportService = services.NewExportService(c.config)
	c.documentService = services.NewDocumentService(c.db, c.config)

	c.wireChangeEvents()
}

// wireChangeEvents connects data-change events to their consumers.
// Cache invalidation runs immediately; the MQTT fan-out is debounced so
// a burst of edits produces a single notification.
func (c *ServiceContainer) wireChangeEvents() {
	debounce := time.Duration(c.config.DebounceMillis) * time.Millisecond

	events := map[services.Event]string{
		services.EventResidentsChanged: "residents",
		services.EventRequestsChanged:  "requests",
		services.EventWorkersChanged:   "workers",
	}
	for event, kind := range events {
		c.eventService.Subscribe(event, func() {
			if err := c.reportService.InvalidateCache(); err != nil {
				config.Warning("report cache invalidation failed: %v", err)
			}
		})

		c.eventService.SubscribeDebounced(event, debounce, func() {
			if c.notificationService == nil {
				return
			}
			if err := c.notificationService.PublishChange(kind); err != nil {
				config.Warning("change notification for %s failed: %v", kind, err)
			}
		})
	}
}

// GetService returns the service registered under name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "event":
		return c.eventService
	case "notification":
		return c.notificationService
	case "activity":
		return c.activityService
	case "resident":
		return c.residentService
	case "request":
		return c.requestService
	case "report":
		return c.reportService
	case "user":
		return c.userService
	case "export":
		return c.exportService
	case "document":
		return c.documentService
	default:
		return nil
	}
}

// GetDB returns the database connection
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Close releases long-lived resources held by the container
func (c *ServiceContainer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eventService != nil {
		c.eventService.Close()
	}
	if c.notificationService != nil {
		c.notificationService.Disconnect()
	}
}
