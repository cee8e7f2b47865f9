package controllers

import (
	"fmt"

	"brims-http-service/services"
	"brims-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// BaseController is the interface every controller implements
type BaseController interface {
	GetContainer() *container.ServiceContainer
	GetContext() *gin.Context
}

// BaseControllerImpl is the shared controller implementation
type BaseControllerImpl struct {
	Container *container.ServiceContainer
	Context   *gin.Context
}

// GetContainer implements BaseController
func (c *BaseControllerImpl) GetContainer() *container.ServiceContainer {
	return c.Container
}

// GetContext implements BaseController
func (c *BaseControllerImpl) GetContext() *gin.Context {
	return c.Context
}

// ControllerFactory builds controllers bound to a request context
type ControllerFactory struct {
	Container *container.ServiceContainer
}

// NewControllerFactory creates a new controller factory
func NewControllerFactory(container *container.ServiceContainer) *ControllerFactory {
	return &ControllerFactory{
		Container: container,
	}
}

// Actor identifies the authenticated account behind a request, as set
// by the auth middleware.
type Actor struct {
	ID       uint
	Role     string
	Username string
	IP       string
}

// currentActor reads the authenticated account out of the gin context
func (c *BaseControllerImpl) currentActor() Actor {
	actor := Actor{IP: c.Context.ClientIP()}
	if id, ok := c.Context.Get("user_id"); ok {
		if uid, ok := id.(uint); ok {
			actor.ID = uid
		}
	}
	if role, ok := c.Context.Get("user_role"); ok {
		if r, ok := role.(string); ok {
			actor.Role = r
		}
	}
	if username, ok := c.Context.Get("username"); ok {
		if u, ok := username.(string); ok {
			actor.Username = u
		}
	}
	return actor
}

// logActivity appends an audit row for the acting account, routed to
// the staff or admin trail by the actor's role.
func (c *BaseControllerImpl) logActivity(actor Actor, actionType, format string, args ...interface{}) {
	description := fmt.Sprintf(format, args...)
	activityService := c.Container.GetService("activity").(services.InterfaceActivityService)
	if actor.Role == services.RoleAdmin {
		activityService.LogAdmin(actor.ID, actionType, description, actor.IP)
	} else {
		activityService.LogStaff(actor.ID, actionType, description, "Staff", actor.IP)
	}
}

// publishChange raises a data-change event for cache invalidation and
// the MQTT fan-out.
func (c *BaseControllerImpl) publishChange(event services.Event) {
	eventService := c.Container.GetService("event").(services.InterfaceEventService)
	eventService.Publish(event)
}
