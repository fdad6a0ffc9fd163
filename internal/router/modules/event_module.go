package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatherly/gatherly-api/internal/container"
	handlers "github.com/gatherly/gatherly-api/internal/interface/http"
	"github.com/gatherly/gatherly-api/internal/interface/middleware"
	"github.com/gatherly/gatherly-api/pkg/helpers"
)

// EventModule wires the event browse and mutation routes.
// Public: GET /api/events, GET /api/events/:id
// Protected (creator-only enforced in the service): POST /api/events,
// PUT /api/events/:id, DELETE /api/events/:id
type EventModule struct {
	Handler *handlers.EventHandler
	JWT     *helpers.JWTManager
}

func NewEventModule(h *handlers.EventHandler, jwt *helpers.JWTManager) *EventModule {
	return &EventModule{Handler: h, JWT: jwt}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	browseLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/events", browseLimiter, m.Handler.List)
	rg.GET("/events/:id", browseLimiter, m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/events", m.Handler.Create)
		auth.PUT("/events/:id", m.Handler.Update)
		auth.DELETE("/events/:id", m.Handler.Delete)
	}
}
