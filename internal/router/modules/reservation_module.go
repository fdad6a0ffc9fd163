package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatherly/gatherly-api/internal/container"
	handlers "github.com/gatherly/gatherly-api/internal/interface/http"
	"github.com/gatherly/gatherly-api/internal/interface/middleware"
	"github.com/gatherly/gatherly-api/pkg/helpers"
)

// ReservationModule wires the seat reservation routes. All of them require an
// authenticated caller.
type ReservationModule struct {
	Handler *handlers.ReservationHandler
	JWT     *helpers.JWTManager
}

func NewReservationModule(h *handlers.ReservationHandler, jwt *helpers.JWTManager) *ReservationModule {
	return &ReservationModule{Handler: h, JWT: jwt}
}

func (m *ReservationModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/reservations/mine", m.Handler.Mine)
		auth.GET("/reservations/created", m.Handler.Created)
		auth.POST("/reservations/:eventId", m.Handler.Reserve)
		auth.DELETE("/reservations/:eventId", m.Handler.Cancel)
	}
}
