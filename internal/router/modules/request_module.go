package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gearguard/gearguard-api/internal/container"
	handlers "github.com/gearguard/gearguard-api/internal/interface/http"
	"github.com/gearguard/gearguard-api/internal/interface/middleware"
	"github.com/gearguard/gearguard-api/pkg/helpers"
)

type RequestModule struct {
	Handler *handlers.RequestHandler
	JWT     *helpers.JWTManager
}

func NewRequestModule(h *handlers.RequestHandler, jwt *helpers.JWTManager) *RequestModule {
	return &RequestModule{Handler: h, JWT: jwt}
}

func (m *RequestModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/requests", m.Handler.Create)
		auth.GET("/requests", m.Handler.List)
		auth.GET("/requests/calendar", m.Handler.Calendar)
		auth.GET("/requests/:id", m.Handler.Get)
		auth.PUT("/requests/:id", m.Handler.Update)
		auth.PATCH("/requests/:id/stage", m.Handler.MoveStage)
		auth.DELETE("/requests/:id", m.Handler.Delete)
	}
}
