package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gearguard/gearguard-api/internal/container"
	handlers "github.com/gearguard/gearguard-api/internal/interface/http"
	"github.com/gearguard/gearguard-api/internal/interface/middleware"
	"github.com/gearguard/gearguard-api/pkg/helpers"
)

type DashboardModule struct {
	Handler *handlers.DashboardHandler
	JWT     *helpers.JWTManager
}

func NewDashboardModule(h *handlers.DashboardHandler, jwt *helpers.JWTManager) *DashboardModule {
	return &DashboardModule{Handler: h, JWT: jwt}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/dashboard/stats", m.Handler.Stats)
	}
}
