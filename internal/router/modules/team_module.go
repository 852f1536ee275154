package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gearguard/gearguard-api/internal/container"
	handlers "github.com/gearguard/gearguard-api/internal/interface/http"
	"github.com/gearguard/gearguard-api/internal/interface/middleware"
	"github.com/gearguard/gearguard-api/pkg/helpers"
)

type TeamModule struct {
	Handler *handlers.TeamHandler
	JWT     *helpers.JWTManager
}

func NewTeamModule(h *handlers.TeamHandler, jwt *helpers.JWTManager) *TeamModule {
	return &TeamModule{Handler: h, JWT: jwt}
}

func (m *TeamModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/teams", m.Handler.Create)
		auth.GET("/teams", m.Handler.List)
		auth.GET("/teams/:id", m.Handler.Get)
		auth.PUT("/teams/:id", m.Handler.Update)
		auth.DELETE("/teams/:id", m.Handler.Delete)
		auth.POST("/teams/:id/members", m.Handler.AddMember)
		auth.DELETE("/teams/:id/members/:userId", m.Handler.RemoveMember)
	}
}
