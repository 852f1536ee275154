package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gearguard/gearguard-api/internal/container"
	handlers "github.com/gearguard/gearguard-api/internal/interface/http"
	"github.com/gearguard/gearguard-api/internal/interface/middleware"
	"github.com/gearguard/gearguard-api/pkg/helpers"
)

type EmailModule struct {
	Handler *handlers.EmailHandler
	JWT     *helpers.JWTManager
}

func NewEmailModule(h *handlers.EmailHandler, jwt *helpers.JWTManager) *EmailModule {
	return &EmailModule{Handler: h, JWT: jwt}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/email/send", m.Handler.Send)
	}
}
