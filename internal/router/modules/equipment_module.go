package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gearguard/gearguard-api/internal/container"
	handlers "github.com/gearguard/gearguard-api/internal/interface/http"
	"github.com/gearguard/gearguard-api/internal/interface/middleware"
	"github.com/gearguard/gearguard-api/pkg/helpers"
)

type EquipmentModule struct {
	Handler *handlers.EquipmentHandler
	JWT     *helpers.JWTManager
}

func NewEquipmentModule(h *handlers.EquipmentHandler, jwt *helpers.JWTManager) *EquipmentModule {
	return &EquipmentModule{Handler: h, JWT: jwt}
}

func (m *EquipmentModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/equipment", m.Handler.Create)
		auth.GET("/equipment", m.Handler.List)
		auth.GET("/equipment/search", m.Handler.Search)
		auth.GET("/equipment/:id", m.Handler.Get)
		auth.PUT("/equipment/:id", m.Handler.Update)
		auth.DELETE("/equipment/:id", m.Handler.Delete)
	}
}
