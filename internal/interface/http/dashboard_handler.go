package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gearguard/gearguard-api/internal/application"
	"github.com/gearguard/gearguard-api/pkg/response"
)

type DashboardHandler struct {
	Dashboard *application.DashboardService
	Logger    *logrus.Logger
}

func NewDashboardHandler(dashboard *application.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard, Logger: logger}
}

// Stats GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("dashboard stats failed")
		response.Error[any](c, http.StatusInternalServerError, "stats unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, stats, "dashboard stats", nil)
}
