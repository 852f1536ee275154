package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gearguard/gearguard-api/internal/application"
	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
	"github.com/gearguard/gearguard-api/pkg/response"
	"github.com/gearguard/gearguard-api/pkg/validation"
)

type RequestHandler struct {
	Requests *application.RequestService
	Logger   *logrus.Logger
}

func NewRequestHandler(requests *application.RequestService, logger *logrus.Logger) *RequestHandler {
	return &RequestHandler{Requests: requests, Logger: logger}
}

// Create POST /api/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var req struct {
		Subject       string     `json:"subject" binding:"required"`
		Description   string     `json:"description"`
		EquipmentID   string     `json:"equipmentId" binding:"required"`
		TeamID        string     `json:"teamId"`
		RequestType   string     `json:"requestType" binding:"required,oneof=corrective preventive"`
		Priority      int        `json:"priority" binding:"omitempty,gte=0,lte=3"`
		ScheduledDate *time.Time `json:"scheduledDate"`
		DurationHours float64    `json:"durationHours" binding:"omitempty,gte=0"`
		AssignedTo    string     `json:"assignedTo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	created, err := h.Requests.Create(c.Request.Context(), application.CreateRequestInput{
		Subject:       req.Subject,
		Description:   req.Description,
		EquipmentID:   req.EquipmentID,
		TeamID:        req.TeamID,
		RequestType:   req.RequestType,
		Priority:      req.Priority,
		ScheduledDate: req.ScheduledDate,
		DurationHours: req.DurationHours,
		CreatedBy:     c.GetString("userID"),
		AssignedTo:    req.AssignedTo,
	})
	if err != nil {
		if errors.Is(err, application.ErrEquipmentsNeeded) {
			response.Error[any](c, http.StatusBadRequest, "equipment does not exist", nil)
			return
		}
		h.Logger.WithError(err).Error("create request failed")
		response.Error[any](c, http.StatusInternalServerError, "create failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, created, "request created", nil)
}

// Get GET /api/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.Requests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrRequestNotFound) {
			response.Error[any](c, http.StatusNotFound, "request not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get request failed")
		response.Error[any](c, http.StatusInternalServerError, "lookup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, req, "request", nil)
}

// List GET /api/requests?equipmentId=&teamId=&stage=&type=&limit=&offset=
func (h *RequestHandler) List(c *gin.Context) {
	params := repo.FilterRequestsParams{}
	if v := c.Query("equipmentId"); v != "" {
		params.EquipmentID = &v
	}
	if v := c.Query("teamId"); v != "" {
		params.TeamID = &v
	}
	if v := c.Query("stage"); v != "" {
		params.Stage = &v
	}
	if v := c.Query("type"); v != "" {
		params.RequestType = &v
	}
	params.Limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	params.Offset, _ = strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	items, err := h.Requests.List(c.Request.Context(), params)
	if err != nil {
		h.Logger.WithError(err).Error("list requests failed")
		response.Error[any](c, http.StatusInternalServerError, "list failed", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "requests", gin.H{"count": len(items)})
}

// Update PUT /api/requests/:id (stage moves go through MoveStage)
func (h *RequestHandler) Update(c *gin.Context) {
	var req struct {
		Subject       *string    `json:"subject"`
		Description   *string    `json:"description"`
		TeamID        *string    `json:"teamId"`
		RequestType   *string    `json:"requestType" binding:"omitempty,oneof=corrective preventive"`
		Priority      *int       `json:"priority" binding:"omitempty,gte=0,lte=3"`
		ScheduledDate *time.Time `json:"scheduledDate"`
		DurationHours *float64   `json:"durationHours" binding:"omitempty,gte=0"`
		AssignedTo    *string    `json:"assignedTo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	updated, err := h.Requests.Update(c.Request.Context(), c.Param("id"), repo.UpdateRequestParams{
		Subject:       req.Subject,
		Description:   req.Description,
		TeamID:        req.TeamID,
		RequestType:   req.RequestType,
		Priority:      req.Priority,
		ScheduledDate: req.ScheduledDate,
		DurationHours: req.DurationHours,
		AssignedTo:    req.AssignedTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrRequestNotFound):
			response.Error[any](c, http.StatusNotFound, "request not found", nil)
		case errors.Is(err, application.ErrRequestClosed):
			response.Error[any](c, http.StatusBadRequest, "request is closed", nil)
		default:
			h.Logger.WithError(err).Error("update request failed")
			response.Error[any](c, http.StatusInternalServerError, "update failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, updated, "request updated", nil)
}

// MoveStage PATCH /api/requests/:id/stage {stage}
func (h *RequestHandler) MoveStage(c *gin.Context) {
	var req struct {
		Stage string `json:"stage" binding:"required,oneof=new in_progress repaired scrap"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	updated, err := h.Requests.MoveStage(c.Request.Context(), c.Param("id"), req.Stage)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrRequestNotFound):
			response.Error[any](c, http.StatusNotFound, "request not found", nil)
		case errors.Is(err, application.ErrBadStageMove):
			response.Error[any](c, http.StatusBadRequest, "stage transition not allowed", nil)
		default:
			h.Logger.WithError(err).Error("move stage failed")
			response.Error[any](c, http.StatusInternalServerError, "stage move failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, updated, "stage updated", nil)
}

// Delete DELETE /api/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.Requests.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrRequestNotFound) {
			response.Error[any](c, http.StatusNotFound, "request not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete request failed")
		response.Error[any](c, http.StatusInternalServerError, "delete failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "request deleted", nil)
}

// Calendar GET /api/requests/calendar?from=&to= (RFC 3339 dates)
func (h *RequestHandler) Calendar(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid from date", nil)
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid to date", nil)
		return
	}
	if !to.After(from) {
		response.Error[any](c, http.StatusBadRequest, "to must be after from", nil)
		return
	}

	items, err := h.Requests.Calendar(c.Request.Context(), from, to)
	if err != nil {
		h.Logger.WithError(err).Error("calendar query failed")
		response.Error[any](c, http.StatusInternalServerError, "calendar failed", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "scheduled requests", gin.H{"count": len(items)})
}
