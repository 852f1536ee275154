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

type EquipmentHandler struct {
	Equipment *application.EquipmentService
	Logger    *logrus.Logger
}

func NewEquipmentHandler(equipment *application.EquipmentService, logger *logrus.Logger) *EquipmentHandler {
	return &EquipmentHandler{Equipment: equipment, Logger: logger}
}

// Create POST /api/equipment
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req struct {
		Name              string     `json:"name" binding:"required"`
		SerialNumber      string     `json:"serialNumber" binding:"required"`
		Category          string     `json:"category"`
		Department        string     `json:"department"`
		MaintenanceTeamID string     `json:"maintenanceTeamId"`
		AssignedTo        string     `json:"assignedTo"`
		Vendor            string     `json:"vendor"`
		Cost              float64    `json:"cost" binding:"omitempty,gte=0"`
		WarrantyExpiry    *time.Time `json:"warrantyExpiry"`
		Location          string     `json:"location"`
		Description       string     `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	e, err := h.Equipment.Create(c.Request.Context(), application.CreateEquipmentInput{
		Name:              req.Name,
		SerialNumber:      req.SerialNumber,
		Category:          req.Category,
		Department:        req.Department,
		MaintenanceTeamID: req.MaintenanceTeamID,
		AssignedTo:        req.AssignedTo,
		Vendor:            req.Vendor,
		Cost:              req.Cost,
		WarrantyExpiry:    req.WarrantyExpiry,
		Location:          req.Location,
		Description:       req.Description,
	})
	if err != nil {
		if errors.Is(err, application.ErrDuplicateSerial) {
			response.Error[any](c, http.StatusBadRequest, "serial number already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("create equipment failed")
		response.Error[any](c, http.StatusInternalServerError, "create failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, e, "equipment created", nil)
}

// Get GET /api/equipment/:id
func (h *EquipmentHandler) Get(c *gin.Context) {
	e, err := h.Equipment.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrEquipmentNotFound) {
			response.Error[any](c, http.StatusNotFound, "equipment not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get equipment failed")
		response.Error[any](c, http.StatusInternalServerError, "lookup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, e, "equipment", nil)
}

// List GET /api/equipment?category=&teamId=&status=&limit=&offset=
func (h *EquipmentHandler) List(c *gin.Context) {
	params := repo.FilterEquipmentParams{}
	if v := c.Query("category"); v != "" {
		params.Category = &v
	}
	if v := c.Query("teamId"); v != "" {
		params.TeamID = &v
	}
	if v := c.Query("status"); v != "" {
		params.Status = &v
	}
	params.Limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	params.Offset, _ = strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	items, err := h.Equipment.List(c.Request.Context(), params)
	if err != nil {
		h.Logger.WithError(err).Error("list equipment failed")
		response.Error[any](c, http.StatusInternalServerError, "list failed", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "equipment list", gin.H{"count": len(items)})
}

// Update PUT /api/equipment/:id
func (h *EquipmentHandler) Update(c *gin.Context) {
	var req struct {
		Name              *string    `json:"name"`
		Category          *string    `json:"category"`
		Department        *string    `json:"department"`
		MaintenanceTeamID *string    `json:"maintenanceTeamId"`
		AssignedTo        *string    `json:"assignedTo"`
		Vendor            *string    `json:"vendor"`
		Cost              *float64   `json:"cost" binding:"omitempty,gte=0"`
		WarrantyExpiry    *time.Time `json:"warrantyExpiry"`
		Location          *string    `json:"location"`
		Status            *string    `json:"status" binding:"omitempty,oneof=active scrapped"`
		Description       *string    `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	e, err := h.Equipment.Update(c.Request.Context(), c.Param("id"), repo.UpdateEquipmentParams{
		Name:              req.Name,
		Category:          req.Category,
		Department:        req.Department,
		MaintenanceTeamID: req.MaintenanceTeamID,
		AssignedTo:        req.AssignedTo,
		Vendor:            req.Vendor,
		Cost:              req.Cost,
		WarrantyExpiry:    req.WarrantyExpiry,
		Location:          req.Location,
		Status:            req.Status,
		Description:       req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEquipmentNotFound):
			response.Error[any](c, http.StatusNotFound, "equipment not found", nil)
		case errors.Is(err, application.ErrDuplicateSerial):
			response.Error[any](c, http.StatusBadRequest, "serial number already registered", nil)
		default:
			h.Logger.WithError(err).Error("update equipment failed")
			response.Error[any](c, http.StatusInternalServerError, "update failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, e, "equipment updated", nil)
}

// Delete DELETE /api/equipment/:id
func (h *EquipmentHandler) Delete(c *gin.Context) {
	if err := h.Equipment.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrEquipmentNotFound) {
			response.Error[any](c, http.StatusNotFound, "equipment not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete equipment failed")
		response.Error[any](c, http.StatusInternalServerError, "delete failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "equipment deleted", nil)
}

// Search GET /api/equipment/search?q=&size=
func (h *EquipmentHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Equipment.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("search equipment failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
