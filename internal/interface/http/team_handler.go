package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gearguard/gearguard-api/internal/application"
	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
	"github.com/gearguard/gearguard-api/pkg/response"
	"github.com/gearguard/gearguard-api/pkg/validation"
)

type TeamHandler struct {
	Teams  *application.TeamService
	Logger *logrus.Logger
}

func NewTeamHandler(teams *application.TeamService, logger *logrus.Logger) *TeamHandler {
	return &TeamHandler{Teams: teams, Logger: logger}
}

// Create POST /api/teams
func (h *TeamHandler) Create(c *gin.Context) {
	var req struct {
		Name           string `json:"name" binding:"required"`
		Description    string `json:"description"`
		Specialization string `json:"specialization"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Teams.Create(c.Request.Context(), application.CreateTeamInput{
		Name:           req.Name,
		Description:    req.Description,
		Specialization: req.Specialization,
	})
	if err != nil {
		if errors.Is(err, application.ErrDuplicateTeam) {
			response.Error[any](c, http.StatusBadRequest, "team name already taken", nil)
			return
		}
		h.Logger.WithError(err).Error("create team failed")
		response.Error[any](c, http.StatusInternalServerError, "create failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, t, "team created", nil)
}

// Get GET /api/teams/:id
func (h *TeamHandler) Get(c *gin.Context) {
	t, err := h.Teams.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrTeamNotFound) {
			response.Error[any](c, http.StatusNotFound, "team not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get team failed")
		response.Error[any](c, http.StatusInternalServerError, "lookup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, t, "team", nil)
}

// List GET /api/teams
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.Teams.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list teams failed")
		response.Error[any](c, http.StatusInternalServerError, "list failed", nil)
		return
	}
	response.Success(c, http.StatusOK, teams, "teams", gin.H{"count": len(teams)})
}

// Update PUT /api/teams/:id
func (h *TeamHandler) Update(c *gin.Context) {
	var req struct {
		Name           *string `json:"name"`
		Description    *string `json:"description"`
		Specialization *string `json:"specialization"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Teams.Update(c.Request.Context(), c.Param("id"), repo.UpdateTeamParams{
		Name:           req.Name,
		Description:    req.Description,
		Specialization: req.Specialization,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrTeamNotFound):
			response.Error[any](c, http.StatusNotFound, "team not found", nil)
		case errors.Is(err, application.ErrDuplicateTeam):
			response.Error[any](c, http.StatusBadRequest, "team name already taken", nil)
		default:
			h.Logger.WithError(err).Error("update team failed")
			response.Error[any](c, http.StatusInternalServerError, "update failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, t, "team updated", nil)
}

// Delete DELETE /api/teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.Teams.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrTeamNotFound) {
			response.Error[any](c, http.StatusNotFound, "team not found", nil)
			return
		}
		h.Logger.WithError(err).Error("delete team failed")
		response.Error[any](c, http.StatusInternalServerError, "delete failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "team deleted", nil)
}

// AddMember POST /api/teams/:id/members {userId}
func (h *TeamHandler) AddMember(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	t, err := h.Teams.AddMember(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrTeamNotFound):
			response.Error[any](c, http.StatusNotFound, "team not found", nil)
		case errors.Is(err, application.ErrMemberNotAllowed):
			response.Error[any](c, http.StatusBadRequest, "member is not a registered user", nil)
		default:
			h.Logger.WithError(err).Error("add member failed")
			response.Error[any](c, http.StatusInternalServerError, "add member failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, t, "member added", nil)
}

// RemoveMember DELETE /api/teams/:id/members/:userId
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	t, err := h.Teams.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		if errors.Is(err, application.ErrTeamNotFound) {
			response.Error[any](c, http.StatusNotFound, "team not found", nil)
			return
		}
		h.Logger.WithError(err).Error("remove member failed")
		response.Error[any](c, http.StatusInternalServerError, "remove member failed", nil)
		return
	}
	response.Success(c, http.StatusOK, t, "member removed", nil)
}
