package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gearguard/gearguard-api/internal/application"
	"github.com/gearguard/gearguard-api/pkg/response"
	"github.com/gearguard/gearguard-api/pkg/validation"
)

type UserHandler struct {
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

// Profile GET /api/users/me
func (h *UserHandler) Profile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Users.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get profile failed")
		response.Error[any](c, http.StatusInternalServerError, "profile unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

// UpdateProfile PUT /api/users/me
// Pointer fields keep "not sent" distinct from "cleared": sending an empty
// string clears the field, omitting it leaves it untouched.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Username   *string `json:"username"`
		FirstName  *string `json:"firstName"`
		LastName   *string `json:"lastName"`
		Phone      *string `json:"phone" binding:"omitempty"`
		AvatarURL  *string `json:"avatarUrl"`
		Location   *string `json:"location"`
		Occupation *string `json:"occupation"`
		Bio        *string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	uid := c.GetString("userID")
	u, err := h.Users.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		Username:   req.Username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		AvatarURL:  req.AvatarURL,
		Location:   req.Location,
		Occupation: req.Occupation,
		Bio:        req.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, application.ErrDuplicateUsername):
			response.Error[any](c, http.StatusBadRequest, "username already taken", nil)
		default:
			h.Logger.WithError(err).Error("update profile failed")
			response.Error[any](c, http.StatusInternalServerError, "update failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated", nil)
}

// Activity GET /api/users/me/activity?limit=
func (h *UserHandler) Activity(c *gin.Context) {
	uid := c.GetString("userID")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	events, err := h.Users.RecentActivity(c.Request.Context(), uid, limit)
	if err != nil {
		h.Logger.WithError(err).Error("list activity failed")
		response.Error[any](c, http.StatusInternalServerError, "activity unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, events, "recent sign-ins", nil)
}
