package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gearguard/gearguard-api/config"
	"github.com/gearguard/gearguard-api/internal/application"
	"github.com/gearguard/gearguard-api/pkg/response"
	"github.com/gearguard/gearguard-api/pkg/validation"
)

type AuthHandler struct {
	Auth   *application.AuthService
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewAuthHandler(auth *application.AuthService, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger, Cfg: cfg}
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func (h *AuthHandler) meta(c *gin.Context) application.LoginMeta {
	return application.LoginMeta{IP: clientIP(c), UserAgent: c.GetHeader("User-Agent")}
}

func genState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Username  string `json:"username"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Auth.Signup(c.Request.Context(), application.SignupInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrDuplicateUser):
			response.Error[any](c, http.StatusBadRequest, "user already exists", nil)
		case errors.Is(err, application.ErrDuplicateUsername):
			response.Error[any](c, http.StatusBadRequest, "username already taken", nil)
		default:
			h.Logger.WithError(err).Error("signup failed")
			response.Error[any](c, http.StatusInternalServerError, "signup failed", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"token": res.Token, "user": res.User}, "account created", nil)
}

// Signin POST /api/auth/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, pending, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password, h.meta(c))
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusBadRequest, "invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("signin failed")
		response.Error[any](c, http.StatusInternalServerError, "signin failed", nil)
		return
	}
	if pending {
		response.Success(c, http.StatusOK, gin.H{"email": req.Email}, "otp sent", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": res.Token, "user": res.User}, "signed in", nil)
}

// VerifyOTP POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required,otpcode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP, h.meta(c))
	if err != nil {
		if errors.Is(err, application.ErrInvalidOTP) {
			response.Error[any](c, http.StatusBadRequest, "invalid or expired otp", nil)
			return
		}
		h.Logger.WithError(err).Error("verify otp failed")
		response.Error[any](c, http.StatusInternalServerError, "verification failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": res.Token, "user": res.User}, "signed in", nil)
}

// GoogleSignin POST /api/auth/google-signin
// The SPA posts the profile it obtained client-side; an OTP email completes
// the flow, federation never bypasses the second factor.
func (h *AuthHandler) GoogleSignin(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName"`
		GoogleID  string `json:"googleId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	email, err := h.Auth.FederateGoogleProfile(c.Request.Context(), req.Email, req.FirstName, req.LastName, req.GoogleID)
	if err != nil {
		h.Logger.WithError(err).Error("google signin failed")
		response.Error[any](c, http.StatusInternalServerError, "google signin failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"email": email}, "otp sent", nil)
}

// Redirect GET /api/auth/:provider starts the server-side consent flow.
func (h *AuthHandler) Redirect(c *gin.Context) {
	provider := c.Param("provider")
	state, err := genState()
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "state generation failed", nil)
		return
	}
	authURL, err := h.Auth.AuthCodeURL(provider, state)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "unknown provider", nil)
		return
	}
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// Callback GET /api/auth/:provider/callback finishes the consent flow and
// redirects the browser back to the frontend OTP page.
func (h *AuthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")
	code := c.Query("code")
	if code == "" {
		h.redirectError(c, "missing code")
		return
	}
	if state, err := c.Cookie("oauth_state"); err != nil || state == "" || state != c.Query("state") {
		h.redirectError(c, "state mismatch")
		return
	}

	email, err := h.Auth.HandleOAuthCallback(c.Request.Context(), provider, code)
	if err != nil {
		h.Logger.WithError(err).WithField("provider", provider).Error("oauth callback failed")
		h.redirectError(c, "authentication failed")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.Cfg.FrontendURL+"/verify-otp?email="+url.QueryEscape(email))
}

func (h *AuthHandler) redirectError(c *gin.Context, msg string) {
	c.Redirect(http.StatusTemporaryRedirect, h.Cfg.FrontendURL+"/signin?error="+url.QueryEscape(msg))
}

// RequestReset POST /api/auth/reset/request {email}
// Always answers OK so account existence cannot be probed.
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.Logger.WithError(err).Error("request reset failed")
		response.Error[any](c, http.StatusInternalServerError, "reset unavailable", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "reset code sent if the account exists", nil)
}

// ResetPassword POST /api/auth/reset/confirm {email, code, newPassword}
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Code        string `json:"code" binding:"required,otpcode"`
		NewPassword string `json:"newPassword" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		if errors.Is(err, application.ErrInvalidOTP) {
			response.Error[any](c, http.StatusBadRequest, "invalid or expired code", nil)
			return
		}
		h.Logger.WithError(err).Error("reset password failed")
		response.Error[any](c, http.StatusInternalServerError, "reset failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}
