package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gearguard/gearguard-api/internal/container"
	handlers "github.com/gearguard/gearguard-api/internal/interface/http"
	"github.com/gearguard/gearguard-api/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	signinLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	otpLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/signin", signinLimiter, m.Handler.Signin)
	rg.POST("/auth/verify-otp", otpLimiter, m.Handler.VerifyOTP)
	rg.POST("/auth/google-signin", signinLimiter, m.Handler.GoogleSignin)

	rg.GET("/auth/:provider", m.Handler.Redirect)
	rg.GET("/auth/:provider/callback", m.Handler.Callback)

	rg.POST("/auth/reset/request", resetLimiter, m.Handler.RequestReset)
	rg.POST("/auth/reset/confirm", otpLimiter, m.Handler.ResetPassword)
}
