package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gearguard/gearguard-api/pkg/helpers"
)

func authRouter(jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuth(jwt), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey))
	})
	return r
}

func doReq(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingToken(t *testing.T) {
	jwt := &helpers.JWTManager{Secret: []byte("secret")}
	w := doReq(authRouter(jwt), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no token") {
		t.Errorf("expected %q in body, got %s", "no token", w.Body.String())
	}
}

func TestJWTAuthInvalidToken(t *testing.T) {
	jwt := &helpers.JWTManager{Secret: []byte("secret")}
	w := doReq(authRouter(jwt), "Bearer garbage")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "token is invalid") {
		t.Errorf("expected %q in body, got %s", "token is invalid", w.Body.String())
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	jwt := &helpers.JWTManager{Secret: []byte("secret")}
	token, _, err := jwt.Generate("user-1", 0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	w := doReq(authRouter(jwt), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "token has expired") {
		t.Errorf("expected %q in body, got %s", "token has expired", w.Body.String())
	}
}

func TestJWTAuthValidToken(t *testing.T) {
	jwt := &helpers.JWTManager{Secret: []byte("secret")}
	token, _, err := jwt.Generate("user-1", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	w := doReq(authRouter(jwt), "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "user-1" {
		t.Errorf("expected user id in body, got %q", w.Body.String())
	}
}
