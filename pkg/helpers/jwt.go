package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failure kinds. The HTTP boundary maps these to
// different user-facing messages, so they must stay distinguishable.
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// JWTManager mints and validates stateless HS256 bearer tokens. Validity is
// purely a function of signature correctness and non-expiry; there is no
// server-side revocation.
type JWTManager struct {
	Secret     []byte
	SignupTTL  time.Duration
	SessionTTL time.Duration
}

var defaultManager *JWTManager

func NewJWTManager(secret string, signupTTL, sessionTTL time.Duration) *JWTManager {
	m := &JWTManager{
		Secret:     []byte(secret),
		SignupTTL:  signupTTL,
		SessionTTL: sessionTTL,
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Generate signs a token embedding userID, valid for ttl from now.
func (m *JWTManager) Generate(userID string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// GenerateSignup mints a token with the signup lifetime.
func (m *JWTManager) GenerateSignup(userID string) (string, time.Time, error) {
	return m.Generate(userID, m.SignupTTL)
}

// GenerateSession mints a token with the post-verification lifetime.
func (m *JWTManager) GenerateSession(userID string) (string, time.Time, error) {
	return m.Generate(userID, m.SessionTTL)
}

// Parse validates a token and returns its claims. Expiry and any other
// failure are reported as distinct sentinels.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
