package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bcibizz-gateway/internal/config"
)

const jwtIssuer = "bcibizz-gateway"

// Claims identify a gateway session. The upstream bearer token never leaves
// the session store.
type Claims struct {
	SessionID  string `json:"sid"`
	RememberMe bool   `json:"rem,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
}

func NewJWTService(cfg *config.Config) *JWTService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = TTLSession
	}
	rememberTTL := cfg.RememberTTL
	if rememberTTL <= 0 {
		rememberTTL = TTLRememberedSess
	}

	return &JWTService{
		secret:      []byte(cfg.JWTSecret),
		ttl:         ttl,
		rememberTTL: rememberTTL,
	}
}

// TTL is the lifetime of a session token, longer for remembered sessions.
func (s *JWTService) TTL(rememberMe bool) time.Duration {
	if rememberMe {
		return s.rememberTTL
	}
	return s.ttl
}

func (s *JWTService) GenerateToken(sessionID string, rememberMe bool) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID:  sessionID,
		RememberMe: rememberMe,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL(rememberMe))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
