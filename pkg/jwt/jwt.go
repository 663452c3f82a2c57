package jwt

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager handles API token operations. Clients exchange the configured
// API key for a short-lived bearer token.
type Manager struct {
	secret string
	expiry time.Duration
	apiKey string
	issuer string
}

// NewManager creates a new JWT manager
func NewManager(secret, apiKey string, expiry time.Duration) *Manager {
	return &Manager{
		secret: secret,
		expiry: expiry,
		apiKey: apiKey,
		issuer: "slidecast",
	}
}

// ExchangeAPIKey validates the presented API key and issues a token
func (m *Manager) ExchangeAPIKey(presented, clientName string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(presented), []byte(m.apiKey)) != 1 {
		return "", fmt.Errorf("invalid api key")
	}
	return m.GenerateToken(clientName)
}

// GenerateToken generates a bearer token for an API client
func (m *Manager) GenerateToken(clientName string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Client: clientName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   clientName,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateToken validates and parses a bearer token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// GetExpiry returns the token expiry duration
func (m *Manager) GetExpiry() time.Duration {
	return m.expiry
}
