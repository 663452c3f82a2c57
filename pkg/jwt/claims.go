package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims carried by an API token
type Claims struct {
	Client string `json:"client"`
	jwt.RegisteredClaims
}
