package auth

// TokenRequest represents the request to exchange an API key for a token
type TokenRequest struct {
	APIKey     string `json:"api_key" validate:"required"`
	ClientName string `json:"client_name" validate:"omitempty,max=100"`
}

// TokenResponse represents an issued bearer token
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}
