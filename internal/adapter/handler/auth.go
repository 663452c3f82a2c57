package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/errors"
	authDTO "github.com/slidecast-team/slidecast/internal/adapter/dto/auth"
	pkgjwt "github.com/slidecast-team/slidecast/pkg/jwt"
)

// Auth handles token exchange HTTP requests
type Auth struct {
	manager *pkgjwt.Manager
	logger  *zap.Logger
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(manager *pkgjwt.Manager, logger *zap.Logger) *Auth {
	return &Auth{
		manager: manager,
		logger:  logger,
	}
}

// Token handles POST /auth/token
// @Summary      Exchange an API key for a bearer token
// @Description  Issues a short-lived JWT for the configured API key. All other endpoints require the token when auth is enabled.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.TokenRequest  true  "API key"
// @Success      200  {object}  auth.TokenResponse  "Issued token"
// @Failure      401  {object}  map[string]interface{}  "Invalid API key"
// @Router       /auth/token [post]
func (h *Auth) Token(c echo.Context) error {
	var req authDTO.TokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	token, err := h.manager.ExchangeAPIKey(req.APIKey, req.ClientName)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	return HandleSuccess(h.logger, c, http.StatusOK, &authDTO.TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.manager.GetExpiry().Seconds()),
	})
}
