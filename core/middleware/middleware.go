package middleware

import (
	stderrors "errors"
	"strings"

	"workspace-api/core/config"
	"workspace-api/core/constants"
	"workspace-api/core/controller"
	"workspace-api/core/errors"
	"workspace-api/core/logger"
	"workspace-api/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Middleware {
	return &Middleware{cfg: cfg}
}

// AuthMiddleware validates the bearer token and stores the claims in the
// request context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "Missing Authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token")
			}

			claims, err := utils.ParseToken(parts[1], m.cfg.JWT.Secret)
			if err != nil {
				logger.Warn("Middleware:AuthMiddleware:ParseToken", "error", err)
				code := errors.ErrUnauthorized
				if stderrors.Is(err, jwt.ErrTokenExpired) {
					code = errors.ErrTokenExpired
				}
				return controller.NewErrorResponse(401, code, "Invalid or expired token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
