package handler

import (
	"fmt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"taskmanager/internal/auth"
	"taskmanager/internal/errors"
	"taskmanager/internal/model"
	"taskmanager/internal/service"
)

const (
	claimsContextKey = "user"
	userContextKey   = "current_user"
)

// BearerAuth verifies the Authorization bearer token and stores its claims in the context.
// Missing and invalid tokens are both answered with 401.
func BearerAuth(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errorResponse(c, fmt.Errorf("%w: %v", errors.ErrUnauthorized, err))
		},
	})
}

// RequireUser loads the user named by the verified token subject.
func RequireUser(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*auth.Claims)
			if !ok {
				return errorResponse(c, errors.ErrUnauthorized)
			}
			user, err := authService.CurrentUser(c.Request().Context(), claims.Subject)
			if err != nil {
				return errorResponse(c, err)
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user set by RequireUser.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}
