package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"taskmanager/internal/errors"
)

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// errorResponse maps a domain error to an echo HTTP error carrying errors.ErrorResponse.
// Server-side failures are logged and answered with a generic message.
func errorResponse(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	if httpErr.StatusCode == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// bindAndValidate decodes the request into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errorResponse(c, errors.Validation("invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return errorResponse(c, errors.Validation("%s", err.Error()))
	}
	return nil
}
