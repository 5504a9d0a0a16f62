package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskmanager/internal/service"
)

// OAuthHandler handles third-party login endpoints.
type OAuthHandler struct {
	oauthService service.OAuthService
}

// NewOAuthHandler creates a new OAuth handler.
func NewOAuthHandler(oauthService service.OAuthService) *OAuthHandler {
	return &OAuthHandler{oauthService: oauthService}
}

// LoginURLResponse carries the provider authorization URL.
type LoginURLResponse struct {
	URL string `json:"url"`
}

// Login godoc
// @Summary Start an OAuth login
// @Tags oauth
// @Produce json
// @Param provider path string true "Provider" Enums(google, github)
// @Success 200 {object} LoginURLResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/login/{provider} [get]
func (h *OAuthHandler) Login(c echo.Context) error {
	url, err := h.oauthService.LoginURL(c.Request().Context(), c.Param("provider"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, LoginURLResponse{URL: url})
}

// Callback godoc
// @Summary Complete an OAuth login
// @Tags oauth
// @Produce json
// @Param provider path string true "Provider" Enums(google, github)
// @Param code query string true "Authorization code"
// @Param state query string false "State returned by the provider"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 504 {object} errors.ErrorResponse
// @Router /auth/{provider}/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	accessToken, err := h.oauthService.Callback(
		c.Request().Context(),
		c.Param("provider"),
		c.QueryParam("code"),
		c.QueryParam("state"),
	)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, bearer(accessToken))
}
