package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskmanager/internal/auth"
	"taskmanager/internal/config"
	"taskmanager/internal/handler"
	"taskmanager/internal/service"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Auth  *handler.AuthHandler
	User  *handler.UserHandler
	OAuth *handler.OAuthHandler
	Task  *handler.TaskHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authService service.AuthService,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     cfg.CORSMethods,
		AllowHeaders:     cfg.CORSHeaders,
		AllowCredentials: !allowsAnyOrigin(cfg.CORSOrigins),
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/register", h.Auth.Register)
	e.POST("/token", h.Auth.Token)
	e.GET("/auth/login/:provider", h.OAuth.Login)
	e.GET("/auth/:provider/callback", h.OAuth.Callback)

	// Secured routes (require a bearer token for an existing user)
	secured := e.Group("", handler.BearerAuth(jwtService), handler.RequireUser(authService))

	secured.GET("/me", h.User.Me)

	// Task routes
	secured.GET("/tasks", h.Task.ListTasks)
	secured.POST("/tasks", h.Task.CreateTask)
	secured.GET("/tasks/:id", h.Task.GetTask)
	secured.PUT("/tasks/:id", h.Task.UpdateTask)
	secured.PATCH("/tasks/:id/complete", h.Task.CompleteTask)
	secured.DELETE("/tasks/:id", h.Task.DeleteTask)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}
