package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/boardforge/taskboard/internal/handlers"
	"github.com/boardforge/taskboard/internal/middleware/authgate"
	"github.com/boardforge/taskboard/internal/middleware/loggingmw"
	"github.com/boardforge/taskboard/internal/response"
)

type Deps struct {
	Gate   *authgate.Gate
	Auth   *handlers.AuthHandler
	User   *handlers.UserHandler
	Board  *handlers.BoardHandler
	Logger *slog.Logger
}

func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.HTTPErrorHandler

	e.Use(ecM.Recover())
	e.Use(ecM.RequestID())
	e.Use(loggingmw.RequestLogger(d.Logger))
	// The gate runs on every request; whitelisted (path, method) pairs
	// pass through unauthenticated.
	e.Use(d.Gate.Middleware)

	e.GET("/", handlers.Root)
	e.GET("/error", handlers.ErrorPage)

	users := e.Group("/users")
	users.GET("/signup", handlers.Root)
	users.POST("/signup", d.User.Signup)
	users.GET("/login", handlers.Root)
	users.POST("/login", d.Auth.Login)
	users.POST("/logout", d.Auth.Logout)
	users.GET("/oauth/authorize", handlers.OAuthAuthorize)
	users.GET("/oauth/callback", handlers.OAuthCallback)
	users.GET("/:id", d.User.GetProfile)
	users.DELETE("/withdraw", d.User.Withdraw)
	users.PUT("/password", d.User.ChangePassword)

	boards := e.Group("/boards")
	boards.POST("", d.Board.Create)
	boards.GET("", d.Board.List)
	boards.GET("/search", d.Board.Search)
	boards.GET("/:id", d.Board.Get)

	return e
}
