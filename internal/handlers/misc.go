package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boardforge/taskboard/internal/response"
)

func Root(c echo.Context) error {
	return response.Success(c, http.StatusOK)
}

func ErrorPage(c echo.Context) error {
	return echo.NewHTTPError(http.StatusInternalServerError, "unexpected error")
}

// OAuth federation is not implemented; the paths exist because they
// are whitelisted entry points for external identity providers.
func OAuthAuthorize(c echo.Context) error {
	return echo.NewHTTPError(http.StatusNotImplemented, "oauth authorize is not available")
}

func OAuthCallback(c echo.Context) error {
	return echo.NewHTTPError(http.StatusNotImplemented, "oauth callback is not available")
}
