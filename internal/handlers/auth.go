package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/boardforge/taskboard/internal/events"
	"github.com/boardforge/taskboard/internal/logging"
	"github.com/boardforge/taskboard/internal/middleware/authgate"
	"github.com/boardforge/taskboard/internal/response"
	"github.com/boardforge/taskboard/internal/service"
	"github.com/boardforge/taskboard/internal/tokens"
)

type AuthHandler struct {
	Auth     *service.AuthService
	Producer *events.Producer
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login failed", "reason", "malformed body", "error", err)
		return response.NewError(response.InvalidTokens)
	}

	res, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	// Access token goes to the client in the header; the refresh token
	// travels only via its own header, never the body.
	c.Response().Header().Set(tokens.AccessHeader, res.AccessToken)
	c.Response().Header().Set(tokens.RefreshHeader, res.RefreshToken)

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(res.User.ID), map[string]any{
		"type":     "user_logged_in",
		"user_id":  res.User.ID,
		"username": res.User.Username,
	})

	return response.Success(c, http.StatusOK)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	username, _ := c.Get(authgate.CtxUsername).(string)
	if username == "" {
		return response.NewError(response.InvalidTokens)
	}

	if err := h.Auth.Logout(c.Request().Context(), username); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK)
}

func publish(c echo.Context, p *events.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event publish failed", "topic", topic, "error", err)
	}
}
