package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/boardforge/taskboard/internal/events"
	"github.com/boardforge/taskboard/internal/logging"
	"github.com/boardforge/taskboard/internal/middleware/authgate"
	"github.com/boardforge/taskboard/internal/response"
	"github.com/boardforge/taskboard/internal/service"
)

type UserHandler struct {
	Users    *service.UserService
	Producer *events.Producer
}

func (h *UserHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_signup")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("signup failed", "reason", "malformed body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	user, err := h.Users.Signup(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_signed_up",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return response.Success(c, http.StatusCreated)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	profile, err := h.Users.GetProfile(c.Request().Context(), uint(id))
	if err != nil {
		return err
	}
	return response.SuccessData(c, http.StatusOK, profile)
}

func (h *UserHandler) Withdraw(c echo.Context) error {
	username, _ := c.Get(authgate.CtxUsername).(string)
	if username == "" {
		return response.NewError(response.InvalidTokens)
	}

	if err := h.Users.Withdraw(c.Request().Context(), username); err != nil {
		return err
	}

	publish(c, h.Producer, events.TopicUserEvents, username, map[string]any{
		"type":     "user_withdrawn",
		"username": username,
	})

	return response.Success(c, http.StatusOK)
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	username, _ := c.Get(authgate.CtxUsername).(string)
	if username == "" {
		return response.NewError(response.InvalidTokens)
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new password is required")
	}

	if err := h.Users.ChangePassword(c.Request().Context(), username, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK)
}
