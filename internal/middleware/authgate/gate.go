package authgate

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/boardforge/taskboard/internal/logging"
	"github.com/boardforge/taskboard/internal/models"
	"github.com/boardforge/taskboard/internal/repo"
	"github.com/boardforge/taskboard/internal/response"
	"github.com/boardforge/taskboard/internal/tokens"
)

// Identity keys populated on the echo context once the gate passes.
const (
	CtxUsername = "username"
	CtxRole     = "role"
)

// whitelist maps a route path to the methods exempt from the gate.
// Read-only after startup.
var whitelist = map[string][]string{
	"/":                      {http.MethodGet},
	"/error":                 {http.MethodGet},
	"/users/signup":          {http.MethodGet, http.MethodPost},
	"/users/login":           {http.MethodGet, http.MethodPost},
	"/users/oauth/authorize": {http.MethodGet},
	"/users/oauth/callback":  {http.MethodGet},
}

func isWhitelisted(path, method string) bool {
	return slices.Contains(whitelist[path], method)
}

type Gate struct {
	Users         *repo.UserRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

// Middleware gates every non-whitelisted request. A valid access token
// passes through; an expired one is transparently renewed from the
// refresh-token header within the same request; everything else is
// rejected before any handler runs.
func (g *Gate) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if isWhitelisted(req.URL.Path, req.Method) {
			return next(c)
		}

		accessToken := req.Header.Get(tokens.AccessHeader)
		if strings.TrimSpace(accessToken) == "" {
			return response.NewError(response.InvalidTokens)
		}

		// Claims first: the subject is needed even when the token
		// turns out to be expired.
		claims, parseErr := tokens.AccessClaimsFromToken(accessToken, g.JWTSecret)
		if claims == nil || claims.Subject == "" {
			return response.NewError(response.InvalidTokens)
		}

		// A well-formed token for a user without a stored session
		// does not authenticate.
		user, err := g.Users.FindByUsername(req.Context(), claims.Subject)
		if err != nil || user.RefreshToken == nil || user.Status == models.StatusDeleted {
			return response.NewError(response.InvalidTokens)
		}

		switch {
		case parseErr == nil && tokens.ValidateAccess(accessToken, g.JWTSecret):
			setIdentity(c, claims.Subject, claims.Role)
			return next(c)
		case errors.Is(parseErr, jwt.ErrTokenExpired):
			return g.recoverExpired(c, next)
		default:
			return response.NewError(response.InvalidTokens)
		}
	}
}

// recoverExpired mints a new access token when the presented refresh
// token exactly matches the one stored on the user row. The refresh
// token itself is never rotated here, so concurrent recoveries for the
// same user may all succeed.
func (g *Gate) recoverExpired(c echo.Context, next echo.HandlerFunc) error {
	req := c.Request()
	l := logging.FromContext(req.Context()).With("mw", "authgate")

	refreshToken := req.Header.Get(tokens.RefreshHeader)
	if strings.TrimSpace(refreshToken) == "" || !tokens.ValidateRefresh(refreshToken, g.RefreshSecret) {
		return response.NewError(response.InvalidTokens)
	}

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, g.RefreshSecret)
	if err != nil {
		return response.NewError(response.InvalidTokens)
	}

	user, err := g.Users.FindByUsername(req.Context(), claims.Subject)
	if err != nil || user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return response.NewError(response.InvalidTokens)
	}
	if user.Status == models.StatusDeleted {
		return response.NewError(response.InvalidTokens)
	}

	newAccess, err := tokens.NewAccessToken(user.Username, user.Role, g.JWTSecret, time.Now().Add(tokens.AccessTTL))
	if err != nil {
		l.Error("access token reissue failed", "error", err)
		return response.NewError(response.InvalidTokens)
	}

	c.Response().Header().Set(tokens.AccessHeader, newAccess)
	setIdentity(c, user.Username, user.Role)

	l.Info("access token renewed", "username", user.Username)
	return next(c)
}

func setIdentity(c echo.Context, username, role string) {
	c.Set(CtxUsername, username)
	c.Set(CtxRole, role)
}
