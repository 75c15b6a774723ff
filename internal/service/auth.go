package service

import (
	"context"
	"time"

	"github.com/boardforge/taskboard/internal/hash"
	"github.com/boardforge/taskboard/internal/logging"
	"github.com/boardforge/taskboard/internal/models"
	"github.com/boardforge/taskboard/internal/repo"
	"github.com/boardforge/taskboard/internal/response"
	"github.com/boardforge/taskboard/internal/tokens"
)

type AuthService struct {
	Users         *repo.UserRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

// Verify checks the credential pair against the stored record. Unknown
// username and wrong password collapse into the same code so the
// response never reveals which half of the credential failed.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.verify", "username", username)

	user, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		l.Warn("verify failed", "reason", "unknown username")
		return nil, response.NewError(response.InvalidUserInfo)
	}

	if user.Status == models.StatusDeleted {
		l.Warn("verify failed", "reason", "deleted user")
		return nil, response.NewError(response.UserDeleted)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("verify failed", "reason", "password mismatch")
		return nil, response.NewError(response.InvalidUserInfo)
	}

	return user, nil
}

// Login turns a verified credential pair into a fresh token pair and
// persists the refresh token on the user row. The overwrite silently
// ends whatever session held the previous refresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}

	accessExp := time.Now().Add(tokens.AccessTTL)
	accessToken, err := tokens.NewAccessToken(user.Username, user.Role, s.JWTSecret, accessExp)
	if err != nil {
		l.Error("login failed", "reason", "cannot sign access token", "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refreshToken, err := tokens.NewRefreshToken(user.Username, s.RefreshSecret, refreshExp)
	if err != nil {
		l.Error("login failed", "reason", "cannot sign refresh token", "error", err)
		return nil, err
	}

	if err := s.Users.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		l.Error("login failed", "reason", "cannot persist refresh token", "error", err)
		return nil, err
	}
	user.RefreshToken = &refreshToken

	l.Info("login successful")
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}

// Logout drops the stored refresh token. Outstanding access tokens die
// with the session: the gate refuses any subject without one.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout", "username", username)

	user, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		return response.NewError(response.UserNotFound)
	}
	if err := s.Users.ClearRefreshToken(ctx, user.ID); err != nil {
		l.Error("logout failed", "error", err)
		return err
	}

	l.Info("logout successful")
	return nil
}
