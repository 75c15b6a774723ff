package service

import (
	"context"
	"errors"

	"github.com/boardforge/taskboard/internal/hash"
	"github.com/boardforge/taskboard/internal/logging"
	"github.com/boardforge/taskboard/internal/models"
	"github.com/boardforge/taskboard/internal/repo"
	"github.com/boardforge/taskboard/internal/response"
)

type UserService struct {
	Users *repo.UserRepo
}

type Profile struct {
	Nickname   string `json:"nickname"`
	Introduce  string `json:"introduce"`
	PictureURL string `json:"picture_url"`
}

func (s *UserService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.signup", "username", username)

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("signup failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         "user",
		Status:       models.StatusNormal,
	}
	if err := s.Users.CreateIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("signup failed", "reason", "username taken")
			return nil, response.NewError(response.UserAlreadyExists)
		}
		return nil, err
	}

	l.Info("signup successful")
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, response.NewError(response.UserNotFound)
	}
	return &Profile{
		Nickname:   user.Nickname,
		Introduce:  user.Introduce,
		PictureURL: user.PictureURL,
	}, nil
}

// Withdraw soft-deletes the account and drops its session, so neither
// the password nor any outstanding token can authenticate it again.
func (s *UserService) Withdraw(ctx context.Context, username string) error {
	l := logging.FromContext(ctx).With("svc", "user.withdraw", "username", username)

	user, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		return response.NewError(response.UserNotFound)
	}

	user.Status = models.StatusDeleted
	user.RefreshToken = nil
	if err := s.Users.Save(ctx, user); err != nil {
		l.Error("withdraw failed", "error", err)
		return err
	}

	l.Info("withdraw successful")
	return nil
}

func (s *UserService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "user.change_password", "username", username)

	user, err := s.Users.FindByUsername(ctx, username)
	if err != nil {
		return response.NewError(response.UserNotFound)
	}

	if !hash.CheckPassword(user.PasswordHash, currentPassword) {
		return response.NewError(response.InvalidCurrentPassword)
	}
	if currentPassword == newPassword {
		return response.NewError(response.SameAsOldPassword)
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		l.Error("change password failed", "reason", "cannot hash password", "error", err)
		return err
	}

	user.PasswordHash = pwHash
	if err := s.Users.Save(ctx, user); err != nil {
		l.Error("change password failed", "error", err)
		return err
	}

	l.Info("password changed")
	return nil
}
