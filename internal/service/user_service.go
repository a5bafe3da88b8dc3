package service

import (
	"context"
	"errors"

	"foodgram/internal/auth"
	"foodgram/internal/models"
	"foodgram/internal/repository"

	"gorm.io/gorm"
)

var ErrWrongPassword = errors.New("current password is incorrect")

type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetPassword(ctx context.Context, userID, currentPassword, newPassword string) error
	UpdateAvatar(ctx context.Context, userID, avatar string) (*models.User, error)
	DeleteAvatar(ctx context.Context, userID string) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

// SetPassword verifies the current password before storing the new hash.
func (s *userService) SetPassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(user.Password, currentPassword); err != nil {
		return ErrWrongPassword
	}
	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.repo.Update(ctx, user)
}

func (s *userService) UpdateAvatar(ctx context.Context, userID, avatar string) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Avatar = &avatar
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Avatar = nil
	return s.repo.Update(ctx, user)
}
