package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oreshnik/storefront/internal/hash"
	"github.com/oreshnik/storefront/internal/models"
	"github.com/oreshnik/storefront/internal/repo"
)

type AuthService struct {
	Repo *repo.GormRepo
}

func (s *AuthService) Register(ctx context.Context, user *models.User, password string) error {
	if user.Email == "" {
		return fmt.Errorf("email required: %w", ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("password required: %w", ErrValidation)
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = passwordHash

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("email already registered: %w", ErrConflict)
		}
		return err
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unknown user: %w", ErrNotFound)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("wrong password: %w", ErrValidation)
	}
	return user, nil
}
