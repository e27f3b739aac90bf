package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
)

type User struct {
	store  model.CredentialStore
	logger *logger.Logger
}

func NewUser(store model.CredentialStore, logger *logger.Logger) *User {
	return &User{store: store, logger: logger}
}

func (s *User) Get(ctx context.Context, id int64) (model.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrUserNotFound(id)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user.IsDeleted {
		return model.User{}, apierrors.NewErrUserNotFound(id)
	}
	return user, nil
}

// Update sets the non-nil name fields.
func (s *User) Update(ctx context.Context, id int64, firstName, lastName *string) (model.User, error) {
	user, err := s.store.Users().UpdateProfile(ctx, id, firstName, lastName)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrUserNotFound(id)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User service: profile updated",
		"user_id", id)
	return user, nil
}
