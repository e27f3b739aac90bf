package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/token"
)

// Password handles password reset and change.
type Password struct {
	store  model.CredentialStore
	hasher PasswordHasher
	codec  TokenCodec
	sender model.NotificationSender
	opts   Options
	logger *logger.Logger
}

// NewPassword creates the password service. codec must be the reset codec.
func NewPassword(
	store model.CredentialStore,
	hasher PasswordHasher,
	codec TokenCodec,
	sender model.NotificationSender,
	opts Options,
	logger *logger.Logger,
) *Password {
	return &Password{
		store:  store,
		hasher: hasher,
		codec:  codec,
		sender: sender,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Forgot sends a reset link to the owner of address.
func (s *Password) Forgot(ctx context.Context, address string) error {
	e, err := s.store.Emails().GetByAddress(ctx, address)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrEmailNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to get email: %w", err)
	}

	user, err := s.store.Users().GetByID(ctx, e.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrEmailNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !user.Active() {
		return apierrors.NewErrEmailNotFound()
	}

	tok, err := s.codec.Sign(token.Claims{UserID: user.ID, AccountID: user.AccountID})
	if err != nil {
		return fmt.Errorf("failed to sign reset token: %w", err)
	}

	link := s.opts.ResetPageURL + "?identity=" + url.QueryEscape(tok)
	if err := s.sender.SendPasswordResetEmail(ctx, e.Email, user.Username, link); err != nil {
		s.logger.Warn("Password service: failed to send reset email",
			"user_id", user.ID,
			"error", err.Error())
		return nil
	}

	s.logger.Info("Password service: reset link sent",
		"user_id", user.ID)
	return nil
}

// Reset sets a new password for the subject of a reset token and revokes
// the user's refresh token.
func (s *Password) Reset(ctx context.Context, tokenString, newPassword string) error {
	tok, err := s.codec.Verify(tokenString)
	if err != nil {
		return apierrors.NewErrInvalidToken(err)
	}
	userID := tok.Claims.UserID

	user, err := s.store.Users().GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrUserNotFound(userID)
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	// Blocked or deleted after the link was issued.
	if !user.Active() {
		s.logger.Info("Password service: reset for inactive user",
			"user_id", userID)
		return apierrors.NewErrInvalidToken(nil)
	}

	if err := s.replace(ctx, userID, newPassword, true); err != nil {
		return err
	}

	s.logger.Info("Password service: password reset",
		"user_id", userID)
	return nil
}

// Update changes the password of a user who knows the current one.
func (s *Password) Update(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	cred, err := s.store.Passwords().Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrIncorrectPassword()
	}
	if err != nil {
		return fmt.Errorf("failed to get password: %w", err)
	}

	ok, err := s.hasher.Verify(oldPassword, cred)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info("Password service: wrong current password",
			"user_id", userID)
		return apierrors.NewErrIncorrectPassword()
	}

	if err := s.replace(ctx, userID, newPassword, false); err != nil {
		return err
	}

	s.logger.Info("Password service: password updated",
		"user_id", userID)
	return nil
}

// replace rejects reuse of the current or a remembered password, then
// supersedes the current credential in one transaction. Hashing happens
// before the transaction starts.
func (s *Password) replace(ctx context.Context, userID int64, newPassword string, revoke bool) error {
	if newPassword == "" {
		return apierrors.NewErrInvalidArgument("password is required")
	}

	previous, err := s.store.Passwords().GetHistory(ctx, userID, s.opts.HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to get password history: %w", err)
	}
	current, err := s.store.Passwords().Get(ctx, userID)
	switch {
	case err == nil:
		previous = append([]model.Credential{current}, previous...)
	case !errors.Is(err, model.ErrNotFound):
		return fmt.Errorf("failed to get password: %w", err)
	}

	for _, c := range previous {
		used, err := s.hasher.Verify(newPassword, c)
		if err != nil {
			s.logger.Warn("Password service: skipping unverifiable previous password",
				"user_id", userID,
				"error", err.Error())
			continue
		}
		if used {
			return apierrors.NewErrPasswordAlreadyUsed()
		}
	}

	cred, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(ctx context.Context, tx model.Repositories) error {
		old, err := tx.Passwords().Get(ctx, userID)
		switch {
		case err == nil:
			if err := tx.Passwords().AddHistory(ctx, userID, old, s.opts.HistoryLimit); err != nil {
				return fmt.Errorf("failed to add password history: %w", err)
			}
			if err := tx.Passwords().Delete(ctx, userID); err != nil {
				return fmt.Errorf("failed to delete password: %w", err)
			}
		case !errors.Is(err, model.ErrNotFound):
			return fmt.Errorf("failed to get password: %w", err)
		}

		if err := tx.Passwords().Create(ctx, userID, cred); err != nil {
			return fmt.Errorf("failed to create password: %w", err)
		}
		if revoke {
			if err := tx.RefreshTokens().Delete(ctx, userID); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
		return nil
	})
}
