package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/token"
)

const verificationPath = "/auth/verify/email/"

var _ EmailVerifier = (*Email)(nil)

// Email manages the email addresses associated with a user.
type Email struct {
	store  model.CredentialStore
	codec  TokenCodec
	sender model.NotificationSender
	opts   Options
	logger *logger.Logger
}

// NewEmail creates the email service. codec must be the email verification codec.
func NewEmail(store model.CredentialStore, codec TokenCodec, sender model.NotificationSender, opts Options, logger *logger.Logger) *Email {
	return &Email{
		store:  store,
		codec:  codec,
		sender: sender,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Create associates address with the user. The first email becomes primary.
// A verification link is sent afterwards; a send failure does not fail Create.
func (s *Email) Create(ctx context.Context, userID int64, address string) (model.EmailAddress, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return model.EmailAddress{}, apierrors.NewErrInvalidArgument("email is required")
	}

	var created model.EmailAddress
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx model.Repositories) error {
		count, err := tx.Emails().CountByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to count emails: %w", err)
		}
		if count >= s.opts.MaxAssociatedEmails {
			return apierrors.NewErrEmailLimitExceeded(s.opts.MaxAssociatedEmails)
		}

		taken, err := tx.Emails().IsTaken(ctx, address)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return apierrors.NewErrEmailIsTaken(address)
		}

		created, err = tx.Emails().Create(ctx, model.EmailAddress{
			UserID:    userID,
			Email:     address,
			IsPrimary: count == 0,
		})
		if errors.Is(err, model.ErrAlreadyExists) {
			return apierrors.NewErrEmailIsTaken(address)
		}
		return err
	})
	if err != nil {
		s.logger.Info("Email service: failed to create email",
			"user_id", userID,
			"error", err.Error())
		return model.EmailAddress{}, err
	}

	s.logger.Info("Email service: email created",
		"user_id", userID,
		"email_id", created.ID,
		"primary", created.IsPrimary)

	if err := s.RequestVerification(ctx, userID, created.ID); err != nil {
		s.logger.Warn("Email service: failed to send verification email",
			"user_id", userID,
			"email_id", created.ID,
			"error", err.Error())
	}

	return created, nil
}

// RequestVerification sends a verification link for one of the user's emails.
// Already verified emails are skipped.
func (s *Email) RequestVerification(ctx context.Context, userID, emailID int64) error {
	e, err := s.owned(ctx, userID, emailID)
	if err != nil {
		return err
	}
	if e.IsVerified {
		return nil
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	tok, err := s.codec.Sign(token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: strconv.FormatInt(e.ID, 10)},
		UserID:           userID,
		AccountID:        user.AccountID,
	})
	if err != nil {
		return fmt.Errorf("failed to sign verification token: %w", err)
	}

	link := strings.TrimRight(s.opts.VerificationHost, "/") + verificationPath + tok
	if err := s.sender.SendVerificationEmail(ctx, e.Email, user.Username, link); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	s.logger.Debug("Email service: verification email sent",
		"user_id", userID,
		"email_id", e.ID)
	return nil
}

// Confirm marks the email named by a verification token as verified. When
// the email is primary the owning user is marked verified too.
func (s *Email) Confirm(ctx context.Context, tokenString string) error {
	tok, err := s.codec.Verify(tokenString)
	if err != nil {
		return apierrors.NewErrInvalidToken(err)
	}

	emailID, err := strconv.ParseInt(tok.Claims.Subject, 10, 64)
	if err != nil {
		return apierrors.NewErrInvalidToken(err)
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx model.Repositories) error {
		e, err := tx.Emails().GetByID(ctx, emailID)
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrEmailNotFound()
		}
		if err != nil {
			return fmt.Errorf("failed to get email: %w", err)
		}
		if e.UserID != tok.Claims.UserID {
			return apierrors.NewErrInvalidToken(nil)
		}

		if err := tx.Emails().MarkVerified(ctx, e.ID); err != nil {
			return fmt.Errorf("failed to mark email verified: %w", err)
		}
		if e.IsPrimary {
			if err := tx.Users().MarkVerified(ctx, e.UserID); err != nil {
				return fmt.Errorf("failed to mark user verified: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Email service: email verified",
		"email_id", emailID,
		"user_id", tok.Claims.UserID)
	return nil
}

func (s *Email) Get(ctx context.Context, userID, emailID int64) (model.EmailAddress, error) {
	return s.owned(ctx, userID, emailID)
}

func (s *Email) List(ctx context.Context, userID int64) ([]model.EmailAddress, error) {
	emails, err := s.store.Emails().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	return emails, nil
}

// Delete removes a non-primary email.
func (s *Email) Delete(ctx context.Context, userID, emailID int64) error {
	e, err := s.owned(ctx, userID, emailID)
	if err != nil {
		return err
	}
	if e.IsPrimary {
		return apierrors.NewErrPrimaryEmailDeletion()
	}

	err = s.store.Emails().Delete(ctx, e.ID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrEmailNotFound()
	}
	if err != nil {
		return fmt.Errorf("failed to delete email: %w", err)
	}

	s.logger.Info("Email service: email deleted",
		"user_id", userID,
		"email_id", emailID)
	return nil
}

// owned returns the email when it exists and belongs to userID.
func (s *Email) owned(ctx context.Context, userID, emailID int64) (model.EmailAddress, error) {
	e, err := s.store.Emails().GetByID(ctx, emailID)
	if errors.Is(err, model.ErrNotFound) {
		return model.EmailAddress{}, apierrors.NewErrEmailNotFound()
	}
	if err != nil {
		return model.EmailAddress{}, fmt.Errorf("failed to get email: %w", err)
	}
	if e.UserID != userID {
		return model.EmailAddress{}, apierrors.NewErrEmailNotFound()
	}
	return e, nil
}
