package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/permission"
	"github.com/dtroode/authcore/internal/token"
)

const refreshTokenBytes = 32

// Tokens is an access/refresh pair handed to the client.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// UserSummary is the user view returned with a session.
type UserSummary struct {
	ID          int64
	AccountID   int64
	AccountName string
	Username    string
	FirstName   *string
	LastName    *string
	Roles       []string
}

// Session is the result of a successful login, signup or SSO link.
type Session struct {
	Tokens
	User UserSummary
}

// TokenService issues sessions. It ensures the user holds a refresh token
// and signs an access token carrying the user's current roles and grants.
type TokenService struct {
	codec  TokenCodec
	logger *logger.Logger
}

func NewTokenService(codec TokenCodec, logger *logger.Logger) *TokenService {
	return &TokenService{codec: codec, logger: logger}
}

// Issue builds a session for user using repos, which may be transaction scoped.
func (s *TokenService) Issue(ctx context.Context, repos model.Repositories, user model.User, accountName string) (Session, error) {
	rt, err := s.ensureRefreshToken(ctx, repos.RefreshTokens(), user.ID)
	if err != nil {
		return Session{}, err
	}

	roles, perms, err := repos.Roles().GetRolesAndPermissions(ctx, user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to get roles and permissions: %w", err)
	}

	access, err := s.codec.Sign(token.Claims{
		UserID:      user.ID,
		AccountID:   user.AccountID,
		Roles:       roles,
		Permissions: permission.GroupByResource(perms),
	})
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	s.logger.Debug("Token service: session issued",
		"user_id", user.ID,
		"roles", len(roles))

	return Session{
		Tokens: Tokens{AccessToken: access, RefreshToken: rt.Token},
		User: UserSummary{
			ID:          user.ID,
			AccountID:   user.AccountID,
			AccountName: accountName,
			Username:    user.Username,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Roles:       roles,
		},
	}, nil
}

// Resign signs a new access token from already decoded claims.
func (s *TokenService) Resign(claims *token.Claims) (string, error) {
	access, err := s.codec.Sign(token.Claims{
		UserID:      claims.UserID,
		AccountID:   claims.AccountID,
		Roles:       claims.Roles,
		Permissions: claims.Permissions,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return access, nil
}

func (s *TokenService) ensureRefreshToken(ctx context.Context, store model.RefreshTokenStore, userID int64) (model.RefreshToken, error) {
	rt, err := store.GetByUser(ctx, userID)
	if err == nil {
		return rt, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token: %w", err)
	}

	value, err := newRefreshToken()
	if err != nil {
		return model.RefreshToken{}, err
	}

	rt, err = store.Upsert(ctx, userID, value)
	if err != nil {
		return model.RefreshToken{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	return rt, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
