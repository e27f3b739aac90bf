package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/token"
)

// EmailVerifier sends a verification link for a stored email.
type EmailVerifier interface {
	RequestVerification(ctx context.Context, userID, emailID int64) error
}

type Auth struct {
	store    model.CredentialStore
	hasher   PasswordHasher
	codec    TokenCodec
	tokens   *TokenService
	verifier EmailVerifier
	opts     Options
	logger   *logger.Logger
}

// NewAuth creates the authentication service. codec must be the session codec.
// verifier may be nil, in which case signup does not send verification links.
func NewAuth(
	store model.CredentialStore,
	hasher PasswordHasher,
	codec TokenCodec,
	verifier EmailVerifier,
	opts Options,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		store:    store,
		hasher:   hasher,
		codec:    codec,
		tokens:   NewTokenService(codec, logger),
		verifier: verifier,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// Login authenticates username and password and returns a session.
// Unknown users and wrong passwords yield the same error.
func (a *Auth) Login(ctx context.Context, username, password string) (Session, error) {
	a.logger.Debug("Auth service: login attempt",
		"username", username)

	user, err := a.store.Users().GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown user",
			"username", username)
		return Session{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by username",
			"username", username,
			"error", err.Error())
		return Session{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if !user.Active() {
		a.logger.Info("Auth service: login for inactive user",
			"user_id", user.ID,
			"blocked", user.IsBlocked,
			"deleted", user.IsDeleted)
		return Session{}, apierrors.NewErrInvalidCredentials()
	}

	cred, err := a.store.Passwords().Get(ctx, user.ID)
	if errors.Is(err, model.ErrNotFound) {
		return Session{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get password: %w", err)
	}

	ok, err := a.hasher.Verify(password, cred)
	if err != nil {
		a.logger.Error("Auth service: failed to verify password",
			"user_id", user.ID,
			"error", err.Error())
		return Session{}, err
	}
	if !ok {
		a.logger.Info("Auth service: wrong password",
			"user_id", user.ID)
		return Session{}, apierrors.NewErrInvalidCredentials()
	}

	if a.opts.VerificationRequired && !user.IsVerified {
		return Session{}, apierrors.NewErrEmailNotVerified()
	}

	if a.hasher.NeedsRehash(cred) {
		a.rehash(ctx, user.ID, password)
	}

	var session Session
	err = a.store.WithinTx(ctx, func(ctx context.Context, tx model.Repositories) error {
		issued, err := a.tokens.Issue(ctx, tx, user, "")
		session = issued
		return err
	})
	if err != nil {
		a.logger.Error("Auth service: failed to issue session",
			"user_id", user.ID,
			"error", err.Error())
		return Session{}, err
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)

	return session, nil
}

// rehash replaces the stored credential with one produced by the current
// hashing settings. Failures are logged only.
func (a *Auth) rehash(ctx context.Context, userID int64, password string) {
	cred, err := a.hasher.Hash(password)
	if err != nil {
		a.logger.Warn("Auth service: failed to rehash password",
			"user_id", userID,
			"error", err.Error())
		return
	}

	err = a.store.WithinTx(ctx, func(ctx context.Context, tx model.Repositories) error {
		if err := tx.Passwords().Delete(ctx, userID); err != nil {
			return err
		}
		return tx.Passwords().Create(ctx, userID, cred)
	})
	if err != nil {
		a.logger.Warn("Auth service: failed to store rehashed password",
			"user_id", userID,
			"error", err.Error())
		return
	}

	a.logger.Info("Auth service: password rehashed",
		"user_id", userID,
		"algorithm", cred.Algorithm,
		"pepper_version", cred.PepperVersion)
}

// Signup creates an account, its owner user and role, and returns a session.
// email is optional; when given it becomes the user's primary email.
func (a *Auth) Signup(ctx context.Context, username, password, email string) (Session, error) {
	a.logger.Debug("Auth service: starting signup",
		"username", username)

	if username == "" || password == "" {
		return Session{}, apierrors.NewErrInvalidArgument("username and password are required")
	}

	taken, err := a.store.Users().IsUsernameTaken(ctx, username)
	if err != nil {
		return Session{}, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		a.logger.Info("Auth service: username already taken",
			"username", username)
		return Session{}, apierrors.NewErrUsernameIsTaken(username)
	}

	if email != "" {
		if err := a.ensureEmailFree(ctx, email); err != nil {
			return Session{}, err
		}
	}

	cred, err := a.hasher.Hash(password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"username", username,
			"error", err.Error())
		return Session{}, err
	}

	var (
		session Session
		emailID int64
	)
	err = a.store.WithinTx(ctx, func(ctx context.Context, tx model.Repositories) error {
		user, account, err := createUserAccount(ctx, tx, model.User{Username: username})
		if err != nil {
			return err
		}
		if err := tx.Passwords().Create(ctx, user.ID, cred); err != nil {
			return fmt.Errorf("failed to create password: %w", err)
		}
		if email != "" {
			e, err := tx.Emails().Create(ctx, model.EmailAddress{UserID: user.ID, Email: email, IsPrimary: true})
			if errors.Is(err, model.ErrAlreadyExists) {
				return apierrors.NewErrEmailIsTaken(email)
			}
			if err != nil {
				return fmt.Errorf("failed to create email: %w", err)
			}
			emailID = e.ID
		}
		session, err = a.tokens.Issue(ctx, tx, user, account.Name)
		return err
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return Session{}, apierrors.NewErrUsernameIsTaken(username)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user account",
			"username", username,
			"error", err.Error())
		return Session{}, err
	}

	if emailID != 0 && a.verifier != nil {
		if err := a.verifier.RequestVerification(ctx, session.User.ID, emailID); err != nil {
			a.logger.Warn("Auth service: failed to send verification email",
				"user_id", session.User.ID,
				"error", err.Error())
		}
	}

	a.logger.Info("Auth service: user signed up",
		"user_id", session.User.ID,
		"account_id", session.User.AccountID)

	return session, nil
}

// Logout revokes the user's refresh token. The access token may be expired
// but must belong to userID.
func (a *Auth) Logout(ctx context.Context, userID int64, accessToken string) error {
	tok, err := a.codec.Decode(accessToken)
	if err != nil {
		return apierrors.NewErrInvalidToken(err)
	}
	if tok.Claims.UserID != userID {
		a.logger.Warn("Auth service: logout token subject mismatch",
			"user_id", userID,
			"subject", tok.Claims.UserID)
		return apierrors.NewErrTokenSubjectMismatch()
	}

	if err := a.store.RefreshTokens().Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	a.logger.Info("Auth service: user logged out",
		"user_id", userID)
	return nil
}

// Refresh signs a new access token from the presented one, provided the
// refresh token is the one stored for its subject. The refresh token is
// returned unchanged.
func (a *Auth) Refresh(ctx context.Context, accessToken, refreshToken string) (Tokens, error) {
	tok, err := a.codec.Decode(accessToken)
	if err != nil {
		return Tokens{}, apierrors.NewErrInvalidToken(err)
	}
	claims := tok.Claims

	if refreshToken == "" {
		return Tokens{}, apierrors.NewErrInvalidRefreshToken()
	}

	stored, err := a.store.RefreshTokens().Get(ctx, claims.UserID, refreshToken)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: refresh token not found",
			"user_id", claims.UserID)
		return Tokens{}, apierrors.NewErrInvalidRefreshToken()
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("failed to get refresh token: %w", err)
	}
	if stored.UserID != claims.UserID || subtle.ConstantTimeCompare([]byte(stored.Token), []byte(refreshToken)) != 1 {
		return Tokens{}, apierrors.NewErrInvalidRefreshToken()
	}

	user, err := a.store.Users().GetByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return Tokens{}, apierrors.NewErrInvalidRefreshToken()
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.Active() {
		a.logger.Info("Auth service: refresh for inactive user",
			"user_id", user.ID)
		return Tokens{}, apierrors.NewErrInvalidRefreshToken()
	}
	if a.opts.VerificationRequired && !user.IsVerified {
		return Tokens{}, apierrors.NewErrEmailNotVerified()
	}

	access, err := a.tokens.Resign(claims)
	if err != nil {
		return Tokens{}, err
	}

	return Tokens{AccessToken: access, RefreshToken: stored.Token}, nil
}

// SSO links an external identity to a local user, creating one on first
// sight, and returns a session.
func (a *Auth) SSO(ctx context.Context, profile model.ExternalProfile) (Session, error) {
	if profile.Provider == "" || profile.ExternalID == "" {
		return Session{}, apierrors.NewErrInvalidArgument("provider and external id are required")
	}

	user, err := a.store.Users().GetByProvider(ctx, profile.Provider, profile.ExternalID)
	switch {
	case err == nil:
		if !user.Active() {
			return Session{}, apierrors.NewErrInvalidCredentials()
		}
		a.logger.Info("Auth service: SSO login",
			"user_id", user.ID,
			"provider", profile.Provider)

		var session Session
		err = a.store.WithinTx(ctx, func(ctx context.Context, tx model.Repositories) error {
			issued, err := a.tokens.Issue(ctx, tx, user, "")
			session = issued
			return err
		})
		if err != nil {
			return Session{}, err
		}
		return session, nil
	case !errors.Is(err, model.ErrNotFound):
		return Session{}, fmt.Errorf("failed to get user by provider: %w", err)
	}

	return a.ssoSignup(ctx, profile)
}

func (a *Auth) ssoSignup(ctx context.Context, profile model.ExternalProfile) (Session, error) {
	a.logger.Info("Auth service: SSO signup",
		"provider", profile.Provider,
		"external_id", profile.ExternalID)

	if profile.Email != "" {
		if err := a.ensureEmailFree(ctx, profile.Email); err != nil {
			return Session{}, err
		}
	}

	username := profile.Username
	if username == "" {
		username = profile.Email
	}
	if username == "" {
		username = profile.Provider + "-" + profile.ExternalID
	}

	taken, err := a.store.Users().IsUsernameTaken(ctx, username)
	if err != nil {
		return Session{}, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return Session{}, apierrors.NewErrUsernameIsTaken(username)
	}

	provider, externalID := profile.Provider, profile.ExternalID
	user := model.User{
		Username:   username,
		FirstName:  optional(profile.FirstName),
		LastName:   optional(profile.LastName),
		IsVerified: true,
		Provider:   &provider,
		ProviderID: &externalID,
	}

	var session Session
	err = a.store.WithinTx(ctx, func(ctx context.Context, tx model.Repositories) error {
		created, account, err := createUserAccount(ctx, tx, user)
		if err != nil {
			return err
		}
		if profile.Email != "" {
			_, err := tx.Emails().Create(ctx, model.EmailAddress{
				UserID:     created.ID,
				Email:      profile.Email,
				IsPrimary:  true,
				IsVerified: true,
			})
			if errors.Is(err, model.ErrAlreadyExists) {
				return apierrors.NewErrEmailIsTaken(profile.Email)
			}
			if err != nil {
				return fmt.Errorf("failed to create email: %w", err)
			}
		}
		session, err = a.tokens.Issue(ctx, tx, created, account.Name)
		return err
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return Session{}, apierrors.NewErrUsernameIsTaken(username)
	}
	if err != nil {
		return Session{}, err
	}

	return session, nil
}

// Authenticate verifies a session access token and returns its claims.
func (a *Auth) Authenticate(_ context.Context, accessToken string) (*token.Claims, error) {
	tok, err := a.codec.Verify(accessToken)
	if err != nil {
		return nil, apierrors.NewErrInvalidToken(err)
	}
	return tok.Claims, nil
}

func (a *Auth) ensureEmailFree(ctx context.Context, email string) error {
	taken, err := a.store.Emails().IsTaken(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		a.logger.Info("Auth service: email already taken",
			"email", email)
		return apierrors.NewErrEmailIsTaken(email)
	}
	return nil
}

// createUserAccount creates an account named after the user, the user, and
// an owner role holding the whole permission catalog.
func createUserAccount(ctx context.Context, tx model.Repositories, user model.User) (model.User, model.Account, error) {
	account, err := tx.Users().CreateAccount(ctx, user.Username)
	if err != nil {
		return model.User{}, model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	user.AccountID = account.ID
	created, err := tx.Users().Create(ctx, user)
	if err != nil {
		return model.User{}, model.Account{}, fmt.Errorf("failed to create user: %w", err)
	}

	catalog, err := tx.Roles().ListPermissions(ctx)
	if err != nil {
		return model.User{}, model.Account{}, fmt.Errorf("failed to list permissions: %w", err)
	}

	role, err := tx.Roles().Create(ctx, account.ID, model.AccountOwnerRole, catalog)
	if err != nil {
		return model.User{}, model.Account{}, fmt.Errorf("failed to create owner role: %w", err)
	}

	if err := tx.Roles().Assign(ctx, created.ID, role.ID); err != nil {
		return model.User{}, model.Account{}, fmt.Errorf("failed to assign owner role: %w", err)
	}

	return created, account, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
