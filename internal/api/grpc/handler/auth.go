package handler

import (
	"context"
	"crypto/subtle"

	"google.golang.org/protobuf/types/known/structpb"

	grpcctx "github.com/dtroode/authcore/internal/api/grpc/context"
	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/service"
)

// AuthService defines session operations.
type AuthService interface {
	Signup(ctx context.Context, username, password, email string) (service.Session, error)
	Login(ctx context.Context, username, password string) (service.Session, error)
	Logout(ctx context.Context, userID int64, accessToken string) error
	Refresh(ctx context.Context, accessToken, refreshToken string) (service.Tokens, error)
	SSO(ctx context.Context, profile model.ExternalProfile) (service.Session, error)
}

// EmailService defines email address operations.
type EmailService interface {
	Create(ctx context.Context, userID int64, address string) (model.EmailAddress, error)
	RequestVerification(ctx context.Context, userID, emailID int64) error
	Confirm(ctx context.Context, token string) error
	List(ctx context.Context, userID int64) ([]model.EmailAddress, error)
	Delete(ctx context.Context, userID, emailID int64) error
}

// PasswordService defines password reset and change operations.
type PasswordService interface {
	Forgot(ctx context.Context, address string) error
	Reset(ctx context.Context, token, newPassword string) error
	Update(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

var _ AuthServer = (*Auth)(nil)

// Auth handles the public authcore.v1.Auth endpoints.
type Auth struct {
	authService     AuthService
	emailService    EmailService
	passwordService PasswordService
	ssoSecret       string
	logger          *logger.Logger
}

// NewAuth creates a new Auth handler. SSO requests must present ssoSecret
// in metadata; an empty ssoSecret disables SSO.
func NewAuth(
	authService AuthService,
	emailService EmailService,
	passwordService PasswordService,
	ssoSecret string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:     authService,
		emailService:    emailService,
		passwordService: passwordService,
		ssoSecret:       ssoSecret,
		logger:          logger,
	}
}

// Signup creates an account and returns a session.
func (h *Auth) Signup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, err := requiredString(req, "username")
	if err != nil {
		return nil, handleError(err)
	}
	password, err := requiredString(req, "password")
	if err != nil {
		return nil, handleError(err)
	}
	email, err := stringField(req, "email")
	if err != nil {
		return nil, handleError(err)
	}

	h.logger.Debug("Auth handler: processing signup request",
		"username", username)

	session, err := h.authService.Signup(ctx, username, password, email)
	if err != nil {
		h.logger.Error("Auth handler: signup failed",
			"username", username,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: signup completed",
		"user_id", session.User.ID)

	return h.session(session)
}

// Login exchanges credentials for a session.
func (h *Auth) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, err := requiredString(req, "username")
	if err != nil {
		return nil, handleError(err)
	}
	password, err := requiredString(req, "password")
	if err != nil {
		return nil, handleError(err)
	}

	h.logger.Debug("Auth handler: processing login request",
		"username", username)

	session, err := h.authService.Login(ctx, username, password)
	if err != nil {
		h.logger.Info("Auth handler: login failed",
			"username", username,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: login completed",
		"user_id", session.User.ID)

	return h.session(session)
}

// Logout revokes the refresh token of user_id. The bearer token may be expired.
func (h *Auth) Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := requiredID(req, "user_id")
	if err != nil {
		return nil, handleError(err)
	}
	accessToken := grpcctx.BearerToken(ctx)
	if accessToken == "" {
		return nil, handleError(apierrors.NewErrMissingAuthorizationToken())
	}

	if err := h.authService.Logout(ctx, userID, accessToken); err != nil {
		h.logger.Error("Auth handler: logout failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: logout completed",
		"user_id", userID)

	return emptyResponse(), nil
}

// Refresh issues a new access token. The refresh token comes from the
// x-refresh-token metadata or the request body, never both.
func (h *Auth) Refresh(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accessToken := grpcctx.BearerToken(ctx)
	if accessToken == "" {
		return nil, handleError(apierrors.NewErrMissingAuthorizationToken())
	}

	fromBody, err := stringField(req, "refresh_token")
	if err != nil {
		return nil, handleError(err)
	}
	fromMetadata := grpcctx.MetadataValue(ctx, grpcctx.RefreshTokenKey)

	var refreshToken string
	switch {
	case fromBody != "" && fromMetadata != "":
		return nil, handleError(apierrors.NewErrInvalidArgument("refresh token must be sent in metadata or body, not both"))
	case fromMetadata != "":
		refreshToken = fromMetadata
	case fromBody != "":
		refreshToken = fromBody
	default:
		return nil, handleError(apierrors.NewErrInvalidArgument("refresh token is required"))
	}

	h.logger.Debug("Auth handler: processing token refresh request")

	tokens, err := h.authService.Refresh(ctx, accessToken, refreshToken)
	if err != nil {
		h.logger.Info("Auth handler: token refresh failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: token refresh successful")

	resp, err := tokensResponse(tokens)
	if err != nil {
		return nil, handleError(err)
	}
	return resp, nil
}

// SSO links a provider identity relayed by a trusted edge service.
func (h *Auth) SSO(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	presented := grpcctx.MetadataValue(ctx, grpcctx.SSOSecretKey)
	if h.ssoSecret == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(h.ssoSecret)) != 1 {
		h.logger.Warn("Auth handler: SSO request rejected")
		return nil, handleError(apierrors.NewErrPermissionDenied())
	}

	var profile model.ExternalProfile
	fields := []struct {
		name string
		dst  *string
	}{
		{"provider", &profile.Provider},
		{"external_id", &profile.ExternalID},
		{"username", &profile.Username},
		{"email", &profile.Email},
		{"first_name", &profile.FirstName},
		{"last_name", &profile.LastName},
	}
	for _, f := range fields {
		v, err := stringField(req, f.name)
		if err != nil {
			return nil, handleError(err)
		}
		*f.dst = v
	}

	h.logger.Debug("Auth handler: processing SSO request",
		"provider", profile.Provider)

	session, err := h.authService.SSO(ctx, profile)
	if err != nil {
		h.logger.Error("Auth handler: SSO failed",
			"provider", profile.Provider,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: SSO completed",
		"user_id", session.User.ID,
		"provider", profile.Provider)

	return h.session(session)
}

// VerifyEmail confirms an email verification token.
func (h *Auth) VerifyEmail(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token, err := requiredString(req, "token")
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.emailService.Confirm(ctx, token); err != nil {
		h.logger.Info("Auth handler: email verification failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	return emptyResponse(), nil
}

// ForgotPassword sends a reset link to the owner of email.
func (h *Auth) ForgotPassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email, err := requiredString(req, "email")
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.passwordService.Forgot(ctx, email); err != nil {
		h.logger.Info("Auth handler: password reset request failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	return emptyResponse(), nil
}

// ResetPassword sets a new password using a reset token.
func (h *Auth) ResetPassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token, err := requiredString(req, "token")
	if err != nil {
		return nil, handleError(err)
	}
	password, err := requiredString(req, "password")
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.passwordService.Reset(ctx, token, password); err != nil {
		h.logger.Info("Auth handler: password reset failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	return emptyResponse(), nil
}

func (h *Auth) session(s service.Session) (*structpb.Struct, error) {
	resp, err := sessionResponse(s)
	if err != nil {
		h.logger.Error("Auth handler: failed to encode session",
			"error", err.Error())
		return nil, handleError(err)
	}
	return resp, nil
}
