package handler

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
)

// UserService defines profile operations.
type UserService interface {
	Get(ctx context.Context, id int64) (model.User, error)
	Update(ctx context.Context, id int64, firstName, lastName *string) (model.User, error)
}

var _ AccountServer = (*Account)(nil)

// Account handles authcore.v1.Account endpoints. Every call acts on the
// caller identified by the verified claims.
type Account struct {
	userService     UserService
	emailService    EmailService
	passwordService PasswordService
	contextManager  model.ContextManager
	logger          *logger.Logger
}

func NewAccount(
	userService UserService,
	emailService EmailService,
	passwordService PasswordService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Account {
	return &Account{
		userService:     userService,
		emailService:    emailService,
		passwordService: passwordService,
		contextManager:  contextManager,
		logger:          logger,
	}
}

// caller returns the authenticated user id. A user_id in the request must
// name the caller.
func (h *Account) caller(ctx context.Context, req *structpb.Struct) (int64, error) {
	claims, ok := h.contextManager.GetClaimsFromContext(ctx)
	if !ok || claims.UserID == 0 {
		return 0, apierrors.NewErrMissingAuthorizationToken()
	}

	requested, present, err := idField(req, "user_id")
	if err != nil {
		return 0, err
	}
	if present && requested != claims.UserID {
		h.logger.Warn("Account handler: request on behalf of another user",
			"user_id", claims.UserID,
			"requested", requested)
		return 0, apierrors.NewErrActingOnBehalf()
	}

	return claims.UserID, nil
}

func (h *Account) GetUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.caller(ctx, req)
	if err != nil {
		return nil, handleError(err)
	}

	user, err := h.userService.Get(ctx, userID)
	if err != nil {
		return nil, handleError(err)
	}

	return h.encode(structpb.NewStruct(map[string]any{"user": userMap(user)}))
}

// UpdateUser changes first_name and/or last_name.
func (h *Account) UpdateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.caller(ctx, req)
	if err != nil {
		return nil, handleError(err)
	}
	firstName, err := optionalString(req, "first_name")
	if err != nil {
		return nil, handleError(err)
	}
	lastName, err := optionalString(req, "last_name")
	if err != nil {
		return nil, handleError(err)
	}

	user, err := h.userService.Update(ctx, userID, firstName, lastName)
	if err != nil {
		h.logger.Error("Account handler: profile update failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return h.encode(structpb.NewStruct(map[string]any{"user": userMap(user)}))
}

func (h *Account) UpdatePassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.caller(ctx, req)
	if err != nil {
		return nil, handleError(err)
	}
	oldPassword, err := requiredString(req, "old_password")
	if err != nil {
		return nil, handleError(err)
	}
	newPassword, err := requiredString(req, "new_password")
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.passwordService.Update(ctx, userID, oldPassword, newPassword); err != nil {
		h.logger.Info("Account handler: password update failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return emptyResponse(), nil
}

func (h *Account) CreateEmail(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.caller(ctx, req)
	if err != nil {
		return nil, handleError(err)
	}
	address, err := requiredString(req, "email")
	if err != nil {
		return nil, handleError(err)
	}

	e, err := h.emailService.Create(ctx, userID, address)
	if err != nil {
		return nil, handleError(err)
	}

	h.logger.Info("Account handler: email created",
		"user_id", userID,
		"email_id", e.ID)

	return h.encode(structpb.NewStruct(map[string]any{"email": emailMap(e)}))
}

func (h *Account) ListEmails(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.caller(ctx, req)
	if err != nil {
		return nil, handleError(err)
	}

	emails, err := h.emailService.List(ctx, userID)
	if err != nil {
		return nil, handleError(err)
	}

	items := make([]any, len(emails))
	for i, e := range emails {
		items[i] = emailMap(e)
	}
	return h.encode(structpb.NewStruct(map[string]any{"emails": items}))
}

func (h *Account) DeleteEmail(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.caller(ctx, req)
	if err != nil {
		return nil, handleError(err)
	}
	emailID, err := requiredID(req, "email_id")
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.emailService.Delete(ctx, userID, emailID); err != nil {
		return nil, handleError(err)
	}

	return emptyResponse(), nil
}

func (h *Account) ResendVerification(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.caller(ctx, req)
	if err != nil {
		return nil, handleError(err)
	}
	emailID, err := requiredID(req, "email_id")
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.emailService.RequestVerification(ctx, userID, emailID); err != nil {
		h.logger.Error("Account handler: verification resend failed",
			"user_id", userID,
			"email_id", emailID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return emptyResponse(), nil
}

func (h *Account) encode(resp *structpb.Struct, err error) (*structpb.Struct, error) {
	if err != nil {
		h.logger.Error("Account handler: failed to encode response",
			"error", err.Error())
		return nil, handleError(err)
	}
	return resp, nil
}
