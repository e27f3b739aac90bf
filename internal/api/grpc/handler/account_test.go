package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	grpcctx "github.com/dtroode/authcore/internal/api/grpc/context"
	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/mocks"
	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/testutil"
	"github.com/dtroode/authcore/internal/token"
)

type accountDeps struct {
	users    *mocks.UserService
	emails   *mocks.EmailService
	password *mocks.PasswordService
	handler  *Account
}

func newAccountHandler(t *testing.T) accountDeps {
	d := accountDeps{
		users:    mocks.NewUserService(t),
		emails:   mocks.NewEmailService(t),
		password: mocks.NewPasswordService(t),
	}
	d.handler = NewAccount(d.users, d.emails, d.password, grpcctx.NewManager(), testutil.MakeNoopLogger())
	return d
}

func callerContext(userID int64) context.Context {
	return grpcctx.NewManager().SetClaimsToContext(context.Background(), &token.Claims{UserID: userID})
}

func TestAccount_Caller(t *testing.T) {
	t.Parallel()

	t.Run("no claims", func(t *testing.T) {
		t.Parallel()
		d := newAccountHandler(t)
		_, err := d.handler.GetUser(context.Background(), mustStruct(t, map[string]any{}))
		assertCode(t, err, codes.Unauthenticated)
	})

	t.Run("on behalf of another user", func(t *testing.T) {
		t.Parallel()
		d := newAccountHandler(t)
		_, err := d.handler.GetUser(callerContext(7), mustStruct(t, map[string]any{"user_id": 8}))
		assertCode(t, err, codes.PermissionDenied)
	})

	t.Run("own user id", func(t *testing.T) {
		t.Parallel()
		d := newAccountHandler(t)
		d.users.On("Get", mock.Anything, int64(7)).Return(model.User{ID: 7, Username: "alice"}, nil).Once()
		_, err := d.handler.GetUser(callerContext(7), mustStruct(t, map[string]any{"user_id": 7}))
		require.NoError(t, err)
	})

	t.Run("context manager is consulted", func(t *testing.T) {
		t.Parallel()
		cm := mocks.NewContextManager(t)
		cm.On("GetClaimsFromContext", mock.Anything).Return(nil, false).Once()
		h := NewAccount(mocks.NewUserService(t), mocks.NewEmailService(t), mocks.NewPasswordService(t), cm, testutil.MakeNoopLogger())
		_, err := h.ListEmails(context.Background(), mustStruct(t, map[string]any{}))
		assertCode(t, err, codes.Unauthenticated)
	})
}

func TestAccount_GetUser(t *testing.T) {
	t.Parallel()
	d := newAccountHandler(t)

	last := "Smith"
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	d.users.On("Get", mock.Anything, int64(7)).Return(model.User{
		ID:         7,
		AccountID:  3,
		Username:   "alice",
		LastName:   &last,
		IsVerified: true,
		CreatedAt:  created,
	}, nil).Once()

	out, err := d.handler.GetUser(callerContext(7), mustStruct(t, map[string]any{}))
	require.NoError(t, err)

	user := out.AsMap()["user"].(map[string]any)
	assert.Equal(t, float64(7), user["id"])
	assert.Equal(t, float64(3), user["account_id"])
	assert.Equal(t, "alice", user["username"])
	assert.Nil(t, user["first_name"])
	assert.Equal(t, "Smith", user["last_name"])
	assert.Equal(t, true, user["is_verified"])
	assert.Equal(t, "2024-05-01T10:00:00Z", user["created_at"])
}

func TestAccount_UpdateUser(t *testing.T) {
	t.Parallel()
	d := newAccountHandler(t)

	first := "Al"
	d.users.On("Update", mock.Anything, int64(7), &first, (*string)(nil)).
		Return(model.User{ID: 7, FirstName: &first}, nil).Once()

	out, err := d.handler.UpdateUser(callerContext(7), mustStruct(t, map[string]any{
		"first_name": "Al",
		"last_name":  nil,
	}))
	require.NoError(t, err)
	assert.Equal(t, "Al", out.AsMap()["user"].(map[string]any)["first_name"])

	_, err = d.handler.UpdateUser(callerContext(7), mustStruct(t, map[string]any{"first_name": 1}))
	assertCode(t, err, codes.InvalidArgument)
}

func TestAccount_UpdatePassword(t *testing.T) {
	t.Parallel()
	d := newAccountHandler(t)

	d.password.On("Update", mock.Anything, int64(7), "old", "new").Return(nil).Once()
	d.password.On("Update", mock.Anything, int64(7), "wrong", "new").Return(apierrors.NewErrIncorrectPassword()).Once()

	_, err := d.handler.UpdatePassword(callerContext(7), mustStruct(t, map[string]any{"old_password": "old", "new_password": "new"}))
	require.NoError(t, err)

	_, err = d.handler.UpdatePassword(callerContext(7), mustStruct(t, map[string]any{"old_password": "wrong", "new_password": "new"}))
	assertCode(t, err, codes.PermissionDenied)

	_, err = d.handler.UpdatePassword(callerContext(7), mustStruct(t, map[string]any{"old_password": "old"}))
	assertCode(t, err, codes.InvalidArgument)
}

func TestAccount_Emails(t *testing.T) {
	t.Parallel()
	d := newAccountHandler(t)

	primary := model.EmailAddress{ID: 1, UserID: 7, Email: "a@example.com", IsPrimary: true, IsVerified: true}
	secondary := model.EmailAddress{ID: 2, UserID: 7, Email: "b@example.com"}

	d.emails.On("Create", mock.Anything, int64(7), "b@example.com").Return(secondary, nil).Once()
	d.emails.On("Create", mock.Anything, int64(7), "c@example.com").Return(model.EmailAddress{}, apierrors.NewErrEmailLimitExceeded(2)).Once()
	d.emails.On("List", mock.Anything, int64(7)).Return([]model.EmailAddress{primary, secondary}, nil).Once()
	d.emails.On("RequestVerification", mock.Anything, int64(7), int64(2)).Return(nil).Once()
	d.emails.On("Delete", mock.Anything, int64(7), int64(1)).Return(apierrors.NewErrPrimaryEmailDeletion()).Once()
	d.emails.On("Delete", mock.Anything, int64(7), int64(2)).Return(nil).Once()

	ctx := callerContext(7)

	out, err := d.handler.CreateEmail(ctx, mustStruct(t, map[string]any{"email": "b@example.com"}))
	require.NoError(t, err)
	created := out.AsMap()["email"].(map[string]any)
	assert.Equal(t, float64(2), created["id"])
	assert.Equal(t, false, created["is_primary"])

	_, err = d.handler.CreateEmail(ctx, mustStruct(t, map[string]any{"email": "c@example.com"}))
	assertCode(t, err, codes.AlreadyExists)

	out, err = d.handler.ListEmails(ctx, mustStruct(t, map[string]any{}))
	require.NoError(t, err)
	items := out.AsMap()["emails"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "a@example.com", items[0].(map[string]any)["email"])
	assert.Equal(t, true, items[0].(map[string]any)["is_verified"])

	_, err = d.handler.ResendVerification(ctx, mustStruct(t, map[string]any{"email_id": 2}))
	require.NoError(t, err)

	_, err = d.handler.DeleteEmail(ctx, mustStruct(t, map[string]any{"email_id": 1}))
	assertCode(t, err, codes.PermissionDenied)

	_, err = d.handler.DeleteEmail(ctx, mustStruct(t, map[string]any{"email_id": 2}))
	require.NoError(t, err)

	_, err = d.handler.DeleteEmail(ctx, mustStruct(t, map[string]any{}))
	assertCode(t, err, codes.InvalidArgument)
}
