package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/mocks"
	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/service"
	"github.com/dtroode/authcore/internal/testutil"
)

type authDeps struct {
	auth     *mocks.AuthService
	emails   *mocks.EmailService
	password *mocks.PasswordService
	handler  *Auth
}

func newAuthHandler(t *testing.T, ssoSecret string) authDeps {
	d := authDeps{
		auth:     mocks.NewAuthService(t),
		emails:   mocks.NewEmailService(t),
		password: mocks.NewPasswordService(t),
	}
	d.handler = NewAuth(d.auth, d.emails, d.password, ssoSecret, testutil.MakeNoopLogger())
	return d
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func withMetadata(kv ...string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(kv...))
}

func assertCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	st, ok := status.FromError(err)
	require.True(t, ok, "not a status error: %v", err)
	assert.Equal(t, code, st.Code(), st.Message())
}

func testSession() service.Session {
	first := "Alice"
	return service.Session{
		Tokens: service.Tokens{AccessToken: "access", RefreshToken: "refresh"},
		User: service.UserSummary{
			ID:          1,
			AccountID:   2,
			AccountName: "alice",
			Username:    "alice",
			FirstName:   &first,
			Roles:       []string{model.AccountOwnerRole},
		},
	}
}

func TestAuth_Signup(t *testing.T) {
	t.Parallel()
	d := newAuthHandler(t, "")

	d.auth.On("Signup", mock.Anything, "alice", "Passw0rd!", "a@example.com").Return(testSession(), nil).Once()

	out, err := d.handler.Signup(context.Background(), mustStruct(t, map[string]any{
		"username": "alice",
		"password": "Passw0rd!",
		"email":    "a@example.com",
	}))
	require.NoError(t, err)

	got := out.AsMap()
	assert.Equal(t, "access", got["access_token"])
	assert.Equal(t, "refresh", got["refresh_token"])
	user := got["user"].(map[string]any)
	assert.Equal(t, float64(1), user["id"])
	assert.Equal(t, float64(2), user["account_id"])
	assert.Equal(t, "Alice", user["first_name"])
	assert.Nil(t, user["last_name"])
	assert.Equal(t, []any{model.AccountOwnerRole}, user["roles"])
}

func TestAuth_Signup_Errors(t *testing.T) {
	t.Parallel()
	d := newAuthHandler(t, "")

	_, err := d.handler.Signup(context.Background(), mustStruct(t, map[string]any{"password": "x"}))
	assertCode(t, err, codes.InvalidArgument)

	_, err = d.handler.Signup(context.Background(), mustStruct(t, map[string]any{"username": 5, "password": "x"}))
	assertCode(t, err, codes.InvalidArgument)

	d.auth.On("Signup", mock.Anything, "alice", "x", "").Return(service.Session{}, apierrors.NewErrUsernameIsTaken("alice")).Once()
	_, err = d.handler.Signup(context.Background(), mustStruct(t, map[string]any{"username": "alice", "password": "x"}))
	assertCode(t, err, codes.AlreadyExists)
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()
	d := newAuthHandler(t, "")

	d.auth.On("Login", mock.Anything, "alice", "good").Return(testSession(), nil).Once()
	d.auth.On("Login", mock.Anything, "alice", "bad").Return(service.Session{}, apierrors.NewErrInvalidCredentials()).Once()

	out, err := d.handler.Login(context.Background(), mustStruct(t, map[string]any{"username": "alice", "password": "good"}))
	require.NoError(t, err)
	assert.Equal(t, "access", out.AsMap()["access_token"])

	_, err = d.handler.Login(context.Background(), mustStruct(t, map[string]any{"username": "alice", "password": "bad"}))
	assertCode(t, err, codes.Unauthenticated)

	_, err = d.handler.Login(context.Background(), mustStruct(t, map[string]any{"username": "alice"}))
	assertCode(t, err, codes.InvalidArgument)
}

func TestAuth_Logout(t *testing.T) {
	t.Parallel()
	d := newAuthHandler(t, "")

	d.auth.On("Logout", mock.Anything, int64(1), "expired-token").Return(nil).Once()

	_, err := d.handler.Logout(withMetadata("authorization", "Bearer expired-token"), mustStruct(t, map[string]any{"user_id": 1}))
	require.NoError(t, err)

	_, err = d.handler.Logout(context.Background(), mustStruct(t, map[string]any{"user_id": 1}))
	assertCode(t, err, codes.Unauthenticated)

	_, err = d.handler.Logout(withMetadata("authorization", "Bearer t"), mustStruct(t, map[string]any{"user_id": 1.5}))
	assertCode(t, err, codes.InvalidArgument)
}

func TestAuth_Refresh(t *testing.T) {
	t.Parallel()

	tokens := service.Tokens{AccessToken: "new-access", RefreshToken: "rt"}

	tests := []struct {
		name    string
		ctx     context.Context
		body    map[string]any
		mocked  bool
		wantErr codes.Code
	}{
		{
			name:   "refresh in metadata",
			ctx:    withMetadata("authorization", "Bearer old", "x-refresh-token", "rt"),
			body:   map[string]any{},
			mocked: true,
		},
		{
			name:   "refresh in body",
			ctx:    withMetadata("authorization", "Bearer old"),
			body:   map[string]any{"refresh_token": "rt"},
			mocked: true,
		},
		{
			name:    "refresh in both",
			ctx:     withMetadata("authorization", "Bearer old", "x-refresh-token", "rt"),
			body:    map[string]any{"refresh_token": "rt"},
			wantErr: codes.InvalidArgument,
		},
		{
			name:    "refresh missing",
			ctx:     withMetadata("authorization", "Bearer old"),
			body:    map[string]any{},
			wantErr: codes.InvalidArgument,
		},
		{
			name:    "access token missing",
			ctx:     withMetadata("x-refresh-token", "rt"),
			body:    map[string]any{},
			wantErr: codes.Unauthenticated,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := newAuthHandler(t, "")
			if tt.mocked {
				d.auth.On("Refresh", mock.Anything, "old", "rt").Return(tokens, nil).Once()
			}

			out, err := d.handler.Refresh(tt.ctx, mustStruct(t, tt.body))
			if tt.wantErr != codes.OK {
				assertCode(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "new-access", out.AsMap()["access_token"])
			assert.Equal(t, "rt", out.AsMap()["refresh_token"])
		})
	}
}

func TestAuth_Refresh_ServiceError(t *testing.T) {
	t.Parallel()
	d := newAuthHandler(t, "")

	d.auth.On("Refresh", mock.Anything, "old", "rt").Return(service.Tokens{}, apierrors.NewErrInvalidRefreshToken()).Once()

	_, err := d.handler.Refresh(withMetadata("authorization", "Bearer old", "x-refresh-token", "rt"), mustStruct(t, map[string]any{}))
	assertCode(t, err, codes.Unauthenticated)
}

func TestAuth_SSO(t *testing.T) {
	t.Parallel()
	body := map[string]any{
		"provider":    "GOOGLE",
		"external_id": "g-1",
		"email":       "carol@example.com",
		"first_name":  "Carol",
	}

	t.Run("accepted with secret", func(t *testing.T) {
		t.Parallel()
		d := newAuthHandler(t, "edge-secret")
		d.auth.On("SSO", mock.Anything, model.ExternalProfile{
			Provider:   "GOOGLE",
			ExternalID: "g-1",
			Email:      "carol@example.com",
			FirstName:  "Carol",
		}).Return(testSession(), nil).Once()

		out, err := d.handler.SSO(withMetadata("x-sso-secret", "edge-secret"), mustStruct(t, body))
		require.NoError(t, err)
		assert.Equal(t, "access", out.AsMap()["access_token"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		d := newAuthHandler(t, "edge-secret")
		_, err := d.handler.SSO(withMetadata("x-sso-secret", "guess"), mustStruct(t, body))
		assertCode(t, err, codes.PermissionDenied)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		d := newAuthHandler(t, "")
		_, err := d.handler.SSO(withMetadata("x-sso-secret", ""), mustStruct(t, body))
		assertCode(t, err, codes.PermissionDenied)
	})
}

func TestAuth_VerifyEmail(t *testing.T) {
	t.Parallel()
	d := newAuthHandler(t, "")

	d.emails.On("Confirm", mock.Anything, "tok").Return(nil).Once()
	d.emails.On("Confirm", mock.Anything, "bad").Return(apierrors.NewErrInvalidToken(nil)).Once()

	_, err := d.handler.VerifyEmail(context.Background(), mustStruct(t, map[string]any{"token": "tok"}))
	require.NoError(t, err)

	_, err = d.handler.VerifyEmail(context.Background(), mustStruct(t, map[string]any{"token": "bad"}))
	assertCode(t, err, codes.Unauthenticated)
}

func TestAuth_ForgotAndResetPassword(t *testing.T) {
	t.Parallel()
	d := newAuthHandler(t, "")

	d.password.On("Forgot", mock.Anything, "a@example.com").Return(nil).Once()
	d.password.On("Forgot", mock.Anything, "nobody@example.com").Return(apierrors.NewErrEmailNotFound()).Once()
	d.password.On("Reset", mock.Anything, "tok", "N3w!").Return(nil).Once()
	d.password.On("Reset", mock.Anything, "tok", "Old!").Return(apierrors.NewErrPasswordAlreadyUsed()).Once()

	_, err := d.handler.ForgotPassword(context.Background(), mustStruct(t, map[string]any{"email": "a@example.com"}))
	require.NoError(t, err)
	_, err = d.handler.ForgotPassword(context.Background(), mustStruct(t, map[string]any{"email": "nobody@example.com"}))
	assertCode(t, err, codes.NotFound)

	_, err = d.handler.ResetPassword(context.Background(), mustStruct(t, map[string]any{"token": "tok", "password": "N3w!"}))
	require.NoError(t, err)
	_, err = d.handler.ResetPassword(context.Background(), mustStruct(t, map[string]any{"token": "tok", "password": "Old!"}))
	assertCode(t, err, codes.AlreadyExists)
	_, err = d.handler.ResetPassword(context.Background(), mustStruct(t, map[string]any{"token": "tok"}))
	assertCode(t, err, codes.InvalidArgument)
}
