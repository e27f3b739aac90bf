package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/service"
)

// AuthService is a mock type for the handler.AuthService type.
type AuthService struct {
	mock.Mock
}

// Login provides a mock function with given fields: ctx, username, password
func (_m *AuthService) Login(ctx context.Context, username string, password string) (service.Session, error) {
	ret := _m.Called(ctx, username, password)

	if len(ret) == 0 {
		panic("no return value specified for Login")
	}

	var r0 service.Session
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (service.Session, error)); ok {
		return rf(ctx, username, password)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) service.Session); ok {
		r0 = rf(ctx, username, password)
	} else {
		r0 = ret.Get(0).(service.Session)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, username, password)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Logout provides a mock function with given fields: ctx, userID, accessToken
func (_m *AuthService) Logout(ctx context.Context, userID int64, accessToken string) error {
	ret := _m.Called(ctx, userID, accessToken)

	if len(ret) == 0 {
		panic("no return value specified for Logout")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, string) error); ok {
		r0 = rf(ctx, userID, accessToken)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Refresh provides a mock function with given fields: ctx, accessToken, refreshToken
func (_m *AuthService) Refresh(ctx context.Context, accessToken string, refreshToken string) (service.Tokens, error) {
	ret := _m.Called(ctx, accessToken, refreshToken)

	if len(ret) == 0 {
		panic("no return value specified for Refresh")
	}

	var r0 service.Tokens
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (service.Tokens, error)); ok {
		return rf(ctx, accessToken, refreshToken)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) service.Tokens); ok {
		r0 = rf(ctx, accessToken, refreshToken)
	} else {
		r0 = ret.Get(0).(service.Tokens)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, accessToken, refreshToken)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// SSO provides a mock function with given fields: ctx, profile
func (_m *AuthService) SSO(ctx context.Context, profile model.ExternalProfile) (service.Session, error) {
	ret := _m.Called(ctx, profile)

	if len(ret) == 0 {
		panic("no return value specified for SSO")
	}

	var r0 service.Session
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.ExternalProfile) (service.Session, error)); ok {
		return rf(ctx, profile)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.ExternalProfile) service.Session); ok {
		r0 = rf(ctx, profile)
	} else {
		r0 = ret.Get(0).(service.Session)
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.ExternalProfile) error); ok {
		r1 = rf(ctx, profile)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Signup provides a mock function with given fields: ctx, username, password, email
func (_m *AuthService) Signup(ctx context.Context, username string, password string, email string) (service.Session, error) {
	ret := _m.Called(ctx, username, password, email)

	if len(ret) == 0 {
		panic("no return value specified for Signup")
	}

	var r0 service.Session
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, string) (service.Session, error)); ok {
		return rf(ctx, username, password, email)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string, string) service.Session); ok {
		r0 = rf(ctx, username, password, email)
	} else {
		r0 = ret.Get(0).(service.Session)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string, string) error); ok {
		r1 = rf(ctx, username, password, email)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewAuthService creates a new instance of AuthService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	mock := &AuthService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
