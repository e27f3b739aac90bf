package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authcore/internal/token"
)

// Authenticator is a mock type for the middleware.Authenticator type.
type Authenticator struct {
	mock.Mock
}

// Authenticate provides a mock function with given fields: ctx, accessToken
func (_m *Authenticator) Authenticate(ctx context.Context, accessToken string) (*token.Claims, error) {
	ret := _m.Called(ctx, accessToken)

	if len(ret) == 0 {
		panic("no return value specified for Authenticate")
	}

	var r0 *token.Claims
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*token.Claims, error)); ok {
		return rf(ctx, accessToken)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *token.Claims); ok {
		r0 = rf(ctx, accessToken)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*token.Claims)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, accessToken)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewAuthenticator creates a new instance of Authenticator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewAuthenticator(t interface {
	mock.TestingT
	Cleanup(func())
}) *Authenticator {
	mock := &Authenticator{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
