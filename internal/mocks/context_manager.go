package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authcore/internal/token"
)

// ContextManager is a mock type for the model.ContextManager type.
type ContextManager struct {
	mock.Mock
}

// GetClaimsFromContext provides a mock function with given fields: ctx
func (_m *ContextManager) GetClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for GetClaimsFromContext")
	}

	var r0 *token.Claims
	var r1 bool
	if rf, ok := ret.Get(0).(func(context.Context) (*token.Claims, bool)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) *token.Claims); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*token.Claims)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) bool); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Get(1).(bool)
	}

	return r0, r1
}

// SetClaimsToContext provides a mock function with given fields: ctx, claims
func (_m *ContextManager) SetClaimsToContext(ctx context.Context, claims *token.Claims) context.Context {
	ret := _m.Called(ctx, claims)

	if len(ret) == 0 {
		panic("no return value specified for SetClaimsToContext")
	}

	var r0 context.Context
	if rf, ok := ret.Get(0).(func(context.Context, *token.Claims) context.Context); ok {
		r0 = rf(ctx, claims)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(context.Context)
		}
	}

	return r0
}

// NewContextManager creates a new instance of ContextManager. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewContextManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContextManager {
	mock := &ContextManager{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
