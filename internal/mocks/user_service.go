package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authcore/internal/model"
)

// UserService is a mock type for the handler.UserService type.
type UserService struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, id
func (_m *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 model.User
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (model.User, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) model.User); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Get(0).(model.User)
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Update provides a mock function with given fields: ctx, id, firstName, lastName
func (_m *UserService) Update(ctx context.Context, id int64, firstName *string, lastName *string) (model.User, error) {
	ret := _m.Called(ctx, id, firstName, lastName)

	if len(ret) == 0 {
		panic("no return value specified for Update")
	}

	var r0 model.User
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, *string, *string) (model.User, error)); ok {
		return rf(ctx, id, firstName, lastName)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, *string, *string) model.User); ok {
		r0 = rf(ctx, id, firstName, lastName)
	} else {
		r0 = ret.Get(0).(model.User)
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, *string, *string) error); ok {
		r1 = rf(ctx, id, firstName, lastName)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewUserService creates a new instance of UserService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewUserService(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserService {
	mock := &UserService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
