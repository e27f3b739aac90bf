package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authcore/internal/model"
)

// EmailService is a mock type for the handler.EmailService type.
type EmailService struct {
	mock.Mock
}

// Confirm provides a mock function with given fields: ctx, token
func (_m *EmailService) Confirm(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)

	if len(ret) == 0 {
		panic("no return value specified for Confirm")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, token)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Create provides a mock function with given fields: ctx, userID, address
func (_m *EmailService) Create(ctx context.Context, userID int64, address string) (model.EmailAddress, error) {
	ret := _m.Called(ctx, userID, address)

	if len(ret) == 0 {
		panic("no return value specified for Create")
	}

	var r0 model.EmailAddress
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, string) (model.EmailAddress, error)); ok {
		return rf(ctx, userID, address)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, string) model.EmailAddress); ok {
		r0 = rf(ctx, userID, address)
	} else {
		r0 = ret.Get(0).(model.EmailAddress)
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, string) error); ok {
		r1 = rf(ctx, userID, address)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Delete provides a mock function with given fields: ctx, userID, emailID
func (_m *EmailService) Delete(ctx context.Context, userID int64, emailID int64) error {
	ret := _m.Called(ctx, userID, emailID)

	if len(ret) == 0 {
		panic("no return value specified for Delete")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, int64) error); ok {
		r0 = rf(ctx, userID, emailID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// List provides a mock function with given fields: ctx, userID
func (_m *EmailService) List(ctx context.Context, userID int64) ([]model.EmailAddress, error) {
	ret := _m.Called(ctx, userID)

	if len(ret) == 0 {
		panic("no return value specified for List")
	}

	var r0 []model.EmailAddress
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) ([]model.EmailAddress, error)); ok {
		return rf(ctx, userID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) []model.EmailAddress); ok {
		r0 = rf(ctx, userID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.EmailAddress)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, userID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// RequestVerification provides a mock function with given fields: ctx, userID, emailID
func (_m *EmailService) RequestVerification(ctx context.Context, userID int64, emailID int64) error {
	ret := _m.Called(ctx, userID, emailID)

	if len(ret) == 0 {
		panic("no return value specified for RequestVerification")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, int64) error); ok {
		r0 = rf(ctx, userID, emailID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewEmailService creates a new instance of EmailService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewEmailService(t interface {
	mock.TestingT
	Cleanup(func())
}) *EmailService {
	mock := &EmailService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
