package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// NotificationSender is a mock type for the model.NotificationSender type.
type NotificationSender struct {
	mock.Mock
}

// SendPasswordResetEmail provides a mock function with given fields: ctx, to, username, link
func (_m *NotificationSender) SendPasswordResetEmail(ctx context.Context, to string, username string, link string) error {
	ret := _m.Called(ctx, to, username, link)

	if len(ret) == 0 {
		panic("no return value specified for SendPasswordResetEmail")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, string) error); ok {
		r0 = rf(ctx, to, username, link)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// SendVerificationEmail provides a mock function with given fields: ctx, to, username, link
func (_m *NotificationSender) SendVerificationEmail(ctx context.Context, to string, username string, link string) error {
	ret := _m.Called(ctx, to, username, link)

	if len(ret) == 0 {
		panic("no return value specified for SendVerificationEmail")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, string) error); ok {
		r0 = rf(ctx, to, username, link)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewNotificationSender creates a new instance of NotificationSender. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewNotificationSender(t interface {
	mock.TestingT
	Cleanup(func())
}) *NotificationSender {
	mock := &NotificationSender{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
