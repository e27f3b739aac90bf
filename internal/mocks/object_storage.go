package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// ObjectStorage is a mock type for the model.ObjectStorage type.
type ObjectStorage struct {
	mock.Mock
}

// Upload provides a mock function with given fields: ctx, key, reader, size, contentType
func (_m *ObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	ret := _m.Called(ctx, key, reader, size, contentType)

	if len(ret) == 0 {
		panic("no return value specified for Upload")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, io.Reader, int64, string) error); ok {
		r0 = rf(ctx, key, reader, size, contentType)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewObjectStorage creates a new instance of ObjectStorage. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewObjectStorage(t interface {
	mock.TestingT
	Cleanup(func())
}) *ObjectStorage {
	mock := &ObjectStorage{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
