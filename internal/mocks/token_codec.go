package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authcore/internal/token"
)

// TokenCodec is a mock type for the service.TokenCodec type.
type TokenCodec struct {
	mock.Mock
}

// Decode provides a mock function with given fields: tokenString
func (_m *TokenCodec) Decode(tokenString string) (*token.Token, error) {
	ret := _m.Called(tokenString)

	if len(ret) == 0 {
		panic("no return value specified for Decode")
	}

	var r0 *token.Token
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (*token.Token, error)); ok {
		return rf(tokenString)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*token.Token)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// Sign provides a mock function with given fields: claims, ttl
func (_m *TokenCodec) Sign(claims token.Claims, ttl ...time.Duration) (string, error) {
	_va := make([]interface{}, len(ttl))
	for _i := range ttl {
		_va[_i] = ttl[_i]
	}
	var _ca []interface{}
	_ca = append(_ca, claims)
	_ca = append(_ca, _va...)
	ret := _m.Called(_ca...)

	if len(ret) == 0 {
		panic("no return value specified for Sign")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(token.Claims, ...time.Duration) (string, error)); ok {
		return rf(claims, ttl...)
	}
	r0 = ret.String(0)
	r1 = ret.Error(1)

	return r0, r1
}

// Verify provides a mock function with given fields: tokenString
func (_m *TokenCodec) Verify(tokenString string) (*token.Token, error) {
	ret := _m.Called(tokenString)

	if len(ret) == 0 {
		panic("no return value specified for Verify")
	}

	var r0 *token.Token
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (*token.Token, error)); ok {
		return rf(tokenString)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*token.Token)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewTokenCodec creates a new instance of TokenCodec. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewTokenCodec(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenCodec {
	mock := &TokenCodec{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
