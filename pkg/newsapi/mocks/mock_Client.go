// Package mocks provides test doubles for the newsapi client.
package mocks

import (
	"context"

	newsapi "github.com/sells-group/profile-cli/pkg/newsapi"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Everything provides a mock function with given fields: ctx, query, pageSize
func (_m *MockClient) Everything(ctx context.Context, query string, pageSize int) (*newsapi.Response, error) {
	ret := _m.Called(ctx, query, pageSize)

	if len(ret) == 0 {
		panic("no return value specified for Everything")
	}

	var r0 *newsapi.Response
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int) (*newsapi.Response, error)); ok {
		return rf(ctx, query, pageSize)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*newsapi.Response)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
