// Package mocks provides test doubles for the opensanctions client.
package mocks

import (
	"context"

	opensanctions "github.com/sells-group/profile-cli/pkg/opensanctions"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Match provides a mock function with given fields: ctx, q
func (_m *MockClient) Match(ctx context.Context, q opensanctions.Query) ([]opensanctions.Result, error) {
	ret := _m.Called(ctx, q)

	if len(ret) == 0 {
		panic("no return value specified for Match")
	}

	var r0 []opensanctions.Result
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, opensanctions.Query) ([]opensanctions.Result, error)); ok {
		return rf(ctx, q)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]opensanctions.Result)
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
