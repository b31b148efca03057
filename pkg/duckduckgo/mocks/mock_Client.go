// Package mocks provides test doubles for the duckduckgo client.
package mocks

import (
	"context"

	duckduckgo "github.com/sells-group/profile-cli/pkg/duckduckgo"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// InstantAnswer provides a mock function with given fields: ctx, query
func (_m *MockClient) InstantAnswer(ctx context.Context, query string) (*duckduckgo.InstantAnswer, error) {
	ret := _m.Called(ctx, query)

	if len(ret) == 0 {
		panic("no return value specified for InstantAnswer")
	}

	var r0 *duckduckgo.InstantAnswer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*duckduckgo.InstantAnswer)
	}
	return r0, ret.Error(1)
}

// Search provides a mock function with given fields: ctx, query, max
func (_m *MockClient) Search(ctx context.Context, query string, max int) ([]duckduckgo.Result, error) {
	ret := _m.Called(ctx, query, max)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 []duckduckgo.Result
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]duckduckgo.Result)
	}
	return r0, ret.Error(1)
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
