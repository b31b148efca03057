// Package mocks provides test doubles for the ofac client.
package mocks

import (
	"context"

	ofac "github.com/sells-group/profile-cli/pkg/ofac"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Alive provides a mock function with given fields: ctx
func (_m *MockClient) Alive(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Alive")
	}

	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}

	return ret.Error(0)
}

// Entities provides a mock function with given fields: ctx, list, program
func (_m *MockClient) Entities(ctx context.Context, list string, program string) ([]ofac.Entity, error) {
	ret := _m.Called(ctx, list, program)

	if len(ret) == 0 {
		panic("no return value specified for Entities")
	}

	var r0 []ofac.Entity
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) ([]ofac.Entity, error)); ok {
		return rf(ctx, list, program)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]ofac.Entity)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// SanctionsLists provides a mock function with given fields: ctx
func (_m *MockClient) SanctionsLists(ctx context.Context) ([]string, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for SanctionsLists")
	}

	var r0 []string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]string, error)); ok {
		return rf(ctx)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// Entity provides a mock function with given fields: ctx, id
func (_m *MockClient) Entity(ctx context.Context, id string) (*ofac.EntityDetail, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Entity")
	}

	var r0 *ofac.EntityDetail
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*ofac.EntityDetail, error)); ok {
		return rf(ctx, id)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ofac.EntityDetail)
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
