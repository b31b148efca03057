// Package mocks provides test doubles for the opencorporates client.
package mocks

import (
	"context"

	opencorporates "github.com/sells-group/profile-cli/pkg/opencorporates"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// SearchCompanies provides a mock function with given fields: ctx, name, countryCode
func (_m *MockClient) SearchCompanies(ctx context.Context, name string, countryCode string) ([]opencorporates.Company, error) {
	ret := _m.Called(ctx, name, countryCode)

	if len(ret) == 0 {
		panic("no return value specified for SearchCompanies")
	}

	var r0 []opencorporates.Company
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) ([]opencorporates.Company, error)); ok {
		return rf(ctx, name, countryCode)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]opencorporates.Company)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// GetCompany provides a mock function with given fields: ctx, jurisdiction, number
func (_m *MockClient) GetCompany(ctx context.Context, jurisdiction string, number string) (*opencorporates.Company, error) {
	ret := _m.Called(ctx, jurisdiction, number)

	if len(ret) == 0 {
		panic("no return value specified for GetCompany")
	}

	var r0 *opencorporates.Company
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*opencorporates.Company, error)); ok {
		return rf(ctx, jurisdiction, number)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*opencorporates.Company)
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
