// Package mocks provides test doubles for the edgar client.
package mocks

import (
	"context"

	edgar "github.com/sells-group/profile-cli/pkg/edgar"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// SearchCompanies provides a mock function with given fields: ctx, prefix
func (_m *MockClient) SearchCompanies(ctx context.Context, prefix string) ([]edgar.Company, error) {
	ret := _m.Called(ctx, prefix)

	if len(ret) == 0 {
		panic("no return value specified for SearchCompanies")
	}

	var r0 []edgar.Company
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]edgar.Company, error)); ok {
		return rf(ctx, prefix)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]edgar.Company)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// Submissions provides a mock function with given fields: ctx, cik
func (_m *MockClient) Submissions(ctx context.Context, cik string) (*edgar.Submissions, error) {
	ret := _m.Called(ctx, cik)

	if len(ret) == 0 {
		panic("no return value specified for Submissions")
	}

	var r0 *edgar.Submissions
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*edgar.Submissions, error)); ok {
		return rf(ctx, cik)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*edgar.Submissions)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// MasterIndex provides a mock function with given fields: ctx, year, quarter
func (_m *MockClient) MasterIndex(ctx context.Context, year int, quarter int) ([]edgar.Company, error) {
	ret := _m.Called(ctx, year, quarter)

	if len(ret) == 0 {
		panic("no return value specified for MasterIndex")
	}

	var r0 []edgar.Company
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int, int) ([]edgar.Company, error)); ok {
		return rf(ctx, year, quarter)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]edgar.Company)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// FilingURL provides a mock function with given fields: cik, f
func (_m *MockClient) FilingURL(cik string, f edgar.Filing) string {
	ret := _m.Called(cik, f)

	if len(ret) == 0 {
		panic("no return value specified for FilingURL")
	}

	if rf, ok := ret.Get(0).(func(string, edgar.Filing) string); ok {
		return rf(cik, f)
	}

	return ret.String(0)
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
