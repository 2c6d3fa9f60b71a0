// Package mocks contains testify mocks for the adapter package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"arrowcheck.dev/pkg/arrowcheck/internal/adapter"
	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockJSRuntimeAdapter is a mock implementation of adapter.JSRuntimeAdapter.
type MockJSRuntimeAdapter struct {
	mock.Mock
}

var _ adapter.JSRuntimeAdapter = (*MockJSRuntimeAdapter)(nil)

// NewMockJSRuntimeAdapter creates a MockJSRuntimeAdapter and registers
// expectation checks on cleanup.
func NewMockJSRuntimeAdapter(t testingT) *MockJSRuntimeAdapter {
	mockAdapter := &MockJSRuntimeAdapter{}
	mockAdapter.Mock.Test(t)

	t.Cleanup(func() { mockAdapter.AssertExpectations(t) })

	return mockAdapter
}

// Evaluate provides a mock function.
func (_m *MockJSRuntimeAdapter) Evaluate(ctx context.Context, source string) (adapter.Evaluation, error) {
	ret := _m.Called(ctx, source)

	evaluation, _ := ret.Get(0).(adapter.Evaluation)

	return evaluation, ret.Error(1)
}

// MockReportStore is a mock implementation of adapter.ReportStore.
type MockReportStore struct {
	mock.Mock
}

var _ adapter.ReportStore = (*MockReportStore)(nil)

// NewMockReportStore creates a MockReportStore and registers expectation
// checks on cleanup.
func NewMockReportStore(t testingT) *MockReportStore {
	mockStore := &MockReportStore{}
	mockStore.Mock.Test(t)

	t.Cleanup(func() { mockStore.AssertExpectations(t) })

	return mockStore
}

// NewRunID provides a mock function.
func (_m *MockReportStore) NewRunID() string {
	ret := _m.Called()
	return ret.String(0)
}

// SaveReports provides a mock function.
func (_m *MockReportStore) SaveReports(dir m.Path, reports []m.Report) error {
	ret := _m.Called(dir, reports)
	return ret.Error(0)
}

// LoadReports provides a mock function.
func (_m *MockReportStore) LoadReports(dir m.Path) ([]m.Report, error) {
	ret := _m.Called(dir)

	reports, _ := ret.Get(0).([]m.Report)

	return reports, ret.Error(1)
}

// LoadIndex provides a mock function.
func (_m *MockReportStore) LoadIndex(dir m.Path) (adapter.CacheIndex, error) {
	ret := _m.Called(dir)

	index, _ := ret.Get(0).(adapter.CacheIndex)

	return index, ret.Error(1)
}

// SaveIndex provides a mock function.
func (_m *MockReportStore) SaveIndex(dir m.Path, index adapter.CacheIndex) error {
	ret := _m.Called(dir, index)
	return ret.Error(0)
}

// PruneReports provides a mock function.
func (_m *MockReportStore) PruneReports(dir m.Path) ([]m.Path, error) {
	ret := _m.Called(dir)

	pruned, _ := ret.Get(0).([]m.Path)

	return pruned, ret.Error(1)
}
