// Package mocks contains testify mocks for the controller package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"arrowcheck.dev/pkg/arrowcheck/internal/controller"
	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

// MockUI is a mock implementation of controller.UI.
type MockUI struct {
	mock.Mock
}

var _ controller.UI = (*MockUI)(nil)

// NewMockUI creates a MockUI and registers expectation checks on cleanup.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mockUI := &MockUI{}
	mockUI.Mock.Test(t)

	t.Cleanup(func() { mockUI.AssertExpectations(t) })

	return mockUI
}

// Start provides a mock function.
func (_m *MockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	ret := _m.Called(ctx, options)
	return ret.Error(0)
}

// Close provides a mock function.
func (_m *MockUI) Close(ctx context.Context) {
	_m.Called(ctx)
}

// Wait provides a mock function.
func (_m *MockUI) Wait(ctx context.Context) {
	_m.Called(ctx)
}

// DisplayFixtureCounts provides a mock function.
func (_m *MockUI) DisplayFixtureCounts(ctx context.Context, files []m.FixtureFile) error {
	ret := _m.Called(ctx, files)
	return ret.Error(0)
}

// DisplayConcurrencyInfo provides a mock function.
func (_m *MockUI) DisplayConcurrencyInfo(ctx context.Context, threads int, fixtures int, cachedFiles int) {
	_m.Called(ctx, threads, fixtures, cachedFiles)
}

// DisplayResult provides a mock function.
func (_m *MockUI) DisplayResult(ctx context.Context, result m.Result) {
	_m.Called(ctx, result)
}

// DisplayAccuracy provides a mock function.
func (_m *MockUI) DisplayAccuracy(ctx context.Context, summary m.Summary) {
	_m.Called(ctx, summary)
}

// DisplayReports provides a mock function.
func (_m *MockUI) DisplayReports(ctx context.Context, reports []m.Report) error {
	ret := _m.Called(ctx, reports)
	return ret.Error(0)
}

// DisplayVerdicts provides a mock function.
func (_m *MockUI) DisplayVerdicts(ctx context.Context, checks []m.Check) error {
	ret := _m.Called(ctx, checks)
	return ret.Error(0)
}
