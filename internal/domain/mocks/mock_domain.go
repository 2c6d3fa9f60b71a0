// Package mocks contains testify mocks for the domain package.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"arrowcheck.dev/pkg/arrowcheck/internal/domain"
	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockWorkflow is a mock implementation of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

var _ domain.Workflow = (*MockWorkflow)(nil)

// NewMockWorkflow creates a MockWorkflow and registers expectation checks on
// cleanup.
func NewMockWorkflow(t testingT) *MockWorkflow {
	mockWorkflow := &MockWorkflow{}
	mockWorkflow.Mock.Test(t)

	t.Cleanup(func() { mockWorkflow.AssertExpectations(t) })

	return mockWorkflow
}

// List provides a mock function.
func (_m *MockWorkflow) List(ctx context.Context, args domain.ListArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// Run provides a mock function.
func (_m *MockWorkflow) Run(ctx context.Context, args domain.RunArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// View provides a mock function.
func (_m *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// Check provides a mock function.
func (_m *MockWorkflow) Check(ctx context.Context, args domain.CheckArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// MockFixtureLoader is a mock implementation of domain.FixtureLoader.
type MockFixtureLoader struct {
	mock.Mock
}

var _ domain.FixtureLoader = (*MockFixtureLoader)(nil)

// NewMockFixtureLoader creates a MockFixtureLoader and registers expectation
// checks on cleanup.
func NewMockFixtureLoader(t testingT) *MockFixtureLoader {
	mockLoader := &MockFixtureLoader{}
	mockLoader.Mock.Test(t)

	t.Cleanup(func() { mockLoader.AssertExpectations(t) })

	return mockLoader
}

// Load provides a mock function.
func (_m *MockFixtureLoader) Load(ctx context.Context, paths []m.Path, exclude ...string) ([]m.FixtureFile, error) {
	ret := _m.Called(ctx, paths, exclude)

	files, _ := ret.Get(0).([]m.FixtureFile)

	return files, ret.Error(1)
}

// MockOrchestrator is a mock implementation of domain.Orchestrator.
type MockOrchestrator struct {
	mock.Mock
}

var _ domain.Orchestrator = (*MockOrchestrator)(nil)

// NewMockOrchestrator creates a MockOrchestrator and registers expectation
// checks on cleanup.
func NewMockOrchestrator(t testingT) *MockOrchestrator {
	mockOrchestrator := &MockOrchestrator{}
	mockOrchestrator.Mock.Test(t)

	t.Cleanup(func() { mockOrchestrator.AssertExpectations(t) })

	return mockOrchestrator
}

// Classify provides a mock function.
func (_m *MockOrchestrator) Classify(ctx context.Context, fixture m.Fixture, timeout time.Duration) m.Result {
	ret := _m.Called(ctx, fixture, timeout)

	result, _ := ret.Get(0).(m.Result)

	return result
}

// CheckSource provides a mock function.
func (_m *MockOrchestrator) CheckSource(ctx context.Context, source string, timeout time.Duration) m.Check {
	ret := _m.Called(ctx, source, timeout)

	check, _ := ret.Get(0).(m.Check)

	return check
}
