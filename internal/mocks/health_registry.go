package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// MockHealthRegistry is a mock of ports.HealthRegistry.
type MockHealthRegistry struct {
	mock.Mock
}

// NewMockHealthRegistry creates a mock whose expectations are asserted at test cleanup.
func NewMockHealthRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHealthRegistry {
	m := &MockHealthRegistry{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockHealthRegistryExpecter builds typed expectations.
type MockHealthRegistryExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (m *MockHealthRegistry) EXPECT() *MockHealthRegistryExpecter {
	return &MockHealthRegistryExpecter{mock: &m.Mock}
}

// Register implements ports.HealthRegistry.
func (m *MockHealthRegistry) Register(checker ports.HealthChecker) error {
	return m.Called(checker).Error(0)
}

// RegisterOptional implements ports.HealthRegistry.
func (m *MockHealthRegistry) RegisterOptional(checker ports.HealthChecker) error {
	return m.Called(checker).Error(0)
}

// CheckAll implements ports.HealthRegistry.
func (m *MockHealthRegistry) CheckAll(ctx context.Context) *ports.HealthResult {
	ret := m.Called(ctx)

	if v := ret.Get(0); v != nil {
		return v.(*ports.HealthResult)
	}

	return nil
}

// MockHealthRegistryCheckAllCall is a typed CheckAll expectation.
type MockHealthRegistryCheckAllCall struct {
	*mock.Call
}

// CheckAll expects a CheckAll call.
func (e *MockHealthRegistryExpecter) CheckAll(ctx any) *MockHealthRegistryCheckAllCall {
	return &MockHealthRegistryCheckAllCall{Call: e.mock.On("CheckAll", ctx)}
}

// Return sets the result.
func (c *MockHealthRegistryCheckAllCall) Return(result *ports.HealthResult) *MockHealthRegistryCheckAllCall {
	c.Call.Return(result)
	return c
}

// Maybe marks the call optional.
func (c *MockHealthRegistryCheckAllCall) Maybe() *MockHealthRegistryCheckAllCall {
	c.Call.Maybe()
	return c
}

var _ ports.HealthRegistry = (*MockHealthRegistry)(nil)
