package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockKeyValueStore is a mock of ports.KeyValueStore.
type MockKeyValueStore struct {
	mock.Mock
}

// NewMockKeyValueStore creates a mock whose expectations are asserted at test cleanup.
func NewMockKeyValueStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockKeyValueStore {
	m := &MockKeyValueStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockKeyValueStoreExpecter builds typed expectations.
type MockKeyValueStoreExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (m *MockKeyValueStore) EXPECT() *MockKeyValueStoreExpecter {
	return &MockKeyValueStoreExpecter{mock: &m.Mock}
}

// Get implements ports.KeyValueStore.
func (m *MockKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	ret := m.Called(ctx, key)

	return ret.String(0), ret.Bool(1), ret.Error(2)
}

// MockKeyValueStoreGetCall is a typed Get expectation.
type MockKeyValueStoreGetCall struct {
	*mock.Call
}

// Get expects a Get call.
func (e *MockKeyValueStoreExpecter) Get(ctx, key any) *MockKeyValueStoreGetCall {
	return &MockKeyValueStoreGetCall{Call: e.mock.On("Get", ctx, key)}
}

// Return sets the results.
func (c *MockKeyValueStoreGetCall) Return(value string, ok bool, err error) *MockKeyValueStoreGetCall {
	c.Call.Return(value, ok, err)
	return c
}

// Set implements ports.KeyValueStore.
func (m *MockKeyValueStore) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

// MockKeyValueStoreSetCall is a typed Set expectation.
type MockKeyValueStoreSetCall struct {
	*mock.Call
}

// Set expects a Set call.
func (e *MockKeyValueStoreExpecter) Set(ctx, key, value any) *MockKeyValueStoreSetCall {
	return &MockKeyValueStoreSetCall{Call: e.mock.On("Set", ctx, key, value)}
}

// Return sets the result.
func (c *MockKeyValueStoreSetCall) Return(err error) *MockKeyValueStoreSetCall {
	c.Call.Return(err)
	return c
}

// Delete implements ports.KeyValueStore.
func (m *MockKeyValueStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// MockKeyValueStoreDeleteCall is a typed Delete expectation.
type MockKeyValueStoreDeleteCall struct {
	*mock.Call
}

// Delete expects a Delete call.
func (e *MockKeyValueStoreExpecter) Delete(ctx, key any) *MockKeyValueStoreDeleteCall {
	return &MockKeyValueStoreDeleteCall{Call: e.mock.On("Delete", ctx, key)}
}

// Return sets the result.
func (c *MockKeyValueStoreDeleteCall) Return(err error) *MockKeyValueStoreDeleteCall {
	c.Call.Return(err)
	return c
}

// Close implements ports.KeyValueStore.
func (m *MockKeyValueStore) Close() error {
	return m.Called().Error(0)
}

// MockKeyValueStoreCloseCall is a typed Close expectation.
type MockKeyValueStoreCloseCall struct {
	*mock.Call
}

// Close expects a Close call.
func (e *MockKeyValueStoreExpecter) Close() *MockKeyValueStoreCloseCall {
	return &MockKeyValueStoreCloseCall{Call: e.mock.On("Close")}
}

// Return sets the result.
func (c *MockKeyValueStoreCloseCall) Return(err error) *MockKeyValueStoreCloseCall {
	c.Call.Return(err)
	return c
}
