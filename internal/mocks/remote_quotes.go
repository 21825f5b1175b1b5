package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

// MockRemoteQuotes is a mock of ports.RemoteQuotes.
type MockRemoteQuotes struct {
	mock.Mock
}

// NewMockRemoteQuotes creates a mock whose expectations are asserted at test cleanup.
func NewMockRemoteQuotes(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRemoteQuotes {
	m := &MockRemoteQuotes{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockRemoteQuotesExpecter builds typed expectations.
type MockRemoteQuotesExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expecter.
func (m *MockRemoteQuotes) EXPECT() *MockRemoteQuotesExpecter {
	return &MockRemoteQuotesExpecter{mock: &m.Mock}
}

// FetchQuotes implements ports.RemoteQuoteSource.
func (m *MockRemoteQuotes) FetchQuotes(ctx context.Context) ([]domain.Quote, error) {
	ret := m.Called(ctx)

	var quotes []domain.Quote
	if v := ret.Get(0); v != nil {
		quotes = v.([]domain.Quote)
	}

	return quotes, ret.Error(1)
}

// MockRemoteQuotesFetchQuotesCall is a typed FetchQuotes expectation.
type MockRemoteQuotesFetchQuotesCall struct {
	*mock.Call
}

// FetchQuotes expects a FetchQuotes call.
func (e *MockRemoteQuotesExpecter) FetchQuotes(ctx any) *MockRemoteQuotesFetchQuotesCall {
	return &MockRemoteQuotesFetchQuotesCall{Call: e.mock.On("FetchQuotes", ctx)}
}

// Return sets the results.
func (c *MockRemoteQuotesFetchQuotesCall) Return(quotes []domain.Quote, err error) *MockRemoteQuotesFetchQuotesCall {
	c.Call.Return(quotes, err)
	return c
}

// PushQuote implements ports.RemoteQuoteSink.
func (m *MockRemoteQuotes) PushQuote(ctx context.Context, quote domain.Quote) error {
	return m.Called(ctx, quote).Error(0)
}

// MockRemoteQuotesPushQuoteCall is a typed PushQuote expectation.
type MockRemoteQuotesPushQuoteCall struct {
	*mock.Call
}

// PushQuote expects a PushQuote call.
func (e *MockRemoteQuotesExpecter) PushQuote(ctx, quote any) *MockRemoteQuotesPushQuoteCall {
	return &MockRemoteQuotesPushQuoteCall{Call: e.mock.On("PushQuote", ctx, quote)}
}

// Return sets the result.
func (c *MockRemoteQuotesPushQuoteCall) Return(err error) *MockRemoteQuotesPushQuoteCall {
	c.Call.Return(err)
	return c
}

// PushQuotes implements ports.RemoteQuoteSink.
func (m *MockRemoteQuotes) PushQuotes(ctx context.Context, quotes []domain.Quote) error {
	return m.Called(ctx, quotes).Error(0)
}

// MockRemoteQuotesPushQuotesCall is a typed PushQuotes expectation.
type MockRemoteQuotesPushQuotesCall struct {
	*mock.Call
}

// PushQuotes expects a PushQuotes call.
func (e *MockRemoteQuotesExpecter) PushQuotes(ctx, quotes any) *MockRemoteQuotesPushQuotesCall {
	return &MockRemoteQuotesPushQuotesCall{Call: e.mock.On("PushQuotes", ctx, quotes)}
}

// Return sets the result.
func (c *MockRemoteQuotesPushQuotesCall) Return(err error) *MockRemoteQuotesPushQuotesCall {
	c.Call.Return(err)
	return c
}
