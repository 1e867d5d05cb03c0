package feeds

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

// OrderBookFeed mock of an order book feed.
type OrderBookFeed struct {
	mock.Mock
}

// FetchOrderBook provides a mock function with given fields: ctx, pair
func (m *OrderBookFeed) FetchOrderBook(ctx context.Context, pair domain.Pair) (domain.OrderBookSnapshot, error) {
	ret := m.Called(ctx, pair)

	var snapshot domain.OrderBookSnapshot
	if rf, ok := ret.Get(0).(func(context.Context, domain.Pair) domain.OrderBookSnapshot); ok {
		snapshot = rf(ctx, pair)
	} else if ret.Get(0) != nil {
		snapshot = ret.Get(0).(domain.OrderBookSnapshot)
	}

	return snapshot, ret.Error(1)
}

// NewOrderBookFeed creates an OrderBookFeed whose expectations are asserted on cleanup.
func NewOrderBookFeed(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderBookFeed {
	m := &OrderBookFeed{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
