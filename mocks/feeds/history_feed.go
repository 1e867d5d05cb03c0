package feeds

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

// HistoryFeed mock of a price history feed.
type HistoryFeed struct {
	mock.Mock
}

// FetchHistory provides a mock function with given fields: ctx, req
func (m *HistoryFeed) FetchHistory(ctx context.Context, req domain.HistoryRequest) ([]domain.PricePoint, error) {
	ret := m.Called(ctx, req)

	var points []domain.PricePoint
	if rf, ok := ret.Get(0).(func(context.Context, domain.HistoryRequest) []domain.PricePoint); ok {
		points = rf(ctx, req)
	} else if ret.Get(0) != nil {
		points = ret.Get(0).([]domain.PricePoint)
	}

	return points, ret.Error(1)
}

// NewHistoryFeed creates a HistoryFeed whose expectations are asserted on cleanup.
func NewHistoryFeed(t interface {
	mock.TestingT
	Cleanup(func())
}) *HistoryFeed {
	m := &HistoryFeed{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
