package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tumanina/internal/service"
)

type MockDashboardService struct {
	mock.Mock
}

var _ service.DashboardService = (*MockDashboardService)(nil)

func (m *MockDashboardService) Stats(ctx context.Context) []service.Stat {
	args := m.Called(ctx)
	return args.Get(0).([]service.Stat)
}
