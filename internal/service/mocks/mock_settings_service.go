package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tumanina/internal/model"
	"tumanina/internal/service"
)

type MockSettingsService struct {
	mock.Mock
}

var _ service.SettingsService = (*MockSettingsService)(nil)

func (m *MockSettingsService) Get(ctx context.Context) (*model.SiteSettings, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.SiteSettings), args.Bool(1), args.Error(2)
}

func (m *MockSettingsService) Save(ctx context.Context, input map[string]any) (*model.SiteSettings, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SiteSettings), args.Error(1)
}
