package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tumanina/internal/model"
	"tumanina/internal/service"
)

type MockSiteService struct {
	mock.Mock
}

var _ service.SiteService = (*MockSiteService)(nil)

func (m *MockSiteService) PublishedArticles(ctx context.Context) []model.Article {
	args := m.Called(ctx)
	return args.Get(0).([]model.Article)
}

func (m *MockSiteService) Article(ctx context.Context, id string) (*model.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockSiteService) SelfExamSteps(ctx context.Context) []model.SelfExamStep {
	args := m.Called(ctx)
	return args.Get(0).([]model.SelfExamStep)
}

func (m *MockSiteService) Screening(ctx context.Context) service.ScreeningGroups {
	args := m.Called(ctx)
	return args.Get(0).(service.ScreeningGroups)
}

func (m *MockSiteService) WarningSigns(ctx context.Context) service.WarningGroups {
	args := m.Called(ctx)
	return args.Get(0).(service.WarningGroups)
}

func (m *MockSiteService) Settings(ctx context.Context) *model.SiteSettings {
	args := m.Called(ctx)
	return args.Get(0).(*model.SiteSettings)
}

func (m *MockSiteService) Sitemap(ctx context.Context) []service.SitemapEntry {
	args := m.Called(ctx)
	return args.Get(0).([]service.SitemapEntry)
}
