package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

// ScreeningGroups holds screening schedules by gender, each ascending by start age.
type ScreeningGroups struct {
	Female []model.ScreeningSchedule `json:"female"`
	Male   []model.ScreeningSchedule `json:"male"`
}

// WarningGroups holds warning signs by category.
type WarningGroups struct {
	Normal   []model.WarningSign `json:"normal"`
	Abnormal []model.WarningSign `json:"abnormal"`
}

// SitemapEntry is one URL of the sitemap, relative to the site base URL.
type SitemapEntry struct {
	Path         string
	LastModified time.Time
	ChangeFreq   string
	Priority     float64
}

// SiteService serves the public pages. Reads never fail: a store error is logged and
// rendered as an empty list.
type SiteService interface {
	PublishedArticles(ctx context.Context) []model.Article
	// Article returns ErrNotFound for missing and unpublished articles.
	Article(ctx context.Context, id string) (*model.Article, error)
	SelfExamSteps(ctx context.Context) []model.SelfExamStep
	Screening(ctx context.Context) ScreeningGroups
	WarningSigns(ctx context.Context) WarningGroups
	Settings(ctx context.Context) *model.SiteSettings
	Sitemap(ctx context.Context) []SitemapEntry
}

// SiteDeps are the content services read by the public pages.
type SiteDeps struct {
	Articles  *Records[model.Article, *model.Article]
	Steps     *Records[model.SelfExamStep, *model.SelfExamStep]
	Screening *Records[model.ScreeningSchedule, *model.ScreeningSchedule]
	Warnings  *Records[model.WarningSign, *model.WarningSign]
	Settings  SettingsService
}

type siteService struct {
	deps   SiteDeps
	logger *zap.Logger
	now    func() time.Time
}

func NewSiteService(deps SiteDeps, logger *zap.Logger) SiteService {
	return &siteService{deps: deps, logger: logger, now: time.Now}
}

// staticRoutes are listed in the sitemap ahead of the articles.
var staticRoutes = []string{
	"/",
	"/login",
	"/privacy",
	"/terms",
	"/support",
	"/articles",
	"/self-exam",
	"/self-exam/steps",
	"/self-exam/screening",
	"/self-exam/warnings",
}

func (s *siteService) PublishedArticles(ctx context.Context) []model.Article {
	items, err := s.deps.Articles.List(ctx, repository.Fields{"is_published": true})
	if err != nil {
		s.fetchFailed(model.CollectionArticles, err)
		return []model.Article{}
	}
	// The flag is re-checked so a backend that ignores the filter cannot leak drafts.
	items = slices.DeleteFunc(items, func(a model.Article) bool { return !a.IsPublished })
	slices.SortStableFunc(items, func(a, b model.Article) int { return a.DisplayOrder - b.DisplayOrder })
	return items
}

func (s *siteService) Article(ctx context.Context, id string) (*model.Article, error) {
	a, err := s.deps.Articles.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrIDRequired) {
			s.fetchFailed(model.CollectionArticles, err)
		}
		return nil, ErrNotFound
	}
	if !a.IsPublished {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *siteService) SelfExamSteps(ctx context.Context) []model.SelfExamStep {
	items, err := s.deps.Steps.List(ctx, nil)
	if err != nil {
		s.fetchFailed(model.CollectionSteps, err)
		return []model.SelfExamStep{}
	}
	slices.SortStableFunc(items, func(a, b model.SelfExamStep) int { return a.StepNumber - b.StepNumber })
	return items
}

func (s *siteService) Screening(ctx context.Context) ScreeningGroups {
	out := ScreeningGroups{Female: []model.ScreeningSchedule{}, Male: []model.ScreeningSchedule{}}
	items, err := s.deps.Screening.List(ctx, nil)
	if err != nil {
		s.fetchFailed(model.CollectionScreening, err)
		return out
	}
	for _, sc := range items {
		switch sc.Gender {
		case model.GenderFemale:
			out.Female = append(out.Female, sc)
		case model.GenderMale:
			out.Male = append(out.Male, sc)
		}
	}
	byAge := func(a, b model.ScreeningSchedule) int { return a.StartAge - b.StartAge }
	slices.SortStableFunc(out.Female, byAge)
	slices.SortStableFunc(out.Male, byAge)
	return out
}

func (s *siteService) WarningSigns(ctx context.Context) WarningGroups {
	out := WarningGroups{Normal: []model.WarningSign{}, Abnormal: []model.WarningSign{}}
	items, err := s.deps.Warnings.List(ctx, nil)
	if err != nil {
		s.fetchFailed(model.CollectionWarnings, err)
		return out
	}
	for _, w := range items {
		switch w.Category {
		case model.CategoryNormal:
			out.Normal = append(out.Normal, w)
		case model.CategoryAbnormal:
			out.Abnormal = append(out.Abnormal, w)
		}
	}
	return out
}

func (s *siteService) Settings(ctx context.Context) *model.SiteSettings {
	st, _, err := s.deps.Settings.Get(ctx)
	if err != nil {
		s.fetchFailed(model.CollectionSettings, err)
		return &model.SiteSettings{ID: model.SettingsID}
	}
	return st
}

func (s *siteService) Sitemap(ctx context.Context) []SitemapEntry {
	now := s.now().UTC()
	out := make([]SitemapEntry, 0, len(staticRoutes))
	for _, p := range staticRoutes {
		prio := 0.8
		if p == "/" {
			prio = 1.0
		}
		out = append(out, SitemapEntry{Path: p, LastModified: now, ChangeFreq: "weekly", Priority: prio})
	}
	for _, a := range s.PublishedArticles(ctx) {
		mod := a.CreatedAt
		if mod.IsZero() {
			mod = now
		}
		out = append(out, SitemapEntry{Path: "/articles/" + a.ID, LastModified: mod, ChangeFreq: "monthly", Priority: 0.6})
	}
	return out
}

func (s *siteService) fetchFailed(collection string, err error) {
	s.logger.Error("content fetch failed", zap.String("collection", collection), zap.Error(err))
}
