package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

// SettingsService manages the single site settings document.
type SettingsService interface {
	// Get returns the settings, or empty settings with the fixed id when none were saved.
	// exists reports whether the document is stored.
	Get(ctx context.Context) (settings *model.SiteSettings, exists bool, err error)

	// Save merges input into the stored settings, creating them on first save,
	// and stamps last_updated. Fields absent from input are kept.
	Save(ctx context.Context, input map[string]any) (*model.SiteSettings, error)
}

type settingsService struct {
	store   repository.Store[model.SiteSettings]
	metrics *Metrics
	now     func() time.Time
}

func NewSettingsService(store repository.Store[model.SiteSettings], metrics *Metrics) SettingsService {
	return &settingsService{store: store, metrics: metrics, now: func() time.Time { return time.Now().UTC() }}
}

func (s *settingsService) Get(ctx context.Context) (*model.SiteSettings, bool, error) {
	st, err := s.store.Get(ctx, model.SettingsID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.SiteSettings{ID: model.SettingsID}, false, nil
		}
		return nil, false, fmt.Errorf("get settings: %w", err)
	}
	return st, true, nil
}

func (s *settingsService) Save(ctx context.Context, input map[string]any) (*model.SiteSettings, error) {
	patch, err := model.SettingsSchema.Coerce(input)
	if err != nil {
		return nil, coercionError(err)
	}

	cur, _, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := toValues(cur)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		doc[k] = v
	}
	merged, err := fromValues[model.SiteSettings](doc)
	if err != nil {
		return nil, err
	}
	if err := validateRecord(merged); err != nil {
		return nil, err
	}

	now := s.now()
	patch["last_updated"] = now
	err = s.store.Upsert(ctx, model.SettingsID, repository.Fields(patch))
	s.metrics.write(model.CollectionSettings, "upsert", err)
	if err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	merged.ID = model.SettingsID
	merged.LastUpdated = now
	return merged, nil
}
