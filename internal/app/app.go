// Package app assembles the stores, storage, session registry and services selected
// by configuration. Both the server and the content CLI start from here.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tumanina/internal/config"
	"tumanina/internal/database"
	"tumanina/internal/database/migration"
	"tumanina/internal/model"
	"tumanina/internal/repository"
	"tumanina/internal/repository/firestore"
	"tumanina/internal/repository/memory"
	"tumanina/internal/repository/mongo"
	"tumanina/internal/repository/postgres"
	"tumanina/internal/service"
	"tumanina/internal/session"
	"tumanina/internal/storage"
)

// Stores are the record collections and the account store of one backend.
type Stores struct {
	Articles  repository.Store[model.Article]
	Reminders repository.Store[model.ReminderTemplate]
	Screening repository.Store[model.ScreeningSchedule]
	Steps     repository.Store[model.SelfExamStep]
	Warnings  repository.Store[model.WarningSign]
	Settings  repository.Store[model.SiteSettings]
	Users     repository.UserRepository

	// Ping reports backend health for /health.
	Ping func(ctx context.Context) error
	// Close releases the backend connection.
	Close func() error
}

// OpenStores connects to the configured document store. The postgres backend
// creates its schema on first start.
func OpenStores(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Stores, error) {
	switch cfg.DocStoreDriver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return postgresStores(db), nil

	case config.DriverMongo:
		client, db, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		s := &Stores{
			Articles:  mongo.NewCollection[model.Article](db, model.CollectionArticles),
			Reminders: mongo.NewCollection[model.ReminderTemplate](db, model.CollectionReminders),
			Screening: mongo.NewCollection[model.ScreeningSchedule](db, model.CollectionScreening),
			Steps:     mongo.NewCollection[model.SelfExamStep](db, model.CollectionSteps),
			Warnings:  mongo.NewCollection[model.WarningSign](db, model.CollectionWarnings),
			Settings:  mongo.NewCollection[model.SiteSettings](db, model.CollectionSettings),
			Users:     mongo.NewUsers(db),
			Ping:      func(ctx context.Context) error { return client.Ping(ctx, nil) },
			Close:     func() error { return client.Disconnect(context.Background()) },
		}
		return s, nil

	case config.DriverFirestore:
		client, err := database.NewFirestore(ctx, cfg.Firestore)
		if err != nil {
			return nil, fmt.Errorf("connect firestore: %w", err)
		}
		s := &Stores{
			Articles:  firestore.NewCollection[model.Article](client, model.CollectionArticles),
			Reminders: firestore.NewCollection[model.ReminderTemplate](client, model.CollectionReminders),
			Screening: firestore.NewCollection[model.ScreeningSchedule](client, model.CollectionScreening),
			Steps:     firestore.NewCollection[model.SelfExamStep](client, model.CollectionSteps),
			Warnings:  firestore.NewCollection[model.WarningSign](client, model.CollectionWarnings),
			Settings:  firestore.NewCollection[model.SiteSettings](client, model.CollectionSettings),
			Users:     firestore.NewUsers(client),
			Ping: func(ctx context.Context) error {
				_, err := client.Collection(model.CollectionSettings).Limit(1).Documents(ctx).GetAll()
				return err
			},
			Close: client.Close,
		}
		return s, nil

	case config.DriverMemory:
		logger.Warn("using in-memory document store; content is lost on restart")
		return MemoryStores(), nil

	default:
		return nil, fmt.Errorf("unknown docstore driver %q", cfg.DocStoreDriver)
	}
}

func postgresStores(db *sql.DB) *Stores {
	return &Stores{
		Articles:  postgres.NewCollection[model.Article](db, model.CollectionArticles),
		Reminders: postgres.NewCollection[model.ReminderTemplate](db, model.CollectionReminders),
		Screening: postgres.NewCollection[model.ScreeningSchedule](db, model.CollectionScreening),
		Steps:     postgres.NewCollection[model.SelfExamStep](db, model.CollectionSteps),
		Warnings:  postgres.NewCollection[model.WarningSign](db, model.CollectionWarnings),
		Settings:  postgres.NewCollection[model.SiteSettings](db, model.CollectionSettings),
		Users:     postgres.NewUserPostgres(db),
		Ping:      db.PingContext,
		Close:     db.Close,
	}
}

// MemoryStores returns empty in-process stores.
func MemoryStores() *Stores {
	return &Stores{
		Articles:  memory.NewCollection[model.Article](model.CollectionArticles),
		Reminders: memory.NewCollection[model.ReminderTemplate](model.CollectionReminders),
		Screening: memory.NewCollection[model.ScreeningSchedule](model.CollectionScreening),
		Steps:     memory.NewCollection[model.SelfExamStep](model.CollectionSteps),
		Warnings:  memory.NewCollection[model.WarningSign](model.CollectionWarnings),
		Settings:  memory.NewCollection[model.SiteSettings](model.CollectionSettings),
		Users:     memory.NewUsers(),
		Ping:      func(context.Context) error { return nil },
		Close:     func() error { return nil },
	}
}

// OpenStorage builds the configured object storage client.
func OpenStorage(ctx context.Context, cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		return storage.NewS3(ctx, cfg.S3)
	case config.StorageMinIO:
		return storage.NewMinIO(ctx, cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// OpenSessions returns the Redis session registry when REDIS_ADDR is set and the
// in-process registry otherwise. The close func releases the Redis client.
func OpenSessions(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (session.Registry, func() error, error) {
	if cfg.Addr == "" {
		logger.Warn("REDIS_ADDR not set; sessions are kept in memory and lost on restart")
		return session.NewMemory(), func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return session.NewRedis(client), client.Close, nil
}

// Services are the application services shared by the JSON API and the HTML site.
type Services struct {
	Articles  *service.Records[model.Article, *model.Article]
	Reminders *service.Records[model.ReminderTemplate, *model.ReminderTemplate]
	Screening *service.Records[model.ScreeningSchedule, *model.ScreeningSchedule]
	Steps     *service.Records[model.SelfExamStep, *model.SelfExamStep]
	Warnings  *service.Records[model.WarningSign, *model.WarningSign]

	Settings  service.SettingsService
	Media     service.MediaService
	Auth      service.AuthService
	Site      service.SiteService
	Dashboard service.DashboardService
}

// Editors lists the record editors in dashboard navigation order.
func (s *Services) Editors() []service.Editor {
	return []service.Editor{s.Articles, s.Reminders, s.Screening, s.Steps, s.Warnings}
}

// ServiceDeps are the infrastructure the services are built on.
type ServiceDeps struct {
	Stores   *Stores
	Storage  storage.Storage
	Sessions session.Registry
	Secret   []byte
	TTL      time.Duration
	// Registerer receives the content metrics; nil disables them.
	Registerer prometheus.Registerer
	Logger     *zap.Logger
}

// NewServices wires the services over d.
func NewServices(d ServiceDeps) (*Services, error) {
	if d.Stores == nil || d.Sessions == nil {
		return nil, errors.New("stores and session registry are required")
	}
	var metrics *service.Metrics
	if d.Registerer != nil {
		m, err := service.NewMetrics(d.Registerer)
		if err != nil {
			return nil, fmt.Errorf("register content metrics: %w", err)
		}
		metrics = m
	}

	st := d.Stores
	s := &Services{
		Articles:  service.NewRecords[model.Article](st.Articles, model.ArticleSchema, metrics),
		Reminders: service.NewRecords[model.ReminderTemplate](st.Reminders, model.ReminderSchema, metrics),
		Screening: service.NewRecords[model.ScreeningSchedule](st.Screening, model.ScreeningSchema, metrics),
		Steps:     service.NewRecords[model.SelfExamStep](st.Steps, model.SelfExamSchema, metrics),
		Warnings:  service.NewRecords[model.WarningSign](st.Warnings, model.WarningSchema, metrics),
		Settings:  service.NewSettingsService(st.Settings, metrics),
		Auth:      service.NewAuthService(st.Users, d.Sessions, d.Secret, d.TTL),
	}
	if d.Storage != nil {
		s.Media = service.NewMediaService(d.Storage, metrics)
	}
	s.Site = service.NewSiteService(service.SiteDeps{
		Articles:  s.Articles,
		Steps:     s.Steps,
		Screening: s.Screening,
		Warnings:  s.Warnings,
		Settings:  s.Settings,
	}, d.Logger)
	s.Dashboard = service.NewDashboardService(s.Editors(), st.Users, d.Logger)
	return s, nil
}
