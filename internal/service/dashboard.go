package service

import (
	"context"

	"go.uber.org/zap"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

// Counter is implemented by every record service.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Stat is one card on the dashboard home.
type Stat struct {
	Collection string `json:"collection"`
	Resource   string `json:"resource"`
	Label      string `json:"label"`
	Count      int    `json:"count"`
}

// DashboardService summarizes the content for the dashboard home.
type DashboardService interface {
	Stats(ctx context.Context) []Stat
}

type dashboardService struct {
	editors []Editor
	users   repository.UserRepository
	logger  *zap.Logger
}

func NewDashboardService(editors []Editor, users repository.UserRepository, logger *zap.Logger) DashboardService {
	return &dashboardService{editors: editors, users: users, logger: logger}
}

// Stats counts records per collection. A failed count is logged and shown as zero.
func (s *dashboardService) Stats(ctx context.Context) []Stat {
	out := make([]Stat, 0, len(s.editors)+1)
	for _, e := range s.editors {
		sc := e.Schema()
		st := Stat{Collection: sc.Collection, Resource: sc.Resource, Label: sc.Plural}
		if c, ok := e.(Counter); ok {
			n, err := c.Count(ctx)
			if err != nil {
				s.logger.Error("count failed", zap.String("collection", sc.Collection), zap.Error(err))
			}
			st.Count = n
		}
		out = append(out, st)
	}
	n, err := s.users.Count(ctx)
	if err != nil {
		s.logger.Error("count failed", zap.String("collection", model.CollectionUsers), zap.Error(err))
	}
	out = append(out, Stat{Collection: model.CollectionUsers, Label: "المستخدمون", Count: n})
	return out
}
