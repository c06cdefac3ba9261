package memory

import (
	"context"
	"strings"
	"sync"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu    sync.RWMutex
	byID  map[string]model.UserProfile
	email map[string]string
}

func NewUsers() *Users {
	return &Users{byID: make(map[string]model.UserProfile), email: make(map[string]string)}
}

var _ repository.UserRepository = (*Users)(nil)

func (u *Users) FindByID(_ context.Context, uid string) (*model.UserProfile, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	p, ok := u.byID[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	u.mu.RLock()
	uid, ok := u.email[strings.ToLower(email)]
	u.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.FindByID(ctx, uid)
}

func (u *Users) Create(_ context.Context, p *model.UserProfile) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.byID[p.UID] = *p
	u.email[strings.ToLower(p.Email)] = p.UID
	return nil
}

func (u *Users) Count(_ context.Context) (int, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.byID), nil
}
