package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tumanina/internal/model"
	"tumanina/internal/repository"
)

type MockStore[T any] struct {
	mock.Mock
}

var _ repository.Store[model.Article] = (*MockStore[model.Article])(nil)

func (m *MockStore[T]) Collection() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockStore[T]) List(ctx context.Context, q repository.ListQuery) ([]T, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockStore[T]) Get(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockStore[T]) Create(ctx context.Context, rec *T) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *MockStore[T]) Update(ctx context.Context, id string, patch repository.Fields) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockStore[T]) Upsert(ctx context.Context, id string, patch repository.Fields) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockStore[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore[T]) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
