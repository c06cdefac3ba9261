package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tumanina/internal/model"
	"tumanina/internal/service"
)

type MockEditor struct {
	mock.Mock
}

var _ service.Editor = (*MockEditor)(nil)

func (m *MockEditor) Schema() model.Schema {
	args := m.Called()
	return args.Get(0).(model.Schema)
}

func (m *MockEditor) Entries(ctx context.Context) ([]service.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Entry), args.Error(1)
}

func (m *MockEditor) Entry(ctx context.Context, id string) (*service.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Entry), args.Error(1)
}

func (m *MockEditor) Defaults(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockEditor) Create(ctx context.Context, input map[string]any) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockEditor) Update(ctx context.Context, id string, input map[string]any) error {
	args := m.Called(ctx, id, input)
	return args.Error(0)
}

func (m *MockEditor) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
