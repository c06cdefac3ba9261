package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"tumanina/internal/service"
)

type MockMediaService struct {
	mock.Mock
}

var _ service.MediaService = (*MockMediaService)(nil)

func (m *MockMediaService) Upload(ctx context.Context, r io.Reader, filename, contentType string, size int64, folder string) (*service.UploadResult, error) {
	args := m.Called(ctx, r, filename, contentType, size, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}
