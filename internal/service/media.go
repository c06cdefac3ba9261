package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"tumanina/internal/model"
	"tumanina/internal/storage"
)

// UploadResult is the public location of an uploaded file.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// MediaService uploads images and videos referenced by records.
type MediaService interface {
	// Upload streams r to object storage under <folder>/<unix-ms>-<filename> with
	// public-read visibility and returns its public URL. Nothing is recorded in the
	// document store; the caller saves the URL on a record.
	Upload(ctx context.Context, r io.Reader, filename, contentType string, size int64, folder string) (*UploadResult, error)
}

type mediaService struct {
	store   storage.Storage
	metrics *Metrics
	now     func() time.Time
}

func NewMediaService(store storage.Storage, metrics *Metrics) MediaService {
	return &mediaService{store: store, metrics: metrics, now: time.Now}
}

func (s *mediaService) Upload(ctx context.Context, r io.Reader, filename, contentType string, size int64, folder string) (*UploadResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if !slices.Contains(model.UploadFolders, folder) {
		return nil, ErrInvalidFolder
	}
	key := folder + "/" + strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + baseName(filename)

	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		PublicRead:  true,
		Metadata: map[string]string{
			"original-filename": mime.QEncoding.Encode("utf-8", filename),
		},
	})
	s.metrics.upload(folder, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	url := info.URL
	if url == "" {
		url = s.store.PublicURL(key)
	}
	return &UploadResult{URL: url, Key: key}, nil
}

// baseName strips any client-supplied directory, including Windows separators.
func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}
