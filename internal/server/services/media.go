package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/travelbook/internal/common"
	"github.com/dmitrijs2005/travelbook/internal/server/media"
	"github.com/google/uuid"
)

// MediaService names uploaded images and maps them to public URLs.
type MediaService struct {
	store   media.Store
	baseURL string
}

func NewMediaService(store media.Store, baseURL string) *MediaService {
	return &MediaService{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores body under a fresh "<uuid><ext>" name and returns its URL.
func (s *MediaService) Upload(ctx context.Context, originalName string, body io.Reader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	if err := s.store.Save(ctx, name, body); err != nil {
		return "", fmt.Errorf("error saving image: %w", err)
	}
	return s.URL(name), nil
}

// Delete removes the image an URL produced by Upload points to.
func (s *MediaService) Delete(ctx context.Context, imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return fmt.Errorf("%w: imageUrl is required", common.ErrorValidation)
	}

	name := objectName(imageURL)
	if err := s.store.Delete(ctx, name); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: image not found", common.ErrorNotFound)
		}
		return fmt.Errorf("error deleting image: %w", err)
	}
	return nil
}

func (s *MediaService) URL(name string) string {
	return s.baseURL + common.UploadsPathPrefix + name
}

// IsUpload reports whether imageURL names a file under this server's
// uploads path.
func (s *MediaService) IsUpload(imageURL string) bool {
	prefix := s.URL("")
	return len(imageURL) > len(prefix) && strings.HasPrefix(imageURL, prefix)
}

// PlaceholderURL is the image used by stories saved without one.
func (s *MediaService) PlaceholderURL() string {
	return s.baseURL + common.PlaceholderImagePath
}

func objectName(imageURL string) string {
	if u, err := url.Parse(imageURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(imageURL)
}
