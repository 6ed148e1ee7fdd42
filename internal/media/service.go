package media

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "movierating/internal/errors"
)

var (
	// ErrNoFile is returned when the request carries no file part or an empty filename.
	ErrNoFile = apperrors.New(apperrors.ErrValidation, "no file provided")
	// ErrUnsupportedType is returned for extensions outside the whitelist.
	ErrUnsupportedType = apperrors.New(apperrors.ErrUnsupportedMedia, "file type not allowed")
	// ErrFileTooLarge is returned when the file exceeds the size limit.
	ErrFileTooLarge = apperrors.New(apperrors.ErrTooLarge, "file too large")
)

// Upload describes a stored file.
type Upload struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Service validates uploads and hands them to a BlobStore.
type Service struct {
	store   BlobStore
	allowed map[string]struct{}
	maxSize int64
}

// NewService creates an upload service. Extensions are matched
// case-insensitively, with or without a leading dot. maxSize <= 0 disables
// the size check.
func NewService(store BlobStore, allowedExtensions []string, maxSize int64) *Service {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}
	return &Service{store: store, allowed: allowed, maxSize: maxSize}
}

// Allowed reports whether filename carries a whitelisted extension.
func (s *Service) Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := s.allowed[ext]
	return ok
}

// Upload stores file under a fresh random key that keeps the original extension.
func (s *Service) Upload(ctx context.Context, file *multipart.FileHeader) (*Upload, error) {
	if file == nil || strings.TrimSpace(file.Filename) == "" {
		return nil, ErrNoFile
	}
	filename := filepath.Base(file.Filename)
	if !s.Allowed(filename) {
		return nil, ErrUnsupportedType
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	key := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	if err := s.store.Put(ctx, key, src, file.Size, file.Header.Get("Content-Type")); err != nil {
		return nil, apperrors.Internal(err)
	}

	return &Upload{Key: key, Filename: filename, Size: file.Size}, nil
}
