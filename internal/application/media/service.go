// Package media accepts file uploads and hands them to the configured store.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// DefaultFolder receives uploads that do not name a folder
	DefaultFolder = "misc"
	// PublicFolder receives every upload made without signing in
	PublicFolder = "documents"
)

var folderPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,39}$`)

// Store persists uploaded bytes and builds their public URL
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(key string) string
}

// Config limits what can be uploaded
type Config struct {
	MaxSize      int64
	AllowedTypes []string
}

// UploadInput is one file from a multipart form
type UploadInput struct {
	FileName string
	Folder   string
	Body     io.Reader
}

// UploadResult describes a stored file
type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Service validates and stores uploads
type Service struct {
	store  Store
	config Config
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new media Service
func NewService(store Store, config Config, logger *zap.Logger) *Service {
	return &Service{store: store, config: config, logger: logger, now: time.Now}
}

// Upload checks size and content type, then stores the file under
// <folder>/<yyyy>/<mm>/<uuid><ext>. The type is sniffed from the bytes; the
// client's file name only contributes a fallback extension.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	folder := strings.ToLower(strings.TrimSpace(in.Folder))
	if folder == "" {
		folder = DefaultFolder
	}
	if !folderPattern.MatchString(folder) {
		return nil, shared.NewValidationError("Invalid upload", []shared.FieldError{
			{Field: "folder", Message: "folder may only contain lowercase letters, digits, '-' and '_'"},
		})
	}

	// read one byte past the limit to detect oversized files without buffering them whole
	data, err := io.ReadAll(io.LimitReader(in.Body, s.config.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, shared.NewValidationError("Invalid upload", []shared.FieldError{
			{Field: "file", Message: "file is empty"},
		})
	}
	if int64(len(data)) > s.config.MaxSize {
		return nil, shared.NewValidationError("Invalid upload", []shared.FieldError{
			{Field: "file", Message: fmt.Sprintf("file exceeds the %d byte limit", s.config.MaxSize)},
		})
	}

	mt := mimetype.Detect(data)
	if !s.allowed(mt) {
		s.logger.Warn("Upload rejected",
			zap.String("content_type", mt.String()),
			zap.String("file_name", in.FileName))
		return nil, shared.NewValidationError("Invalid upload", []shared.FieldError{
			{Field: "file", Message: "file type " + mt.String() + " is not allowed"},
		})
	}

	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(path.Ext(in.FileName))
	}
	now := s.now()
	key := fmt.Sprintf("%s/%04d/%02d/%s%s", folder, now.Year(), int(now.Month()), uuid.NewString(), ext)
	contentType := strings.SplitN(mt.String(), ";", 2)[0]

	if err := s.store.Put(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	s.logger.Info("File uploaded",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)))
	return &UploadResult{
		URL:         s.store.URL(key),
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

func (s *Service) allowed(mt *mimetype.MIME) bool {
	for _, t := range s.config.AllowedTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}
