package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/kibidoart/kibido-backend/pkg/config"
	pkgerrors "github.com/kibidoart/kibido-backend/pkg/errors"
	"github.com/kibidoart/kibido-backend/pkg/logger"
)

// Service exposes product image upload semantics for the admin panel.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Delete(ctx context.Context, fileName string) error
}

type service struct {
	store    ObjectStore
	baseURL  string
	maxBytes int64
	logg     *logger.Logger
}

// NewService constructs a media service writing to the provided object store.
func NewService(store ObjectStore, cfg config.MediaConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		store:    store,
		baseURL:  strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxBytes: int64(cfg.MaxUploadMB) * 1024 * 1024,
		logg:     logg,
	}, nil
}

// UploadInput models an incoming multipart image upload.
type UploadInput struct {
	FileName  string
	MimeType  string
	SizeBytes int64
	Content   io.Reader
}

// UploadOutput describes the stored image, including the URL the catalog
// references in product image arrays.
type UploadOutput struct {
	FileName    string `json:"file_name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.Content == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file content is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("upload exceeds %d bytes", s.maxBytes))
	}

	mimeType, err := sniffMimeType(input.MimeType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse mime type")
	}
	ext, ok := extensionFor(mimeType)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("only %s are accepted", allowedMimeDescription()))
	}

	key := buildObjectKey(fileName, ext)

	// Cap the reader one byte past the declared size so an understated
	// size_bytes cannot smuggle a larger payload.
	limited := io.LimitReader(input.Content, input.SizeBytes+1)
	written, err := s.store.Save(ctx, key, limited)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload")
	}
	if written > input.SizeBytes {
		_ = s.store.Remove(ctx, key)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upload larger than declared size_bytes")
	}

	s.logg.Info(s.logg.WithField(ctx, "file", key), "image uploaded")

	return &UploadOutput{
		FileName:    key,
		URL:         s.baseURL + "/" + key,
		ContentType: mimeType,
		SizeBytes:   written,
	}, nil
}

// Delete removes a previously uploaded image by its stored file name.
func (s *service) Delete(ctx context.Context, fileName string) error {
	clean := strings.TrimSpace(fileName)
	if clean == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if err := s.store.Remove(ctx, clean); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove upload")
	}
	return nil
}

func buildObjectKey(fileName, ext string) string {
	base := sanitizeFileName(strings.TrimSuffix(path.Base(fileName), path.Ext(fileName)))
	id := uuid.New().String()
	if base == "" {
		return id + ext
	}
	return fmt.Sprintf("%s-%s%s", base, id[:8], ext)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.Trim(b.String(), "-_.")
}
