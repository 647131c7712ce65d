// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/taibuivan/tcupboard/internal/platform/apperr"
	"github.com/taibuivan/tcupboard/internal/platform/blob"
	"github.com/taibuivan/tcupboard/internal/platform/constants"
	"github.com/taibuivan/tcupboard/pkg/slug"
	"github.com/taibuivan/tcupboard/pkg/uuid"
)

// FieldImages is the multipart field uploads arrive under.
const FieldImages = "images"

// extensions maps the accepted sniffed content types to the stored file extension.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Upload is one file part accepted for storage.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FromFileHeader adapts a parsed multipart part.
func FromFileHeader(header *multipart.FileHeader) Upload {
	return Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

// Result lists the public paths of stored uploads in request order.
type Result struct {
	Images []string `json:"images"`
}

// Service writes validated uploads to the blob store and maps keys to public paths.
type Service struct {
	store   blob.Store
	baseURL string
	logger  *slog.Logger
}

// NewService returns an upload service. baseURL is the public prefix stored
// keys are served under, e.g. "/assets/images".
func NewService(store blob.Store, baseURL string, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// Save validates every upload before writing any of them, then stores each
// under a fresh key. A failed write removes the files already stored by this call.
func (service *Service) Save(context context.Context, uploads []Upload) (*Result, error) {
	accepted := make([]Upload, 0, len(uploads))
	for _, upload := range uploads {
		if isStrayBlob(upload) {
			service.logger.Debug("upload_blob_ignored", slog.String("filename", upload.Filename))
			continue
		}
		accepted = append(accepted, upload)
	}

	if len(accepted) == 0 {
		return nil, apperr.ValidationError("No files uploaded", apperr.FieldError{Field: FieldImages, Message: "At least one image is required"})
	}
	if len(accepted) > constants.MaxUploadFiles {
		return nil, apperr.ValidationError(
			fmt.Sprintf("At most %d files can be uploaded at once", constants.MaxUploadFiles),
			apperr.FieldError{Field: FieldImages, Message: "Too many files"},
		)
	}

	items := make([]prepared, 0, len(accepted))
	for _, upload := range accepted {
		item, err := prepare(upload)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	result := &Result{Images: make([]string, 0, len(items))}
	stored := make([]string, 0, len(items))

	for _, item := range items {
		if err := service.store.Put(context, item.key, bytes.NewReader(item.data), item.contentType); err != nil {
			service.rollback(context, stored)
			return nil, apperr.Internal(fmt.Errorf("asset: store %s: %w", item.key, err))
		}
		stored = append(stored, item.key)
		result.Images = append(result.Images, service.PathFor(item.key))
	}

	service.logger.Info("upload_stored",
		slog.Int("count", len(stored)),
		slog.String("driver", string(service.store.Driver())),
	)
	return result, nil
}

// Remove deletes the stored upload behind reference. References outside the
// upload prefix (external URLs) are left alone.
func (service *Service) Remove(context context.Context, reference string) error {
	key, ok := service.KeyFor(reference)
	if !ok {
		return nil
	}

	existed, err := service.store.Delete(context, key)
	if err != nil {
		if errors.Is(err, blob.ErrInvalidKey) {
			return apperr.ValidationError("Invalid asset path", apperr.FieldError{Field: "path", Message: "Not an uploaded asset"})
		}
		return apperr.Internal(fmt.Errorf("asset: delete %s: %w", key, err))
	}

	service.logger.Info("upload_removed", slog.String("key", key), slog.Bool("existed", existed))
	return nil
}

// PathFor returns the public path of a stored key.
func (service *Service) PathFor(key string) string {
	return service.baseURL + "/" + key
}

// KeyFor strips the public prefix from reference.
func (service *Service) KeyFor(reference string) (string, bool) {
	key, found := strings.CutPrefix(reference, service.baseURL+"/")
	if !found || key == "" {
		return "", false
	}
	return key, true
}

func (service *Service) rollback(context context.Context, keys []string) {
	for _, key := range keys {
		if _, err := service.store.Delete(context, key); err != nil {
			service.logger.Warn("upload_rollback_failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

// # Validation

type prepared struct {
	key         string
	contentType string
	data        []byte
}

// prepare reads one upload into memory, sniffs its type and assigns a key.
// The declared size is not trusted; the read is bounded by the limit.
func prepare(upload Upload) (prepared, error) {
	if upload.Size > constants.MaxUploadFileBytes {
		return prepared{}, tooLarge(upload.Filename)
	}

	file, err := upload.Open()
	if err != nil {
		return prepared{}, apperr.Internal(fmt.Errorf("asset: open %s: %w", upload.Filename, err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxUploadFileBytes+1))
	if err != nil {
		return prepared{}, apperr.Internal(fmt.Errorf("asset: read %s: %w", upload.Filename, err))
	}
	if len(data) > constants.MaxUploadFileBytes {
		return prepared{}, tooLarge(upload.Filename)
	}

	contentType := http.DetectContentType(data)
	extension, ok := extensions[contentType]
	if !ok {
		return prepared{}, apperr.UnsupportedMediaType(fmt.Sprintf("Unsupported file type: %s", contentType))
	}

	return prepared{key: Key(upload.Filename, extension), contentType: contentType, data: data}, nil
}

// Key builds a storage key from a time-ordered id and the slugged original name.
func Key(filename, extension string) string {
	base := slug.From(strings.TrimSuffix(filename, path.Ext(filename)))
	if base == "" {
		return uuid.New() + extension
	}
	return uuid.New() + "-" + base + extension
}

// isStrayBlob matches the empty preview part some upload widgets send along
// with already stored images.
func isStrayBlob(upload Upload) bool {
	return upload.Filename == "blob" && strings.HasPrefix(upload.ContentType, "text/html")
}

func tooLarge(filename string) error {
	return apperr.PayloadTooLarge(fmt.Sprintf("%s exceeds the %d MiB limit", filename, constants.MaxUploadFileBytes>>20))
}
