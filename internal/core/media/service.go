// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/taibuivan/sitecms/internal/platform/apperr"
	"github.com/taibuivan/sitecms/internal/platform/constants"
	"github.com/taibuivan/sitecms/internal/platform/validate"
	"github.com/taibuivan/sitecms/pkg/pagination"
	"github.com/taibuivan/sitecms/pkg/pointer"
	"github.com/taibuivan/sitecms/pkg/uuid"
)

const defaultMimeType = "application/octet-stream"

// ObjectStore keeps uploaded bytes at a durable public URL.
type ObjectStore interface {
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Delete removes the object behind url. URLs the store does not own are ignored.
	Delete(ctx context.Context, url string) error
}

// FileUpload is a file pushed through the API instead of registered by URL.
type FileUpload struct {
	Body         io.Reader
	OriginalName string
	MimeType     string
	Size         int64
	Alt          *string
	Caption      *string
	UploadedBy   string
}

// # Service Layer

// Service manages the media registry and, when configured, the stored files.
type Service struct {
	repository Repository
	objects    ObjectStore
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures optional collaborators of a [Service].
type Option func(*Service)

// WithObjectStore enables [Service.StoreFile] and object cleanup on delete.
func WithObjectStore(objects ObjectStore) Option {
	return func(service *Service) {
		service.objects = objects
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(service *Service) {
		service.now = now
	}
}

// NewService constructs a new media [Service].
func NewService(repository Repository, logger *slog.Logger, options ...Option) *Service {
	service := &Service{
		repository: repository,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// # Registration

/*
Upload registers a file that is already stored at input.URL.

Returns:
  - *Media: the stored record with id and uploadedAt
  - error: VALIDATION_ERROR or INTERNAL_ERROR
*/
func (service *Service) Upload(ctx context.Context, input UploadInput) (*Media, error) {
	record := &Media{
		ID:           uuid.New(),
		Filename:     strings.TrimSpace(input.Filename),
		OriginalName: strings.TrimSpace(input.OriginalName),
		MimeType:     strings.ToLower(strings.TrimSpace(input.MimeType)),
		Size:         input.Size,
		URL:          strings.TrimSpace(input.URL),
		Alt:          pointer.NonBlank(input.Alt),
		Caption:      pointer.NonBlank(input.Caption),
		UploadedBy:   strings.TrimSpace(input.UploadedBy),
		UploadedAt:   service.now(),
	}

	if err := validateMedia(record, true); err != nil {
		return nil, err
	}

	if err := service.repository.Create(ctx, record); err != nil {
		return nil, service.persistenceError(ctx, "create_media", record.ID, err)
	}

	service.logger.InfoContext(ctx, "media_registered",
		slog.String("media_id", record.ID),
		slog.String("mime_type", record.MimeType),
		slog.Int64("size", record.Size),
	)

	return record, nil
}

/*
StoreFile pushes an uploaded file to the object store and registers it.

Description: The object key is media/<yyyy>/<mm>/<id><ext>, so the stored
filename never depends on client input beyond the extension. If the registry
write fails the stored object is removed again.

Returns:
  - *Media: the registered record pointing at the durable URL
  - error: SERVICE_UNAVAILABLE when no object store is configured,
    VALIDATION_ERROR, INTERNAL_ERROR
*/
func (service *Service) StoreFile(ctx context.Context, upload FileUpload) (*Media, error) {
	if service.objects == nil {
		return nil, apperr.ServiceUnavailable("File uploads are not configured")
	}

	now := service.now()
	originalName := baseName(upload.OriginalName)
	extension := safeExtension(originalName)

	record := &Media{
		ID:           uuid.New(),
		OriginalName: originalName,
		MimeType:     detectMimeType(upload.MimeType, extension),
		Size:         upload.Size,
		Alt:          pointer.NonBlank(upload.Alt),
		Caption:      pointer.NonBlank(upload.Caption),
		UploadedBy:   strings.TrimSpace(upload.UploadedBy),
		UploadedAt:   now,
	}
	record.Filename = record.ID + extension

	if err := validateMedia(record, false); err != nil {
		return nil, err
	}

	key := path.Join(constants.MediaKeyPrefix, now.Format("2006/01"), record.Filename)
	url, err := service.objects.Put(ctx, key, record.MimeType, upload.Body)
	if err != nil {
		return nil, service.persistenceError(ctx, "put_media_object", record.ID, err)
	}
	record.URL = url

	if err := service.repository.Create(ctx, record); err != nil {
		service.removeObject(ctx, record)
		return nil, service.persistenceError(ctx, "create_media", record.ID, err)
	}

	service.logger.InfoContext(ctx, "media_stored",
		slog.String("media_id", record.ID),
		slog.String("object_key", key),
		slog.String("mime_type", record.MimeType),
		slog.Int64("size", record.Size),
	)

	return record, nil
}

// # Lookups

// List returns one page of media, newest first, optionally narrowed by MIME prefix.
func (service *Service) List(ctx context.Context, filter Filter, params pagination.Params) (pagination.Result[*Media], error) {
	params = params.Normalize()
	filter.MimePrefix = strings.ToLower(strings.TrimSpace(filter.MimePrefix))

	items, total, err := service.repository.List(ctx, filter, params.Limit, params.Offset())
	if err != nil {
		return pagination.Result[*Media]{}, service.persistenceError(ctx, "list_media", "", err)
	}

	return pagination.NewResult(items, total, params), nil
}

// Get returns a media record. Malformed ids are NOT_FOUND.
func (service *Service) Get(ctx context.Context, id string) (*Media, error) {
	if !uuid.Valid(id) {
		return nil, errNotFound()
	}

	record, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, service.persistenceError(ctx, "get_media", id, err)
	}
	return record, nil
}

// # Mutations

// UpdateDetails changes alt text and caption, the only mutable fields.
func (service *Service) UpdateDetails(ctx context.Context, id string, patch DetailsPatch) (*Media, error) {
	record, err := service.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Alt != nil {
		record.Alt = pointer.NonBlank(patch.Alt)
	}
	if patch.Caption != nil {
		record.Caption = pointer.NonBlank(patch.Caption)
	}

	validator := &validate.Validator{}
	validateDetails(validator, record)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateDetails(ctx, record); err != nil {
		return nil, service.persistenceError(ctx, "update_media", id, err)
	}

	service.logger.InfoContext(ctx, "media_updated", slog.String("media_id", id))
	return record, nil
}

// Delete removes the record and, best effort, the stored object.
func (service *Service) Delete(ctx context.Context, id string) error {
	record, err := service.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		return service.persistenceError(ctx, "delete_media", id, err)
	}

	service.removeObject(ctx, record)

	service.logger.InfoContext(ctx, "media_deleted", slog.String("media_id", id))
	return nil
}

// # Internal Helpers

func (service *Service) removeObject(ctx context.Context, record *Media) {
	if service.objects == nil {
		return
	}
	if err := service.objects.Delete(ctx, record.URL); err != nil {
		service.logger.WarnContext(ctx, "media_object_delete_failed",
			slog.String("media_id", record.ID),
			slog.Any("error", err),
		)
	}
}

// validateMedia checks a record before registration. The URL of a stored file
// is only known after the object write, so withURL is false there.
func validateMedia(record *Media, withURL bool) error {
	validator := &validate.Validator{}

	validator.
		Required(FieldOriginalName, record.OriginalName).
		Required(FieldUploadedBy, record.UploadedBy).
		Required(FieldMimeType, record.MimeType).
		Custom(FieldSize, record.Size < 0, "Must not be negative")

	if record.MimeType != "" {
		validator.MimeType(FieldMimeType, record.MimeType)
	}

	if withURL {
		validator.Required(FieldFilename, record.Filename)
		validator.URL(FieldURL, record.URL)
	} else {
		validator.Custom(FieldFile, record.Size > constants.MaxUploadBytes, "File is too large")
	}

	validateDetails(validator, record)
	return validator.Err()
}

func validateDetails(validator *validate.Validator, record *Media) {
	if record.Alt != nil {
		validator.MaxLen(FieldAlt, *record.Alt, constants.MaxMediaTextLength)
	}
	if record.Caption != nil {
		validator.MaxLen(FieldCaption, *record.Caption, constants.MaxMediaTextLength)
	}
}

// detectMimeType prefers the declared type and falls back to the extension.
func detectMimeType(declared, extension string) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != defaultMimeType {
		return strings.ToLower(mediaType)
	}
	if byExtension := mime.TypeByExtension(extension); byExtension != "" {
		if mediaType, _, err := mime.ParseMediaType(byExtension); err == nil {
			return mediaType
		}
	}
	return defaultMimeType
}

// safeExtension returns the lowercased extension when it is short and
// alphanumeric, so object keys stay URL safe. Anything else is dropped.
func safeExtension(name string) string {
	extension := strings.ToLower(path.Ext(name))
	if len(extension) < 2 || len(extension) > 10 {
		return ""
	}
	for _, r := range extension[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return extension
}

// baseName strips any client-side directory, including Windows separators.
func baseName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return ""
	}
	return path.Base(name)
}

func (service *Service) persistenceError(ctx context.Context, operation, id string, err error) error {
	if appErr := apperr.As(err); appErr != nil && appErr.Code != apperr.CodeInternal {
		return err
	}

	service.logger.ErrorContext(ctx, "media_persistence_failed",
		slog.String("operation", operation),
		slog.String("media_id", id),
		slog.Any("error", err),
	)

	if apperr.As(err) != nil {
		return err
	}
	return apperr.Internal(err)
}
