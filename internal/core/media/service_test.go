// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sitecms/internal/core/media"
	"github.com/taibuivan/sitecms/internal/platform/apperr"
	"github.com/taibuivan/sitecms/pkg/pagination"
	"github.com/taibuivan/sitecms/pkg/pointer"
	"github.com/taibuivan/sitecms/pkg/uuid"
)

const cdnBase = "https://cdn.example.com/"

type memoryObjects struct {
	mu        sync.Mutex
	objects   map[string]string
	types     map[string]string
	failPut   bool
	failClean bool
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: map[string]string{}, types: map[string]string{}}
}

func (store *memoryObjects) Put(_ context.Context, key, contentType string, body io.Reader) (string, error) {
	if store.failPut {
		return "", errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	store.objects[key] = string(data)
	store.types[key] = contentType
	return cdnBase + key, nil
}

func (store *memoryObjects) Delete(_ context.Context, url string) error {
	if store.failClean {
		return errors.New("bucket unavailable")
	}
	key, ok := strings.CutPrefix(url, cdnBase)
	if !ok {
		return nil
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.objects, key)
	return nil
}

func (store *memoryObjects) count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.objects)
}

// failingCreate rejects every registry write.
type failingCreate struct {
	*media.MemoryRepository
}

func (failingCreate) Create(context.Context, *media.Media) error {
	return errors.New("connection reset")
}

func newService(t *testing.T, repository media.Repository, options ...media.Option) *media.Service {
	t.Helper()

	current := time.Date(2026, 5, 20, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}

	options = append([]media.Option{media.WithClock(clock)}, options...)
	return media.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil)), options...)
}

func imageInput(name string) media.UploadInput {
	return media.UploadInput{
		Filename:     name,
		OriginalName: name,
		MimeType:     "image/png",
		Size:         2048,
		URL:          cdnBase + "external/" + name,
		UploadedBy:   "editor-1",
	}
}

func TestUpload(t *testing.T) {
	service := newService(t, media.NewMemoryRepository())

	input := imageInput("hero.png")
	input.Alt = pointer.To("  Lobby  ")
	input.Caption = pointer.To("   ")

	record, err := service.Upload(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, uuid.Valid(record.ID))
	assert.Equal(t, "Lobby", pointer.Val(record.Alt))
	assert.Nil(t, record.Caption)
	assert.False(t, record.UploadedAt.IsZero())

	stored, err := service.Get(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record, stored)
}

func TestUpload_Validation(t *testing.T) {
	service := newService(t, media.NewMemoryRepository())

	tests := []struct {
		name   string
		mutate func(*media.UploadInput)
		field  string
	}{
		{"missing_filename", func(in *media.UploadInput) { in.Filename = "" }, media.FieldFilename},
		{"missing_original_name", func(in *media.UploadInput) { in.OriginalName = " " }, media.FieldOriginalName},
		{"relative_url", func(in *media.UploadInput) { in.URL = "/uploads/hero.png" }, media.FieldURL},
		{"non_http_url", func(in *media.UploadInput) { in.URL = "ftp://files.example.com/hero.png" }, media.FieldURL},
		{"bad_mime", func(in *media.UploadInput) { in.MimeType = "png" }, media.FieldMimeType},
		{"negative_size", func(in *media.UploadInput) { in.Size = -1 }, media.FieldSize},
		{"missing_uploader", func(in *media.UploadInput) { in.UploadedBy = "" }, media.FieldUploadedBy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := imageInput("hero.png")
			tt.mutate(&input)

			_, err := service.Upload(context.Background(), input)
			require.Error(t, err)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)

			var fields []string
			for _, detail := range appErr.Details {
				fields = append(fields, detail.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestList_FilterAndPagination(t *testing.T) {
	ctx := context.Background()
	service := newService(t, media.NewMemoryRepository())

	for i := range 12 {
		_, err := service.Upload(ctx, imageInput(fmt.Sprintf("photo-%02d.png", i)))
		require.NoError(t, err)
	}
	pdf := imageInput("brochure.pdf")
	pdf.MimeType = "application/pdf"
	newest, err := service.Upload(ctx, pdf)
	require.NoError(t, err)

	all, err := service.List(ctx, media.Filter{}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 13, all.Total)
	assert.Equal(t, 2, all.Pages)
	require.Len(t, all.Items, 10)
	assert.Equal(t, newest.ID, all.Items[0].ID)

	images, err := service.List(ctx, media.Filter{MimePrefix: "IMAGE/"}, pagination.New(2, 10))
	require.NoError(t, err)
	assert.Equal(t, 12, images.Total)
	assert.Len(t, images.Items, 2)

	none, err := service.List(ctx, media.Filter{MimePrefix: "video/"}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Zero(t, none.Total)
	assert.NotNil(t, none.Items)
}

func TestUpdateDetails(t *testing.T) {
	ctx := context.Background()
	service := newService(t, media.NewMemoryRepository())

	input := imageInput("team.png")
	input.Alt = pointer.To("Team")
	record, err := service.Upload(ctx, input)
	require.NoError(t, err)

	updated, err := service.UpdateDetails(ctx, record.ID, media.DetailsPatch{Caption: pointer.To("Our team in 2026")})
	require.NoError(t, err)
	assert.Equal(t, "Team", pointer.Val(updated.Alt))
	assert.Equal(t, "Our team in 2026", pointer.Val(updated.Caption))
	assert.Equal(t, record.URL, updated.URL)

	cleared, err := service.UpdateDetails(ctx, record.ID, media.DetailsPatch{Alt: pointer.To("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Alt)

	_, err = service.UpdateDetails(ctx, record.ID, media.DetailsPatch{Alt: pointer.To(strings.Repeat("a", 1001))})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.UpdateDetails(ctx, uuid.New(), media.DetailsPatch{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	objects := newMemoryObjects()
	service := newService(t, media.NewMemoryRepository(), media.WithObjectStore(objects))

	stored, err := service.StoreFile(ctx, media.FileUpload{
		Body: strings.NewReader("png-bytes"), OriginalName: "logo.png", Size: 9, UploadedBy: "editor-1",
	})
	require.NoError(t, err)
	require.Equal(t, 1, objects.count())

	require.NoError(t, service.Delete(ctx, stored.ID))
	assert.Zero(t, objects.count())

	err = service.Delete(ctx, stored.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.Get(ctx, stored.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.Get(ctx, "not-a-uuid")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestDelete_ObjectCleanupFailureIsNotSurfaced(t *testing.T) {
	ctx := context.Background()
	objects := newMemoryObjects()
	service := newService(t, media.NewMemoryRepository(), media.WithObjectStore(objects))

	stored, err := service.StoreFile(ctx, media.FileUpload{
		Body: strings.NewReader("bytes"), OriginalName: "a.pdf", Size: 5, UploadedBy: "editor-1",
	})
	require.NoError(t, err)

	objects.failClean = true
	require.NoError(t, service.Delete(ctx, stored.ID))

	_, err = service.Get(ctx, stored.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestStoreFile(t *testing.T) {
	ctx := context.Background()
	objects := newMemoryObjects()
	service := newService(t, media.NewMemoryRepository(), media.WithObjectStore(objects))

	record, err := service.StoreFile(ctx, media.FileUpload{
		Body:         strings.NewReader("%PDF-1.7"),
		OriginalName: `C:\Users\pat\Desktop\Annual Report.PDF`,
		MimeType:     "application/octet-stream",
		Size:         8,
		Caption:      pointer.To("2025 report"),
		UploadedBy:   "editor-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Annual Report.PDF", record.OriginalName)
	assert.Equal(t, record.ID+".pdf", record.Filename)
	assert.Equal(t, "application/pdf", record.MimeType)
	assert.Equal(t, cdnBase+"media/2026/05/"+record.Filename, record.URL)
	assert.Equal(t, "2025 report", pointer.Val(record.Caption))

	key := "media/2026/05/" + record.Filename
	assert.Equal(t, "%PDF-1.7", objects.objects[key])
	assert.Equal(t, "application/pdf", objects.types[key])

	declared, err := service.StoreFile(ctx, media.FileUpload{
		Body: strings.NewReader("x"), OriginalName: "photo", MimeType: "Image/JPEG", Size: 1, UploadedBy: "editor-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", declared.MimeType)
}

func TestStoreFile_Errors(t *testing.T) {
	ctx := context.Background()
	upload := media.FileUpload{Body: strings.NewReader("x"), OriginalName: "a.png", Size: 1, UploadedBy: "editor-1"}

	disabled := newService(t, media.NewMemoryRepository())
	_, err := disabled.StoreFile(ctx, upload)
	assert.True(t, apperr.HasCode(err, apperr.CodeServiceUnavailable))

	objects := newMemoryObjects()
	service := newService(t, media.NewMemoryRepository(), media.WithObjectStore(objects))

	tooLarge := upload
	tooLarge.Size = 64 << 20
	_, err = service.StoreFile(ctx, tooLarge)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	anonymous := upload
	anonymous.OriginalName = ""
	_, err = service.StoreFile(ctx, anonymous)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Zero(t, objects.count())

	objects.failPut = true
	_, err = service.StoreFile(ctx, upload)
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}

func TestStoreFile_RegistryFailureRemovesObject(t *testing.T) {
	objects := newMemoryObjects()
	service := newService(t, failingCreate{media.NewMemoryRepository()}, media.WithObjectStore(objects))

	_, err := service.StoreFile(context.Background(), media.FileUpload{
		Body: strings.NewReader("x"), OriginalName: "a.png", Size: 1, UploadedBy: "editor-1",
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
	assert.Zero(t, objects.count())
}
