// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sitecms/internal/core/media"
	"github.com/taibuivan/sitecms/internal/platform/ctxutil"
	"github.com/taibuivan/sitecms/internal/platform/sec"
	"github.com/taibuivan/sitecms/pkg/pagination"
)

// asEditor stands in for the authentication middleware.
func asEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := &sec.AuthClaims{UserID: "editor-4", Role: string(sec.RoleEditor)}
		next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
	})
}

func newRouter(service *media.Service) http.Handler {
	handler := media.NewHandler(service)

	router := chi.NewRouter()
	router.Mount("/media", handler.PublicRoutes())
	router.With(asEditor).Mount("/admin/media", handler.AdminRoutes())
	return router
}

func multipartBody(t *testing.T, filename, contentType, data string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if filename != "" {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
		header["Content-Type"] = []string{contentType}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(data))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHTTP_UploadFile(t *testing.T) {
	objects := newMemoryObjects()
	router := newRouter(newService(t, media.NewMemoryRepository(), media.WithObjectStore(objects)))

	body, contentType := multipartBody(t, "office.jpg", "image/jpeg", "jpeg-bytes", map[string]string{"alt": "Front desk"})
	request := httptest.NewRequest(http.MethodPost, "/admin/media/upload", body)
	request.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data media.Media `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "office.jpg", envelope.Data.OriginalName)
	assert.Equal(t, "image/jpeg", envelope.Data.MimeType)
	assert.Equal(t, int64(len("jpeg-bytes")), envelope.Data.Size)
	assert.Equal(t, "editor-4", envelope.Data.UploadedBy)
	assert.Equal(t, "Front desk", *envelope.Data.Alt)
	assert.True(t, strings.HasPrefix(envelope.Data.URL, cdnBase+"media/"))

	public := httptest.NewRecorder()
	router.ServeHTTP(public, httptest.NewRequest(http.MethodGet, "/media/"+envelope.Data.ID, nil))
	assert.Equal(t, http.StatusOK, public.Code)
}

func TestHTTP_UploadFileErrors(t *testing.T) {
	router := newRouter(newService(t, media.NewMemoryRepository(), media.WithObjectStore(newMemoryObjects())))

	body, contentType := multipartBody(t, "", "", "", map[string]string{"alt": "no file"})
	request := httptest.NewRequest(http.MethodPost, "/admin/media/upload", body)
	request.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	notMultipart := httptest.NewRequest(http.MethodPost, "/admin/media/upload", strings.NewReader(`{}`))
	notMultipart.Header.Set("Content-Type", "application/json")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, notMultipart)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	disabled := newRouter(newService(t, media.NewMemoryRepository()))
	body, contentType = multipartBody(t, "a.png", "image/png", "x", nil)
	request = httptest.NewRequest(http.MethodPost, "/admin/media/upload", body)
	request.Header.Set("Content-Type", contentType)
	recorder = httptest.NewRecorder()
	disabled.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestHTTP_RegisterAndManage(t *testing.T) {
	service := newService(t, media.NewMemoryRepository())
	router := newRouter(service)

	payload := `{"filename":"map.png","originalName":"map.png","mimeType":"image/png","size":10,"url":"https://cdn.example.com/ext/map.png"}`
	request := httptest.NewRequest(http.MethodPost, "/admin/media", strings.NewReader(payload))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	listed, err := service.List(context.Background(), media.Filter{MimePrefix: "image/"}, pagination.New(1, 10))
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	id := listed.Items[0].ID
	assert.Equal(t, "editor-4", listed.Items[0].UploadedBy)

	list := httptest.NewRecorder()
	router.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/admin/media?mime=image/", nil))
	assert.Equal(t, http.StatusOK, list.Code)

	patch := httptest.NewRecorder()
	router.ServeHTTP(patch, httptest.NewRequest(http.MethodPatch, "/admin/media/"+id, strings.NewReader(`{"caption":"Campus map"}`)))
	assert.Equal(t, http.StatusOK, patch.Code)

	immutable := httptest.NewRecorder()
	router.ServeHTTP(immutable, httptest.NewRequest(http.MethodPatch, "/admin/media/"+id, strings.NewReader(`{"url":"https://evil.example.com/x"}`)))
	assert.Equal(t, http.StatusBadRequest, immutable.Code)

	deleted := httptest.NewRecorder()
	router.ServeHTTP(deleted, httptest.NewRequest(http.MethodDelete, "/admin/media/"+id, nil))
	assert.Equal(t, http.StatusNoContent, deleted.Code)

	gone := httptest.NewRecorder()
	router.ServeHTTP(gone, httptest.NewRequest(http.MethodGet, "/media/"+id, nil))
	assert.Equal(t, http.StatusNotFound, gone.Code)
}
