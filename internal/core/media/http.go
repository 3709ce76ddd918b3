// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/sitecms/internal/platform/apperr"
	"github.com/taibuivan/sitecms/internal/platform/constants"
	"github.com/taibuivan/sitecms/internal/platform/middleware"
	requestutil "github.com/taibuivan/sitecms/internal/platform/request"
	"github.com/taibuivan/sitecms/internal/platform/respond"
	"github.com/taibuivan/sitecms/pkg/pagination"
)

// multipartMemory is how much of a multipart body is buffered before spilling to disk.
const multipartMemory = 8 << 20

// Handler exposes the media registry over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new media [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PublicRoutes serves single media lookups to visitors.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{id}", handler.getMedia)
	return router
}

// AdminRoutes returns the management routes, mounted behind the editor role.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(standard chi.Router) {
		standard.Use(chimw.Timeout(constants.GlobalRequestTimeout))
		standard.Get("/", handler.listMedia)
		standard.Post("/", handler.registerMedia)
		standard.Get("/{id}", handler.getMedia)
		standard.Patch("/{id}", handler.updateMedia)
		standard.Delete("/{id}", handler.deleteMedia)
	})

	// Large bodies on slow links outlast the server-wide read timeout.
	router.With(middleware.ExtendDeadline(constants.UploadTimeout)).Post("/upload", handler.uploadFile)

	return router
}

// GET /api/v1/media/{id}.
func (handler *Handler) getMedia(writer http.ResponseWriter, request *http.Request) {
	record, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

/*
GET /api/v1/admin/media?mime=image/&page=&limit=.

Response:
  - 200: {items, total, page, limit, pages} newest first
*/
func (handler *Handler) listMedia(writer http.ResponseWriter, request *http.Request) {
	filter := Filter{MimePrefix: requestutil.Query(request, "mime")}

	result, err := handler.service.List(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

/*
POST /api/v1/admin/media.

Description: Registers a file the client already stored at a public URL.

Response:
  - 201: Media
  - 400: validation failure
*/
func (handler *Handler) registerMedia(writer http.ResponseWriter, request *http.Request) {
	uploadedBy, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UploadInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.UploadedBy = uploadedBy

	record, err := handler.service.Upload(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

/*
POST /api/v1/admin/media/upload (multipart/form-data).

Request:
  - file: the binary part
  - alt, caption: optional form values

Response:
  - 201: Media with the object store URL
  - 400: missing or oversized file
  - 503: uploads are not configured
*/
func (handler *Handler) uploadFile(writer http.ResponseWriter, request *http.Request) {
	uploadedBy, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes+multipartMemory)
	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		respond.Error(writer, request, fileError("A multipart body within the upload limit is required"))
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	file, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, fileError("This field is required"))
		return
	}
	defer file.Close()

	record, err := handler.service.StoreFile(request.Context(), FileUpload{
		Body:         file,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get(constants.HeaderContentType),
		Size:         header.Size,
		Alt:          optionalFormValue(request, FieldAlt),
		Caption:      optionalFormValue(request, FieldCaption),
		UploadedBy:   uploadedBy,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

// PATCH /api/v1/admin/media/{id} with {"alt"?, "caption"?}.
func (handler *Handler) updateMedia(writer http.ResponseWriter, request *http.Request) {
	var patch DetailsPatch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.UpdateDetails(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

// DELETE /api/v1/admin/media/{id}.
func (handler *Handler) deleteMedia(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func fileError(message string) error {
	return apperr.ValidationError("Invalid upload", apperr.FieldError{Field: FieldFile, Message: message})
}

func optionalFormValue(request *http.Request, name string) *string {
	values, ok := request.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
