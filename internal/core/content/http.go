// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/sitecms/internal/platform/request"
	"github.com/taibuivan/sitecms/internal/platform/respond"
	"github.com/taibuivan/sitecms/pkg/pagination"
)

// # Handler Implementation

// Handler exposes the content service over HTTP.
//
// # Routing Strategy
//
//   - Public: published records only, mounted at /api/v1/content.
//   - Admin: every status, mounted at /api/v1/admin/content behind the editor role.
type Handler struct {
	service *Service
}

// NewHandler constructs a new content [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PublicRoutes returns the read-only routes visitors reach.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listPublished)
	router.Get("/{locale}/{slug}", handler.getPublishedBySlug)

	return router
}

// AdminRoutes returns the management routes. The caller mounts them behind
// authentication and a role check.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listContent)
	router.Post("/", handler.createContent)
	router.Get("/by-slug/{locale}/{slug}", handler.getContentBySlug)
	router.Get("/{id}", handler.getContent)
	router.Patch("/{id}", handler.updateContent)
	router.Delete("/{id}", handler.deleteContent)

	return router
}

// # Public Endpoints

/*
GET /api/v1/content.

Request:
  - type, locale: exact filters
  - search: case-insensitive substring of title, body or excerpt
  - page, limit: pagination (1-indexed, limit 1..100)

Response:
  - 200: {items, total, page, limit, pages} of published records
*/
func (handler *Handler) listPublished(writer http.ResponseWriter, request *http.Request) {
	filter := filterFromRequest(request)
	filter.Status = StatusPublished

	result, err := handler.service.List(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
GET /api/v1/content/{locale}/{slug}?type=.

Response:
  - 200: Content
  - 404: missing and unpublished records alike
*/
func (handler *Handler) getPublishedBySlug(writer http.ResponseWriter, request *http.Request) {
	record, err := handler.service.GetBySlug(request.Context(), SlugLookup{
		Slug:       requestutil.Param(request, "slug"),
		Locale:     Locale(requestutil.Param(request, "locale")),
		Type:       Type(requestutil.Query(request, "type")),
		PublicOnly: true,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

// # Admin Endpoints

/*
GET /api/v1/admin/content.

Same parameters as the public listing plus an optional status filter.
*/
func (handler *Handler) listContent(writer http.ResponseWriter, request *http.Request) {
	filter := filterFromRequest(request)
	filter.Status = Status(requestutil.Query(request, "status"))

	result, err := handler.service.List(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
POST /api/v1/admin/content.

Description: Creates a record authored by the calling identity. An omitted
slug is generated from the title.

Response:
  - 201: Content
  - 400: validation failure with field details
  - 409: slug already taken in the (locale, type) scope
*/
func (handler *Handler) createContent(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.AuthorID = authorID

	record, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

// GET /api/v1/admin/content/{id}.
func (handler *Handler) getContent(writer http.ResponseWriter, request *http.Request) {
	record, err := handler.service.GetByID(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

// GET /api/v1/admin/content/by-slug/{locale}/{slug}?type=&publicOnly=.
func (handler *Handler) getContentBySlug(writer http.ResponseWriter, request *http.Request) {
	record, err := handler.service.GetBySlug(request.Context(), SlugLookup{
		Slug:       requestutil.Param(request, "slug"),
		Locale:     Locale(requestutil.Param(request, "locale")),
		Type:       Type(requestutil.Query(request, "type")),
		PublicOnly: requestutil.QueryBool(request, "publicOnly"),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
PATCH /api/v1/admin/content/{id}.

Description: Partial update. Omitted fields keep their value; "" clears an
optional text field; "regenerateSlug": true derives a new slug from the title.
*/
func (handler *Handler) updateContent(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Update(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

// DELETE /api/v1/admin/content/{id}.
func (handler *Handler) deleteContent(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func filterFromRequest(request *http.Request) Filter {
	return Filter{
		Type:   Type(requestutil.Query(request, "type")),
		Locale: Locale(requestutil.Query(request, "locale")),
		Search: requestutil.Query(request, "search"),
	}
}
