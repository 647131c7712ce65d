// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package act manages the registry of performing acts.

Stored act rows come from several schema revisions, so reads fetch raw rows and
run them through [FormatRow]; list reads report undecodable records in a
"skipped" list instead of failing. Writes merge submitted images with the kept
ones under a fixed cap.

# Routing Strategy

  - Public (v1): list, detail and edit-form prefill.
  - Restricted (v1): add and edit require the editor role.
*/
package act

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tcupboard/internal/platform/middleware"
	requestutil "github.com/taibuivan/tcupboard/internal/platform/request"
	"github.com/taibuivan/tcupboard/internal/platform/respond"
	"github.com/taibuivan/tcupboard/internal/platform/sec"
	"github.com/taibuivan/tcupboard/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the act registry.
type Handler struct {
	service *Service
	guard   middleware.Guard
}

// NewHandler constructs an act [Handler]. guard protects the write routes.
func NewHandler(service *Service, guard middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns a [chi.Router] configured with the act endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public
	router.Get("/", handler.listActs)
	router.Get("/{id}", handler.getAct)
	router.Get("/{id}/edit", handler.getEditForm)

	// ## Editors
	router.Group(func(editor chi.Router) {
		editor.Use(handler.guard.Require(sec.RoleEditor))

		editor.Post("/", handler.createAct)
		editor.Put("/{id}", handler.updateAct)
	})

	return router
}

/*
GET /api/v1/acts.

Description: Lists acts ordered by name. Records whose stored fields cannot be
decoded are left out and listed under "skipped".

Request:
  - q: string (name substring)
  - genre: string (exact genre tag)
  - page, limit: int

Response:
  - 200: {data: []Act, meta: Meta, skipped: []Skipped}
*/
func (handler *Handler) listActs(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{
		Query: request.URL.Query().Get("q"),
		Genre: request.URL.Query().Get("genre"),
	}

	page, err := handler.service.ListActs(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Acts, pagination.NewMeta(params, page.Total, len(page.Acts)), page.Skipped)
}

/*
GET /api/v1/acts/{id}.

Response:
  - 200: Act
  - 404: ErrNotFound
  - 422: UNPROCESSABLE: Stored record is malformed
*/
func (handler *Handler) getAct(writer http.ResponseWriter, request *http.Request) {
	actID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	act, err := handler.service.GetAct(request.Context(), actID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, act)
}

/*
GET /api/v1/acts/{id}/edit.

Description: Returns the formatted act together with the option lists the edit
screen needs.

Response:
  - 200: EditForm
  - 404: ErrNotFound
*/
func (handler *Handler) getEditForm(writer http.ResponseWriter, request *http.Request) {
	actID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	form, err := handler.service.GetEditForm(request.Context(), actID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, form)
}

/*
POST /api/v1/acts.

Description: Adds an act. Accepts JSON, urlencoded or multipart bodies.

Request (Body):
  - Form fields; images are paths returned by POST /uploads
  - truncate: bool (drop uploads past the image cap instead of failing)

Response:
  - 201: Act
  - 400: VALIDATION_ERROR
  - 422: CAPACITY_EXCEEDED: Too many images
*/
func (handler *Handler) createAct(writer http.ResponseWriter, request *http.Request) {
	form, err := ParseForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	act, err := handler.service.CreateAct(request.Context(), form)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, act)
}

/*
PUT /api/v1/acts/{id}.

Description: Replaces an act. Omitting existing_images keeps the stored images.

Response:
  - 200: Act
  - 400: VALIDATION_ERROR
  - 404: ErrNotFound
  - 422: CAPACITY_EXCEEDED
*/
func (handler *Handler) updateAct(writer http.ResponseWriter, request *http.Request) {
	actID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	form, err := ParseForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	act, err := handler.service.UpdateAct(request.Context(), actID, form)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, act)
}
