// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package venue manages the places shows happen at.
package venue

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tcupboard/internal/platform/middleware"
	requestutil "github.com/taibuivan/tcupboard/internal/platform/request"
	"github.com/taibuivan/tcupboard/internal/platform/respond"
	"github.com/taibuivan/tcupboard/internal/platform/sec"
	"github.com/taibuivan/tcupboard/pkg/pagination"
)

type Handler struct {
	service *Service
	guard   middleware.Guard
}

func NewHandler(service *Service, guard middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public
	router.Get("/", handler.listVenues)
	router.Get("/{id}", handler.getVenue)

	// Editors
	router.Group(func(editor chi.Router) {
		editor.Use(handler.guard.Require(sec.RoleEditor))

		editor.Post("/", handler.createVenue)
		editor.Put("/{id}", handler.updateVenue)
	})

	return router
}

/*
GET /api/v1/venues.

Request:
  - q: string (matches name or location)
  - page, limit: int

Response:
  - 200: {data: []Venue, meta: Meta, skipped: []}
*/
func (handler *Handler) listVenues(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get("q"),
	}

	venues, total, err := handler.service.ListVenues(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, venues, pagination.NewMeta(params, total, len(venues)), nil)
}

func (handler *Handler) getVenue(writer http.ResponseWriter, request *http.Request) {
	venueID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	venue, err := handler.service.GetVenue(request.Context(), venueID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, venue)
}

/*
POST /api/v1/venues.

Request:
  - body: Venue (JSON)

Response:
  - 201: Venue: Created object
  - 400: ErrInvalidJSON/Validation: Input errors
  - 401, 403: Editor role required
*/
func (handler *Handler) createVenue(writer http.ResponseWriter, request *http.Request) {
	var input Venue

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateVenue(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateVenue(writer http.ResponseWriter, request *http.Request) {
	venueID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Venue
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateVenue(request.Context(), venueID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}
