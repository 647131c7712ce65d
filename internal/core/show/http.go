// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package show manages scheduled shows and resolves their participants.

A show stores its participants as one comma-joined text field with no link to
the act registry. Every read splits that text and resolves the names against
the registry by case-insensitive exact match, with one batched lookup per
response page. Resolution is never stored, so registry edits show up on the
next read.
*/
package show

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

// Routes returns a [chi.Router] configured with the show endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listShows)
	router.Get("/{id}", handler.getShow)

	router.With(handler.guard.Require(sec.RoleEditor)).Post("/", handler.createShow)

	return router
}

/*
GET /api/v1/shows.

Description: Lists shows by start time with participants resolved against the
act registry.

Request:
  - act: int (only shows naming this act)
  - venue: int
  - upcoming: bool
  - page, limit: int

Response:
  - 200: {data: []Show, meta: Meta, skipped: []Skipped}
  - 404: ErrNotFound: Unknown act
*/
func (handler *Handler) listShows(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	venueID, err := requestutil.QueryID(request, "venue")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	actID, err := requestutil.QueryID(request, "act")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{VenueID: venueID, Upcoming: requestutil.Bool(request, "upcoming")}

	var page *Page
	if actID != nil {
		page, err = handler.service.ListShowsForAct(request.Context(), *actID, filter, params)
	} else {
		page, err = handler.service.ListShows(request.Context(), filter, params)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Shows, pagination.NewMeta(params, page.Total, len(page.Shows)), page.Skipped)
}

/*
GET /api/v1/shows/{id}.

Response:
  - 200: Show
  - 404: ErrNotFound
*/
func (handler *Handler) getShow(writer http.ResponseWriter, request *http.Request) {
	showID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	show, err := handler.service.GetShow(request.Context(), showID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, show)
}

/*
POST /api/v1/shows.

Request (Body):
  - CreateInput JSON; participants as an array or comma-separated text

Response:
  - 201: Show
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: A show already starts at this venue and time
  - 422: UNPROCESSABLE: Unknown venue
*/
func (handler *Handler) createShow(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	show, err := handler.service.CreateShow(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, show)
}
