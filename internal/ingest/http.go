// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tcupboard/internal/platform/apperr"
	"github.com/taibuivan/tcupboard/internal/platform/middleware"
	"github.com/taibuivan/tcupboard/internal/platform/respond"
	"github.com/taibuivan/tcupboard/internal/platform/sec"
)

type Handler struct {
	importer *Importer
	guard    middleware.Guard
}

func NewHandler(importer *Importer, guard middleware.Guard) *Handler {
	return &Handler{importer: importer, guard: guard}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.guard.Require(sec.RoleAdmin)).Post("/", handler.runImport)

	return router
}

/*
POST /api/v1/imports.

Description: Runs the calendar import for every configured venue source and
waits for it to finish. The run shares the request deadline.

Response:
  - 200: Report: Per-venue counts
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Admin role required
  - 500: ErrInternal: The run was cancelled
*/
func (handler *Handler) runImport(writer http.ResponseWriter, request *http.Request) {
	report, err := handler.importer.Run(request.Context())
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}
	respond.OK(writer, report)
}
