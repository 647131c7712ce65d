// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tcupboard/internal/platform/apperr"
	"github.com/taibuivan/tcupboard/internal/platform/constants"
	"github.com/taibuivan/tcupboard/internal/platform/middleware"
	"github.com/taibuivan/tcupboard/internal/platform/respond"
	"github.com/taibuivan/tcupboard/internal/platform/sec"
	"github.com/taibuivan/tcupboard/pkg/slice"
)

// maxRequestBytes bounds a whole upload request: every file at its limit plus form overhead.
const maxRequestBytes = constants.MaxUploadFiles*constants.MaxUploadFileBytes + 1<<20

type Handler struct {
	service *Service
	guard   middleware.Guard
}

func NewHandler(service *Service, guard middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(editor chi.Router) {
		editor.Use(handler.guard.Require(sec.RoleEditor))

		editor.Post("/", handler.upload)
		editor.Delete("/", handler.revert)
	})

	return router
}

/*
POST /api/v1/uploads.

Description: Stores up to ten jpeg or png images and returns their public
paths, ready to be listed in an act form.

Request:
  - images: multipart file parts

Response:
  - 200: Result: Stored paths in request order
  - 400: ErrValidation: No files or too many files
  - 413: ErrPayloadTooLarge: A file exceeds 5 MiB
  - 415: ErrUnsupportedMediaType: Not a jpeg or png
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxRequestBytes)

	if err := request.ParseMultipartForm(constants.MaxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, apperr.PayloadTooLarge("Upload request is too large"))
			return
		}
		respond.Error(writer, request, apperr.ValidationError("Expected a multipart form"))
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	uploads := slice.Map(request.MultipartForm.File[FieldImages], FromFileHeader)

	result, err := handler.service.Save(request.Context(), uploads)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

/*
DELETE /api/v1/uploads.

Description: Reverts an upload the user removed before submitting the form.

Request:
  - body: the stored path as plain text, or {"path": "..."}

Response:
  - 204: No Content
  - 400: ErrValidation: Missing or invalid path
*/
func (handler *Handler) revert(writer http.ResponseWriter, request *http.Request) {
	reference, err := readReference(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, ok := handler.service.KeyFor(reference); !ok {
		respond.Error(writer, request, apperr.ValidationError("Invalid asset path", apperr.FieldError{Field: "path", Message: "Not an uploaded asset"}))
		return
	}

	if err := handler.service.Remove(request.Context(), reference); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func readReference(request *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(request.Body, 4096))
	if err != nil {
		return "", apperr.ValidationError("Unreadable request body")
	}

	raw := strings.TrimSpace(string(body))
	if strings.HasPrefix(raw, "{") {
		var payload struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", apperr.ValidationError("Invalid JSON body")
		}
		raw = strings.TrimSpace(payload.Path)
	} else {
		// Some upload widgets send the id JSON-quoted.
		raw = strings.Trim(raw, `"`)
	}

	if raw == "" {
		return "", apperr.ValidationError("Missing asset path", apperr.FieldError{Field: "path", Message: "Required"})
	}
	return raw, nil
}
