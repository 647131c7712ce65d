// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/tcupboard/internal/platform/apperr"
	"github.com/taibuivan/tcupboard/internal/platform/validate"
	"github.com/taibuivan/tcupboard/pkg/pointer"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID parses a named integer URL parameter (e.g. "/acts/{id}").

Returns:
  - int: the positive identifier
  - error: apperr.NotFound when the segment is not a positive integer
*/
func ID(request *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(request, name))
	if err != nil || id < 1 {
		return 0, apperr.NotFound("Resource")
	}
	return id, nil
}

/*
QueryID parses an optional positive integer query parameter.

Returns:
  - *int: nil when the parameter is absent
  - error: validation error when present but not a positive integer
*/
func QueryID(request *http.Request, name string) (*int, error) {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return nil, validate.RequiredError(name, "Must be a positive integer")
	}
	return pointer.To(id), nil
}

/*
Bool reads a form or query flag. "true", "1", "yes" and "on" are true.
*/
func Bool(request *http.Request, name string) bool {
	switch request.FormValue(name) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
