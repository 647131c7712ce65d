// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package act_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tcupboard/internal/core/act"
	"github.com/taibuivan/tcupboard/internal/platform/middleware"
)

func newRouter(repository act.Repository, guarded bool) http.Handler {
	service := newService(repository, nil, nil)
	return act.NewHandler(service, middleware.NewGuard(guarded)).Routes()
}

func TestHandler_ListActs(t *testing.T) {
	broken := nativeRow()
	broken["id"] = int32(9)
	broken["images"] = 12

	router := newRouter(newMemoryRepository(nativeRow(), broken), false)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?limit=10", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []act.Act `json:"data"`
		Meta struct {
			Total    int `json:"total"`
			Returned int `json:"returned"`
		} `json:"meta"`
		Skipped []struct {
			ID    int    `json:"id"`
			Field string `json:"field"`
		} `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	require.Len(t, body.Data, 1)
	assert.Equal(t, "The Foos", body.Data[0].Name)
	assert.Equal(t, 2, body.Meta.Total)
	assert.Equal(t, 1, body.Meta.Returned)
	require.Len(t, body.Skipped, 1)
	assert.Equal(t, 9, body.Skipped[0].ID)
	assert.Equal(t, "images", body.Skipped[0].Field)
}

func TestHandler_GetAct(t *testing.T) {
	router := newRouter(newMemoryRepository(nativeRow()), false)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"found", "/7", http.StatusOK},
		{"edit_prefill", "/7/edit", http.StatusOK},
		{"missing", "/8", http.StatusNotFound},
		{"not_a_number", "/abc", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

func TestHandler_CreateAct_Capacity(t *testing.T) {
	router := newRouter(newMemoryRepository(), false)

	images, _ := json.Marshal(uploads(11))
	body := `{"name":"Bar Band","images":` + string(images) + `}`

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "CAPACITY_EXCEEDED")
	assert.Contains(t, recorder.Body.String(), "remove 1 item(s)")
}

func TestHandler_CreateAct(t *testing.T) {
	router := newRouter(newMemoryRepository(), false)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Bar Band","genre":["folk"]}`))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"social_links":{`)
}

func TestHandler_WritesRequireAuth(t *testing.T) {
	router := newRouter(newMemoryRepository(nativeRow()), true)

	for _, method := range []string{http.MethodPost, http.MethodPut} {
		path := "/"
		if method == http.MethodPut {
			path = "/7"
		}

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(method, path, strings.NewReader(`{"name":"x"}`))
		request.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code, method)
	}
}
