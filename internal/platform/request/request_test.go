// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	requestutil "github.com/taibuivan/tcupboard/internal/platform/request"
)

func TestID(t *testing.T) {
	tests := []struct {
		path string
		want int
		ok   bool
	}{
		{"/acts/12", 12, true},
		{"/acts/0", 0, false},
		{"/acts/-3", 0, false},
		{"/acts/abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var got int
			var err error

			router := chi.NewRouter()
			router.Get("/acts/{id}", func(writer http.ResponseWriter, request *http.Request) {
				got, err = requestutil.ID(request, "id")
			})
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			assert.Error(t, err)
		})
	}
}

func TestQueryID(t *testing.T) {
	id, err := requestutil.QueryID(httptest.NewRequest(http.MethodGet, "/shows", nil), "act")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = requestutil.QueryID(httptest.NewRequest(http.MethodGet, "/shows?act=7", nil), "act")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, 7, *id)

	_, err = requestutil.QueryID(httptest.NewRequest(http.MethodGet, "/shows?act=seven", nil), "act")
	assert.Error(t, err)
}

func TestBool(t *testing.T) {
	for _, value := range []string{"true", "1", "yes", "on"} {
		assert.True(t, requestutil.Bool(httptest.NewRequest(http.MethodGet, "/?truncate="+value, nil), "truncate"), value)
	}
	for _, value := range []string{"", "false", "0", "TRUE"} {
		assert.False(t, requestutil.Bool(httptest.NewRequest(http.MethodGet, "/?truncate="+value, nil), "truncate"), value)
	}
}
