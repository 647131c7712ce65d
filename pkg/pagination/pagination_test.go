// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tcupboard/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: 24}},
		{"explicit", "?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"garbage", "?page=x&limit=y", pagination.Params{Page: 1, Limit: 24}},
		{"negative", "?page=-2&limit=0", pagination.Params{Page: 1, Limit: 24}},
		{"clamped", "?limit=500", pagination.Params{Page: 1, Limit: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/acts"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(request))
		})
	}
}

func TestNewMeta(t *testing.T) {
	params := pagination.Params{Page: 2, Limit: 10}
	assert.Equal(t, 10, params.Offset())

	meta := pagination.NewMeta(params, 25, 9)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 9, meta.Returned)
}
