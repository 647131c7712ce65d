// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"postgres://u:p@db:5432/tcupboard", "pgx5://u:p@db:5432/tcupboard"},
		{"postgresql://db/tcupboard?sslmode=disable", "pgx5://db/tcupboard?sslmode=disable"},
		{"pgx5://db/tcupboard", "pgx5://db/tcupboard"},
		{"host=db dbname=tcupboard", "host=db dbname=tcupboard"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, convertToPgx5DSN(tt.input))
		})
	}
}
