// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tcupboard/internal/core/asset"
)

func paths(prefix string, n int) []string {
	list := make([]string, n)
	for i := range list {
		list[i] = fmt.Sprintf("/%s%d", prefix, i)
	}
	return list
}

/*
TestMerge_Dedup keeps existing order first and drops later duplicates.
*/
func TestMerge_Dedup(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		incoming []string
		want     []string
	}{
		{"overlap", []string{"/a", "/b"}, []string{"/b", "/c"}, []string{"/a", "/b", "/c"}},
		{"replayed_submission", []string{"/a", "/b"}, []string{"/a", "/b"}, []string{"/a", "/b"}},
		{"duplicates_inside_existing", []string{"/a", "/a"}, nil, []string{"/a"}},
		{"nothing", nil, nil, []string{}},
		{"case_sensitive", []string{"/A"}, []string{"/a"}, []string{"/A", "/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := asset.Merge(tt.existing, tt.incoming, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestMerge_Capacity rejects instead of truncating.
*/
func TestMerge_Capacity(t *testing.T) {
	got, err := asset.Merge(paths("old", 8), paths("new", 4), 10)
	require.Error(t, err)
	assert.Nil(t, got)

	capacity := asset.AsCapacityExceeded(err)
	require.NotNil(t, capacity)
	assert.Equal(t, 2, capacity.Overflow)
	assert.Equal(t, 10, capacity.Limit)

	// Exactly at the cap is fine, duplicates do not count.
	got, err = asset.Merge(paths("old", 8), append(paths("new", 2), "/old0"), 10)
	require.NoError(t, err)
	assert.Len(t, got, 10)

	// No cap.
	got, err = asset.Merge(paths("old", 8), paths("new", 4), 0)
	require.NoError(t, err)
	assert.Len(t, got, 12)
}

/*
TestFitIncoming trims only the incoming tail.
*/
func TestFitIncoming(t *testing.T) {
	existing := paths("old", 8)
	incoming := paths("new", 4)

	kept := asset.FitIncoming(existing, incoming, 10)
	assert.Equal(t, []string{"/new0", "/new1"}, kept)

	merged, err := asset.Merge(existing, kept, 10)
	require.NoError(t, err)
	assert.Len(t, merged, 10)

	// Trailing duplicates do not hide real overflow.
	kept = asset.FitIncoming(existing, []string{"/new0", "/new1", "/new2", "/old0"}, 10)
	assert.Equal(t, []string{"/new0", "/new1"}, kept)

	// Existing alone over the cap leaves nothing to add.
	assert.Empty(t, asset.FitIncoming(paths("old", 11), incoming, 10))
}
