// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package act_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tcupboard/internal/core/act"
	"github.com/taibuivan/tcupboard/pkg/fieldcodec"
)

var created = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

// textRow is a row from the oldest revision: every list and map as text.
func textRow() map[string]any {
	return map[string]any{
		"id":           "7",
		"name":         "The Foos",
		"genre":        `{punk,"",indie}`,
		"group_size":   `{Trio," "}`,
		"bandemail":    "foos@example.com",
		"social_links": `{"instagram": "https://instagram.com/foos"}`,
		"music_links":  nil,
		"images":       `{/assets/images/a.png,"/assets/images/b c.png"}`,
		"play_shows":   "yes",
		"location":     "Leeds",
		"created_at":   "2024-03-01T20:00:00Z",
	}
}

// nativeRow is what pgx.RowToMap produces for the current revision.
func nativeRow() map[string]any {
	return map[string]any{
		"id":           int32(7),
		"name":         "The Foos",
		"genre":        []any{"punk", "indie"},
		"group_size":   []any{"Trio"},
		"contact":      "foos@example.com",
		"social_links": `{"instagram": "https://instagram.com/foos"}`,
		"music_links":  map[string]any{"spotify": "https://open.spotify.com/x", "youtube": nil},
		"images":       []any{"/assets/images/a.png", "/assets/images/b c.png"},
		"play_shows":   "yes",
		"location":     "Leeds",
		"created_at":   created,
	}
}

func TestFormatRow_TextRevision(t *testing.T) {
	got, err := act.FormatRow(textRow())
	require.NoError(t, err)

	assert.Equal(t, 7, got.ID)
	assert.Equal(t, []string{"punk", "indie"}, got.Genre)
	assert.Equal(t, []string{"Trio"}, got.GroupSize)
	assert.Equal(t, "foos@example.com", got.Contact)
	assert.Equal(t, []string{"/assets/images/a.png", "/assets/images/b c.png"}, got.Images)
	assert.Equal(t, created, got.CreatedAt)

	assert.Equal(t, map[string]string{
		"instagram":  "https://instagram.com/foos",
		"spotify":    "",
		"bandcamp":   "",
		"soundcloud": "",
		"website":    "",
	}, got.SocialLinks)

	// NULL music links decode to the four canonical keys.
	assert.Equal(t, map[string]string{"spotify": "", "bandcamp": "", "soundcloud": "", "youtube": ""}, got.MusicLinks)
}

func TestFormatRow_NativeRevision(t *testing.T) {
	got, err := act.FormatRow(nativeRow())
	require.NoError(t, err)

	assert.Equal(t, 7, got.ID)
	assert.Equal(t, "https://open.spotify.com/x", got.MusicLinks["spotify"])
	assert.Equal(t, "", got.MusicLinks["youtube"])
	assert.Len(t, got.MusicLinks, len(act.MusicKeys))

	fromText, err := act.FormatRow(textRow())
	require.NoError(t, err)
	assert.Equal(t, fromText.Genre, got.Genre)
	assert.Equal(t, fromText.Images, got.Images)
	assert.Equal(t, fromText.SocialLinks, got.SocialLinks)
}

/*
TestFormatRow_Idempotent formats a formatted record again and expects no change.
*/
func TestFormatRow_Idempotent(t *testing.T) {
	for name, row := range map[string]map[string]any{"text": textRow(), "native": nativeRow()} {
		t.Run(name, func(t *testing.T) {
			once, err := act.FormatRow(row)
			require.NoError(t, err)

			twice, err := act.FormatRow(once.Row())
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}

func TestFormatRow_ContactPrefersCurrentColumn(t *testing.T) {
	row := nativeRow()
	row["bandemail"] = "old@example.com"

	got, err := act.FormatRow(row)
	require.NoError(t, err)
	assert.Equal(t, "foos@example.com", got.Contact)
}

func TestFormatRow_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{"social_links_bad_json", "social_links", `{"instagram": `},
		{"music_links_not_object", "music_links", `["spotify"]`},
		{"genre_wrong_type", "genre", 3.5},
		{"id_missing", "id", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := textRow()
			row[tt.field] = tt.value

			_, err := act.FormatRow(row)
			require.Error(t, err)

			malformed := fieldcodec.AsMalformed(err)
			require.NotNil(t, malformed)
			assert.Equal(t, tt.field, malformed.Field)
		})
	}
}

func TestFormatRow_MalformedKeepsRawText(t *testing.T) {
	row := textRow()
	row["social_links"] = `{"instagram": `

	_, err := act.FormatRow(row)
	malformed := fieldcodec.AsMalformed(err)
	require.NotNil(t, malformed)
	assert.Equal(t, `{"instagram": `, malformed.Raw)
}

/*
TestFormatRows_SkipsMalformed keeps the siblings of a broken record.
*/
func TestFormatRows_SkipsMalformed(t *testing.T) {
	broken := textRow()
	broken["id"] = int32(9)
	broken["social_links"] = "not json"

	acts, skipped := act.FormatRows([]map[string]any{nativeRow(), broken})

	require.Len(t, acts, 1)
	assert.Equal(t, 7, acts[0].ID)

	require.Len(t, skipped, 1)
	assert.Equal(t, 9, skipped[0].ID)
	assert.Equal(t, "social_links", skipped[0].Field)
	assert.NotEmpty(t, skipped[0].Error)
}
