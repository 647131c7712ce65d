// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fieldcodec_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tcupboard/pkg/fieldcodec"
)

var musicDefaults = map[string]string{"spotify": "", "bandcamp": "", "soundcloud": "", "youtube": ""}

/*
TestDecodeStructured_Defaults verifies absent values yield a full, independent copy of the defaults.
*/
func TestDecodeStructured_Defaults(t *testing.T) {
	for _, input := range []any{nil, "", "null", "  ", []byte("null")} {
		got, err := fieldcodec.DecodeStructured("music_links", input, musicDefaults)
		require.NoError(t, err)
		assert.Equal(t, musicDefaults, got)

		// Mutating the result must never leak into the shared defaults.
		got["spotify"] = "changed"
		assert.Equal(t, "", musicDefaults["spotify"])
	}
}

/*
TestDecodeStructured_Text parses JSON object text.
*/
func TestDecodeStructured_Text(t *testing.T) {
	got, err := fieldcodec.DecodeStructured("social_links", `{"instagram":"https://instagram.com/foos","website":null}`, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"instagram": "https://instagram.com/foos", "website": ""}, got)

	got, err = fieldcodec.DecodeStructured("social_links", []byte(`{"bandcamp":"https://foos.bandcamp.com"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bandcamp": "https://foos.bandcamp.com"}, got)
}

/*
TestDecodeStructured_Native verifies native maps pass through.
*/
func TestDecodeStructured_Native(t *testing.T) {
	native := map[string]string{"youtube": "https://youtu.be/x"}
	got, err := fieldcodec.DecodeStructured("music_links", native, musicDefaults)
	require.NoError(t, err)
	assert.Equal(t, native, got)

	fromJSONB := map[string]any{"spotify": "https://open.spotify.com/artist/1", "youtube": nil}
	got, err = fieldcodec.DecodeStructured("music_links", fromJSONB, musicDefaults)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"spotify": "https://open.spotify.com/artist/1", "youtube": ""}, got)
}

/*
TestDecodeStructured_Malformed verifies parse failures keep the raw text and field name.
*/
func TestDecodeStructured_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"truncated", `{"instagram": "x"`},
		{"not_json", `instagram=x`},
		{"array_document", `["x"]`},
		{"nested_value", `{"instagram": {"url": "x"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fieldcodec.DecodeStructured("social_links", tt.raw, nil)
			require.Error(t, err)

			var malformed *fieldcodec.MalformedFieldError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "social_links", malformed.Field)
			assert.Equal(t, tt.raw, malformed.Raw)
		})
	}
}

/*
TestEncodeStructured checks the encoding is valid JSON that decodes back.
*/
func TestEncodeStructured(t *testing.T) {
	encoded, err := fieldcodec.EncodeStructured(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", encoded)

	links := map[string]string{"instagram": "https://instagram.com/foos", "website": ""}
	encoded, err = fieldcodec.EncodeStructured(links)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(encoded), &decoded))
	assert.Equal(t, links, decoded)
}

/*
TestWithKeys fills missing keys without mutating the input.
*/
func TestWithKeys(t *testing.T) {
	input := map[string]string{"spotify": "s"}
	got := fieldcodec.WithKeys(input, []string{"spotify", "youtube"})

	assert.Equal(t, map[string]string{"spotify": "s", "youtube": ""}, got)
	assert.Len(t, input, 1)
}

/*
TestScalars covers the coercions used by the row formatters.
*/
func TestScalars(t *testing.T) {
	for _, value := range []any{int32(7), int64(7), 7, float64(7), "7", json.Number("7")} {
		n, err := fieldcodec.Int("id", value)
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	}

	_, err := fieldcodec.Int("id", nil)
	assert.NotNil(t, fieldcodec.AsMalformed(err))

	_, err = fieldcodec.Int("id", 7.5)
	assert.NotNil(t, fieldcodec.AsMalformed(err))

	ts, err := fieldcodec.Time("start", "2025-01-18T20:00:00Z")
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2025, 1, 18, 20, 0, 0, 0, time.UTC)))

	_, err = fieldcodec.Time("start", "next friday")
	assert.Error(t, err)

	s, err := fieldcodec.OptionalString("flyer_image", "")
	require.NoError(t, err)
	assert.Nil(t, s)

	row := map[string]any{"bandemail": "foos@example.com"}
	assert.Equal(t, "foos@example.com", fieldcodec.Lookup(row, "contact", "bandemail"))
	assert.Nil(t, fieldcodec.Lookup(row, "location"))
}
