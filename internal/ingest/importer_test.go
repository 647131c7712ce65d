// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tcupboard/internal/core/show"
	"github.com/taibuivan/tcupboard/internal/ingest"
	"github.com/taibuivan/tcupboard/internal/platform/middleware"
)

const listing = `<html><body>
<div class="gig">
  <time datetime="2025-06-07T20:00:00+09:00">Sat 7 June</time>
  <ul><li class="act">The Foos</li><li class="act">Bar Band</li></ul>
  <a class="tickets" href="/events/1">Tickets</a>
  <img class="flyer" src="flyers/1.png">
</div>
<div class="gig">
  <time datetime="2025-06-08T19:30:00+09:00">Sun 8 June</time>
  <ul><li class="act">Solo Act, Support</li></ul>
</div>
<div class="gig">
  <time datetime="TBA">TBA</time>
  <ul><li class="act">Nobody</li></ul>
</div>
<div class="gig">
  <time datetime="2025-06-09T19:30:00+09:00">Mon 9 June</time>
  <ul></ul>
</div>
</body></html>`

type recordingSink struct {
	mu    sync.Mutex
	shows []*show.Show
	fail  bool
}

func (sink *recordingSink) ImportShows(_ context.Context, shows []*show.Show) (int, error) {
	if sink.fail {
		return 0, errors.New("database unavailable")
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.shows = append(sink.shows, shows...)
	return len(shows), nil
}

func writeSources(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sources.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func sourceFor(t *testing.T, venueID int, url string) ingest.Source {
	t.Helper()

	source := ingest.Source{
		VenueID: venueID,
		Name:    "venue-" + url[len(url)-1:],
		URL:     url,
		Selectors: ingest.Selectors{
			Event:        ".gig",
			Start:        "time",
			StartAttr:    "datetime",
			Participants: ".act",
			Link:         "a.tickets",
			Flyer:        "img.flyer",
		},
	}
	require.NoError(t, source.Prepare())
	return source
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse(t *testing.T) {
	source := sourceFor(t, 2, "https://cellar.example/calendar")

	shows, skipped, err := ingest.Parse(strings.NewReader(listing), &source)
	require.NoError(t, err)

	assert.Equal(t, 2, skipped)
	require.Len(t, shows, 2)

	first := shows[0]
	assert.Equal(t, 2, first.VenueID)
	assert.Equal(t, "The Foos, Bar Band", first.Bands)
	assert.True(t, first.Start.Equal(time.Date(2025, 6, 7, 11, 0, 0, 0, time.UTC)))
	require.NotNil(t, first.EventLink)
	assert.Equal(t, "https://cellar.example/events/1", *first.EventLink)
	require.NotNil(t, first.FlyerImage)
	assert.Equal(t, "https://cellar.example/flyers/1.png", *first.FlyerImage)

	second := shows[1]
	assert.Equal(t, "Solo Act, Support", second.Bands)
	assert.Nil(t, second.EventLink)
	assert.Nil(t, second.FlyerImage)
}

func TestLoadSources(t *testing.T) {
	path := writeSources(t, `[{"venue_id":3,"url":"https://hall.example/gigs","time_layout":"2006-01-02 15:04","time_zone":"UTC",
		"selectors":{"event":".e","start":".d","participants":".p"}}]`)

	sources, err := ingest.LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "hall.example", sources[0].Name)

	source := sources[0]
	shows, _, err := ingest.Parse(strings.NewReader(`<div class="e"><span class="d">2025-06-07 20:00</span><b class="p">Trio</b></div>`), &source)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.True(t, shows[0].Start.Equal(time.Date(2025, 6, 7, 20, 0, 0, 0, time.UTC)))
}

func TestLoadSources_Invalid(t *testing.T) {
	tests := map[string]string{
		"not_json":      `{`,
		"no_venue":      `[{"url":"https://a.example","selectors":{"event":"a","start":"b","participants":"c"}}]`,
		"no_selectors":  `[{"venue_id":1,"url":"https://a.example","selectors":{}}]`,
		"relative_url":  `[{"venue_id":1,"url":"/calendar","selectors":{"event":"a","start":"b","participants":"c"}}]`,
		"bad_time_zone": `[{"venue_id":1,"url":"https://a.example","time_zone":"Mars/Olympus","selectors":{"event":"a","start":"b","participants":"c"}}]`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ingest.LoadSources(writeSources(t, content))
			assert.Error(t, err)
		})
	}

	_, err := ingest.LoadSources(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestImporter_Run(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/broken" {
			http.Error(writer, "nope", http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(writer, listing)
	}))
	defer server.Close()

	sink := &recordingSink{}
	sources := []ingest.Source{
		sourceFor(t, 1, server.URL+"/a"),
		sourceFor(t, 2, server.URL+"/broken"),
		sourceFor(t, 3, server.URL+"/c"),
	}

	importer := ingest.NewImporter(sources, sink, ingest.Options{Client: server.Client(), Concurrency: 2}, discardLogger())
	report, err := importer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Inserted)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Venues, 3)

	// Reports keep source order regardless of completion order.
	assert.Equal(t, 1, report.Venues[0].VenueID)
	assert.Equal(t, 2, report.Venues[0].Found)
	assert.Equal(t, 2, report.Venues[0].Skipped)
	assert.Contains(t, report.Venues[1].Error, "502")
	assert.Equal(t, 2, report.Venues[2].Inserted)

	assert.Len(t, sink.shows, 4)
}

func TestImporter_SinkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(writer, listing)
	}))
	defer server.Close()

	importer := ingest.NewImporter([]ingest.Source{sourceFor(t, 1, server.URL+"/a")}, &recordingSink{fail: true}, ingest.Options{Client: server.Client()}, discardLogger())

	report, err := importer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "database unavailable", report.Venues[0].Error)
}

func TestImporter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	importer := ingest.NewImporter([]ingest.Source{sourceFor(t, 1, "https://unreachable.invalid/a")}, &recordingSink{}, ingest.Options{}, discardLogger())
	_, err := importer.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandler_RequiresAdmin(t *testing.T) {
	importer := ingest.NewImporter(nil, &recordingSink{}, ingest.Options{}, discardLogger())

	open := ingest.NewHandler(importer, middleware.NewGuard(false)).Routes()
	recorder := httptest.NewRecorder()
	open.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"inserted":0`)

	guarded := ingest.NewHandler(importer, middleware.NewGuard(true)).Routes()
	recorder = httptest.NewRecorder()
	guarded.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
