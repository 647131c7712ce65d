// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ingest imports venue calendars into the show table.

Each configured source is one venue's public listing page. The importer
fetches every page concurrently, reads one show per matched element with CSS
selectors and stores the result idempotently: a venue never gets two shows
starting at the same time, so re-running an import only adds new dates.
*/
package ingest

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Selectors locate show fields inside a listing page.
type Selectors struct {
	// Event matches one element per show. Other selectors run inside it.
	Event string `json:"event"`

	Start string `json:"start"`
	// StartAttr reads the time from an attribute (e.g. "datetime") instead of the text.
	StartAttr string `json:"start_attr,omitempty"`

	// Participants matches one element per act, or one element with comma-separated names.
	Participants string `json:"participants"`

	Link  string `json:"link,omitempty"`
	Flyer string `json:"flyer,omitempty"`
}

// Source is one venue calendar.
type Source struct {
	VenueID    int       `json:"venue_id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	TimeLayout string    `json:"time_layout,omitempty"`
	TimeZone   string    `json:"time_zone,omitempty"`
	Selectors  Selectors `json:"selectors"`

	location *time.Location
	base     *url.URL
}

// LoadSources reads the JSON source list at path.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read sources %s: %w", path, err)
	}

	var sources []Source
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("ingest: parse sources %s: %w", path, err)
	}

	for i := range sources {
		if err := sources[i].Prepare(); err != nil {
			return nil, err
		}
	}
	return sources, nil
}

// Prepare fills defaults and rejects sources that can never produce a show.
// [LoadSources] calls it; sources built in code must call it before use.
func (source *Source) Prepare() error {
	if source.VenueID < 1 {
		return fmt.Errorf("ingest: source %q: venue_id must be positive", source.Name)
	}
	if source.Selectors.Event == "" || source.Selectors.Start == "" || source.Selectors.Participants == "" {
		return fmt.Errorf("ingest: source %q: event, start and participants selectors are required", source.Name)
	}

	base, err := url.Parse(source.URL)
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return fmt.Errorf("ingest: source %q: invalid url %q", source.Name, source.URL)
	}
	source.base = base

	if source.Name == "" {
		source.Name = base.Host
	}
	if source.TimeLayout == "" {
		source.TimeLayout = time.RFC3339
	}

	source.location = time.UTC
	if source.TimeZone != "" {
		location, err := time.LoadLocation(source.TimeZone)
		if err != nil {
			return fmt.Errorf("ingest: source %q: time zone: %w", source.Name, err)
		}
		source.location = location
	}
	return nil
}

// resolve makes a scraped href absolute against the page URL.
func (source *Source) resolve(reference string) string {
	if reference == "" {
		return ""
	}
	parsed, err := url.Parse(reference)
	if err != nil {
		return ""
	}
	return source.base.ResolveReference(parsed).String()
}
