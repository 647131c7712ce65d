// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package show

import (
	"time"

	"github.com/taibuivan/tcupboard/pkg/fieldcodec"
)

// Show represents a scheduled event at a venue.
//
// Bands is the stored participant text. Participants is derived from it at
// read time and never persisted.
type Show struct {
	ID           int           `json:"id"`
	VenueID      int           `json:"venue_id"`
	VenueName    string        `json:"venue_name,omitempty"`
	Bands        string        `json:"bands"`
	Start        time.Time     `json:"start"`
	EventLink    *string       `json:"event_link"`
	FlyerImage   *string       `json:"flyer_image"`
	CreatedAt    time.Time     `json:"created_at"`
	Participants []Participant `json:"participants"`
}

// Participant is one name from a show's participant text.
//
// Name is the trimmed text as written on the show. ActID is set only when a
// registered act has the same name case-insensitively.
type Participant struct {
	ActID     *int   `json:"act_id"`
	Name      string `json:"name"`
	Headliner bool   `json:"headliner"`
}

// Filter holds the parameters for a paginated show search.
type Filter struct {
	VenueID  *int
	Upcoming bool
	// ActName restricts to shows naming this act; already normalised.
	ActName string
}

// Page is one page of shows plus the records left out as malformed.
type Page struct {
	Shows   []*Show
	Skipped []fieldcodec.Skipped
	Total   int
}

// CreateInput is the body of a show submission. Participants may be a JSON
// array or comma-separated text.
type CreateInput struct {
	VenueID      int              `json:"venue_id"`
	Participants ParticipantNames `json:"participants"`
	Start        time.Time        `json:"start"`
	EventLink    string           `json:"event_link"`
	FlyerImage   string           `json:"flyer_image"`
}

const (
	FieldVenueID      = "venue_id"
	FieldParticipants = "participants"
	FieldStart        = "start"
	FieldEventLink    = "event_link"
	FieldFlyerImage   = "flyer_image"
)
