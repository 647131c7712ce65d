// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ShowTable represents the 'shows' table
type ShowTable struct {
	Table      string
	ID         string
	VenueID    string
	Bands      string
	Start      string
	EventLink  string
	FlyerImage string
	CreatedAt  string
}

// Show is the schema definition for scheduled shows. Bands holds the
// comma-joined participant names; there is no foreign key to acts.
var Show = ShowTable{
	Table:      "shows",
	ID:         "id",
	VenueID:    "venue_id",
	Bands:      "bands",
	Start:      "start",
	EventLink:  "event_link",
	FlyerImage: "flyer_image",
	CreatedAt:  "created_at",
}

// ShowUniqueStart is the constraint that makes calendar imports idempotent.
const ShowUniqueStart = "unique_show"
