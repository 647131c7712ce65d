// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package venue

import "time"

// Venue represents a place where shows happen.
type Venue struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Location   *string   `json:"location"`
	Capacity   *int      `json:"capacity"`
	CoverImage *string   `json:"cover_image"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filter holds the parameters for a paginated venue search.
type Filter struct {
	Query string // Substring match against name and location
}

const (
	FieldName       = "name"
	FieldLocation   = "location"
	FieldCapacity   = "capacity"
	FieldCoverImage = "cover_image"
)
