// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// VenueTable represents the 'venues' table
type VenueTable struct {
	Table      string
	ID         string
	Name       string
	Location   string
	Capacity   string
	CoverImage string
	CreatedAt  string
}

// Venue is the schema definition for venues. The display name column is
// called "venue" for historical reasons.
var Venue = VenueTable{
	Table:      "venues",
	ID:         "id",
	Name:       "venue",
	Location:   "location",
	Capacity:   "capacity",
	CoverImage: "cover_image",
	CreatedAt:  "created_at",
}

// Columns lists every column in select order.
func (t VenueTable) Columns() []string {
	return []string{t.ID, t.Name, t.Location, t.Capacity, t.CoverImage, t.CreatedAt}
}
