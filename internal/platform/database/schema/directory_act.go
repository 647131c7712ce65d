// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the directory database.
//
// Repositories build their SQL from these values so a column rename touches
// one file. Legacy column names that older rows or views may still expose are
// listed next to their current name.
package schema

// ActTable represents the 'tcupbands' table (performing acts)
type ActTable struct {
	Table         string
	ID            string
	Name          string
	Genre         string
	GroupSize     string
	Contact       string
	SocialLinks   string
	MusicLinks    string
	Images        string
	PlayShows     string
	Location      string
	CreatedAt     string
	LegacyContact string
}

// Act is the schema definition for the performing act registry.
var Act = ActTable{
	Table:         "tcupbands",
	ID:            "id",
	Name:          "name",
	Genre:         "genre",
	GroupSize:     "group_size",
	Contact:       "contact",
	SocialLinks:   "social_links",
	MusicLinks:    "music_links",
	Images:        "images",
	PlayShows:     "play_shows",
	Location:      "location",
	CreatedAt:     "created_at",
	LegacyContact: "bandemail",
}
