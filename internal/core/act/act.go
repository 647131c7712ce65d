// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package act

import (
	"time"

	"github.com/taibuivan/tcupboard/pkg/fieldcodec"
)

// # Domain Model

// Act represents a performing act (band, solo artist, DJ) in the registry.
//
// List and map fields are always non-nil once formatted. SocialLinks and
// MusicLinks always carry every key of [SocialKeys] and [MusicKeys].
type Act struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Genre       []string          `json:"genre"`
	GroupSize   []string          `json:"group_size"`
	Contact     string            `json:"contact"`
	SocialLinks map[string]string `json:"social_links"`
	MusicLinks  map[string]string `json:"music_links"`
	Images      []string          `json:"images"`
	PlayShows   string            `json:"play_shows"`
	Location    string            `json:"location"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Filter holds the parameters for a paginated act search.
type Filter struct {
	Query string // Substring match against name
	Genre string // Exact genre tag
}

// Page is one page of formatted acts plus the records left out as malformed.
type Page struct {
	Acts    []*Act
	Skipped []fieldcodec.Skipped
	Total   int
}

// # Enumerations

const (
	GroupSolo   = "Solo"
	GroupDuo    = "Duo"
	GroupTrio   = "Trio"
	GroupFour   = "4-piece"
	GroupFivePl = "5+ piece"
)

// GroupSizes lists the accepted group size tags in display order.
var GroupSizes = []string{GroupSolo, GroupDuo, GroupTrio, GroupFour, GroupFivePl}

const (
	PlayShowsYes   = "yes"
	PlayShowsMaybe = "maybe"
	PlayShowsNot   = "not-right-now"
)

// PlayShowsOptions lists the accepted play_shows values.
var PlayShowsOptions = []string{PlayShowsYes, PlayShowsMaybe, PlayShowsNot}

// SocialKeys is the canonical key set of [Act.SocialLinks].
var SocialKeys = []string{"instagram", "spotify", "bandcamp", "soundcloud", "website"}

// MusicKeys is the canonical key set of [Act.MusicLinks].
var MusicKeys = []string{"spotify", "bandcamp", "soundcloud", "youtube"}

// # Field Names

const (
	FieldName           = "name"
	FieldGenre          = "genre"
	FieldGroupSize      = "group_size"
	FieldContact        = "contact"
	FieldSocialLinks    = "social_links"
	FieldMusicLinks     = "music_links"
	FieldImages         = "images"
	FieldExistingImages = "existing_images"
	FieldPlayShows      = "play_shows"
	FieldLocation       = "location"
	FieldTruncate       = "truncate"
)
