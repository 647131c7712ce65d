// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package show

import (
	"github.com/taibuivan/tcupboard/internal/platform/database/schema"
	"github.com/taibuivan/tcupboard/pkg/fieldcodec"
)

// VenueNameColumn is the alias under which list queries join the venue name.
const VenueNameColumn = "venue_name"

// FormatRow converts one raw show row into a [Show]. Participants are left
// empty; [CrossReferencer.ResolveShows] fills them.
func FormatRow(row map[string]any) (*Show, error) {
	id, err := fieldcodec.Int(schema.Show.ID, row[schema.Show.ID])
	if err != nil {
		return nil, err
	}

	show := &Show{ID: id, Participants: []Participant{}}

	if show.VenueID, err = fieldcodec.Int(schema.Show.VenueID, row[schema.Show.VenueID]); err != nil {
		return nil, err
	}
	if show.VenueName, err = fieldcodec.String(VenueNameColumn, row[VenueNameColumn]); err != nil {
		return nil, err
	}
	if show.Bands, err = fieldcodec.String(schema.Show.Bands, row[schema.Show.Bands]); err != nil {
		return nil, err
	}
	if show.Start, err = fieldcodec.Time(schema.Show.Start, row[schema.Show.Start]); err != nil {
		return nil, err
	}
	if show.EventLink, err = fieldcodec.OptionalString(schema.Show.EventLink, row[schema.Show.EventLink]); err != nil {
		return nil, err
	}
	if show.FlyerImage, err = fieldcodec.OptionalString(schema.Show.FlyerImage, row[schema.Show.FlyerImage]); err != nil {
		return nil, err
	}
	if show.CreatedAt, err = fieldcodec.Time(schema.Show.CreatedAt, row[schema.Show.CreatedAt]); err != nil {
		return nil, err
	}

	return show, nil
}

// Row renders the show back into the raw row shape.
func (show *Show) Row() map[string]any {
	return map[string]any{
		schema.Show.ID:         show.ID,
		schema.Show.VenueID:    show.VenueID,
		VenueNameColumn:        show.VenueName,
		schema.Show.Bands:      show.Bands,
		schema.Show.Start:      show.Start,
		schema.Show.EventLink:  show.EventLink,
		schema.Show.FlyerImage: show.FlyerImage,
		schema.Show.CreatedAt:  show.CreatedAt,
	}
}

// FormatRows formats a page of rows, skipping and reporting malformed ones.
func FormatRows(rows []map[string]any) ([]*Show, []fieldcodec.Skipped) {
	shows := make([]*Show, 0, len(rows))
	var skipped []fieldcodec.Skipped

	for _, row := range rows {
		show, err := FormatRow(row)
		if err != nil {
			id, _ := fieldcodec.Int(schema.Show.ID, row[schema.Show.ID])
			skipped = append(skipped, fieldcodec.SkippedFrom(id, err))
			continue
		}
		shows = append(shows, show)
	}

	return shows, skipped
}
