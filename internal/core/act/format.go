// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package act

import (
	"github.com/taibuivan/tcupboard/internal/platform/database/schema"
	"github.com/taibuivan/tcupboard/pkg/fieldcodec"
)

// # Row Formatting

// FormatRow converts one raw act row (column name to value, as produced by
// [pgx.RowToMap]) into an [Act].
//
// Rows from every schema revision are accepted: list columns as array literal
// text or native slices, link columns as JSON text, JSON bytes or native maps,
// and the contact address under its legacy column name. Formatting the output
// of [Act.Row] again yields an equal record.
//
// A [*fieldcodec.MalformedFieldError] is returned for the first field that
// cannot be decoded; the record as a whole is then unusable.
func FormatRow(row map[string]any) (*Act, error) {
	id, err := fieldcodec.Int(schema.Act.ID, row[schema.Act.ID])
	if err != nil {
		return nil, err
	}

	act := &Act{ID: id}

	if act.Name, err = fieldcodec.String(schema.Act.Name, row[schema.Act.Name]); err != nil {
		return nil, err
	}

	// Genre and group size come from form serialisation and may carry blanks.
	genre, err := fieldcodec.DecodeArray(schema.Act.Genre, row[schema.Act.Genre])
	if err != nil {
		return nil, err
	}
	act.Genre = fieldcodec.DropBlank(genre)

	groupSize, err := fieldcodec.DecodeArray(schema.Act.GroupSize, row[schema.Act.GroupSize])
	if err != nil {
		return nil, err
	}
	act.GroupSize = fieldcodec.DropBlank(groupSize)

	if act.Images, err = fieldcodec.DecodeArray(schema.Act.Images, row[schema.Act.Images]); err != nil {
		return nil, err
	}

	social, err := fieldcodec.DecodeStructured(schema.Act.SocialLinks, row[schema.Act.SocialLinks], nil)
	if err != nil {
		return nil, err
	}
	act.SocialLinks = fieldcodec.WithKeys(social, SocialKeys)

	music, err := fieldcodec.DecodeStructured(schema.Act.MusicLinks, row[schema.Act.MusicLinks], nil)
	if err != nil {
		return nil, err
	}
	act.MusicLinks = fieldcodec.WithKeys(music, MusicKeys)

	contact, ok := row[schema.Act.Contact]
	if !ok || contact == nil {
		contact = row[schema.Act.LegacyContact]
	}
	if act.Contact, err = fieldcodec.String(schema.Act.Contact, contact); err != nil {
		return nil, err
	}

	if act.PlayShows, err = fieldcodec.String(schema.Act.PlayShows, row[schema.Act.PlayShows]); err != nil {
		return nil, err
	}
	if act.Location, err = fieldcodec.String(schema.Act.Location, row[schema.Act.Location]); err != nil {
		return nil, err
	}
	if act.CreatedAt, err = fieldcodec.Time(schema.Act.CreatedAt, row[schema.Act.CreatedAt]); err != nil {
		return nil, err
	}

	return act, nil
}

// Row renders the act back into the raw row shape with native values, so it
// can re-enter [FormatRow].
func (act *Act) Row() map[string]any {
	return map[string]any{
		schema.Act.ID:          act.ID,
		schema.Act.Name:        act.Name,
		schema.Act.Genre:       act.Genre,
		schema.Act.GroupSize:   act.GroupSize,
		schema.Act.Contact:     act.Contact,
		schema.Act.SocialLinks: act.SocialLinks,
		schema.Act.MusicLinks:  act.MusicLinks,
		schema.Act.Images:      act.Images,
		schema.Act.PlayShows:   act.PlayShows,
		schema.Act.Location:    act.Location,
		schema.Act.CreatedAt:   act.CreatedAt,
	}
}

// FormatRows formats a page of rows. Malformed records are left out and
// reported in the second return value; they never fail the page.
func FormatRows(rows []map[string]any) ([]*Act, []fieldcodec.Skipped) {
	acts := make([]*Act, 0, len(rows))
	var skipped []fieldcodec.Skipped

	for _, row := range rows {
		act, err := FormatRow(row)
		if err != nil {
			id, _ := fieldcodec.Int(schema.Act.ID, row[schema.Act.ID])
			skipped = append(skipped, fieldcodec.SkippedFrom(id, err))
			continue
		}
		acts = append(acts, act)
	}

	return acts, skipped
}
