// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package show

import "context"

// Repository is the storage boundary for shows. Reads return raw rows joined
// with the venue name under [VenueNameColumn].
type Repository interface {
	ListShows(context context.Context, filter Filter, limit, offset int) ([]map[string]any, int, error)
	GetShow(context context.Context, id int) (map[string]any, error)
	CreateShow(context context.Context, show *Show) error

	// UpsertShows inserts shows, ignoring those whose venue and start already
	// exist. It returns how many rows were inserted.
	UpsertShows(context context.Context, shows []*Show) (int, error)
}
