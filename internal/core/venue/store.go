// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package venue

import "context"

type Repository interface {
	ListVenues(context context.Context, f Filter, limit, offset int) ([]*Venue, int, error)
	GetVenue(context context.Context, id int) (*Venue, error)
	CreateVenue(context context.Context, v *Venue) error
	UpdateVenue(context context.Context, v *Venue) error
}
