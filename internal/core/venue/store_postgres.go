// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package venue

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tcupboard/internal/platform/database/schema"
	"github.com/taibuivan/tcupboard/internal/platform/dberr"
)

// columns matches the scan order of [Venue] fields.
var columns = strings.Join(schema.Venue.Columns(), ", ")

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListVenues(context context.Context, f Filter, limit, offset int) ([]*Venue, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE TRUE
	`, columns, schema.Venue.Table)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE TRUE`, schema.Venue.Table)

	args := []any{}

	if f.Query != "" {
		search := fmt.Sprintf(` AND (%s ILIKE $1 OR %s ILIKE $1)`, schema.Venue.Name, schema.Venue.Location)
		query += search
		countQuery += search
		args = append(args, "%"+f.Query+"%")
	}

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_venues")
	}

	query += fmt.Sprintf(" ORDER BY %s ASC LIMIT $", schema.Venue.Name) + itos(len(args)+1) + ` OFFSET $` + itos(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_venues")
	}
	defer rows.Close()

	venues := []*Venue{}
	for rows.Next() {
		v := &Venue{}
		if err := rows.Scan(&v.ID, &v.Name, &v.Location, &v.Capacity, &v.CoverImage, &v.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_venue")
		}
		venues = append(venues, v)
	}

	return venues, total, dberr.Wrap(rows.Err(), "list_venues")
}

func (repository *PostgresRepository) GetVenue(context context.Context, id int) (*Venue, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`, columns, schema.Venue.Table, schema.Venue.ID)

	v := &Venue{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&v.ID, &v.Name, &v.Location, &v.Capacity, &v.CoverImage, &v.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_venue")
	}

	return v, nil
}

func (repository *PostgresRepository) CreateVenue(context context.Context, v *Venue) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s
	`,
		schema.Venue.Table, schema.Venue.Name, schema.Venue.Location, schema.Venue.Capacity, schema.Venue.CoverImage,
		schema.Venue.ID, schema.Venue.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, v.Name, v.Location, v.Capacity, v.CoverImage).Scan(&v.ID, &v.CreatedAt)
	return dberr.Wrap(err, "create_venue")
}

func (repository *PostgresRepository) UpdateVenue(context context.Context, v *Venue) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Venue.Table, schema.Venue.Name, schema.Venue.Location, schema.Venue.Capacity, schema.Venue.CoverImage,
		schema.Venue.ID, schema.Venue.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, v.ID, v.Name, v.Location, v.Capacity, v.CoverImage).Scan(&v.CreatedAt)
	return dberr.Wrap(err, "update_venue")
}

func itos(i int) string {
	return strconv.Itoa(i)
}
