// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package show

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tcupboard/internal/platform/database/schema"
	"github.com/taibuivan/tcupboard/internal/platform/dberr"
	"github.com/taibuivan/tcupboard/pkg/textnorm"
)

// PostgresRepository implements [Repository] on the shows table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new show repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectShows is the shared projection; s and v alias shows and venues.
var selectShows = fmt.Sprintf(`
	SELECT s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, v.%s AS %s
	FROM %s s
	LEFT JOIN %s v ON v.%s = s.%s`,
	schema.Show.ID, schema.Show.VenueID, schema.Show.Bands, schema.Show.Start,
	schema.Show.EventLink, schema.Show.FlyerImage, schema.Show.CreatedAt,
	schema.Venue.Name, VenueNameColumn,
	schema.Show.Table, schema.Venue.Table, schema.Venue.ID, schema.Show.VenueID,
)

func (repository *PostgresRepository) ListShows(context context.Context, filter Filter, limit, offset int) ([]map[string]any, int, error) {
	var where []string
	var args []any

	if filter.VenueID != nil {
		args = append(args, *filter.VenueID)
		where = append(where, fmt.Sprintf("s.%s = $%d", schema.Show.VenueID, len(args)))
	}
	if filter.Upcoming {
		where = append(where, fmt.Sprintf("s.%s >= NOW()", schema.Show.Start))
	}
	if filter.ActName != "" {
		// Same normalisation as the act name index, applied per participant.
		args = append(args, filter.ActName)
		where = append(where, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM unnest(string_to_array(s.%s, ',')) AS p(name) WHERE %s = $%d)`,
			schema.Show.Bands, textnorm.SQL("p.name"), len(args),
		))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s s%s`, schema.Show.Table, clause)
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_shows")
	}

	query := fmt.Sprintf(`%s%s ORDER BY s.%s ASC, s.%s ASC LIMIT $%d OFFSET $%d`,
		selectShows, clause, schema.Show.Start, schema.Show.ID, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_shows")
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "scan_shows")
	}

	return records, total, nil
}

func (repository *PostgresRepository) GetShow(context context.Context, id int) (map[string]any, error) {
	query := fmt.Sprintf(`%s WHERE s.%s = $1`, selectShows, schema.Show.ID)

	rows, err := repository.db.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "get_show")
	}

	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToMap)
	return record, dberr.Wrap(err, "get_show")
}

func (repository *PostgresRepository) CreateShow(context context.Context, show *Show) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s
	`,
		schema.Show.Table, schema.Show.VenueID, schema.Show.Bands, schema.Show.Start,
		schema.Show.EventLink, schema.Show.FlyerImage,
		schema.Show.ID, schema.Show.CreatedAt,
	)

	err := repository.db.QueryRow(context, query,
		show.VenueID, show.Bands, show.Start, show.EventLink, show.FlyerImage,
	).Scan(&show.ID, &show.CreatedAt)

	return dberr.Wrap(err, "create_show")
}

// UpsertShows sends every insert in one batch.
func (repository *PostgresRepository) UpsertShows(context context.Context, shows []*Show) (int, error) {
	if len(shows) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT %s DO NOTHING
	`,
		schema.Show.Table, schema.Show.VenueID, schema.Show.Bands, schema.Show.Start,
		schema.Show.EventLink, schema.Show.FlyerImage, schema.ShowUniqueStart,
	)

	batch := &pgx.Batch{}
	for _, show := range shows {
		batch.Queue(query, show.VenueID, show.Bands, show.Start, show.EventLink, show.FlyerImage)
	}

	results := repository.db.SendBatch(context, batch)
	defer results.Close()

	inserted := 0
	for range shows {
		tag, err := results.Exec()
		if err != nil {
			return inserted, dberr.Wrap(err, "upsert_shows")
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}
