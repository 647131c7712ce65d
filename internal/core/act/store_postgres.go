// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package act

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tcupboard/internal/platform/database/schema"
	"github.com/taibuivan/tcupboard/internal/platform/dberr"
	"github.com/taibuivan/tcupboard/pkg/fieldcodec"
	"github.com/taibuivan/tcupboard/pkg/textnorm"
)

// PostgresRepository implements [Repository] on the tcupbands table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new act repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// normalizedName computes [textnorm.Name] in SQL. It must stay identical to the
// expression indexed by the act name lookup migration.
var normalizedName = textnorm.SQL(schema.Act.Name)

// ListActs selects every column so rows from older revisions keep their
// legacy columns for the formatter.
func (repository *PostgresRepository) ListActs(context context.Context, filter Filter, limit, offset int) ([]map[string]any, int, error) {
	var where []string
	var args []any

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where = append(where, fmt.Sprintf("%s ILIKE $%d", schema.Act.Name, len(args)))
	}
	if filter.Genre != "" {
		args = append(args, filter.Genre)
		where = append(where, fmt.Sprintf("$%d = ANY(%s)", len(args), schema.Act.Genre))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s%s`, schema.Act.Table, clause)
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_acts")
	}

	query := fmt.Sprintf(`SELECT * FROM %s%s ORDER BY %s ASC, %s ASC LIMIT $%s OFFSET $%s`,
		schema.Act.Table, clause, schema.Act.Name, schema.Act.ID,
		strconv.Itoa(len(args)+1), strconv.Itoa(len(args)+2),
	)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_acts")
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "scan_acts")
	}

	return records, total, nil
}

func (repository *PostgresRepository) GetAct(context context.Context, id int) (map[string]any, error) {
	query := fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1`, schema.Act.Table, schema.Act.ID)

	rows, err := repository.db.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "get_act")
	}

	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToMap)
	return record, dberr.Wrap(err, "get_act")
}

func (repository *PostgresRepository) CreateAct(context context.Context, act *Act) error {
	args, err := writeArgs(act)
	if err != nil {
		return err
	}

	// List columns travel as array literal text and are cast server side.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2::text::text[], $3::text::text[], $4, $5, $6::text::jsonb, $7::text::text[], $8, $9)
		RETURNING %s, %s
	`,
		schema.Act.Table, schema.Act.Name, schema.Act.Genre, schema.Act.GroupSize, schema.Act.Contact,
		schema.Act.SocialLinks, schema.Act.MusicLinks, schema.Act.Images, schema.Act.PlayShows, schema.Act.Location,
		schema.Act.ID, schema.Act.CreatedAt,
	)

	err = repository.db.QueryRow(context, query, args...).Scan(&act.ID, &act.CreatedAt)
	return dberr.Wrap(err, "create_act")
}

func (repository *PostgresRepository) UpdateAct(context context.Context, act *Act) error {
	args, err := writeArgs(act)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3::text::text[], %s = $4::text::text[], %s = $5, %s = $6,
		    %s = $7::text::jsonb, %s = $8::text::text[], %s = $9, %s = $10
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Act.Table, schema.Act.Name, schema.Act.Genre, schema.Act.GroupSize, schema.Act.Contact,
		schema.Act.SocialLinks, schema.Act.MusicLinks, schema.Act.Images, schema.Act.PlayShows, schema.Act.Location,
		schema.Act.ID, schema.Act.CreatedAt,
	)

	err = repository.db.QueryRow(context, query, append([]any{act.ID}, args...)...).Scan(&act.CreatedAt)
	return dberr.Wrap(err, "update_act")
}

// FindActsByNormalizedNames resolves names in one round trip. When two acts
// share a normalised name the lowest id wins.
func (repository *PostgresRepository) FindActsByNormalizedNames(context context.Context, names []string) (map[string]int, error) {
	found := make(map[string]int, len(names))
	if len(names) == 0 {
		return found, nil
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s ASC`,
		schema.Act.ID, schema.Act.Name, schema.Act.Table, normalizedName, schema.Act.ID,
	)

	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	err := repository.collectNames(context, "find_acts_by_names", query, found, func(key string) bool {
		_, ok := wanted[key]
		return ok
	}, names)

	return found, err
}

// ActNameIndex loads the whole registry as normalised name to lowest id.
func (repository *PostgresRepository) ActNameIndex(context context.Context) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s ASC`,
		schema.Act.ID, schema.Act.Name, schema.Act.Table, schema.Act.ID,
	)

	index := make(map[string]int)
	err := repository.collectNames(context, "act_name_index", query, index, func(string) bool { return true })
	return index, err
}

// collectNames scans (id, name) rows ordered by id into index, keeping the
// first id seen per normalised name.
func (repository *PostgresRepository) collectNames(context context.Context, action, query string, index map[string]int, keep func(string) bool, args ...any) error {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return dberr.Wrap(err, action)
		}

		key := textnorm.Name(name)
		if key == "" || !keep(key) {
			continue
		}
		if _, taken := index[key]; !taken {
			index[key] = id
		}
	}

	return dberr.Wrap(rows.Err(), action)
}

// writeArgs encodes an act into the stored column forms, in insert order.
func writeArgs(act *Act) ([]any, error) {
	social, err := fieldcodec.EncodeStructured(act.SocialLinks)
	if err != nil {
		return nil, err
	}
	music, err := fieldcodec.EncodeStructured(act.MusicLinks)
	if err != nil {
		return nil, err
	}

	return []any{
		act.Name,
		fieldcodec.EncodeArray(act.Genre),
		fieldcodec.EncodeArray(act.GroupSize),
		act.Contact,
		social,
		music,
		fieldcodec.EncodeArray(act.Images),
		act.PlayShows,
		act.Location,
	}, nil
}
