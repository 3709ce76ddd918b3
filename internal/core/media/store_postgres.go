// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/sitecms/internal/platform/database/schema"
	"github.com/taibuivan/sitecms/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on cms.media.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed media registry.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	selectColumns = strings.Join(schema.CMSMedia.Columns(), ", ")

	prefixEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

func (repository *PostgresRepository) Create(context context.Context, media *Media) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.CMSMedia.Table, selectColumns)

	_, err := repository.pool.Exec(context, query,
		media.ID, media.Filename, media.OriginalName, media.MimeType, media.Size,
		media.URL, media.Alt, media.Caption, media.UploadedBy, media.UploadedAt,
	)
	return dberr.Wrap(err, resourceName, "insert_media")
}

func (repository *PostgresRepository) UpdateDetails(context context.Context, media *Media) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.CMSMedia.Table, schema.CMSMedia.Alt, schema.CMSMedia.Caption, schema.CMSMedia.ID)

	tag, err := repository.pool.Exec(context, query, media.ID, media.Alt, media.Caption)
	if err != nil {
		return dberr.Wrap(err, resourceName, "update_media")
	}
	if tag.RowsAffected() == 0 {
		return errNotFound()
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CMSMedia.Table, schema.CMSMedia.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceName, "delete_media")
	}
	if tag.RowsAffected() == 0 {
		return errNotFound()
	}
	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Media, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.CMSMedia.Table, schema.CMSMedia.ID)

	media, err := scanMedia(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "find_media_by_id")
	}
	return media, nil
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Media, int, error) {
	var where string
	var args []any
	if filter.MimePrefix != "" {
		args = append(args, prefixEscaper.Replace(filter.MimePrefix)+"%")
		where = fmt.Sprintf(`WHERE %s LIKE $1 ESCAPE '\'`, schema.CMSMedia.MimeType)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, schema.CMSMedia.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "count_media")
	}

	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d`,
		selectColumns, schema.CMSMedia.Table, where,
		schema.CMSMedia.UploadedAt, schema.CMSMedia.ID, len(args)-1, len(args))

	rows, err := repository.pool.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "list_media")
	}
	defer rows.Close()

	items := make([]*Media, 0, limit)
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName, "scan_media")
		}
		items = append(items, media)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "list_media")
	}

	return items, total, nil
}

func scanMedia(row pgx.Row) (*Media, error) {
	media := &Media{}
	err := row.Scan(
		&media.ID, &media.Filename, &media.OriginalName, &media.MimeType, &media.Size,
		&media.URL, &media.Alt, &media.Caption, &media.UploadedBy, &media.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return media, nil
}
