// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/sitecms/internal/platform/apperr"
	"github.com/taibuivan/sitecms/internal/platform/database/schema"
	"github.com/taibuivan/sitecms/internal/platform/dberr"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] on cms.content using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed content store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	selectColumns = strings.Join(schema.CMSContent.Columns(), ", ")

	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

func (repository *PostgresRepository) Create(context context.Context, content *Content) error {
	metadata, err := encodeMetadata(content.Metadata)
	if err != nil {
		return err
	}

	columns := schema.CMSContent.Columns()
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		schema.CMSContent.Table, selectColumns, strings.Join(placeholders, ", "))

	_, err = repository.pool.Exec(context, query,
		content.ID, content.Title, content.Slug, content.Excerpt, content.Body,
		content.Status, content.Type, content.Locale,
		content.FeaturedImage, content.SEOTitle, content.SEODescription,
		nonNil(content.Tags), nonNil(content.Categories),
		content.PublishedAt, content.AuthorID, metadata,
		content.CreatedAt, content.UpdatedAt,
	)
	if dberr.IsUniqueViolation(err, schema.CMSContent.ScopeSlugIndex) {
		return ErrSlugTaken
	}
	return dberr.Wrap(err, resourceName, "insert_content")
}

func (repository *PostgresRepository) Update(context context.Context, content *Content) error {
	metadata, err := encodeMetadata(content.Metadata)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
			%s = $9, %s = $10, %s = $11, %s = $12, %s = $13,
			%s = $14, %s = $15, %s = $16
		WHERE %s = $1`,
		schema.CMSContent.Table,
		schema.CMSContent.Title, schema.CMSContent.Slug, schema.CMSContent.Excerpt,
		schema.CMSContent.Body, schema.CMSContent.Status, schema.CMSContent.Type, schema.CMSContent.Locale,
		schema.CMSContent.FeaturedImage, schema.CMSContent.SEOTitle, schema.CMSContent.SEODescription,
		schema.CMSContent.Tags, schema.CMSContent.Categories,
		schema.CMSContent.PublishedAt, schema.CMSContent.Metadata, schema.CMSContent.UpdatedAt,
		schema.CMSContent.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		content.ID, content.Title, content.Slug, content.Excerpt,
		content.Body, content.Status, content.Type, content.Locale,
		content.FeaturedImage, content.SEOTitle, content.SEODescription,
		nonNil(content.Tags), nonNil(content.Categories),
		content.PublishedAt, metadata, content.UpdatedAt,
	)
	if dberr.IsUniqueViolation(err, schema.CMSContent.ScopeSlugIndex) {
		return ErrSlugTaken
	}
	if err != nil {
		return dberr.Wrap(err, resourceName, "update_content")
	}
	if tag.RowsAffected() == 0 {
		return errNotFound()
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CMSContent.Table, schema.CMSContent.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceName, "delete_content")
	}
	if tag.RowsAffected() == 0 {
		return errNotFound()
	}
	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Content, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.CMSContent.Table, schema.CMSContent.ID)

	content, err := scanContent(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "find_content_by_id")
	}
	return content, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, lookup SlugLookup) (*Content, error) {
	conditions := []string{
		fmt.Sprintf("%s = $1", schema.CMSContent.Slug),
		fmt.Sprintf("%s = $2", schema.CMSContent.Locale),
	}
	args := []any{lookup.Slug, lookup.Locale}

	if lookup.Type != "" {
		args = append(args, lookup.Type)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.CMSContent.Type, len(args)))
	}
	if lookup.PublicOnly {
		args = append(args, StatusPublished)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.CMSContent.Status, len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s DESC, %s DESC LIMIT 1`,
		selectColumns, schema.CMSContent.Table, strings.Join(conditions, " AND "),
		schema.CMSContent.CreatedAt, schema.CMSContent.ID)

	content, err := scanContent(repository.pool.QueryRow(context, query, args...))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName, "find_content_by_slug")
	}
	return content, nil
}

func (repository *PostgresRepository) SlugExists(context context.Context, scope Scope, slug, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3 AND ($4 = '' OR %s::text <> $4))`,
		schema.CMSContent.Table,
		schema.CMSContent.Locale, schema.CMSContent.Type, schema.CMSContent.Slug, schema.CMSContent.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, scope.Locale, scope.Type, slug, excludeID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, resourceName, "probe_content_slug")
	}
	return exists, nil
}

/*
List returns a filtered page and the total count.

Description: The total comes from a separate COUNT over the same WHERE clause,
so an empty page past the end still reports how many records match.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Content, int, error) {
	where, args := buildListWhere(filter)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, schema.CMSContent.Table, where)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "count_content")
	}

	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d`,
		selectColumns, schema.CMSContent.Table, where,
		schema.CMSContent.CreatedAt, schema.CMSContent.ID, len(args)-1, len(args))

	rows, err := repository.pool.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "list_content")
	}
	defer rows.Close()

	items := make([]*Content, 0, limit)
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName, "scan_content")
		}
		items = append(items, content)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName, "list_content")
	}

	return items, total, nil
}

// buildListWhere renders the WHERE clause shared by the count and page queries.
func buildListWhere(filter Filter) (string, []any) {
	var conditions []string
	var args []any

	equals := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.Type != "" {
		equals(schema.CMSContent.Type, filter.Type)
	}
	if filter.Locale != "" {
		equals(schema.CMSContent.Locale, filter.Locale)
	}
	if filter.Status != "" {
		equals(schema.CMSContent.Status, filter.Status)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		placeholder := len(args)
		conditions = append(conditions, fmt.Sprintf(`(%s ILIKE $%d ESCAPE '\' OR %s ILIKE $%d ESCAPE '\' OR COALESCE(%s, '') ILIKE $%d ESCAPE '\')`,
			schema.CMSContent.Title, placeholder,
			schema.CMSContent.Body, placeholder,
			schema.CMSContent.Excerpt, placeholder,
		))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanContent(row pgx.Row) (*Content, error) {
	content := &Content{}
	var metadata []byte

	err := row.Scan(
		&content.ID, &content.Title, &content.Slug, &content.Excerpt, &content.Body,
		&content.Status, &content.Type, &content.Locale,
		&content.FeaturedImage, &content.SEOTitle, &content.SEODescription,
		&content.Tags, &content.Categories,
		&content.PublishedAt, &content.AuthorID, &metadata,
		&content.CreatedAt, &content.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &content.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return content, nil
}

func encodeMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return []byte("{}"), nil
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("encode metadata: %w", err))
	}
	return encoded, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
