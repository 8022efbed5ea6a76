package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"achihouse/internal/models"
)

const testimonialColumns = `id, slug, COALESCE(quote_vi, ''), COALESCE(quote_en, ''), rating,
	author_name, COALESCE(author_role_vi, ''), COALESCE(author_role_en, ''),
	COALESCE(avatar_initials, ''), COALESCE(avatar_asset_id, 0), COALESCE(media_asset_ids, ''),
	COALESCE(source, ''), is_featured, is_active, sort_order, created_at, updated_at`

func (db *DB) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	query := `INSERT INTO testimonials (
				slug, quote_vi, quote_en, rating, author_name, author_role_vi, author_role_en,
				avatar_initials, avatar_asset_id, media_asset_ids, source,
				is_featured, is_active, sort_order, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.db.ExecContext(ctx, query,
		t.Slug,
		t.Quote.Vi, t.Quote.En,
		t.Rating,
		t.AuthorName,
		t.AuthorRole.Vi, t.AuthorRole.En,
		t.AvatarInitials,
		t.AvatarAssetID,
		encodeIDList(t.MediaAssetIDs),
		t.Source,
		t.IsFeatured,
		t.IsActive,
		t.SortOrder,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("create testimonial: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (db *DB) GetTestimonial(ctx context.Context, id int64) (*models.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = ?`
	t, err := scanTestimonial(db.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return t, nil
}

// ListTestimonials returns a page plus the total count. With activeOnly set,
// only active rows are considered, ordered for public display.
func (db *DB) ListTestimonials(ctx context.Context, page, limit int, activeOnly bool) ([]models.Testimonial, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = models.DefaultPageLimit
	}

	where := ""
	if activeOnly {
		where = " WHERE is_active = 1"
	}

	var total int
	if err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM testimonials`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count testimonials: %w", err)
	}

	query := `SELECT ` + testimonialColumns + ` FROM testimonials` + where + `
              ORDER BY is_featured DESC, sort_order, id
              LIMIT ? OFFSET ?`
	rows, err := db.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var testimonials []models.Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan testimonial: %w", err)
		}
		testimonials = append(testimonials, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return testimonials, total, nil
}

func (db *DB) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	query := `UPDATE testimonials SET
				slug = ?, quote_vi = ?, quote_en = ?, rating = ?, author_name = ?,
				author_role_vi = ?, author_role_en = ?, avatar_initials = ?,
				avatar_asset_id = ?, media_asset_ids = ?, source = ?,
				is_featured = ?, is_active = ?, sort_order = ?, updated_at = ?
              WHERE id = ?`
	now := time.Now()
	result, err := db.db.ExecContext(ctx, query,
		t.Slug,
		t.Quote.Vi, t.Quote.En,
		t.Rating,
		t.AuthorName,
		t.AuthorRole.Vi, t.AuthorRole.En,
		t.AvatarInitials,
		t.AvatarAssetID,
		encodeIDList(t.MediaAssetIDs),
		t.Source,
		t.IsFeatured,
		t.IsActive,
		t.SortOrder,
		now,
		t.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("update testimonial: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	t.UpdatedAt = now
	return nil
}

func (db *DB) DeleteTestimonial(ctx context.Context, id int64) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTestimonial(row rowScanner) (*models.Testimonial, error) {
	var t models.Testimonial
	var mediaIDs string
	err := row.Scan(
		&t.ID, &t.Slug, &t.Quote.Vi, &t.Quote.En, &t.Rating,
		&t.AuthorName, &t.AuthorRole.Vi, &t.AuthorRole.En,
		&t.AvatarInitials, &t.AvatarAssetID, &mediaIDs,
		&t.Source, &t.IsFeatured, &t.IsActive, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.MediaAssetIDs = decodeIDList(mediaIDs)
	return &t, nil
}

func encodeIDList(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

func decodeIDList(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
