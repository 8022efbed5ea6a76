package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"achihouse/internal/models"
)

const mediaAssetColumns = `id, slug, kind, COALESCE(provider, ''), url,
	COALESCE(alt_vi, ''), COALESCE(alt_en, ''), COALESCE(caption_vi, ''), COALESCE(caption_en, ''),
	COALESCE(tags, ''), sort_order, is_active, created_at, updated_at`

func (db *DB) CreateMediaAsset(ctx context.Context, a *models.MediaAsset) error {
	query := `INSERT INTO media_assets (
				slug, kind, provider, url, alt_vi, alt_en, caption_vi, caption_en,
				tags, sort_order, is_active, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	if a.Kind == "" {
		a.Kind = "image"
	}
	result, err := db.db.ExecContext(ctx, query,
		a.Slug,
		a.Kind,
		a.Provider,
		a.URL,
		a.Alt.Vi, a.Alt.En,
		a.Caption.Vi, a.Caption.En,
		encodeTags(a.Tags),
		a.SortOrder,
		a.IsActive,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("create media asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

func (db *DB) GetMediaAsset(ctx context.Context, id int64) (*models.MediaAsset, error) {
	query := `SELECT ` + mediaAssetColumns + ` FROM media_assets WHERE id = ?`
	a, err := scanMediaAsset(db.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get media asset: %w", err)
	}
	return a, nil
}

func (db *DB) ListMediaAssets(ctx context.Context, page, limit int, activeOnly bool) ([]models.MediaAsset, int, error) {
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
	if err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media_assets`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count media assets: %w", err)
	}

	query := `SELECT ` + mediaAssetColumns + ` FROM media_assets` + where + `
              ORDER BY sort_order, id
              LIMIT ? OFFSET ?`
	rows, err := db.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list media assets: %w", err)
	}
	defer rows.Close()

	var assets []models.MediaAsset
	for rows.Next() {
		a, err := scanMediaAsset(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan media asset: %w", err)
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

func (db *DB) UpdateMediaAsset(ctx context.Context, a *models.MediaAsset) error {
	query := `UPDATE media_assets SET
				slug = ?, kind = ?, provider = ?, url = ?, alt_vi = ?, alt_en = ?,
				caption_vi = ?, caption_en = ?, tags = ?, sort_order = ?, is_active = ?, updated_at = ?
              WHERE id = ?`
	now := time.Now()
	result, err := db.db.ExecContext(ctx, query,
		a.Slug, a.Kind, a.Provider, a.URL,
		a.Alt.Vi, a.Alt.En, a.Caption.Vi, a.Caption.En,
		encodeTags(a.Tags), a.SortOrder, a.IsActive, now, a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("update media asset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	a.UpdatedAt = now
	return nil
}

func (db *DB) DeleteMediaAsset(ctx context.Context, id int64) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM media_assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete media asset: %w", err)
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

func scanMediaAsset(row rowScanner) (*models.MediaAsset, error) {
	var a models.MediaAsset
	var tags string
	err := row.Scan(
		&a.ID, &a.Slug, &a.Kind, &a.Provider, &a.URL,
		&a.Alt.Vi, &a.Alt.En, &a.Caption.Vi, &a.Caption.En,
		&tags, &a.SortOrder, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Tags = decodeTags(tags)
	return &a, nil
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	data, _ := json.Marshal(tags)
	return string(data)
}

func decodeTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}
