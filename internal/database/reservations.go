package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"achihouse/internal/models"
)

const reservationColumns = `id, full_name, phone_number, COALESCE(email, ''), guest_count,
	reservation_date, reservation_time, COALESCE(note, ''), COALESCE(source, ''),
	COALESCE(locale, ''), status, emailed_at, created_at, updated_at, version`

func (db *DB) CreateReservationRequest(ctx context.Context, r *models.ReservationRequest) error {
	query := `INSERT INTO reservation_requests (
				full_name, phone_number, email, guest_count, reservation_date,
				reservation_time, note, source, locale, status, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	if r.Status == "" {
		r.Status = models.StatusPending
	}
	result, err := db.db.ExecContext(ctx, query,
		r.FullName,
		r.PhoneNumber,
		r.Email,
		r.GuestCount,
		r.ReservationDate,
		r.ReservationTime,
		r.Note,
		r.Source,
		r.Locale,
		r.Status,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("create reservation request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Version = 1

	return nil
}

func (db *DB) GetReservationRequest(ctx context.Context, id int64) (*models.ReservationRequest, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservation_requests WHERE id = ?`

	var r models.ReservationRequest
	err := db.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.FullName, &r.PhoneNumber, &r.Email, &r.GuestCount,
		&r.ReservationDate, &r.ReservationTime, &r.Note, &r.Source,
		&r.Locale, &r.Status, &r.EmailedAt, &r.CreatedAt, &r.UpdatedAt, &r.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation request: %w", err)
	}
	return &r, nil
}

// ListReservationRequests returns a page of requests ordered newest first,
// along with the total row count for pagination.
func (db *DB) ListReservationRequests(ctx context.Context, page, limit int) ([]models.ReservationRequest, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = models.DefaultPageLimit
	}

	var total int
	if err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservation_requests`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reservation requests: %w", err)
	}

	query := `SELECT ` + reservationColumns + `
              FROM reservation_requests
              ORDER BY created_at DESC, id DESC
              LIMIT ? OFFSET ?`
	rows, err := db.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservation requests: %w", err)
	}
	defer rows.Close()

	var requests []models.ReservationRequest
	for rows.Next() {
		var r models.ReservationRequest
		if err := rows.Scan(
			&r.ID, &r.FullName, &r.PhoneNumber, &r.Email, &r.GuestCount,
			&r.ReservationDate, &r.ReservationTime, &r.Note, &r.Source,
			&r.Locale, &r.Status, &r.EmailedAt, &r.CreatedAt, &r.UpdatedAt, &r.Version,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// ListReservationRequestsByDateRange returns requests whose reservation date
// falls within [start, end], ordered by reservation date and time.
func (db *DB) ListReservationRequestsByDateRange(ctx context.Context, start, end string) ([]models.ReservationRequest, error) {
	query := `SELECT ` + reservationColumns + `
              FROM reservation_requests
              WHERE reservation_date BETWEEN ? AND ?
              ORDER BY reservation_date, reservation_time, id`
	rows, err := db.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list reservation requests by range: %w", err)
	}
	defer rows.Close()

	var requests []models.ReservationRequest
	for rows.Next() {
		var r models.ReservationRequest
		if err := rows.Scan(
			&r.ID, &r.FullName, &r.PhoneNumber, &r.Email, &r.GuestCount,
			&r.ReservationDate, &r.ReservationTime, &r.Note, &r.Source,
			&r.Locale, &r.Status, &r.EmailedAt, &r.CreatedAt, &r.UpdatedAt, &r.Version,
		); err != nil {
			return nil, fmt.Errorf("scan reservation request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// UpdateReservationStatusWithVersion applies an optimistic status update.
func (db *DB) UpdateReservationStatusWithVersion(ctx context.Context, id, version int64, status string) error {
	query := `UPDATE reservation_requests
              SET status = ?, updated_at = ?, version = version + 1
              WHERE id = ? AND version = ?`
	result, err := db.db.ExecContext(ctx, query, status, time.Now(), id, version)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or someone got there first.
		if _, err := db.GetReservationRequest(ctx, id); err != nil {
			return err
		}
		return ErrVersionConflict
	}
	return nil
}

// MarkReservationEmailed records the moment the confirmation email went out.
func (db *DB) MarkReservationEmailed(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE reservation_requests SET emailed_at = ?, updated_at = ? WHERE id = ?`
	result, err := db.db.ExecContext(ctx, query, at, time.Now(), id)
	if err != nil {
		return fmt.Errorf("mark reservation emailed: %w", err)
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

func (db *DB) DeleteReservationRequest(ctx context.Context, id int64) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM reservation_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reservation request: %w", err)
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
