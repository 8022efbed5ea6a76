package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned when an optimistic version check fails.
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicateSlug is returned when a slug is already taken.
	ErrDuplicateSlug = errors.New("duplicate slug")
)

type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	var dbLogger zerolog.Logger
	if logger != nil {
		dbLogger = logger.With().Str("component", "database").Logger()
	}
	dbLogger.Info().Str("path", path).Msg("database initialized")

	return &DB{db: db, logger: dbLogger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reservation_requests (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            full_name TEXT NOT NULL,
            phone_number TEXT NOT NULL,
            email TEXT,
            guest_count INTEGER NOT NULL,
            reservation_date TEXT NOT NULL,
            reservation_time TEXT NOT NULL,
            note TEXT,
            source TEXT,
            locale TEXT,
            status TEXT NOT NULL DEFAULT 'pending',
            emailed_at DATETIME,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            version INTEGER NOT NULL DEFAULT 1
        )`,
		`CREATE TABLE IF NOT EXISTS testimonials (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            slug TEXT UNIQUE NOT NULL,
            quote_vi TEXT,
            quote_en TEXT,
            rating INTEGER NOT NULL DEFAULT 5,
            author_name TEXT NOT NULL,
            author_role_vi TEXT,
            author_role_en TEXT,
            avatar_initials TEXT,
            avatar_asset_id INTEGER,
            media_asset_ids TEXT,
            source TEXT,
            is_featured BOOLEAN NOT NULL DEFAULT 0,
            is_active BOOLEAN NOT NULL DEFAULT 1,
            sort_order INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS media_assets (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            slug TEXT UNIQUE NOT NULL,
            kind TEXT NOT NULL DEFAULT 'image',
            provider TEXT,
            url TEXT NOT NULL,
            alt_vi TEXT,
            alt_en TEXT,
            caption_vi TEXT,
            caption_en TEXT,
            tags TEXT,
            sort_order INTEGER NOT NULL DEFAULT 0,
            is_active BOOLEAN NOT NULL DEFAULT 1,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS notify_queue (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            task_type TEXT NOT NULL,
            reservation_id INTEGER NOT NULL,
            payload TEXT,
            status TEXT NOT NULL DEFAULT 'pending',
            retry_count INTEGER NOT NULL DEFAULT 0,
            last_error TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            processed_at DATETIME,
            next_retry_at DATETIME
        )`,

		`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservation_requests(reservation_date)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservation_requests(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_created ON reservation_requests(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_testimonials_active ON testimonials(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_media_assets_active ON media_assets(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_notify_queue_status ON notify_queue(status)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("exec %q: %w", query[:40], err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) Ping() error {
	return db.db.Ping()
}
