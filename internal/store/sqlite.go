package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"fatenexus/internal/fate"
)

// SQLiteStore implements Repository on a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLite opens (or creates) the database at path and ensures the schema
// exists.
func NewSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure db directory: %w", err)
	}

	dsn := path + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS room_snapshots (
			code TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_room_snapshots_updated ON room_snapshots(updated_at DESC);`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// SaveRoom serializes the room and replaces its snapshot.
func (s *SQLiteStore) SaveRoom(ctx context.Context, room fate.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", room.Code, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO room_snapshots (code, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		room.Code, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save room %s: %w", room.Code, err)
	}
	return nil
}

// LoadRooms restores every readable snapshot. Rows that fail to parse are
// logged and skipped so that one bad snapshot cannot take down startup.
func (s *SQLiteStore) LoadRooms(ctx context.Context) ([]fate.Room, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, data FROM room_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var rooms []fate.Room
	for rows.Next() {
		var code, data string
		if err := rows.Scan(&code, &data); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		var room fate.Room
		if err := json.Unmarshal([]byte(data), &room); err != nil {
			s.logger.Error("skipping malformed snapshot", slog.String("code", code), slog.String("error", err.Error()))
			continue
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return rooms, nil
}

// DeleteRoom removes the snapshot for a code.
func (s *SQLiteStore) DeleteRoom(ctx context.Context, code string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM room_snapshots WHERE code = ?`, code); err != nil {
		return fmt.Errorf("delete room %s: %w", code, err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
