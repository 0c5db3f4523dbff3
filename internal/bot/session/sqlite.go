package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/common"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists sessions so an open conversation survives a restart.
// One row per user; the collected fields travel as a JSON blob, which keeps
// the schema stable while the form evolves.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS sessions (
		user_id    INTEGER PRIMARY KEY,
		step       INTEGER NOT NULL,
		data       TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open error: %w", err)
	}
	// modernc sqlite serializes writers itself; one connection avoids
	// SQLITE_BUSY on concurrent updates.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("sqlite schema error: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, userID int64) (*models.Session, error) {
	query := `SELECT step, data, created_at FROM sessions WHERE user_id = ?`

	var (
		step      int64
		data      string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&step, &data, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	sess := &models.Session{
		UserID:    userID,
		Step:      models.Step(step),
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}
	if err := json.Unmarshal([]byte(data), &sess.Data); err != nil {
		return nil, fmt.Errorf("session data decode error: %w", err)
	}
	return sess, nil
}

func (s *SQLiteStore) Create(ctx context.Context, userID int64, createdAt time.Time) (*models.Session, error) {
	sess := &models.Session{
		UserID:    userID,
		Step:      models.StepPhoto,
		CreatedAt: createdAt,
	}

	data, err := json.Marshal(sess.Data)
	if err != nil {
		return nil, fmt.Errorf("session data encode error: %w", err)
	}

	query := `INSERT INTO sessions (user_id, step, data, created_at)
	          VALUES (?, ?, ?, ?)
	          ON CONFLICT(user_id) DO NOTHING`

	res, err := s.db.ExecContext(ctx, query, userID, int64(sess.Step), string(data), createdAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if ra == 0 {
		return nil, common.ErrSessionExists
	}

	return sess, nil
}

func (s *SQLiteStore) Update(ctx context.Context, userID int64, mutate func(*models.Session) error) error {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if err := mutate(sess); err != nil {
		return err
	}

	data, err := json.Marshal(sess.Data)
	if err != nil {
		return fmt.Errorf("session data encode error: %w", err)
	}

	query := `UPDATE sessions SET step = ?, data = ? WHERE user_id = ?`
	if _, err := s.db.ExecContext(ctx, query, int64(sess.Step), string(data), userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context, userID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ra > 0, nil
}

func (s *SQLiteStore) ClearOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return int(ra), nil
}
