package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/common"
	"github.com/dmitrijs2005/winelog/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, username, first_name, last_name, lang, joined_at FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Lang, &user.JoinedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, user *models.User) (bool, error) {
	query :=
		`INSERT INTO users (id, username, first_name, last_name, lang, joined_at)
	     VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.FirstName, user.LastName, user.Lang, user.JoinedAt)

	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return ra > 0, nil
}
