package records

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.TastingRecord) (int64, error) {
	query :=
		`INSERT INTO tasting_records (user_id, occurred_at, wine_name, region, grapes, vintage_year, experience)
	     VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.OccurredAt, rec.WineName, rec.Region, rec.Grapes, rec.VintageYear, rec.Experience).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	rec.ID = id
	return id, nil
}

func (r *PostgresRepository) AddPhoto(ctx context.Context, photo *models.PhotoRef) error {
	query :=
		`INSERT INTO photo_refs (id, tasting_record_id)
	     VALUES ($1, $2)
		 `

	_, err := r.db.ExecContext(ctx, query, photo.ID, photo.TastingRecordID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ListRecent loads the newest records with their photo refs in two queries,
// joining in memory. limit <= 0 means no limit.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]models.TastingRecord, error) {
	query :=
		`SELECT id, user_id, occurred_at, wine_name, region, grapes, vintage_year, experience
		 FROM tasting_records
		 ORDER BY occurred_at DESC
		 `
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.TastingRecord
	index := make(map[int64]int)
	for rows.Next() {
		var rec models.TastingRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.OccurredAt,
			&rec.WineName, &rec.Region, &rec.Grapes, &rec.VintageYear, &rec.Experience); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		index[rec.ID] = len(result)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(result) == 0 {
		return result, nil
	}

	ids := make([]int64, 0, len(result))
	for _, rec := range result {
		ids = append(ids, rec.ID)
	}

	photoQuery :=
		`SELECT id, tasting_record_id FROM photo_refs
		 WHERE tasting_record_id = ANY($1)
		 `

	photoRows, err := r.db.QueryContext(ctx, photoQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer photoRows.Close()

	for photoRows.Next() {
		var photo models.PhotoRef
		if err := photoRows.Scan(&photo.ID, &photo.TastingRecordID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if i, ok := index[photo.TastingRecordID]; ok {
			result[i].Photos = append(result[i].Photos, photo)
		}
	}
	if err := photoRows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
