package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/bot/repositories/repomanager"
	"github.com/dmitrijs2005/winelog/internal/common"
	"github.com/dmitrijs2005/winelog/internal/dbx"
)

// RecordService performs the terminal write of a completed conversation and
// the listing read used by the webapp.
type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager) *RecordService {
	return &RecordService{db: db, repomanager: m}
}

// Persist writes the tasting record and its photo refs as one transaction,
// upserting the owning user first so a record can never reference a missing
// user row. Either everything commits or nothing is visible to readers.
// Failures surface as common.ErrPersist; the caller decides what happens to
// the already-uploaded blob.
func (s *RecordService) Persist(ctx context.Context, user *models.User, rec *models.TastingRecord) (int64, error) {
	var id int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userRepo := s.repomanager.Users(tx)
		recordRepo := s.repomanager.Records(tx)

		if _, err := userRepo.Upsert(ctx, user); err != nil {
			return err
		}

		recordID, err := recordRepo.Create(ctx, rec)
		if err != nil {
			return err
		}
		id = recordID

		for i := range rec.Photos {
			rec.Photos[i].TastingRecordID = recordID
			if err := recordRepo.AddPhoto(ctx, &rec.Photos[i]); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrPersist, err)
	}

	return id, nil
}

// ListRecent returns records newest-first with photo refs populated.
func (s *RecordService) ListRecent(ctx context.Context, limit int) ([]models.TastingRecord, error) {
	recs, err := s.repomanager.Records(s.db).ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}
	return recs, nil
}
