package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/bot/repositories/repomanager"
	"github.com/dmitrijs2005/winelog/internal/common"
)

// sliceConverter lets int64 slices pass through to the mock the way the pgx
// driver accepts them for ANY($1).
type sliceConverter struct{}

func (sliceConverter) ConvertValue(v any) (driver.Value, error) {
	if ids, ok := v.([]int64); ok {
		return ids, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newRecordService(t *testing.T) (*RecordService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.ValueConverterOption(sliceConverter{}),
	)
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewRecordService(db, repomanager.NewPostgresRepositoryManager()), mock, db
}

var (
	persistUser = &models.User{
		ID: 7, Username: "alice", FirstName: "Alice",
		JoinedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	persistAt = time.Date(2021, 7, 5, 9, 3, 7, 0, time.UTC)
)

func persistRecord() *models.TastingRecord {
	year := int64(2015)
	return &models.TastingRecord{
		UserID: 7, OccurredAt: persistAt,
		WineName: "Margaux", Region: "Bordeaux", Grapes: "Cabernet",
		VintageYear: &year, Experience: "notes",
		Photos: []models.PhotoRef{{ID: "20210705_090307_uniq"}},
	}
}

func TestPersist_CommitsUserRecordAndPhotos(t *testing.T) {
	s, mock, db := newRecordService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WithArgs(int64(7), "alice", "Alice", "", "", persistUser.JoinedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+tasting_records`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+photo_refs`).
		WithArgs("20210705_090307_uniq", int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := persistRecord()
	id, err := s.Persist(context.Background(), persistUser, rec)
	if err != nil {
		t.Fatalf("Persist error: %v", err)
	}
	if id != 11 {
		t.Fatalf("expected id 11, got %d", id)
	}
	if rec.Photos[0].TastingRecordID != 11 {
		t.Fatalf("photo not linked to record: %+v", rec.Photos[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPersist_RecordInsertFails_RollsBack(t *testing.T) {
	s, mock, db := newRecordService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+tasting_records`).
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err := s.Persist(context.Background(), persistUser, persistRecord())
	if !errors.Is(err, common.ErrPersist) {
		t.Fatalf("want common.ErrPersist, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPersist_PhotoInsertFails_RollsBack(t *testing.T) {
	s, mock, db := newRecordService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+tasting_records`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+photo_refs`).
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err := s.Persist(context.Background(), persistUser, persistRecord())
	if !errors.Is(err, common.ErrPersist) {
		t.Fatalf("want common.ErrPersist, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListRecent_DelegatesToRepository(t *testing.T) {
	s, mock, db := newRecordService(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "occurred_at", "wine_name", "region", "grapes", "vintage_year", "experience"}).
		AddRow(int64(1), int64(7), persistAt, "Margaux", "Bordeaux", "Cabernet", nil, "notes")
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*user_id`).
		WillReturnRows(rows)
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*tasting_record_id\s+FROM\s+photo_refs`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tasting_record_id"}))

	got, err := s.ListRecent(context.Background(), 200)
	if err != nil {
		t.Fatalf("ListRecent error: %v", err)
	}
	if len(got) != 1 || got[0].WineName != "Margaux" {
		t.Fatalf("unexpected records: %+v", got)
	}
}
