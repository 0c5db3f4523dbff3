package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/bot/repositories/records"
	"github.com/dmitrijs2005/winelog/internal/bot/repositories/users"
	"github.com/dmitrijs2005/winelog/internal/common"
	"github.com/dmitrijs2005/winelog/internal/dbx"
)

type fakeUserRepo struct {
	users.Repository
	getByID func(ctx context.Context, id int64) (*models.User, error)
	upsert  func(ctx context.Context, u *models.User) (bool, error)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return f.getByID(ctx, id)
}

func (f *fakeUserRepo) Upsert(ctx context.Context, u *models.User) (bool, error) {
	return f.upsert(ctx, u)
}

type fakeRepoManager struct {
	userRepo users.Repository
}

func (f *fakeRepoManager) Users(dbx.DBTX) users.Repository { return f.userRepo }

func (f *fakeRepoManager) Records(dbx.DBTX) records.Repository { return nil }

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func candidateUser() *models.User {
	return &models.User{
		ID: 42, Username: "alice", FirstName: "Alice",
		JoinedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestGetOrCreate_ExistingUser(t *testing.T) {
	stored := &models.User{ID: 42, Username: "alice-old"}
	repo := &fakeUserRepo{
		getByID: func(ctx context.Context, id int64) (*models.User, error) {
			if id != 42 {
				t.Fatalf("unexpected id: %d", id)
			}
			return stored, nil
		},
	}
	s := NewUserService(nil, &fakeRepoManager{userRepo: repo})

	got, isNew, err := s.GetOrCreate(context.Background(), candidateUser())
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if isNew {
		t.Fatalf("expected isNew=false for stored user")
	}
	if got != stored {
		t.Fatalf("expected stored user back, got %+v", got)
	}
}

func TestGetOrCreate_NewUser(t *testing.T) {
	var upserted *models.User
	repo := &fakeUserRepo{
		getByID: func(ctx context.Context, id int64) (*models.User, error) {
			return nil, common.ErrorNotFound
		},
		upsert: func(ctx context.Context, u *models.User) (bool, error) {
			upserted = u
			return true, nil
		},
	}
	s := NewUserService(nil, &fakeRepoManager{userRepo: repo})

	candidate := candidateUser()
	got, isNew, err := s.GetOrCreate(context.Background(), candidate)
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if !isNew {
		t.Fatalf("expected isNew=true for first contact")
	}
	if got != candidate || upserted != candidate {
		t.Fatalf("expected candidate upserted and returned, got %+v", got)
	}
}

func TestGetOrCreate_LostInsertRace_ReloadsStoredUser(t *testing.T) {
	stored := &models.User{ID: 42, Username: "alice-old"}
	calls := 0
	repo := &fakeUserRepo{
		getByID: func(ctx context.Context, id int64) (*models.User, error) {
			calls++
			if calls == 1 {
				return nil, common.ErrorNotFound
			}
			return stored, nil
		},
		upsert: func(ctx context.Context, u *models.User) (bool, error) {
			return false, nil
		},
	}
	s := NewUserService(nil, &fakeRepoManager{userRepo: repo})

	got, isNew, err := s.GetOrCreate(context.Background(), candidateUser())
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if isNew {
		t.Fatalf("expected isNew=false after losing the insert race")
	}
	if got != stored {
		t.Fatalf("expected stored user after reload, got %+v", got)
	}
	if calls != 2 {
		t.Fatalf("expected 2 GetByID calls, got %d", calls)
	}
}

func TestGetOrCreate_LookupError(t *testing.T) {
	repo := &fakeUserRepo{
		getByID: func(ctx context.Context, id int64) (*models.User, error) {
			return nil, errors.New("db down")
		},
	}
	s := NewUserService(nil, &fakeRepoManager{userRepo: repo})

	_, _, err := s.GetOrCreate(context.Background(), candidateUser())
	if err == nil {
		t.Fatalf("expected error from lookup failure")
	}
}

func TestGetOrCreate_UpsertError(t *testing.T) {
	repo := &fakeUserRepo{
		getByID: func(ctx context.Context, id int64) (*models.User, error) {
			return nil, common.ErrorNotFound
		},
		upsert: func(ctx context.Context, u *models.User) (bool, error) {
			return false, errors.New("db down")
		},
	}
	s := NewUserService(nil, &fakeRepoManager{userRepo: repo})

	_, _, err := s.GetOrCreate(context.Background(), candidateUser())
	if err == nil {
		t.Fatalf("expected error from upsert failure")
	}
}
