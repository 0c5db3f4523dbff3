// Package services contains the bot's business logic on top of the
// repositories: user bookkeeping and the transactional record write.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/bot/repositories/repomanager"
	"github.com/dmitrijs2005/winelog/internal/common"
)

// UserService provides get-or-create bookkeeping for transport identities.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// GetOrCreate returns the stored user for candidate's id, creating the row
// on first contact. The bool reports whether the user is new.
func (s *UserService) GetOrCreate(ctx context.Context, candidate *models.User) (*models.User, bool, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, candidate.ID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, false, fmt.Errorf("error loading user: %w", err)
	}

	created, err := repo.Upsert(ctx, candidate)
	if err != nil {
		return nil, false, fmt.Errorf("error creating user: %w", err)
	}
	if !created {
		// Lost a race with a concurrent first message from the same user.
		user, err := repo.GetByID(ctx, candidate.ID)
		if err != nil {
			return nil, false, fmt.Errorf("error reloading user: %w", err)
		}
		return user, false, nil
	}

	return candidate, true, nil
}
