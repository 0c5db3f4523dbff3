// Package users persists the bot's user rows.
package users

import (
	"context"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
)

// Repository is the storage contract for users.
type Repository interface {
	// GetByID returns the user or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Upsert inserts the user if absent. The bool reports whether a row was
	// created; an existing row is left untouched.
	Upsert(ctx context.Context, user *models.User) (bool, error)
}
