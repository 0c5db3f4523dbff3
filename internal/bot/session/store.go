// Package session stores in-progress conversation state, keyed by user id.
//
// Operations for one user id are mutually exclusive with each other; there
// is no cross-user invariant, so different users proceed concurrently.
package session

import (
	"context"
	"time"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
)

// Store is the session backend. The in-memory implementation is the default;
// the SQLite implementation survives restarts.
type Store interface {
	// Get returns a copy of the user's open session, or common.ErrorNotFound.
	Get(ctx context.Context, userID int64) (*models.Session, error)

	// Create opens a session in StepPhoto. Returns common.ErrSessionExists
	// if one is already open for the user.
	Create(ctx context.Context, userID int64, createdAt time.Time) (*models.Session, error)

	// Update applies mutate to the stored session under the store's lock.
	// Returns common.ErrorNotFound if no session is open.
	Update(ctx context.Context, userID int64, mutate func(*models.Session) error) error

	// Clear removes the session. The bool reports whether one existed.
	Clear(ctx context.Context, userID int64) (bool, error)

	// ClearOlderThan removes sessions created before cutoff and returns how
	// many were removed. Used by the idle-session janitor.
	ClearOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
