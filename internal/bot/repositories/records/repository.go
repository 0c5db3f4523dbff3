// Package records persists tasting records and their photo references.
package records

import (
	"context"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
)

// Repository is the storage contract for tasting records.
type Repository interface {
	// Create inserts the record and returns its generated id.
	Create(ctx context.Context, rec *models.TastingRecord) (int64, error)

	// AddPhoto inserts one photo reference for an existing record.
	AddPhoto(ctx context.Context, photo *models.PhotoRef) error

	// ListRecent returns records newest-first with photo refs populated.
	ListRecent(ctx context.Context, limit int) ([]models.TastingRecord, error)
}
