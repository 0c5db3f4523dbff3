// Package repomanager vends repository implementations bound to a DBTX and
// owns connecting to the database and running schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/winelog/internal/bot/repositories/records"
	"github.com/dmitrijs2005/winelog/internal/bot/repositories/users"
	"github.com/dmitrijs2005/winelog/internal/dbx"
)

// RepositoryManager constructs repositories bound to either a plain
// connection or a transaction handle, so services can compose repository
// calls under one transaction via dbx.WithTx.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Records(db dbx.DBTX) records.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
