// Package repomanager wires the SQL connection to the repositories and runs
// schema migrations at startup.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/campuslink/campuslink/internal/server/repositories/users"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Users() users.Repository
	RunMigrations(ctx context.Context) error
}
