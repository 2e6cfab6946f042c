package app

import (
	"log/slog"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	identityPersistence "github.com/felixgeelhaar/digibank/internal/identity/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/digibank/internal/shared/application"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/outbox"
)

// RepositoryFactory creates repositories bound to one connection. Every
// repository reads the transaction carried by the context, so they share the
// unit of work returned by UnitOfWork.
type RepositoryFactory struct {
	conn   database.Connection
	cache  identityPersistence.UserCache
	logger *slog.Logger
}

// NewRepositoryFactory creates a new repository factory. A nil cache disables
// read-through caching of users.
func NewRepositoryFactory(conn database.Connection, cache identityPersistence.UserCache, logger *slog.Logger) *RepositoryFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepositoryFactory{conn: conn, cache: cache, logger: logger}
}

// Driver returns the backend behind the factory.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.conn.Driver()
}

// UserRepository returns the user store, wrapped by the cache when one is set.
func (f *RepositoryFactory) UserRepository() domain.UserRepository {
	repo := identityPersistence.NewUserRepository(f.conn)
	if f.cache == nil {
		return repo
	}
	return identityPersistence.NewCachedUserRepository(repo, f.cache, f.logger)
}

func (f *RepositoryFactory) OutboxRepository() outbox.Repository {
	return outbox.NewSQLRepository(f.conn)
}

func (f *RepositoryFactory) UnitOfWork() sharedApplication.UnitOfWork {
	return database.NewUnitOfWork(f.conn)
}
