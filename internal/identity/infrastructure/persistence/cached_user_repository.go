package persistence

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// CachedUserRepository reads users by id through a cache and evicts them
// on every write. Reads inside a transaction skip the cache so uncommitted
// state is never cached. A write inside a transaction is evicted again once
// it commits, dropping any old row a concurrent reader cached meanwhile.
// Cache failures are logged and the store is used instead.
type CachedUserRepository struct {
	domain.UserRepository
	cache  UserCache
	logger *slog.Logger
}

var _ domain.UserRepository = (*CachedUserRepository)(nil)

// NewCachedUserRepository wraps next with cache.
func NewCachedUserRepository(next domain.UserRepository, cache UserCache, logger *slog.Logger) *CachedUserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedUserRepository{UserRepository: next, cache: cache, logger: logger}
}

// FindByID returns a fresh aggregate on every call, cached or not.
func (r *CachedUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if database.TxFromContext(ctx) != nil {
		return r.UserRepository.FindByID(ctx, id)
	}

	snapshot, ok, err := r.cache.Get(ctx, id)
	if err != nil {
		r.logger.WarnContext(ctx, "user cache read failed", "user_id", id, "error", err)
	}
	if ok {
		user, err := domain.RehydrateUser(snapshot)
		if err == nil {
			return user, nil
		}
		r.logger.WarnContext(ctx, "discarding unreadable cached user", "user_id", id, "error", err)
		r.evict(ctx, id)
	}

	user, err := r.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, user.Snapshot()); err != nil {
		r.logger.WarnContext(ctx, "user cache write failed", "user_id", id, "error", err)
	}
	return user, nil
}

func (r *CachedUserRepository) Save(ctx context.Context, user *domain.User) error {
	r.evict(ctx, user.ID())
	if err := r.UserRepository.Save(ctx, user); err != nil {
		return err
	}
	r.evictAfterCommit(ctx, user.ID())
	return nil
}

func (r *CachedUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.evict(ctx, id)
	if err := r.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.evictAfterCommit(ctx, id)
	return nil
}

func (r *CachedUserRepository) evictAfterCommit(ctx context.Context, id uuid.UUID) {
	registered := database.AfterCommit(ctx, func(ctx context.Context) {
		r.evict(ctx, id)
	})
	if !registered {
		r.evict(ctx, id)
	}
}

func (r *CachedUserRepository) evict(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.logger.WarnContext(ctx, "user cache eviction failed", "user_id", id, "error", err)
	}
}
