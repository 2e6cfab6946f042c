package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/digibank/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// userStore bundles the collaborators every user command writes through.
type userStore struct {
	userRepo   domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// mutate loads a user, applies fn and persists the result in one unit of
// work. A change that raises no event is not written.
func (s userStore) mutate(ctx context.Context, userID uuid.UUID, actor string, fn func(ctx context.Context, u *domain.User) error) error {
	return sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		u, err := s.userRepo.FindByID(txCtx, userID)
		if err != nil {
			return err
		}
		if err := fn(txCtx, u); err != nil {
			return err
		}
		return s.persist(txCtx, u, actor)
	})
}

// persist saves the user and its pending events.
func (s userStore) persist(ctx context.Context, u *domain.User, actor string) error {
	events := u.DomainEvents()
	if len(events) == 0 {
		return nil
	}

	metadata := sharedApplication.NewEventMetadata(actor)
	u.StampActor(metadata.Actor)
	if err := s.userRepo.Save(ctx, u); err != nil {
		return err
	}
	if err := s.enqueue(ctx, events, metadata); err != nil {
		return err
	}
	u.ClearDomainEvents()
	return nil
}

// enqueue stores events in the outbox within the caller's transaction.
func (s userStore) enqueue(ctx context.Context, events []sharedDomain.DomainEvent, metadata sharedDomain.EventMetadata) error {
	sharedApplication.ApplyEventMetadata(events, metadata)
	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	return s.outboxRepo.SaveBatch(ctx, msgs)
}

// ensureUnique rejects the user when another account already holds its
// email or national id.
func (s userStore) ensureUnique(ctx context.Context, u *domain.User) error {
	byEmail, err := s.userRepo.FindByEmail(ctx, u.Email())
	if err := claimedByOther(u, byEmail, err); err != nil {
		return err
	}
	byNationalID, err := s.userRepo.FindByNationalID(ctx, u.NationalID())
	return claimedByOther(u, byNationalID, err)
}

func claimedByOther(u, found *domain.User, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if found.ID() != u.ID() {
		return domain.ErrUserAlreadyExists
	}
	return nil
}
