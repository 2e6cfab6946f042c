package queries

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/google/uuid"
)

// GetUserQuery looks a user up by exactly one key. The first non-empty key
// in field order wins.
type GetUserQuery struct {
	UserID     uuid.UUID
	Email      string
	NationalID string
	Phone      string
}

// GetUserHandler handles the GetUserQuery.
type GetUserHandler struct {
	userRepo domain.UserRepository
}

// NewGetUserHandler creates a new GetUserHandler.
func NewGetUserHandler(userRepo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{userRepo: userRepo}
}

// Handle executes the GetUserQuery.
func (h *GetUserHandler) Handle(ctx context.Context, query GetUserQuery) (*UserDTO, error) {
	u, err := h.find(ctx, query)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(u)
	return &dto, nil
}

func (h *GetUserHandler) find(ctx context.Context, query GetUserQuery) (*domain.User, error) {
	switch {
	case query.UserID != uuid.Nil:
		return h.userRepo.FindByID(ctx, query.UserID)

	case strings.TrimSpace(query.Email) != "":
		email, err := domain.NewEmail(query.Email)
		if err != nil {
			return nil, err
		}
		return h.userRepo.FindByEmail(ctx, email)

	case strings.TrimSpace(query.NationalID) != "":
		nationalID, err := domain.NewNationalID(query.NationalID)
		if err != nil {
			return nil, err
		}
		return h.userRepo.FindByNationalID(ctx, nationalID)

	case strings.TrimSpace(query.Phone) != "":
		phone, err := parsePhone(query.Phone)
		if err != nil {
			return nil, err
		}
		return h.userRepo.FindByPhone(ctx, phone)
	}

	return nil, sharedDomain.NewValidationError(sharedDomain.ErrInvalidField, "",
		"one of user_id, email, national_id or phone is required")
}

// parsePhone accepts the masked form or bare canonical digits.
func parsePhone(raw string) (domain.Phone, error) {
	raw = strings.TrimSpace(raw)
	if strings.Trim(raw, "0123456789") == "" {
		return domain.PhoneFromDigits(raw)
	}
	return domain.NewPhone(raw)
}
