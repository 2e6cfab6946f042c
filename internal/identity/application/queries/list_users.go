package queries

import (
	"context"
	"math"

	"github.com/felixgeelhaar/digibank/internal/identity/domain"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListUsersQuery requests one page of users. Page is zero based.
type ListUsersQuery struct {
	Page   int
	Size   int
	Role   string
	Active *bool
}

// ListUsersResult is one page of users and the total match count.
type ListUsersResult struct {
	Items      []UserDTO `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Size       int       `json:"size"`
	TotalPages int       `json:"total_pages"`
}

// ListUsersHandler handles the ListUsersQuery.
type ListUsersHandler struct {
	userRepo domain.UserRepository
}

// NewListUsersHandler creates a new ListUsersHandler.
func NewListUsersHandler(userRepo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{userRepo: userRepo}
}

// Handle executes the ListUsersQuery.
func (h *ListUsersHandler) Handle(ctx context.Context, query ListUsersQuery) (*ListUsersResult, error) {
	page := max(query.Page, 0)
	size := query.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)
	// keeps page*size from overflowing; such a page is past every row anyway
	page = min(page, math.MaxInt/size)

	filter := domain.UserFilter{
		Active: query.Active,
		Limit:  size,
		Offset: page * size,
	}
	if query.Role != "" {
		role, err := domain.ParseRole(query.Role)
		if err != nil {
			return nil, err
		}
		filter.Roles = []domain.Role{role}
	}

	users, total, err := h.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]UserDTO, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserDTO(u))
	}

	return &ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: (total + size - 1) / size,
	}, nil
}
