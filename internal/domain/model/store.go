package model

import (
	"time"

	"fieldsales-backend/internal/domain"
)

// Store is an outlet orders are placed against. Stores are soft-deleted by
// flipping IsActive, never removed.
type Store struct {
	ID        string
	Name      string
	Address   *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStore constructs and validates a Store.
func NewStore(id, name string, address *string) (*Store, error) {
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	if id == "" {
		id = NewUUID()
	}
	now := time.Now()
	return &Store{
		ID:        id,
		Name:      name,
		Address:   address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
