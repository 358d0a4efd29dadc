package model

import (
	"time"

	"fieldsales-backend/internal/domain"
)

// Category groups catalog products for display. Soft-deleted via IsActive;
// SortOrder drives the client-side listing order.
type Category struct {
	ID          string
	Name        string
	Description *string
	SortOrder   int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory constructs and validates a Category.
func NewCategory(id, name string, description *string, sortOrder int) (*Category, error) {
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	if id == "" {
		id = NewUUID()
	}
	now := time.Now()
	return &Category{
		ID:          id,
		Name:        name,
		Description: description,
		SortOrder:   sortOrder,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
