package model

import (
	"time"

	"fieldsales-backend/internal/domain"
)

// Product is a catalog entry. StockQuantity is the authoritative current
// balance and is only ever mutated through the inventory ledger; unrelated
// update paths must not overwrite it.
type Product struct {
	ID            string
	Name          string
	Description   *string
	CategoryID    *string
	UnitPrice     float64
	StockQuantity int
	ImageURL      *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct constructs and validates a Product.
func NewProduct(id, name string, unitPrice float64, initialStock int) (*Product, error) {
	if name == "" || unitPrice < 0 {
		return nil, domain.ErrInvalidArgument
	}
	if id == "" {
		id = NewUUID()
	}
	now := time.Now()
	return &Product{
		ID:            id,
		Name:          name,
		UnitPrice:     unitPrice,
		StockQuantity: initialStock,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Search     string
	CategoryID string
	ActiveOnly bool
}
