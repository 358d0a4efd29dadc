package repository

import (
	"context"

	"fieldsales-backend/internal/domain/model"
)

type CompanyRepository interface {
	// Get returns the singleton profile row; domain.ErrNotFound when no
	// profile has been written yet.
	Get(ctx context.Context, tx Tx) (*model.CompanyProfile, error)
	Upsert(ctx context.Context, tx Tx, p *model.CompanyProfile) error
}
