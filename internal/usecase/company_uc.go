package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/infra/logging"
)

var _ CompanyUseCase = (*companyUC)(nil)

// CompanyUpdate carries the profile fields to overwrite; nil means leave
// as-is.
type CompanyUpdate struct {
	CompanyName   *string
	Address       *string
	ContactPhone  *string
	ContactEmail  *string
	ReceiptFooter *string
}

type CompanyUseCase interface {
	// Get returns the company profile, or an empty one when none has been
	// written yet.
	Get(ctx context.Context) (*model.CompanyProfile, error)
	Update(ctx context.Context, upd CompanyUpdate) (*model.CompanyProfile, error)
}

type companyUC struct {
	company repository.CompanyRepository
	log     *zerolog.Logger
}

func NewCompanyUseCase(company repository.CompanyRepository, logger *zerolog.Logger) *companyUC {
	return &companyUC{company: company, log: logger}
}

func (u *companyUC) Get(ctx context.Context) (*model.CompanyProfile, error) {
	defer logging.TraceDuration(u.log, "CompanyUC.Get")()
	p, err := u.company.Get(ctx, repository.NoTX)
	if errors.Is(err, domain.ErrNotFound) {
		return &model.CompanyProfile{}, nil
	}
	return p, err
}

func (u *companyUC) Update(ctx context.Context, upd CompanyUpdate) (*model.CompanyProfile, error) {
	defer logging.TraceDuration(u.log, "CompanyUC.Update")()
	p, err := u.company.Get(ctx, repository.NoTX)
	if errors.Is(err, domain.ErrNotFound) {
		p = &model.CompanyProfile{ID: model.NewUUID()}
	} else if err != nil {
		return nil, err
	}
	if upd.CompanyName != nil {
		p.CompanyName = upd.CompanyName
	}
	if upd.Address != nil {
		p.Address = upd.Address
	}
	if upd.ContactPhone != nil {
		p.ContactPhone = upd.ContactPhone
	}
	if upd.ContactEmail != nil {
		p.ContactEmail = upd.ContactEmail
	}
	if upd.ReceiptFooter != nil {
		p.ReceiptFooter = upd.ReceiptFooter
	}
	if err := u.company.Upsert(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	return p, nil
}
