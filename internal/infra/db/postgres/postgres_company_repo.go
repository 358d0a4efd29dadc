package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
)

var _ repository.CompanyRepository = (*companyRepo)(nil)

type companyRepo struct {
	pool *pgxpool.Pool
}

func NewCompanyRepo(pool *pgxpool.Pool) repository.CompanyRepository {
	return &companyRepo{pool: pool}
}

func (r *companyRepo) Get(ctx context.Context, tx repository.Tx) (*model.CompanyProfile, error) {
	const q = `
SELECT id, company_name, address, contact_phone, contact_email, receipt_footer, updated_at
  FROM company_profile
 LIMIT 1;
`
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	var p model.CompanyProfile
	err = row.Scan(&p.ID, &p.CompanyName, &p.Address, &p.ContactPhone, &p.ContactEmail, &p.ReceiptFooter, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}

func (r *companyRepo) Upsert(ctx context.Context, tx repository.Tx, p *model.CompanyProfile) error {
	p.UpdatedAt = time.Now()
	const q = `
INSERT INTO company_profile (id, company_name, address, contact_phone, contact_email, receipt_footer, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
  company_name = EXCLUDED.company_name,
  address = EXCLUDED.address,
  contact_phone = EXCLUDED.contact_phone,
  contact_email = EXCLUDED.contact_email,
  receipt_footer = EXCLUDED.receipt_footer,
  updated_at = EXCLUDED.updated_at;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.CompanyName, p.Address, p.ContactPhone, p.ContactEmail, p.ReceiptFooter, p.UpdatedAt,
	)
	return err
}
