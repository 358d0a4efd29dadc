package model

import "time"

// CompanyProfile is the single company-wide record shown on receipts and the
// admin settings screen. At most one row exists; every field is optional.
type CompanyProfile struct {
	ID            string
	CompanyName   *string
	Address       *string
	ContactPhone  *string
	ContactEmail  *string
	ReceiptFooter *string
	UpdatedAt     time.Time
}
