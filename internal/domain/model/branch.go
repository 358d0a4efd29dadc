package model

import (
	"time"

	"fieldsales-backend/internal/domain"
)

// Branch is a sales branch collectors are assigned to.
// Code is the human-readable display identifier (e.g. "20260831-JAKARTA-417")
// and never changes once assigned.
type Branch struct {
	ID        string
	Code      string
	Name      string
	Location  *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBranch constructs and validates a Branch. The display code is assigned
// separately by the identifier generator before the branch is persisted.
func NewBranch(id, name string, location *string) (*Branch, error) {
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	if id == "" {
		id = NewUUID()
	}
	now := time.Now()
	return &Branch{
		ID:        id,
		Name:      name,
		Location:  location,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// BranchSummary is the admin list view of a branch with derived counters.
type BranchSummary struct {
	Branch
	CollectorCount int
	LastOrderAt    *time.Time
}
