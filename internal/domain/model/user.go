package model

import (
	"time"

	"github.com/google/uuid"

	"fieldsales-backend/internal/domain"
)

// Role is a closed set of account roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCollector Role = "collector"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCollector
}

// Profile is the account record for both admins and collectors. Collectors
// carry a branch assignment and an immutable display identifier; admins do not.
type Profile struct {
	ID                string
	Email             string
	FullName          string
	Role              Role
	Phone             *string
	BranchID          *string
	DisplayID         string // collector form, e.g. "JKT-FALCON-042"; empty for admins
	IsActive          bool
	DeviceConnectedAt *time.Time
	LastSeenAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewProfile constructs and validates a Profile.
func NewProfile(id, email, fullName string, role Role) (*Profile, error) {
	if email == "" || fullName == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	return &Profile{
		ID:        id,
		Email:     email,
		FullName:  fullName,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func NewUUID() string {
	return uuid.NewString()
}
