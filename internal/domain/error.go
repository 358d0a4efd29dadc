package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound            = errors.New("entity not found")
	ErrAlreadyExists       = errors.New("entity already exists")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrImmutableField      = errors.New("field is immutable once assigned")
	ErrBranchNotEmpty      = errors.New("branch still has collectors assigned")
	ErrInvalidTransition   = errors.New("order status transition not allowed")
	ErrInvalidOrder        = errors.New("order request is invalid")
	ErrInsufficientStock   = errors.New("insufficient stock for requested quantity")
	ErrInvalidCode         = errors.New("activation code is invalid or already used")
	ErrCodeExpired         = errors.New("activation code has expired")
	ErrGenerationExhausted = errors.New("exhausted retries generating a unique value")
	ErrProvisioningFailed  = errors.New("identity provisioning failed")

	// Infrastructure errors surfaced through repositories
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")
)
