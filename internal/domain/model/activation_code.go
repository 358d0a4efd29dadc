package model

import (
	"time"
)

// ActivationCode is a single-use, short-lived code that bootstraps
// authentication for a collector's device. At most one unused, unexpired
// code exists per user at any time; superseded codes are marked used
// rather than deleted so the audit trail survives.
type ActivationCode struct {
	ID        string
	UserID    string
	Code      string // 6 chars from the unambiguous alphabet
	IsUsed    bool
	ExpiresAt time.Time
	CreatedAt time.Time
	UsedAt    *time.Time // nil until consumed or invalidated
}

// Expired reports whether the code has passed its expiry at the given instant.
func (c *ActivationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
