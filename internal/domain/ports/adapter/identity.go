package adapter

import (
	"context"
)

// IdentityProvider is the hex port for the external identity service that
// owns login-capable accounts. The core only ever creates and disables
// accounts through it; token issuance and password checks stay on the
// provider's side and are opaque here.
type IdentityProvider interface {
	// CreateAccount registers an email+password pair and returns the opaque
	// account id that profile rows key on.
	CreateAccount(ctx context.Context, email, password string) (accountID string, err error)
	// DisableAccount revokes login for an account. Idempotent.
	DisableAccount(ctx context.Context, accountID string) error
}
