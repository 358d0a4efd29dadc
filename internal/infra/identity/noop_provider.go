package identity

import (
	"context"
	"fmt"
	"sync"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/ports/adapter"
)

var _ adapter.IdentityProvider = (*NoopProvider)(nil)

// NoopProvider is a simple in-memory identity service for tests and dev mode.
type NoopProvider struct {
	mu       sync.Mutex
	seq      int64
	byEmail  map[string]string // email -> account id
	disabled map[string]bool

	// CreateErr forces CreateAccount to fail; used by provisioning tests.
	CreateErr error
}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{
		byEmail:  make(map[string]string),
		disabled: make(map[string]bool),
	}
}

func (p *NoopProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	if p.CreateErr != nil {
		return "", p.CreateErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byEmail[email]; ok {
		return "", fmt.Errorf("%w: email already registered", domain.ErrProvisioningFailed)
	}
	p.seq++
	id := fmt.Sprintf("acct-%d", p.seq)
	p.byEmail[email] = id
	return id, nil
}

func (p *NoopProvider) DisableAccount(ctx context.Context, accountID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disabled[accountID] = true
	// Disabling releases the login so the email can be provisioned again.
	for email, id := range p.byEmail {
		if id == accountID {
			delete(p.byEmail, email)
		}
	}
	return nil
}

// Disabled reports whether DisableAccount was called for the account.
func (p *NoopProvider) Disabled(accountID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disabled[accountID]
}
