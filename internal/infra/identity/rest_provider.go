package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/ports/adapter"
)

var _ adapter.IdentityProvider = (*RESTProvider)(nil)

// RESTProvider talks to the identity service's admin API. The service owns
// credentials and token issuance; this adapter only creates and disables
// accounts on behalf of the provisioner.
type RESTProvider struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func NewRESTProvider(baseURL, serviceKey string) (*RESTProvider, error) {
	if serviceKey == "" {
		return nil, errors.New("identity service key empty")
	}
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, fmt.Errorf("invalid identity base url: %w", err)
	}
	return &RESTProvider{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (p *RESTProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	payload := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/admin/users", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.serviceKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProvisioningFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: identity service returned %d", domain.ErrProvisioningFailed, resp.StatusCode)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.ID == "" {
		return "", fmt.Errorf("%w: missing account id in response", domain.ErrProvisioningFailed)
	}
	return out.ID, nil
}

func (p *RESTProvider) DisableAccount(ctx context.Context, accountID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.baseURL+"/admin/users/"+accountID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.serviceKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// 404 counts as success: disabling twice is idempotent.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("identity service returned %d", resp.StatusCode)
	}
	return nil
}
