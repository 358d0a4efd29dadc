package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/adapter"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/infra/logging"
)

// Compile-time check
var _ ProvisionUseCase = (*provisionUC)(nil)

// ProvisionedCollector is a created collector profile together with the
// plaintext activation code. The code is only ever returned here and from
// the admin current-code read.
type ProvisionedCollector struct {
	Profile        *model.Profile
	ActivationCode string
	CodeExpiresAt  time.Time
}

// ProvisionUseCase creates accounts: collectors get a display identifier, a
// synthetic login and an activation code; admins get operator-supplied
// credentials.
type ProvisionUseCase interface {
	CreateCollector(ctx context.Context, nickname, branchID, tag string) (*ProvisionedCollector, error)
	CreateAdmin(ctx context.Context, email, password, fullName string, phone *string) (*model.Profile, error)
}

type provisionUC struct {
	profiles   repository.ProfileRepository
	branches   repository.BranchRepository
	identity   adapter.IdentityProvider
	idgen      *IdentifierGenerator
	activation ActivationUseCase
	log        *zerolog.Logger
}

func NewProvisionUseCase(
	profiles repository.ProfileRepository,
	branches repository.BranchRepository,
	identity adapter.IdentityProvider,
	idgen *IdentifierGenerator,
	activation ActivationUseCase,
	logger *zerolog.Logger,
) *provisionUC {
	return &provisionUC{
		profiles:   profiles,
		branches:   branches,
		identity:   identity,
		idgen:      idgen,
		activation: activation,
		log:        logger,
	}
}

// throwawayPassword satisfies the identity provider's account model for
// collectors. It is never transmitted to a human or stored here; collectors
// authenticate with activation codes only.
func throwawayPassword() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (u *provisionUC) CreateCollector(ctx context.Context, nickname, branchID, tag string) (*ProvisionedCollector, error) {
	defer logging.TraceDuration(u.log, "ProvisionUC.CreateCollector")()
	if nickname == "" || branchID == "" {
		return nil, domain.ErrInvalidArgument
	}

	branch, err := u.branches.FindByID(ctx, repository.NoTX, branchID)
	if err != nil {
		return nil, err
	}

	seed := branch.Name
	if tag != "" {
		seed = tag
	}
	displayID, err := u.idgen.CollectorCode(ctx, seed, func(ctx context.Context, candidate string) (bool, error) {
		return u.profiles.DisplayIDExists(ctx, repository.NoTX, candidate)
	})
	if err != nil {
		return nil, err
	}

	// Non-human-facing login derived from the display id; collectors never
	// type it.
	email := strings.ToLower(displayID) + "@collector.local"
	password, err := throwawayPassword()
	if err != nil {
		return nil, err
	}

	accountID, err := u.identity.CreateAccount(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrProvisioningFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProvisioningFailed, err)
	}

	profile, err := model.NewProfile(accountID, email, nickname, model.RoleCollector)
	if err != nil {
		return nil, err
	}
	profile.BranchID = &branch.ID
	profile.DisplayID = displayID
	if err := u.profiles.Save(ctx, repository.NoTX, profile); err != nil {
		u.compensateAccount(ctx, accountID, email)
		return nil, err
	}

	code, err := u.activation.Issue(ctx, profile.ID)
	if err != nil {
		u.compensateAccount(ctx, accountID, email)
		return nil, err
	}

	u.log.Info().Str("display_id", displayID).Str("branch", branch.Name).Msg("collector provisioned")
	return &ProvisionedCollector{
		Profile:        profile,
		ActivationCode: code.Code,
		CodeExpiresAt:  code.ExpiresAt,
	}, nil
}

func (u *provisionUC) CreateAdmin(ctx context.Context, email, password, fullName string, phone *string) (*model.Profile, error) {
	defer logging.TraceDuration(u.log, "ProvisionUC.CreateAdmin")()
	if email == "" || password == "" || fullName == "" {
		return nil, domain.ErrInvalidArgument
	}

	accountID, err := u.identity.CreateAccount(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrProvisioningFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProvisioningFailed, err)
	}

	profile, err := model.NewProfile(accountID, email, fullName, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	profile.Phone = phone
	if err := u.profiles.Save(ctx, repository.NoTX, profile); err != nil {
		u.compensateAccount(ctx, accountID, email)
		return nil, err
	}
	return profile, nil
}

// compensateAccount disables an identity account whose profile never
// materialized, so the email does not stay claimed by an orphan. Best-effort:
// the original failure is what callers see.
func (u *provisionUC) compensateAccount(ctx context.Context, accountID, email string) {
	if err := u.identity.DisableAccount(ctx, accountID); err != nil {
		u.log.Error().Err(err).Str("account_id", accountID).Str("email", email).
			Msg("failed to disable orphaned identity account")
	}
}
