package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"fieldsales-backend/internal/config"
	"fieldsales-backend/internal/domain"
	"fieldsales-backend/internal/domain/model"
	"fieldsales-backend/internal/domain/ports/repository"
	"fieldsales-backend/internal/infra/logging"
	"fieldsales-backend/internal/infra/metrics"
)

// Compile-time check
var _ ActivationUseCase = (*activationUC)(nil)

// ActivationUseCase manages the lifecycle of device-activation codes.
type ActivationUseCase interface {
	// Issue invalidates any unused code for the user, then creates a fresh
	// one. The returned code is the only plaintext exposure outside of
	// CurrentActive.
	Issue(ctx context.Context, userID string) (*model.ActivationCode, error)
	// Consume validates and atomically marks a code used, returning the
	// owning user id. Exactly one of two concurrent consumptions succeeds.
	Consume(ctx context.Context, raw string) (string, error)
	// InvalidateAll marks every unused code for the user as used. Idempotent.
	InvalidateAll(ctx context.Context, userID string) error
	// CurrentActive returns the single unused, unexpired code for the user,
	// or domain.ErrNotFound.
	CurrentActive(ctx context.Context, userID string) (*model.ActivationCode, error)
}

type activationUC struct {
	codes repository.ActivationCodeRepository
	tm    repository.TransactionManager
	cfg   config.ActivationConfig
	log   *zerolog.Logger
}

func NewActivationUseCase(codes repository.ActivationCodeRepository, tm repository.TransactionManager, cfg config.ActivationConfig, logger *zerolog.Logger) *activationUC {
	return &activationUC{codes: codes, tm: tm, cfg: cfg, log: logger}
}

// codeAlphabet deliberately omits visually ambiguous symbols (0/O, 1/I/L,
// 8/B): codes are read aloud or hand-typed by end users.
const codeAlphabet = "23456789ACDEFGHJKMNPQRSTUVWXYZ"

const codeLength = 6

// generateActivationCode draws a random 6-character code from the
// unambiguous alphabet.
func generateActivationCode() (string, error) {
	buffer := make([]byte, codeLength)
	if _, err := io.ReadFull(rand.Reader, buffer); err != nil {
		return "", err
	}
	for i := 0; i < codeLength; i++ {
		buffer[i] = codeAlphabet[int(buffer[i])%len(codeAlphabet)]
	}
	return string(buffer), nil
}

func (u *activationUC) Issue(ctx context.Context, userID string) (*model.ActivationCode, error) {
	defer logging.TraceDuration(u.log, "ActivationUC.Issue")()
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	var issued *model.ActivationCode
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		now := time.Now()
		// Supersede, never delete: the old code stays inspectable with its
		// used_at stamp.
		if err := u.codes.InvalidateAllForUser(ctx, tx, userID, now); err != nil {
			return err
		}

		for attempt := 0; attempt < u.cfg.MaxAttempts; attempt++ {
			code, err := generateActivationCode()
			if err != nil {
				return err
			}
			candidate := &model.ActivationCode{
				ID:        model.NewUUID(),
				UserID:    userID,
				Code:      code,
				ExpiresAt: now.Add(u.cfg.CodeTTL),
				CreatedAt: now,
			}
			err = u.codes.Insert(ctx, tx, candidate)
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue // collision; new random draw
			}
			if err != nil {
				return err
			}
			issued = candidate
			return nil
		}
		return domain.ErrGenerationExhausted
	})
	if err != nil {
		return nil, err
	}
	metrics.IncCodeIssued()
	return issued, nil
}

func (u *activationUC) Consume(ctx context.Context, raw string) (string, error) {
	defer logging.TraceDuration(u.log, "ActivationUC.Consume")()

	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		metrics.IncCodeConsume("invalid")
		return "", domain.ErrInvalidCode
	}

	var userID string
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		ac, err := u.codes.FindByCodeForUpdate(ctx, tx, code)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCode
		}
		if err != nil {
			return err
		}
		if ac.Expired(time.Now()) {
			// Expired codes stay unused so they remain auditable; only
			// successful consumption or explicit invalidation marks them.
			return domain.ErrCodeExpired
		}
		if err := u.codes.MarkUsed(ctx, tx, ac.ID, time.Now()); err != nil {
			return err
		}
		userID = ac.UserID
		return nil
	})
	switch {
	case err == nil:
		metrics.IncCodeConsume("ok")
		return userID, nil
	case errors.Is(err, domain.ErrCodeExpired):
		metrics.IncCodeConsume("expired")
		return "", err
	case errors.Is(err, domain.ErrInvalidCode):
		metrics.IncCodeConsume("invalid")
		return "", err
	default:
		return "", err
	}
}

func (u *activationUC) InvalidateAll(ctx context.Context, userID string) error {
	defer logging.TraceDuration(u.log, "ActivationUC.InvalidateAll")()
	return u.codes.InvalidateAllForUser(ctx, repository.NoTX, userID, time.Now())
}

func (u *activationUC) CurrentActive(ctx context.Context, userID string) (*model.ActivationCode, error) {
	defer logging.TraceDuration(u.log, "ActivationUC.CurrentActive")()
	ac, err := u.codes.FindActiveByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	if ac.Expired(time.Now()) {
		return nil, domain.ErrNotFound
	}
	return ac, nil
}
