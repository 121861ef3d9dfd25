package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gcredit/registration-api/internal/core/domain"
	"github.com/gcredit/registration-api/internal/core/ports"
)

// RegistrationOptions carries the tunable parts of the registration contract.
type RegistrationOptions struct {
	Policy      domain.PasswordPolicy
	DefaultRole domain.Role
	// Now is overridable in tests.
	Now func() time.Time
}

// RegistrationService implements account registration.
type RegistrationService struct {
	repo      ports.AccountRepository
	hasher    ports.PasswordHasher
	audit     ports.AuditSink
	validator *requestValidator
	role      domain.Role
	now       func() time.Time
	logger    zerolog.Logger
}

// NewRegistrationService wires the service. audit may be nil.
func NewRegistrationService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	audit ports.AuditSink,
	opts RegistrationOptions,
	logger zerolog.Logger,
) *RegistrationService {
	role := opts.DefaultRole
	if !role.Valid() {
		role = domain.DefaultRole
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &RegistrationService{
		repo:      repo,
		hasher:    hasher,
		audit:     audit,
		validator: newRequestValidator(opts.Policy),
		role:      role,
		now:       now,
		logger:    logger,
	}
}

// Register validates the request, rejects an email that is already in use,
// persists a new account and returns its redacted view.
func (s *RegistrationService) Register(ctx context.Context, in ports.RegisterInput) (*domain.AccountView, error) {
	// Names are trimmed for the presence check only; the account keeps them verbatim.
	form := registrationForm{
		Email:     in.Email,
		Password:  in.Password.Reveal(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}

	if err := s.validator.validate(form); err != nil {
		s.logger.Debug().Err(err).Str("email", in.Email).Msg("registration rejected")
		return nil, err
	}

	emailKey := domain.NormalizeEmail(in.Email)

	// 1. Fast-path conflict check; the store's unique constraint is the real guard.
	_, err := s.repo.FindByEmail(ctx, emailKey)
	switch {
	case err == nil:
		s.logger.Info().Str("email", emailKey).Msg("registration conflict")
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	// 2. Hash.
	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	// 3. Persist.
	now := s.now().UTC()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        in.Email,
		EmailKey:     emailKey,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         s.role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			s.logger.Info().Str("email", emailKey).Msg("registration conflict on insert")
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("register: create account: %w", err)
	}

	// 4. Audit trail (never fails the call).
	if s.audit != nil {
		s.audit.Record(domain.AuditEvent{
			Action:     domain.AuditActionRegistered,
			AccountID:  account.ID,
			Email:      account.Email,
			Role:       account.Role,
			RequestID:  in.RequestID,
			OccurredAt: now,
		})
	}

	s.logger.Info().Str("account_id", account.ID).Str("role", string(account.Role)).Msg("account registered")

	view := account.View()
	return &view, nil
}
