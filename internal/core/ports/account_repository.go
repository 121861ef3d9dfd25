package ports

import (
	"context"

	"github.com/gcredit/registration-api/internal/core/domain"
)

// AccountRepository defines persistence for registered accounts.
type AccountRepository interface {
	// FindByEmail looks an account up by its normalized email key and returns
	// domain.ErrAccountNotFound when none matches.
	FindByEmail(ctx context.Context, emailKey string) (*domain.Account, error)
	// Create must enforce uniqueness of EmailKey itself and report a violation as
	// domain.ErrEmailTaken, even when a prior FindByEmail found nothing.
	Create(ctx context.Context, account *domain.Account) error
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
