package ports

import (
	"context"

	"github.com/gcredit/registration-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to RegistrationService.
type RegisterInput struct {
	Email     string
	Password  domain.Secret
	FirstName string
	LastName  string
	// RequestID correlates the audit record with the HTTP request; optional.
	RequestID string
}

// RegistrationService creates accounts.
type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.AccountView, error)
}

// PasswordHasher derives a one-way hash from a plaintext password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// AuditSink accepts audit events without blocking the caller.
type AuditSink interface {
	Record(event domain.AuditEvent)
}
