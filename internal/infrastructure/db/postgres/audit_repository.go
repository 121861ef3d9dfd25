package postgres

import (
	"context"
	"database/sql"

	"github.com/gcredit/registration-api/internal/core/domain"
)

// AuditRepository implements ports.AuditRepository on PostgreSQL.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert appends an event to audit_logs.
func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEvent) error {
	const query = `INSERT INTO audit_logs (action, account_id, email, role, request_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var requestID sql.NullString
	if e.RequestID != "" {
		requestID = sql.NullString{String: e.RequestID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		e.Action, e.AccountID, e.Email, string(e.Role), requestID, e.OccurredAt.UTC())
	return err
}
