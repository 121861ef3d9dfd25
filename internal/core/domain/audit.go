package domain

import "time"

// AuditActionRegistered is recorded once per successful registration.
const AuditActionRegistered = "account.registered"

// AuditEvent is an append-only record of an account lifecycle change.
type AuditEvent struct {
	Action     string
	AccountID  string
	Email      string
	Role       Role
	RequestID  string
	OccurredAt time.Time
}
