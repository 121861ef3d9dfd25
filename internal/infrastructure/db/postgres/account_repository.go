package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/gcredit/registration-api/internal/core/domain"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// AccountRepository implements ports.AccountRepository on PostgreSQL.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts an account. The accounts_email_key_key constraint turns a
// lost race into domain.ErrEmailTaken.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	const query = `INSERT INTO accounts
		(id, email, email_key, password_hash, first_name, last_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Email, a.EmailKey, a.PasswordHash, a.FirstName, a.LastName,
		string(a.Role), a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// FindByEmail fetches an account by its normalized email key.
func (r *AccountRepository) FindByEmail(ctx context.Context, emailKey string) (*domain.Account, error) {
	const query = `SELECT id, email, email_key, password_hash, first_name, last_name, role, is_active, created_at, updated_at
		FROM accounts WHERE email_key = $1`

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		a    domain.Account
		role string
	)
	err := r.db.QueryRowContext(ctx, query, emailKey).Scan(
		&a.ID, &a.Email, &a.EmailKey, &a.PasswordHash, &a.FirstName, &a.LastName,
		&role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	a.Role = domain.Role(role)
	return &a, nil
}
