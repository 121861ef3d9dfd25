package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the permission tier of an account.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleIssuer   Role = "ISSUER"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// DefaultRole is assigned to every self-registered account unless configured otherwise.
const DefaultRole = RoleEmployee

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleIssuer, RoleManager, RoleEmployee:
		return true
	}
	return false
}

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrAccountNotFound = errors.New("account not found")
)

// Account is the persisted registered-user record. Email, FirstName and
// LastName hold the values exactly as submitted; EmailKey is the normalized
// email that uniqueness is enforced on.
type Account struct {
	ID           string
	Email        string
	EmailKey     string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountView is the externally visible projection of an Account.
// It has no password hash field; add public fields here, never on a shared type.
type AccountView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
	IsActive  bool   `json:"isActive"`
}

// View projects the account into its redacted public shape.
func (a *Account) View() AccountView {
	return AccountView{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
		IsActive:  a.IsActive,
	}
}

// NormalizeEmail trims surrounding space and lower-cases the address,
// producing the key two spellings of one mailbox share.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
